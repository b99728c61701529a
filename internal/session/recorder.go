package session

import (
	"pointerkit/pkg/mouse"
	"pointerkit/pkg/ptrace"
)

// Recorder passes live samples through and appends them to a trace while
// recording is active.
type Recorder struct {
	src    mouse.Sampler
	window mouse.Sizer

	rec    *ptrace.Recording
	active bool
}

func NewRecorder(src mouse.Sampler, window mouse.Sizer) *Recorder {
	return &Recorder{src: src, window: window}
}

func (r *Recorder) Start(title string, tps int, logical mouse.Size) {
	r.rec = ptrace.NewRecording(title, tps)
	r.rec.Meta.LogicalWidth = int32(max(logical.W, 1))
	r.rec.Meta.LogicalHeight = int32(max(logical.H, 1))
	r.active = true
}

// Stop ends recording and returns the trace, or nil if nothing was started.
func (r *Recorder) Stop() *ptrace.Recording {
	rec := r.rec
	r.rec = nil
	r.active = false
	return rec
}

func (r *Recorder) Recording() bool { return r.active }

func (r *Recorder) FrameCount() int {
	if r.rec == nil {
		return 0
	}
	return len(r.rec.Frames)
}

func (r *Recorder) Sample() (mouse.Buttons, int, int) {
	if r.src == nil {
		return 0, 0, 0
	}
	buttons, x, y := r.src.Sample()
	if r.active {
		w, h := 1, 1
		if r.window != nil {
			w, h = r.window.SizePx()
		}
		r.rec.Append(ptrace.Frame{
			Buttons: uint32(buttons),
			X:       int32(x),
			Y:       int32(y),
			WindowW: int32(w),
			WindowH: int32(h),
		})
	}
	return buttons, x, y
}
