package session

import (
	"testing"

	"pointerkit/pkg/mouse"
	"pointerkit/pkg/ptrace"
)

type fakeWindow struct{ w, h int }

func (f *fakeWindow) SizePx() (int, int) { return f.w, f.h }

func steps(samples ...[3]int) mouse.Sampler {
	i := 0
	return mouse.SamplerFunc(func() (mouse.Buttons, int, int) {
		s := samples[min(i, len(samples)-1)]
		i++
		return mouse.Buttons(s[0]), s[1], s[2]
	})
}

func TestRecorderPassesThroughWhenIdle(t *testing.T) {
	r := NewRecorder(steps([3]int{1, 5, 6}), &fakeWindow{w: 10, h: 10})
	b, x, y := r.Sample()
	if b != mouse.ButtonLeft || x != 5 || y != 6 {
		t.Fatalf("unexpected sample %v %d %d", b, x, y)
	}
	if r.FrameCount() != 0 || r.Stop() != nil {
		t.Fatalf("idle recorder must not capture frames")
	}
}

func TestRecorderCapturesWindowSize(t *testing.T) {
	win := &fakeWindow{w: 800, h: 600}
	r := NewRecorder(steps([3]int{0, 1, 1}, [3]int{4, 2, 2}), win)
	r.Start("t", 30, mouse.Size{W: 0, H: 90})
	r.Sample()
	win.w = 1024
	r.Sample()
	if !r.Recording() || r.FrameCount() != 2 {
		t.Fatalf("expected 2 frames while recording, got %d", r.FrameCount())
	}
	rec := r.Stop()
	if r.Recording() {
		t.Fatalf("still recording after Stop")
	}
	if rec.Meta.LogicalWidth != 1 || rec.Meta.LogicalHeight != 90 {
		t.Fatalf("unexpected logical size %dx%d", rec.Meta.LogicalWidth, rec.Meta.LogicalHeight)
	}
	if rec.Frames[0].WindowW != 800 || rec.Frames[1].WindowW != 1024 {
		t.Fatalf("window sizes not captured: %+v", rec.Frames)
	}
	if rec.Frames[1].Buttons != uint32(mouse.ButtonRight) {
		t.Fatalf("buttons not captured: %+v", rec.Frames[1])
	}
}

func TestPlayerHoldsLastFrame(t *testing.T) {
	rec := ptrace.NewRecording("", 60)
	rec.Append(ptrace.Frame{Buttons: 1, X: 1, Y: 1, WindowW: 2, WindowH: 2})
	rec.Append(ptrace.Frame{Buttons: 0, X: 3, Y: 4, WindowW: 5, WindowH: 6})
	p := NewPlayer(rec)

	if w, h := p.SizePx(); w != 2 || h != 2 {
		t.Fatalf("expected first frame size, got %dx%d", w, h)
	}
	p.Sample()
	if w, h := p.SizePx(); w != 5 || h != 6 {
		t.Fatalf("expected second frame size, got %dx%d", w, h)
	}
	p.Sample()
	if !p.Done() {
		t.Fatalf("expected done after all frames")
	}
	b, x, y := p.Sample()
	if b != 0 || x != 3 || y != 4 {
		t.Fatalf("expected last frame repeated, got %v %d %d", b, x, y)
	}
	if p.Position() != 2 {
		t.Fatalf("position moved past end: %d", p.Position())
	}
}

func TestPlayerLoops(t *testing.T) {
	rec := ptrace.NewRecording("", 60)
	rec.Append(ptrace.Frame{X: 1})
	rec.Append(ptrace.Frame{X: 2})
	p := NewPlayer(rec)
	p.Loop = true
	var xs []int
	for i := 0; i < 5; i++ {
		_, x, _ := p.Sample()
		xs = append(xs, x)
	}
	want := []int{1, 2, 1, 2, 1}
	for i := range want {
		if xs[i] != want[i] {
			t.Fatalf("loop order %v, want %v", xs, want)
		}
	}
	if p.Done() {
		t.Fatalf("looping player is never done")
	}
}

func TestPlayerSeekAndRewind(t *testing.T) {
	rec := ptrace.NewRecording("", 60)
	for i := 0; i < 4; i++ {
		rec.Append(ptrace.Frame{X: int32(i)})
	}
	p := NewPlayer(rec)
	p.Seek(99)
	if p.Position() != 4 {
		t.Fatalf("seek must clamp to length, got %d", p.Position())
	}
	p.Seek(-2)
	if p.Position() != 0 {
		t.Fatalf("seek must clamp to zero, got %d", p.Position())
	}
	p.Seek(2)
	if _, x, _ := p.Sample(); x != 2 {
		t.Fatalf("expected frame 2, got %d", x)
	}
	p.Rewind()
	if _, x, _ := p.Sample(); x != 0 {
		t.Fatalf("expected frame 0 after rewind, got %d", x)
	}
}

func TestEmptyPlayer(t *testing.T) {
	p := NewPlayer(nil)
	if b, x, y := p.Sample(); b != 0 || x != 0 || y != 0 {
		t.Fatalf("expected zero sample")
	}
	if w, h := p.SizePx(); w != 1 || h != 1 {
		t.Fatalf("expected 1x1, got %dx%d", w, h)
	}
	if p.LogicalSize() != (mouse.Size{W: 1, H: 1}) {
		t.Fatalf("unexpected logical size %v", p.LogicalSize())
	}
}

func TestReplayReproducesTrackerState(t *testing.T) {
	win := &fakeWindow{w: 640, h: 480}
	live := steps(
		[3]int{int(mouse.ButtonLeft), 320, 240},
		[3]int{int(mouse.ButtonLeft), 330, 240},
		[3]int{0, 330, 240},
	)
	rec := NewRecorder(live, win)
	rec.Start("replay", 60, mouse.Size{W: 160, H: 120})

	liveState := mouse.New(rec)
	liveState.SetLogicalSize(mouse.Size{W: 160, H: 120})
	var want []mouse.Snapshot
	for i := 0; i < 3; i++ {
		liveState.WindowUpdated(win)
		liveState.Poll()
		want = append(want, liveState.Snapshot())
	}

	player := NewPlayer(rec.Stop())
	replay := mouse.New(player)
	replay.SetLogicalSize(player.LogicalSize())
	for i := 0; i < 3; i++ {
		replay.WindowUpdated(player)
		replay.Poll()
		if got := replay.Snapshot(); got != want[i] {
			t.Fatalf("frame %d: got %v want %v", i, got, want[i])
		}
	}
	if !replay.WasLeftButtonReleased() {
		t.Fatalf("expected release on last replayed frame")
	}
}
