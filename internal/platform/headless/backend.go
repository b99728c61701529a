// Package headless is a scripted platform backend. Windows replay queued
// pointer samples and resize events, which makes it useful in tests and
// for driving the tracker from recorded traces without a display.
package headless

import (
	"errors"

	"pointerkit/internal/platform"
	"pointerkit/internal/render"
	"pointerkit/pkg/mouse"
)

var ErrNotInitialized = errors.New("headless: backend not initialized")

type Backend struct {
	// InitErr is returned from Init when set.
	InitErr error

	initialized bool
	shutdowns   int
}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "headless" }

func (b *Backend) Init() error {
	if b.InitErr != nil {
		return b.InitErr
	}
	b.initialized = true
	return nil
}

func (b *Backend) Shutdown() error {
	b.initialized = false
	b.shutdowns++
	return nil
}

func (b *Backend) Initialized() bool { return b.initialized }
func (b *Backend) Shutdowns() int    { return b.shutdowns }

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	return &Window{
		title: cfg.Title,
		w:     cfg.WidthPx,
		h:     cfg.HeightPx,
		scale: 1.0,
	}, nil
}

type sample struct {
	buttons mouse.Buttons
	x       int
	y       int
}

type Window struct {
	title  string
	w      int
	h      int
	scale  float32
	closed bool

	queue   []sample
	last    sample
	events  []platform.Event
	present int
}

// PushSample queues a raw pointer sample. Sample pops queued samples in
// order and repeats the last one once the queue is empty.
func (w *Window) PushSample(buttons mouse.Buttons, x, y int) {
	w.queue = append(w.queue, sample{buttons: buttons, x: x, y: y})
}

func (w *Window) Resize(width, height int) {
	w.w = max(width, 1)
	w.h = max(height, 1)
	w.events = append(w.events, platform.Event{Type: platform.EventResize, Width: w.w, Height: w.h, Scale: w.scale})
}

func (w *Window) Sample() (mouse.Buttons, int, int) {
	if len(w.queue) > 0 {
		prev := w.last
		w.last = w.queue[0]
		w.queue = w.queue[1:]
		if w.last.x != prev.x || w.last.y != prev.y {
			w.events = append(w.events, platform.Event{Type: platform.EventMouseMove, X: w.last.x, Y: w.last.y, Buttons: w.last.buttons})
		}
	}
	return w.last.buttons, w.last.x, w.last.y
}

func (w *Window) PollEvents() []platform.Event {
	if w.closed {
		return []platform.Event{{Type: platform.EventClose}}
	}
	out := w.events
	w.events = nil
	return out
}

func (w *Window) SizePx() (int, int) { return w.w, w.h }
func (w *Window) Scale() float32     { return w.scale }
func (w *Window) Title() string      { return w.title }
func (w *Window) SetTitle(title string) {
	w.title = title
}

func (w *Window) Present(fb *render.FrameBuffer) error {
	if w.closed {
		return platform.ErrClosed
	}
	if fb == nil {
		return errors.New("headless: nil frame buffer")
	}
	w.present++
	return nil
}

func (w *Window) Presented() int { return w.present }
func (w *Window) Closed() bool   { return w.closed }
func (w *Window) Close()         { w.closed = true }
