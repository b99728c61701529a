package platform

import (
	"pointerkit/internal/render"
	"pointerkit/pkg/mouse"
)

type WindowConfig struct {
	Title       string
	WidthPx     int
	HeightPx    int
	MinWidthPx  int
	MinHeightPx int
}

// Normalize clamps sizes to at least one pixel and keeps the minimum size
// within the initial size.
func (c WindowConfig) Normalize() WindowConfig {
	c.WidthPx = max(c.WidthPx, 1)
	c.HeightPx = max(c.HeightPx, 1)
	c.MinWidthPx = min(max(c.MinWidthPx, 1), c.WidthPx)
	c.MinHeightPx = min(max(c.MinHeightPx, 1), c.HeightPx)
	return c
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventDPIChanged
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

type Event struct {
	Type    EventType
	Width   int
	Height  int
	Scale   float32
	X       int
	Y       int
	Buttons mouse.Buttons
}

type Platform interface {
	Name() string
	Init() error
	Shutdown() error
	CreateWindow(cfg WindowConfig) (Window, error)
}

// Window is both the source of the physical window size and the raw pointer
// sampler for that window.
type Window interface {
	mouse.Sampler
	PollEvents() []Event
	SizePx() (int, int)
	Scale() float32
	Present(fb *render.FrameBuffer) error
	SetTitle(title string)
	Close()
}
