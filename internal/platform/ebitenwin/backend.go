// Package ebitenwin backs the platform abstraction with ebiten. ebiten owns
// the real window and the game loop, so the Window here is a facade that the
// game feeds from its Layout callback.
package ebitenwin

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"pointerkit/internal/hints"
	"pointerkit/internal/platform"
	"pointerkit/internal/render"
	"pointerkit/pkg/mouse"
)

var errAlreadyOpen = errors.New("ebitenwin: ebiten supports a single window")

type Backend struct {
	window *Window
}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "ebiten" }

func (b *Backend) Init() error { return nil }

func (b *Backend) Shutdown() error {
	b.window = nil
	return nil
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if b.window != nil && !b.window.closed {
		return nil, errAlreadyOpen
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.WidthPx, cfg.HeightPx)
	ebiten.SetWindowSizeLimits(cfg.MinWidthPx, cfg.MinHeightPx, -1, -1)
	b.window = &Window{title: cfg.Title, w: cfg.WidthPx, h: cfg.HeightPx}
	return b.window, nil
}

type Window struct {
	title  string
	w      int
	h      int
	closed bool
	events []platform.Event

	canvas *ebiten.Image
}

// Resize records the outside size reported by ebiten's Layout.
func (w *Window) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	if width == w.w && height == w.h {
		return
	}
	w.w, w.h = width, height
	w.events = append(w.events, platform.Event{Type: platform.EventResize, Width: width, Height: height, Scale: w.Scale()})
}

func (w *Window) Sample() (mouse.Buttons, int, int) {
	var buttons mouse.Buttons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= mouse.ButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= mouse.ButtonMiddle
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= mouse.ButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton3) {
		buttons |= mouse.ButtonX1
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton4) {
		buttons |= mouse.ButtonX2
	}
	x, y := ebiten.CursorPosition()
	return buttons, x, y
}

func (w *Window) PollEvents() []platform.Event {
	if w.closed || ebiten.IsWindowBeingClosed() {
		return []platform.Event{{Type: platform.EventClose}}
	}
	out := w.events
	w.events = nil
	return out
}

func (w *Window) SizePx() (int, int) { return w.w, w.h }

func (w *Window) Scale() float32 {
	return float32(ebiten.Monitor().DeviceScaleFactor())
}

func (w *Window) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

// Present uploads the frame buffer into the window canvas. Draw the canvas
// with Canvas.
func (w *Window) Present(fb *render.FrameBuffer) error {
	if w.closed {
		return platform.ErrClosed
	}
	if fb == nil {
		return errors.New("ebitenwin: nil frame buffer")
	}
	if w.canvas == nil || w.canvas.Bounds().Dx() != fb.W || w.canvas.Bounds().Dy() != fb.H {
		if w.canvas != nil {
			w.canvas.Deallocate()
		}
		w.canvas = ebiten.NewImage(fb.W, fb.H)
	}
	w.canvas.WritePixels(fb.Pixels)
	return nil
}

func (w *Window) Canvas() *ebiten.Image { return w.canvas }

func (w *Window) Close() {
	w.closed = true
	if w.canvas != nil {
		w.canvas.Deallocate()
		w.canvas = nil
	}
}

// Target applies hints to the running ebiten instance.
type Target struct{}

var _ hints.Target = Target{}

func (Target) SetVsyncEnabled(enabled bool)  { ebiten.SetVsyncEnabled(enabled) }
func (Target) SetFullscreen(fullscreen bool) { ebiten.SetFullscreen(fullscreen) }
func (Target) SetRunnableOnUnfocused(r bool) { ebiten.SetRunnableOnUnfocused(r) }
func (Target) SetTPS(tps int)                { ebiten.SetTPS(tps) }

func (Target) SetCursorMode(mode hints.CursorMode) {
	switch mode {
	case hints.CursorHidden:
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	case hints.CursorCaptured:
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	default:
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

func (Target) SetWindowResizingMode(mode hints.ResizeMode) {
	switch mode {
	case hints.ResizeDisabled:
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	case hints.ResizeFullscreenOnly:
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)
	default:
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
}
