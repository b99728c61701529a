// Package mouse tracks pointer state across frames. A State is sampled once
// per update cycle and exposes falling-edge button releases, motion and the
// cursor position remapped from physical window pixels into a logical
// coordinate space.
package mouse

import (
	"fmt"
	"image"
)

// State holds the current and previous pointer snapshot. It is not safe for
// concurrent use; the goroutine that calls Update owns it.
type State struct {
	sampler Sampler

	mouseX int
	mouseY int
	oldX   int
	oldY   int

	leftPressed      bool
	rightPressed     bool
	prevLeftPressed  bool
	prevRightPressed bool

	logicalWidth  int
	logicalHeight int
	windowWidth   int
	windowHeight  int
}

// New returns a State with 1x1 logical and window dimensions. A nil sampler
// reads as no buttons pressed at the origin.
func New(s Sampler) *State {
	return &State{
		sampler:       s,
		logicalWidth:  1,
		logicalHeight: 1,
		windowWidth:   1,
		windowHeight:  1,
	}
}

func (s *State) SetSampler(sampler Sampler) { s.sampler = sampler }

// Update samples the pointer and remaps it using the given window size.
// Non-positive window dimensions are treated as 1.
func (s *State) Update(windowWidth, windowHeight int) {
	s.oldX = s.mouseX
	s.oldY = s.mouseY
	s.prevLeftPressed = s.leftPressed
	s.prevRightPressed = s.rightPressed

	var (
		mask       Buttons
		rawX, rawY int
	)
	if s.sampler != nil {
		mask, rawX, rawY = s.sampler.Sample()
	}
	s.leftPressed = mask.Has(ButtonLeft)
	s.rightPressed = mask.Has(ButtonRight)

	xRatio := float64(rawX) / float64(atLeastOne(windowWidth))
	yRatio := float64(rawY) / float64(atLeastOne(windowHeight))
	s.mouseX = int(xRatio * float64(s.logicalWidth))
	s.mouseY = int(yRatio * float64(s.logicalHeight))
}

// Poll is Update with the stored window dimensions.
func (s *State) Poll() {
	s.Update(s.windowWidth, s.windowHeight)
}

// WindowUpdated stores the current size of win for later calls to Poll.
func (s *State) WindowUpdated(win Sizer) {
	if win == nil {
		return
	}
	w, h := win.SizePx()
	s.SetWindowWidth(w)
	s.SetWindowHeight(h)
}

// Reset drops the logical and window dimensions back to 1x1. Position and
// button history are left alone.
func (s *State) Reset() {
	s.logicalWidth = 1
	s.logicalHeight = 1
	s.windowWidth = 1
	s.windowHeight = 1
}

func (s *State) SetLogicalWidth(w int)  { s.logicalWidth = atLeastOne(w) }
func (s *State) SetLogicalHeight(h int) { s.logicalHeight = atLeastOne(h) }

func (s *State) SetLogicalSize(size Size) {
	s.SetLogicalWidth(size.W)
	s.SetLogicalHeight(size.H)
}

func (s *State) SetWindowWidth(w int)  { s.windowWidth = atLeastOne(w) }
func (s *State) SetWindowHeight(h int) { s.windowHeight = atLeastOne(h) }

func (s *State) MouseX() int { return s.mouseX }
func (s *State) MouseY() int { return s.mouseY }

func (s *State) MousePos() image.Point { return image.Pt(s.mouseX, s.mouseY) }

func (s *State) LogicalWidth() int  { return s.logicalWidth }
func (s *State) LogicalHeight() int { return s.logicalHeight }

func (s *State) LogicalSize() Size { return Size{W: s.logicalWidth, H: s.logicalHeight} }

func (s *State) WindowWidth() int  { return s.windowWidth }
func (s *State) WindowHeight() int { return s.windowHeight }

func (s *State) IsLeftButtonPressed() bool  { return s.leftPressed }
func (s *State) IsRightButtonPressed() bool { return s.rightPressed }

// WasLeftButtonReleased reports a pressed to released transition between the
// previous and the latest update.
func (s *State) WasLeftButtonReleased() bool {
	return !s.leftPressed && s.prevLeftPressed
}

func (s *State) WasRightButtonReleased() bool {
	return !s.rightPressed && s.prevRightPressed
}

// WasMouseMoved compares logical positions, so motion smaller than one
// logical unit is not reported.
func (s *State) WasMouseMoved() bool {
	return s.mouseX != s.oldX || s.mouseY != s.oldY
}

// Snapshot is a copy of every tracked field after the latest update.
type Snapshot struct {
	Pos          image.Point
	Old          image.Point
	Left         bool
	Right        bool
	PrevLeft     bool
	PrevRight    bool
	Logical      Size
	Window       Size
	Moved        bool
	LeftRelease  bool
	RightRelease bool
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Pos:          s.MousePos(),
		Old:          image.Pt(s.oldX, s.oldY),
		Left:         s.leftPressed,
		Right:        s.rightPressed,
		PrevLeft:     s.prevLeftPressed,
		PrevRight:    s.prevRightPressed,
		Logical:      s.LogicalSize(),
		Window:       Size{W: s.windowWidth, H: s.windowHeight},
		Moved:        s.WasMouseMoved(),
		LeftRelease:  s.WasLeftButtonReleased(),
		RightRelease: s.WasRightButtonReleased(),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("pos=%d,%d old=%d,%d left=%t right=%t logical=%dx%d window=%dx%d",
		s.Pos.X, s.Pos.Y, s.Old.X, s.Old.Y, s.Left, s.Right,
		s.Logical.W, s.Logical.H, s.Window.W, s.Window.H)
}

func atLeastOne(v int) int {
	if v <= 0 {
		return 1
	}
	return v
}
