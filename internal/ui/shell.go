package ui

import (
	"image"

	"pointerkit/internal/render"
	"pointerkit/pkg/mouse"
)

type Mode int

const (
	ModeLive Mode = iota
	ModeRecording
	ModeReplay
)

// Layout places the logical canvas over the whole window. The status bar
// is drawn on top of the canvas so that the canvas covers exactly the area
// the tracker maps from.
type Layout struct {
	W         int
	H         int
	Logical   mouse.Size
	CellW     float64
	CellH     float64
	GridStep  int
	StatusH   int
	StatusBar int
	LeftBox   image.Rectangle
	RightBox  image.Rectangle
}

func ComputeLayout(w, h int, logical mouse.Size, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return max(int(float32(v)*scale), 1) }

	w = max(w, 1)
	h = max(h, 1)
	logical.W = max(logical.W, 1)
	logical.H = max(logical.H, 1)

	cellW := float64(w) / float64(logical.W)
	cellH := float64(h) / float64(logical.H)
	step := 1
	for float64(step)*min(cellW, cellH) < float64(theme.MinGridPx) && step < max(logical.W, logical.H) {
		step *= 2
	}

	statusH := dp(theme.StatusHeightDp)
	box := dp(theme.IndicatorDp)
	pad := dp(8)
	return Layout{
		W:         w,
		H:         h,
		Logical:   logical,
		CellW:     cellW,
		CellH:     cellH,
		GridStep:  step,
		StatusH:   statusH,
		StatusBar: h - statusH,
		LeftBox:   image.Rect(pad, pad, pad+box, pad+box),
		RightBox:  image.Rect(pad*2+box, pad, pad*2+box*2, pad+box),
	}
}

// LogicalToPixel returns the window pixel at the centre of a logical cell.
func (l Layout) LogicalToPixel(p image.Point) image.Point {
	return image.Pt(int((float64(p.X)+0.5)*l.CellW), int((float64(p.Y)+0.5)*l.CellH))
}

func DrawShell(fb *render.FrameBuffer, snap mouse.Snapshot, mode Mode, theme Theme, scale float32) Layout {
	layout := ComputeLayout(fb.W, fb.H, snap.Logical, theme, scale)

	fb.Clear(theme.Background)
	drawGrid(fb, layout, theme)

	if snap.Moved {
		old := layout.LogicalToPixel(snap.Old)
		fb.Crosshair(old.X, old.Y, max(int(float32(theme.CursorArmDp)*scale)/2, 1), 1, theme.Trail)
	}
	cur := layout.LogicalToPixel(snap.Pos)
	arm := max(int(float32(theme.CursorArmDp)*scale), 1)
	fb.Crosshair(cur.X, cur.Y, arm, max(int(2*scale), 1), theme.Cursor)

	drawIndicator(fb, layout.LeftBox, snap.Left, snap.LeftRelease, theme)
	drawIndicator(fb, layout.RightBox, snap.Right, snap.RightRelease, theme)

	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)
	switch mode {
	case ModeRecording:
		fb.FillRect(0, layout.StatusBar, max(int(4*scale), 1), layout.StatusH, theme.Recording)
	case ModeReplay:
		fb.FillRect(0, layout.StatusBar, max(int(4*scale), 1), layout.StatusH, theme.Replay)
	}
	return layout
}

func drawGrid(fb *render.FrameBuffer, layout Layout, theme Theme) {
	step := layout.GridStep
	for lx := 0; lx <= layout.Logical.W; lx += step {
		c := theme.Grid
		if lx%(step*4) == 0 {
			c = theme.GridMajor
		}
		fb.VLine(int(float64(lx)*layout.CellW), 0, fb.H, c)
	}
	for ly := 0; ly <= layout.Logical.H; ly += step {
		c := theme.Grid
		if ly%(step*4) == 0 {
			c = theme.GridMajor
		}
		fb.HLine(0, int(float64(ly)*layout.CellH), fb.W, c)
	}
}

func drawIndicator(fb *render.FrameBuffer, r image.Rectangle, pressed, released bool, theme Theme) {
	fill := theme.ButtonIdle
	switch {
	case released:
		fill = theme.ButtonRelease
	case pressed:
		fill = theme.ButtonPressed
	}
	fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), fill)
	fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, theme.Border)
}
