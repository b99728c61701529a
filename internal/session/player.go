package session

import (
	"pointerkit/pkg/mouse"
	"pointerkit/pkg/ptrace"
)

// Player replays a trace as a sampler and window size source. SizePx
// reports the frame the next Sample call returns.
type Player struct {
	rec  *ptrace.Recording
	pos  int
	Loop bool
}

func NewPlayer(rec *ptrace.Recording) *Player {
	return &Player{rec: rec}
}

func (p *Player) Len() int {
	if p.rec == nil {
		return 0
	}
	return len(p.rec.Frames)
}

func (p *Player) Position() int { return p.pos }

func (p *Player) Done() bool { return !p.Loop && p.pos >= p.Len() }

func (p *Player) Rewind() { p.pos = 0 }

func (p *Player) Seek(frame int) {
	p.pos = min(max(frame, 0), p.Len())
}

func (p *Player) LogicalSize() mouse.Size {
	if p.rec == nil {
		return mouse.Size{W: 1, H: 1}
	}
	return mouse.Size{W: int(p.rec.Meta.LogicalWidth), H: int(p.rec.Meta.LogicalHeight)}
}

func (p *Player) current() (ptrace.Frame, bool) {
	n := p.Len()
	if n == 0 {
		return ptrace.Frame{}, false
	}
	if p.pos >= n {
		if p.Loop {
			p.pos = 0
		} else {
			return p.rec.Frames[n-1], true
		}
	}
	return p.rec.Frames[p.pos], true
}

func (p *Player) SizePx() (int, int) {
	f, ok := p.current()
	if !ok {
		return 1, 1
	}
	return int(f.WindowW), int(f.WindowH)
}

func (p *Player) Sample() (mouse.Buttons, int, int) {
	f, ok := p.current()
	if !ok {
		return 0, 0, 0
	}
	if p.pos < p.Len() {
		p.pos++
	}
	return mouse.Buttons(f.Buttons), int(f.X), int(f.Y)
}
