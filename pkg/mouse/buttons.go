package mouse

// Buttons is a bitmask of pressed pointer buttons. Button n occupies bit
// n-1, so the left button is the lowest bit.
type Buttons uint32

const (
	ButtonLeft Buttons = 1 << iota
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

func (b Buttons) Has(button Buttons) bool { return b&button != 0 }

// Sampler reads the raw pointer state: the button mask and the cursor
// position in physical window pixels.
type Sampler interface {
	Sample() (Buttons, int, int)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func() (Buttons, int, int)

func (f SamplerFunc) Sample() (Buttons, int, int) { return f() }

// Sizer reports the current physical size of a window.
type Sizer interface {
	SizePx() (int, int)
}

type Size struct {
	W int
	H int
}
