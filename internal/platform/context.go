package platform

import (
	"errors"
	"fmt"
)

var (
	ErrNoPlatform = errors.New("platform: no platform")
	ErrInit       = errors.New("platform: initialization failed")
	ErrClosed     = errors.New("platform: context closed")
	ErrWindow     = errors.New("platform: window creation failed")
)

// Context owns an initialized platform and every window created through it.
// Contexts are independent of each other.
type Context struct {
	platform Platform
	windows  []Window
	closed   bool
}

func NewContext(p Platform) (*Context, error) {
	if p == nil {
		return nil, ErrNoPlatform
	}
	if err := p.Init(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInit, p.Name(), err)
	}
	return &Context{platform: p}, nil
}

func (c *Context) Name() string { return c.platform.Name() }

func (c *Context) Closed() bool { return c.closed }

func (c *Context) CreateWindow(cfg WindowConfig) (Window, error) {
	if c.closed {
		return nil, ErrClosed
	}
	w, err := c.platform.CreateWindow(cfg.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrWindow, cfg.Title, err)
	}
	c.windows = append(c.windows, w)
	return w, nil
}

func (c *Context) Windows() []Window {
	return append([]Window(nil), c.windows...)
}

func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for _, w := range c.windows {
		w.Close()
	}
	c.windows = nil
	if err := c.platform.Shutdown(); err != nil {
		return fmt.Errorf("platform: shutdown %s: %w", c.platform.Name(), err)
	}
	return nil
}
