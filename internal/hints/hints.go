// Package hints maps string configuration values onto typed runtime
// settings. Each hint knows how to coerce its raw value and how to apply
// the result to a Target.
package hints

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownHint  = errors.New("hints: unknown hint")
	ErrInvalidValue = errors.New("hints: invalid value")
)

type CursorMode int

const (
	CursorVisible CursorMode = iota
	CursorHidden
	CursorCaptured
)

type ResizeMode int

const (
	ResizeDisabled ResizeMode = iota
	ResizeFullscreenOnly
	ResizeEnabled
)

// SyncWithFPS is the tps value that ties updates to the display refresh.
const SyncWithFPS = -1

// Target receives typed hint values.
type Target interface {
	SetVsyncEnabled(enabled bool)
	SetFullscreen(fullscreen bool)
	SetCursorMode(mode CursorMode)
	SetWindowResizingMode(mode ResizeMode)
	SetTPS(tps int)
	SetRunnableOnUnfocused(runnable bool)
}

type Hint[T any] struct {
	name  string
	parse func(string) (T, error)
	apply func(Target, T)
}

func (h Hint[T]) Name() string { return h.name }

func (h Hint[T]) Parse(raw string) (T, error) {
	v, err := h.parse(strings.TrimSpace(raw))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, h.name, raw, err)
	}
	return v, nil
}

func (h Hint[T]) applyRaw(t Target, raw string) error {
	v, err := h.Parse(raw)
	if err != nil {
		return err
	}
	h.apply(t, v)
	return nil
}

var (
	VSync = Hint[bool]{"vsync", parseBool, func(t Target, v bool) { t.SetVsyncEnabled(v) }}

	Fullscreen = Hint[bool]{"fullscreen", parseBool, func(t Target, v bool) { t.SetFullscreen(v) }}

	Cursor = Hint[CursorMode]{"cursor_mode", enum(map[string]CursorMode{
		"visible":  CursorVisible,
		"hidden":   CursorHidden,
		"captured": CursorCaptured,
	}), func(t Target, v CursorMode) { t.SetCursorMode(v) }}

	WindowResizing = Hint[ResizeMode]{"window_resizing", enum(map[string]ResizeMode{
		"disabled":        ResizeDisabled,
		"fullscreen_only": ResizeFullscreenOnly,
		"enabled":         ResizeEnabled,
	}), func(t Target, v ResizeMode) { t.SetWindowResizingMode(v) }}

	TPS = Hint[int]{"tps", parseTPS, func(t Target, v int) { t.SetTPS(v) }}

	RunUnfocused = Hint[bool]{"run_unfocused", parseBool, func(t Target, v bool) { t.SetRunnableOnUnfocused(v) }}
)

type applier interface {
	applyRaw(t Target, raw string) error
}

var registry = map[string]applier{
	VSync.name:          VSync,
	Fullscreen.name:     Fullscreen,
	Cursor.name:         Cursor,
	WindowResizing.name: WindowResizing,
	TPS.name:            TPS,
	RunUnfocused.name:   RunUnfocused,
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Apply sets every valid hint in raw on t in name order. Unknown names and
// invalid values are collected into the returned error; they do not stop
// the remaining hints from being applied.
func Apply(t Target, raw map[string]string) error {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		h, ok := registry[strings.ToLower(name)]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownHint, name))
			continue
		}
		if err := h.applyRaw(t, raw[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the typed value of h in raw. ok is false when the hint is
// absent.
func Lookup[T any](h Hint[T], raw map[string]string) (value T, ok bool, err error) {
	s, ok := raw[h.name]
	if !ok {
		return value, false, nil
	}
	value, err = h.Parse(s)
	return value, true, err
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, errors.New("expected a boolean")
}

func parseTPS(s string) (int, error) {
	if strings.EqualFold(s, "sync") {
		return SyncWithFPS, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("must be at least 1")
	}
	return n, nil
}

func enum[T any](values map[string]T) func(string) (T, error) {
	return func(s string) (T, error) {
		v, ok := values[strings.ToLower(s)]
		if !ok {
			var zero T
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return zero, fmt.Errorf("expected one of %s", strings.Join(keys, ", "))
		}
		return v, nil
	}
}
