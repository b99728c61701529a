package hints

import (
	"errors"
	"testing"
)

type recorder struct {
	vsync      *bool
	fullscreen *bool
	cursor     *CursorMode
	resize     *ResizeMode
	tps        *int
	unfocused  *bool
	calls      []string
}

func (r *recorder) SetVsyncEnabled(v bool) {
	r.vsync = &v
	r.calls = append(r.calls, "vsync")
}
func (r *recorder) SetFullscreen(v bool) {
	r.fullscreen = &v
	r.calls = append(r.calls, "fullscreen")
}
func (r *recorder) SetCursorMode(v CursorMode) {
	r.cursor = &v
	r.calls = append(r.calls, "cursor_mode")
}
func (r *recorder) SetWindowResizingMode(v ResizeMode) {
	r.resize = &v
	r.calls = append(r.calls, "window_resizing")
}
func (r *recorder) SetTPS(v int) {
	r.tps = &v
	r.calls = append(r.calls, "tps")
}
func (r *recorder) SetRunnableOnUnfocused(v bool) {
	r.unfocused = &v
	r.calls = append(r.calls, "run_unfocused")
}

func TestApplyCoercesValues(t *testing.T) {
	r := &recorder{}
	err := Apply(r, map[string]string{
		"vsync":           "off",
		"fullscreen":      "YES",
		"cursor_mode":     "Captured",
		"window_resizing": "fullscreen_only",
		"tps":             " 120 ",
		"run_unfocused":   "1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.vsync == nil || *r.vsync {
		t.Fatalf("expected vsync false")
	}
	if r.fullscreen == nil || !*r.fullscreen {
		t.Fatalf("expected fullscreen true")
	}
	if r.cursor == nil || *r.cursor != CursorCaptured {
		t.Fatalf("expected captured cursor")
	}
	if r.resize == nil || *r.resize != ResizeFullscreenOnly {
		t.Fatalf("expected fullscreen-only resizing")
	}
	if r.tps == nil || *r.tps != 120 {
		t.Fatalf("expected tps 120")
	}
	if r.unfocused == nil || !*r.unfocused {
		t.Fatalf("expected run_unfocused true")
	}
}

func TestApplyOrderIsByName(t *testing.T) {
	r := &recorder{}
	if err := Apply(r, map[string]string{"vsync": "on", "tps": "sync", "cursor_mode": "hidden"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"cursor_mode", "tps", "vsync"}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("apply order %v, want %v", r.calls, want)
		}
	}
	if *r.tps != SyncWithFPS {
		t.Fatalf("expected sync tps, got %d", *r.tps)
	}
}

func TestApplyCollectsErrorsAndContinues(t *testing.T) {
	r := &recorder{}
	err := Apply(r, map[string]string{
		"bogus":       "1",
		"vsync":       "maybe",
		"tps":         "0",
		"cursor_mode": "visible",
	})
	if !errors.Is(err, ErrUnknownHint) || !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected unknown and invalid errors, got %v", err)
	}
	if r.cursor == nil || *r.cursor != CursorVisible {
		t.Fatalf("valid hint not applied alongside invalid ones")
	}
	if r.vsync != nil || r.tps != nil {
		t.Fatalf("invalid hints must not be applied")
	}
}

func TestLookup(t *testing.T) {
	raw := map[string]string{"window_resizing": "enabled", "fullscreen": "nah"}
	mode, ok, err := Lookup(WindowResizing, raw)
	if err != nil || !ok || mode != ResizeEnabled {
		t.Fatalf("unexpected lookup result %v %v %v", mode, ok, err)
	}
	if _, ok, err := Lookup(VSync, raw); ok || err != nil {
		t.Fatalf("absent hint must report ok=false without error")
	}
	if _, ok, err := Lookup(Fullscreen, raw); !ok || !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected invalid value error, got %v", err)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 6 || names[0] != "cursor_mode" || names[len(names)-1] != "window_resizing" {
		t.Fatalf("unexpected names %v", names)
	}
}
