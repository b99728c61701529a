package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pointerkit/internal/logging"
	"pointerkit/pkg/mouse"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogicalSize() != (mouse.Size{W: 320, H: 180}) {
		t.Fatalf("unexpected logical size %v", cfg.LogicalSize())
	}
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointerkit.yaml")
	writeFile(t, path, `
window:
  title: demo
  width: 0
  height: 600
logical:
  width: -4
  height: 90
log:
  priority: debug
  categories:
    input: verbose
hints:
  cursor_mode: hidden
recording:
  tps: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Title != "demo" || cfg.Window.Width != 1 || cfg.Window.Height != 600 {
		t.Fatalf("unexpected window %+v", cfg.Window)
	}
	if cfg.LogicalSize() != (mouse.Size{W: 1, H: 90}) {
		t.Fatalf("unexpected logical size %v", cfg.LogicalSize())
	}
	if cfg.Hints["cursor_mode"] != "hidden" {
		t.Fatalf("hint not loaded: %v", cfg.Hints)
	}
	if cfg.Recording.TPS != 60 {
		t.Fatalf("expected default tps, got %d", cfg.Recording.TPS)
	}
	wc := cfg.WindowConfig()
	if wc.MinWidthPx != 1 || wc.MinHeightPx != 180 {
		t.Fatalf("unexpected window config %+v", wc)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "window: [oops")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestApplyLogging(t *testing.T) {
	cfg := Default()
	cfg.Log = LogSpec{Priority: "warn", Categories: map[string]string{"input": "debug", "nope": "info", "render": "shout"}}
	l := logging.New(io.Discard, logging.PriorityInfo)
	err := cfg.ApplyLogging(l)
	if err == nil {
		t.Fatalf("expected errors for unknown names")
	}
	if l.Priority(logging.CategoryApp) != logging.PriorityWarn {
		t.Fatalf("default priority not applied")
	}
	if l.Priority(logging.CategoryInput) != logging.PriorityDebug {
		t.Fatalf("category priority not applied")
	}
	if l.Priority(logging.CategoryRender) != logging.PriorityWarn {
		t.Fatalf("invalid category priority must be ignored")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pointerkit.yaml")
	writeFile(t, path, "logical: {width: 10, height: 10}\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")
	writeFile(t, path, "logical: {width: 20, height: 10}\n")

	select {
	case got := <-w.Events:
		abs, _ := filepath.Abs(path)
		if got != abs {
			t.Fatalf("unexpected path %q", got)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("no change event")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logical.Width != 20 {
		t.Fatalf("expected reloaded width 20, got %d", cfg.Logical.Width)
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel must be closed")
	}
}
