package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"pointerkit/internal/logging"
	"pointerkit/internal/platform"
	"pointerkit/pkg/mouse"
)

type Config struct {
	Window    WindowSpec        `yaml:"window"`
	Logical   SizeSpec          `yaml:"logical"`
	Log       LogSpec           `yaml:"log"`
	Hints     map[string]string `yaml:"hints"`
	Recording RecordingSpec     `yaml:"recording"`
}

type WindowSpec struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
}

type SizeSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LogSpec struct {
	Priority   string            `yaml:"priority"`
	Categories map[string]string `yaml:"categories"`
}

type RecordingSpec struct {
	Dir         string `yaml:"dir"`
	Compression bool   `yaml:"compression"`
	TPS         int    `yaml:"tps"`
}

func Default() Config {
	return Config{
		Window: WindowSpec{
			Title:     "pointerkit",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 180,
		},
		Logical: SizeSpec{Width: 320, Height: 180},
		Log:     LogSpec{Priority: "info"},
		Hints: map[string]string{
			"vsync":           "on",
			"window_resizing": "enabled",
		},
		Recording: RecordingSpec{Compression: true, TPS: 60},
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg.Normalize(), nil
}

// Normalize clamps sizes leniently instead of rejecting them.
func (c Config) Normalize() Config {
	if c.Window.Title == "" {
		c.Window.Title = "pointerkit"
	}
	c.Window.Width = max(c.Window.Width, 1)
	c.Window.Height = max(c.Window.Height, 1)
	c.Logical.Width = max(c.Logical.Width, 1)
	c.Logical.Height = max(c.Logical.Height, 1)
	if c.Recording.TPS <= 0 {
		c.Recording.TPS = 60
	}
	return c
}

func (c Config) WindowConfig() platform.WindowConfig {
	return platform.WindowConfig{
		Title:       c.Window.Title,
		WidthPx:     c.Window.Width,
		HeightPx:    c.Window.Height,
		MinWidthPx:  c.Window.MinWidth,
		MinHeightPx: c.Window.MinHeight,
	}.Normalize()
}

func (c Config) LogicalSize() mouse.Size {
	return mouse.Size{W: max(c.Logical.Width, 1), H: max(c.Logical.Height, 1)}
}

// ApplyLogging sets the configured priorities on l. Unknown names are
// reported but do not stop the rest from being applied.
func (c Config) ApplyLogging(l *logging.Logger) error {
	var errs []error
	if c.Log.Priority != "" {
		p, err := logging.ParsePriority(c.Log.Priority)
		if err != nil {
			errs = append(errs, err)
		} else {
			l.SetPriority(p)
		}
	}
	for name, prio := range c.Log.Categories {
		cat, err := logging.ParseCategory(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p, err := logging.ParsePriority(prio)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.SetCategoryPriority(cat, p)
	}
	return errors.Join(errs...)
}
