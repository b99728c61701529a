// Package logging provides category based logging with per-category
// priorities on top of golog.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kataras/golog"
)

type Category int

const (
	CategoryApp Category = iota
	CategoryError
	CategoryAssert
	CategorySystem
	CategoryAudio
	CategoryVideo
	CategoryRender
	CategoryInput
	CategoryTest
	CategoryMisc
)

var categoryNames = [...]string{"app", "error", "assert", "system", "audio", "video", "render", "input", "test", "misc"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("logging: unknown category %q", s)
}

// Priority orders messages from most to least verbose.
type Priority int

const (
	PriorityVerbose Priority = iota
	PriorityDebug
	PriorityInfo
	PriorityWarn
	PriorityError
	PriorityCritical
)

var priorityNames = [...]string{"verbose", "debug", "info", "warn", "error", "critical"}

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("priority(%d)", int(p))
	}
	return priorityNames[p]
}

func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return PriorityWarn, nil
	}
	for i, name := range priorityNames {
		if name == s {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("logging: unknown priority %q", s)
}

// goLevel maps a priority onto the golog level name that lets it through.
func goLevel(p Priority) string {
	switch p {
	case PriorityVerbose, PriorityDebug:
		return "debug"
	case PriorityInfo:
		return "info"
	case PriorityWarn:
		return "warn"
	default:
		return "error"
	}
}

type Logger struct {
	mu       sync.Mutex
	root     *golog.Logger
	children map[Category]*golog.Logger
	prios    map[Category]Priority
	def      Priority
}

func New(w io.Writer, p Priority) *Logger {
	root := golog.New()
	if w != nil {
		root.SetOutput(w)
	}
	root.SetLevel(goLevel(p))
	return &Logger{
		root:     root,
		children: make(map[Category]*golog.Logger),
		prios:    make(map[Category]Priority),
		def:      p,
	}
}

// For returns the golog logger of a category, prefixed with its name.
func (l *Logger) For(c Category) *golog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.child(c)
}

func (l *Logger) child(c Category) *golog.Logger {
	if g, ok := l.children[c]; ok {
		return g
	}
	g := l.root.Child("[" + c.String() + "]")
	g.SetLevel(goLevel(l.priority(c)))
	l.children[c] = g
	return g
}

// SetPriority sets the priority of every category, dropping per-category
// overrides.
func (l *Logger) SetPriority(p Priority) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.def = p
	l.prios = make(map[Category]Priority)
	l.root.SetLevel(goLevel(p))
	for _, g := range l.children {
		g.SetLevel(goLevel(p))
	}
}

func (l *Logger) SetCategoryPriority(c Category, p Priority) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prios[c] = p
	if g, ok := l.children[c]; ok {
		g.SetLevel(goLevel(p))
	}
}

func (l *Logger) Priority(c Category) Priority {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.priority(c)
}

func (l *Logger) priority(c Category) Priority {
	if p, ok := l.prios[c]; ok {
		return p
	}
	return l.def
}

// Enabled reports whether a message of priority p in category c is logged.
func (l *Logger) Enabled(c Category, p Priority) bool {
	return p >= l.Priority(c)
}

func (l *Logger) Msgf(c Category, p Priority, format string, args ...any) {
	if !l.Enabled(c, p) {
		return
	}
	g := l.For(c)
	switch p {
	case PriorityVerbose, PriorityDebug:
		g.Debugf(format, args...)
	case PriorityInfo:
		g.Infof(format, args...)
	case PriorityWarn:
		g.Warnf(format, args...)
	case PriorityError:
		g.Errorf(format, args...)
	default:
		g.Errorf("CRITICAL: "+format, args...)
	}
}
