package logging

import (
	"io"
	"testing"
)

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"verbose":  PriorityVerbose,
		" Debug ":  PriorityDebug,
		"INFO":     PriorityInfo,
		"warning":  PriorityWarn,
		"critical": PriorityCritical,
	} {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParsePriority(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParsePriority("loud"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Input")
	if err != nil || c != CategoryInput {
		t.Fatalf("expected input category, got %v %v", c, err)
	}
	if _, err := ParseCategory("network"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if CategoryMisc.String() != "misc" || Category(99).String() != "category(99)" {
		t.Fatalf("unexpected category names")
	}
}

func TestCategoryPriorityOverrides(t *testing.T) {
	l := New(io.Discard, PriorityInfo)
	l.SetCategoryPriority(CategoryInput, PriorityVerbose)

	if !l.Enabled(CategoryInput, PriorityVerbose) {
		t.Fatalf("input override not honoured")
	}
	if l.Enabled(CategoryRender, PriorityDebug) {
		t.Fatalf("render must use default priority")
	}
	if l.Priority(CategoryRender) != PriorityInfo {
		t.Fatalf("unexpected default priority %v", l.Priority(CategoryRender))
	}

	l.SetPriority(PriorityError)
	if l.Priority(CategoryInput) != PriorityError {
		t.Fatalf("SetPriority must reset overrides")
	}
	if l.Enabled(CategoryApp, PriorityWarn) || !l.Enabled(CategoryApp, PriorityCritical) {
		t.Fatalf("unexpected filtering after SetPriority")
	}
}

func TestForCachesChildren(t *testing.T) {
	l := New(io.Discard, PriorityDebug)
	if l.For(CategoryInput) != l.For(CategoryInput) {
		t.Fatalf("expected the same child logger")
	}
	if l.For(CategoryInput) == l.For(CategoryVideo) {
		t.Fatalf("categories must not share a child logger")
	}
	l.Msgf(CategoryInput, PriorityCritical, "released at %d,%d", 1, 2)
}
