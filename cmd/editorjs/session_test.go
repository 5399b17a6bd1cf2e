package main

import (
	"errors"
	"slices"
	"testing"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/features"
	"github.com/alnah/go-editorjs/internal/config"
)

func TestRestrictTunes(t *testing.T) {
	t.Parallel()

	tunes := map[string][]string{
		features.ToolTextVariant:     {features.ToolParagraph},
		features.ToolAlignment:       {features.ToolParagraph, features.ToolHeader},
		features.ToolBackgroundColor: {features.ToolParagraph},
	}
	want := []string{features.ToolTextColor, features.ToolBackgroundColor, features.ToolAlignment, features.ToolTextVariant}

	// Map iteration order varies; every run must agree.
	for i := 0; i < 20; i++ {
		reg, err := editorjs.NewRegistry()
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}
		if err := features.RegisterDefaults(reg, features.Options{}); err != nil {
			t.Fatalf("RegisterDefaults() error = %v", err)
		}
		if err := restrictTunes(reg, tunes); err != nil {
			t.Fatalf("restrictTunes() error = %v", err)
		}
		if got := reg.TunesFor(features.ToolParagraph); !slices.Equal(got, want) {
			t.Fatalf("run %d: TunesFor(paragraph) = %v, want %v", i, got, want)
		}
		if got := reg.TunesFor(features.ToolHeader); !slices.Equal(got, []string{features.ToolTextColor, features.ToolAlignment}) {
			t.Fatalf("run %d: TunesFor(header) = %v", i, got)
		}
	}
}

func TestRestrictTunes_UnknownTool(t *testing.T) {
	t.Parallel()

	reg, err := editorjs.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if err := features.RegisterDefaults(reg, features.Options{}); err != nil {
		t.Fatalf("RegisterDefaults() error = %v", err)
	}
	err = restrictTunes(reg, map[string][]string{features.ToolAlignment: {"chart"}})
	if !errors.Is(err, config.ErrInvalidField) {
		t.Errorf("restrictTunes() error = %v, want ErrInvalidField", err)
	}
}
