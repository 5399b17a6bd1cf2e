package editorjs

import (
	"encoding/json"
	"testing"
)

func TestData_Accessors(t *testing.T) {
	t.Parallel()

	d := Data{
		"text":    "hi",
		"num":     json.Number("42"),
		"frac":    json.Number("4.5"),
		"strnum":  " 7 ",
		"flag":    true,
		"strflag": "TRUE",
		"null":    nil,
		"nested":  map[string]any{"k": "v"},
		"list":    []any{"a", "b"},
		"float":   float64(3),
	}

	if got := d.String("text"); got != "hi" {
		t.Errorf("String(text) = %q", got)
	}
	if got := d.String("num"); got != "42" {
		t.Errorf("String(num) = %q", got)
	}
	if got := d.String("null"); got != "" {
		t.Errorf("String(null) = %q", got)
	}
	if !d.Has("null") || d.Has("missing") {
		t.Error("Has() mismatch")
	}
	if !d.Bool("flag") || !d.Bool("strflag") || d.Bool("text") {
		t.Error("Bool() mismatch")
	}

	intTests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"num", 42, true},
		{"strnum", 7, true},
		{"float", 3, true},
		{"frac", 0, false},
		{"text", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range intTests {
		got, ok := d.Int(tt.key)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Int(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
	if n, ok := d.Int64("num"); !ok || n != 42 {
		t.Errorf("Int64(num) = %d, %v", n, ok)
	}

	if got := d.Map("nested").String("k"); got != "v" {
		t.Errorf("Map(nested).String(k) = %q", got)
	}
	if d.Map("text") != nil {
		t.Error("Map(text) != nil")
	}
	if s, ok := d.Slice("list"); !ok || len(s) != 2 {
		t.Errorf("Slice(list) = %v, %v", s, ok)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	for k, want := range map[Kind]string{
		KindFeature:    "feature",
		KindTune:       "tune",
		KindInline:     "inline",
		KindBulkInline: "bulk-inline",
		KindJavascript: "javascript",
		Kind(42):       "kind(42)",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
