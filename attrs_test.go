package editorjs

import (
	"errors"
	"testing"
)

func TestTokenList_Extend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial []string
		extend  any
		want    string
		wantErr error
	}{
		{name: "string", initial: []string{"a"}, extend: "b", want: "a b"},
		{name: "slice", initial: []string{"a"}, extend: []string{"b", "c"}, want: "a b c"},
		{name: "token list", initial: []string{"a"}, extend: NewTokenList("b"), want: "a b"},
		{name: "nil is a no-op", initial: []string{"a"}, extend: nil, want: "a"},
		{name: "number is stringified", initial: nil, extend: 3, want: "3"},
		{name: "duplicates are kept", initial: []string{"a"}, extend: "a", want: "a a"},
		{name: "map is rejected", initial: []string{"a"}, extend: Styles{"color": "red"}, want: "a", wantErr: ErrAttributeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tl := NewTokenList(tt.initial...)
			err := tl.Extend(tt.extend)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Extend() error = %v, want %v", err, tt.wantErr)
			}
			if got := tl.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenList_Contains(t *testing.T) {
	t.Parallel()

	tl := NewTokenList("page-link", "wide tall")
	for _, tok := range []string{"page-link", "wide", "tall"} {
		if !tl.Contains(tok) {
			t.Errorf("Contains(%q) = false, want true", tok)
		}
	}
	if tl.Contains("page") {
		t.Error("Contains(\"page\") = true, want false")
	}
}

func TestStyleMap(t *testing.T) {
	t.Parallel()

	t.Run("keys sorted on creation", func(t *testing.T) {
		t.Parallel()
		m := NewStyleMap(map[string]string{"width": "1px", "color": "red"})
		if got := m.String(); got != "color: red;width: 1px" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("extend keeps insertion order and updates in place", func(t *testing.T) {
		t.Parallel()
		m := NewStyleMap(map[string]string{"color": "red"})
		if err := m.Extend(Styles{"margin": "0", "color": "blue"}); err != nil {
			t.Fatalf("Extend() error = %v", err)
		}
		if got := m.String(); got != "color: blue;margin: 0" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("string is rejected", func(t *testing.T) {
		t.Parallel()
		m := NewStyleMap(nil)
		if err := m.Extend("color: red"); !errors.Is(err, ErrAttributeKind) {
			t.Errorf("Extend() error = %v, want ErrAttributeKind", err)
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()
		m := NewStyleMap(map[string]string{"a": "1"})
		c := m.Clone()
		m.Set("b", "2")
		if got := c.String(); got != "a: 1" {
			t.Errorf("clone String() = %q, want %q", got, "a: 1")
		}
	})
}

func TestMakeAttr(t *testing.T) {
	t.Parallel()

	if _, ok := MakeAttr(Styles{"a": "b"}).(*StyleMap); !ok {
		t.Error("Styles did not become a StyleMap")
	}
	if _, ok := MakeAttr(map[string]string{"a": "b"}).(*StyleMap); !ok {
		t.Error("map did not become a StyleMap")
	}
	if _, ok := MakeAttr("x").(*TokenList); !ok {
		t.Error("string did not become a TokenList")
	}
	existing := NewTokenList("y")
	got := MakeAttr(existing)
	if got.String() != "y" {
		t.Errorf("MakeAttr(TokenList) = %q, want %q", got, "y")
	}
	if got == AttrValue(existing) {
		t.Error("AttrValue was not copied")
	}
}

func TestMakeAttr_ElementsDoNotShareValues(t *testing.T) {
	t.Parallel()

	class := NewTokenList("shared")
	style := NewStyleMap(map[string]string{"color": "red"})
	a := NewElement("p", "a", Attrs{"class": class, "style": style})
	b := NewElement("p", "b", Attrs{"class": class, "style": style})

	if err := a.AddAttributes(Attrs{"class": "only-a", "style": Styles{"margin": "0"}}); err != nil {
		t.Fatalf("AddAttributes() error = %v", err)
	}

	if got, want := b.HTML(), `<p class="shared" style="color: red">b</p>`; got != want {
		t.Errorf("b.HTML() = %q, want %q", got, want)
	}
	if got, want := class.String(), "shared"; got != want {
		t.Errorf("source class = %q, want %q", got, want)
	}
	if got, want := a.HTML(), `<p class="shared only-a" style="color: red;margin: 0">a</p>`; got != want {
		t.Errorf("a.HTML() = %q, want %q", got, want)
	}
}
