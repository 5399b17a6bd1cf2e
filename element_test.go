package editorjs

import (
	"errors"
	"strings"
	"testing"
)

func TestElement_HTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "text content",
			node: NewElement("p", "Hello", nil),
			want: "<p>Hello</p>",
		},
		{
			name: "attributes in sorted order",
			node: NewElement("p", "x", Attrs{"id": "a", "class": "b"}),
			want: `<p class="b" id="a">x</p>`,
		},
		{
			name: "trailing underscore stripped",
			node: NewElement("p", "x", Attrs{"class_": "lead"}),
			want: `<p class="lead">x</p>`,
		},
		{
			name: "nested nodes",
			node: NewElement("ul", []any{NewElement("li", "a", nil), NewElement("li", "b", nil)}, nil),
			want: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "void element",
			node: Void("hr", Attrs{"class": "delimiter"}),
			want: `<hr class="delimiter"/>`,
		},
		{
			name: "style map",
			node: NewElement("div", "", Attrs{"style": Styles{"--depth": "2"}}),
			want: `<div style="--depth: 2"></div>`,
		},
		{
			name: "nil attribute skipped",
			node: NewElement("p", "x", Attrs{"id": nil}),
			want: "<p>x</p>",
		},
		{
			name: "markup in text is kept",
			node: NewElement("p", "<b>bold</b>", nil),
			want: "<p><b>bold</b></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.node.HTML(); got != tt.want {
				t.Errorf("HTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElement_AddAttributes(t *testing.T) {
	t.Parallel()

	e := NewElement("p", "x", Attrs{"class": "a", "style": Styles{"color": "red"}})
	err := e.AddAttributes(Attrs{
		"class_": "b",
		"style":  Styles{"margin": "0"},
		"id":     "p1",
	})
	if err != nil {
		t.Fatalf("AddAttributes() error = %v", err)
	}
	want := `<p class="a b" style="color: red;margin: 0" id="p1">x</p>`
	if got := e.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}

	if err := e.AddAttributes(Attrs{"class": Styles{"x": "y"}}); !errors.Is(err, ErrAttributeKind) {
		t.Errorf("AddAttributes(map on class) error = %v, want ErrAttributeKind", err)
	}
}

func TestElement_Append(t *testing.T) {
	t.Parallel()

	e := NewElement("div", "a", nil)
	if err := e.Append([]any{"b", NewElement("span", "c", nil)}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got := e.HTML(); got != "<div>ab<span>c</span></div>" {
		t.Errorf("HTML() = %q", got)
	}
	if n := len(e.Content()); n != 3 {
		t.Errorf("len(Content()) = %d, want 3", n)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("wraps a plain element", func(t *testing.T) {
		t.Parallel()
		n, err := Wrap(NewElement("p", "x", nil), Attrs{"class": "tuned"}, "")
		if err != nil {
			t.Fatalf("Wrap() error = %v", err)
		}
		if !n.Wrapped() {
			t.Error("Wrapped() = false, want true")
		}
		if got := n.HTML(); got != `<div class="tuned"><p>x</p></div>` {
			t.Errorf("HTML() = %q", got)
		}
	})

	t.Run("merges into an existing wrapper", func(t *testing.T) {
		t.Parallel()
		first, err := Wrap(NewElement("p", "x", nil), Attrs{"class": "a"}, "")
		if err != nil {
			t.Fatalf("Wrap() error = %v", err)
		}
		second, err := Wrap(first, Attrs{"class": "b", "style": Styles{"--c": "1"}}, "section")
		if err != nil {
			t.Fatalf("Wrap() error = %v", err)
		}
		if second != first {
			t.Error("Wrap() returned a new wrapper, want the existing one")
		}
		if got := second.HTML(); got != `<div class="a b" style="--c: 1"><p>x</p></div>` {
			t.Errorf("HTML() = %q", got)
		}
	})

	t.Run("refuses nested wrappers", func(t *testing.T) {
		t.Parallel()
		inner, err := NewWrapper("div", NewElement("p", "x", nil), nil)
		if err != nil {
			t.Fatalf("NewWrapper() error = %v", err)
		}
		if _, err := NewWrapper("div", inner, nil); !errors.Is(err, ErrNestedWrapper) {
			t.Errorf("NewWrapper(wrapper) error = %v, want ErrNestedWrapper", err)
		}
		if err := inner.Append(inner); !errors.Is(err, ErrNestedWrapper) {
			t.Errorf("Append(wrapper) error = %v, want ErrNestedWrapper", err)
		}
	})
}

func TestRawElement(t *testing.T) {
	t.Parallel()

	t.Run("attributes extend every top-level element", func(t *testing.T) {
		t.Parallel()
		r, err := NewRawElement(`<pre class="chroma" style="color: red">x</pre><p>y</p>`)
		if err != nil {
			t.Fatalf("NewRawElement() error = %v", err)
		}
		err = r.AddAttributes(Attrs{"class": "code", "style": Styles{"margin": "0"}})
		if err != nil {
			t.Fatalf("AddAttributes() error = %v", err)
		}
		got := r.HTML()
		if !strings.Contains(got, `<pre class="chroma code" style="color: red;margin: 0">`) {
			t.Errorf("HTML() = %q, want merged pre attributes", got)
		}
		if !strings.Contains(got, `<p class="code" style="margin: 0">y</p>`) {
			t.Errorf("HTML() = %q, want new p attributes", got)
		}
	})

	t.Run("append goes under the last element", func(t *testing.T) {
		t.Parallel()
		r, err := NewRawElement(`<div>a</div><div>b</div>`)
		if err != nil {
			t.Fatalf("NewRawElement() error = %v", err)
		}
		if err := r.Append(NewElement("span", "c", nil)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if got := r.HTML(); got != "<div>a</div><div>b<span>c</span></div>" {
			t.Errorf("HTML() = %q", got)
		}
	})

	t.Run("can be wrapped", func(t *testing.T) {
		t.Parallel()
		r, err := NewRawElement(`<p>x</p>`)
		if err != nil {
			t.Fatalf("NewRawElement() error = %v", err)
		}
		n, err := Wrap(r, Attrs{"class": "w"}, "")
		if err != nil {
			t.Fatalf("Wrap() error = %v", err)
		}
		if got := n.HTML(); got != `<div class="w"><p>x</p></div>` {
			t.Errorf("HTML() = %q", got)
		}
	})
}
