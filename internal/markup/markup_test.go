package markup

import (
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *Fragment {
	t.Helper()
	f, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f
}

func mustRender(t *testing.T, f *Fragment) string {
	t.Helper()
	s, err := f.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return s
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
	}{
		{name: "single element", in: `<p class="a">x &amp; y</p>`},
		{name: "siblings and text", in: `<p>a</p>between<div><b>c</b></div>`},
		{name: "void element", in: `<p>a<br/>b</p>`},
		{name: "comment", in: `<!-- note --><p>x</p>`},
		{name: "empty", in: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mustRender(t, mustParse(t, tt.in)); got != tt.in {
				t.Errorf("Render() = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestFragment_Elements(t *testing.T) {
	t.Parallel()

	f := mustParse(t, `text<p>a</p><!-- c --><div>b</div>`)
	if n := len(f.Children()); n != 4 {
		t.Errorf("len(Children()) = %d, want 4", n)
	}
	els := f.Elements()
	if len(els) != 2 || els[0].Data != "p" || els[1].Data != "div" {
		t.Errorf("Elements() = %v", els)
	}
}

func TestFragment_Find(t *testing.T) {
	t.Parallel()

	f := mustParse(t, `<p><a data-id="1">x</a></p><a>y</a><div><a data-id="2">z</a></div>`)
	got := f.Find(func(n *html.Node) bool {
		_, ok := Attr(n, "data-id")
		return n.Data == "a" && ok
	})
	if len(got) != 2 {
		t.Fatalf("Find() = %d nodes, want 2", len(got))
	}
	for i, want := range []string{"x", "z"} {
		if text := Text(got[i]); text != want {
			t.Errorf("match %d text = %q, want %q", i, text, want)
		}
	}

	// Matches stay valid while the tree is edited.
	RemoveAttrs(got[0])
	SetAttr(got[0], "href", "/one/")
	SetAttr(got[1], "data-id", "3")
	want := `<p><a href="/one/">x</a></p><a>y</a><div><a data-id="3">z</a></div>`
	if out := mustRender(t, f); out != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestFragment_Walk(t *testing.T) {
	t.Parallel()

	f := mustParse(t, `<div><p>a</p><span>b</span></div><em>c</em>`)
	var seen []string
	f.Walk(func(n *html.Node) bool {
		seen = append(seen, n.Data)
		return n.Data != "span"
	})
	want := []string{"div", "p", "span"}
	if len(seen) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Walk() visited %v, want %v", seen, want)
			break
		}
	}
}

func TestFragment_AppendFragment(t *testing.T) {
	t.Parallel()

	t.Run("under parent", func(t *testing.T) {
		t.Parallel()
		f := mustParse(t, `<div class="w"></div>`)
		other := mustParse(t, `<p>a</p><p>b</p>`)
		f.AppendFragment(f.Elements()[0], other)
		if got, want := mustRender(t, f), `<div class="w"><p>a</p><p>b</p></div>`; got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
		if n := len(other.Children()); n != 0 {
			t.Errorf("other still has %d children", n)
		}
	})

	t.Run("at root", func(t *testing.T) {
		t.Parallel()
		f := mustParse(t, `<p>a</p>`)
		f.AppendFragment(nil, mustParse(t, `<p>b</p>`))
		if got, want := mustRender(t, f), `<p>a</p><p>b</p>`; got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})
}

func TestAttr(t *testing.T) {
	t.Parallel()

	n := mustParse(t, `<a href="/x/" data-empty="">x</a>`).Elements()[0]
	if v, ok := Attr(n, "href"); !ok || v != "/x/" {
		t.Errorf("Attr(href) = %q, %v", v, ok)
	}
	if v, ok := Attr(n, "data-empty"); !ok || v != "" {
		t.Errorf("Attr(data-empty) = %q, %v", v, ok)
	}
	if _, ok := Attr(n, "title"); ok {
		t.Error("Attr(title) found")
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "attribute order",
			a:    `<a href="/x/" class="link">x</a>`,
			b:    `<a class="link" href="/x/">x</a>`,
		},
		{
			name: "class token order",
			a:    `<div class="b a c">x</div>`,
			b:    `<div class="a  c b">x</div>`,
		},
		{
			name: "whitespace between elements",
			a:    "<p>a</p>\n<p>b</p>",
			b:    `<p>a</p><p>b</p>`,
		},
		{
			name: "text trimmed",
			a:    `<p>  hi </p>`,
			b:    `<p>hi</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := Canonical(tt.a)
			if err != nil {
				t.Fatalf("Canonical(a) error = %v", err)
			}
			b, err := Canonical(tt.b)
			if err != nil {
				t.Fatalf("Canonical(b) error = %v", err)
			}
			if a != b {
				t.Errorf("Canonical mismatch\n a: %s\n b: %s", a, b)
			}
		})
	}

	got, err := Canonical(`<p title="x" class="z y">t</p>`)
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if want := `<p class="y z" title="x">t</p>`; got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}
