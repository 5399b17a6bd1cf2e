package features

import (
	"context"
	"slices"
	"testing"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/markup"
)

func seededStore() *editorjs.MemoryStore {
	s := editorjs.NewMemoryStore()
	s.Add(editorjs.EntityImage,
		editorjs.Entity{ID: "i1", Title: "Sunset", URL: "/media/sunset.jpg", Alt: "A sunset"},
		editorjs.Entity{ID: "i2", Title: "Dawn", URL: "/media/dawn.jpg"},
	)
	s.Add(editorjs.EntityDocument,
		editorjs.Entity{ID: "d1", Title: "Report", URL: "/files/report.pdf", Size: 2048},
	)
	s.Add(editorjs.EntityPage,
		editorjs.Entity{ID: "p1", Title: "Home", URL: "/"},
		editorjs.Entity{ID: "p2", Title: "About", URL: "/about/"},
	)
	return s
}

func newRegistry(t *testing.T, o Options) *editorjs.Registry {
	t.Helper()
	r, err := editorjs.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if err := RegisterDefaults(r, o); err != nil {
		t.Fatalf("RegisterDefaults() error = %v", err)
	}
	return r
}

func render(t *testing.T, r *editorjs.Registry, tools []string, src string, opts ...editorjs.RenderOption) string {
	t.Helper()
	doc, err := r.Decode(tools, []byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	out, err := r.Render(context.Background(), tools, doc, opts...)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return out
}

func canonical(t *testing.T, s string) string {
	t.Helper()
	out, err := markup.Canonical(s)
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	return out
}

func assertHTML(t *testing.T, got, want string) {
	t.Helper()
	if g, w := canonical(t, got), canonical(t, want); g != w {
		t.Errorf("HTML mismatch\n got: %s\nwant: %s", g, w)
	}
}

func TestRegisterDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store editorjs.EntityStore
	}{
		{name: "without store"},
		{name: "with store", store: seededStore()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newRegistry(t, Options{Store: tt.store})
			want := DefaultTools(tt.store != nil)
			if got := r.Names(); !slices.Equal(got, want) {
				t.Errorf("Names() = %v, want %v", got, want)
			}
			for _, tune := range []string{ToolAlignment, ToolTextVariant, ToolTextColor, ToolBackgroundColor} {
				if !slices.Contains(r.TunesFor(ToolParagraph), tune) {
					t.Errorf("%s does not apply to paragraph", tune)
				}
			}
		})
	}
}

func TestRegisterDefaults_AssetPrefix(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, Options{AssetPrefix: "/static/editorjs/"})
	js, _ := r.Assets([]string{ToolParagraph, ToolUndo, ToolTextColor, ToolBackgroundColor})
	want := []string{
		"/static/editorjs/vendor/tools/paragraph.umd.js",
		"/static/editorjs/tools/color-tune.js",
		"/static/editorjs/vendor/editorjs-undo.js",
	}
	if !slices.Equal(js, want) {
		t.Errorf("Assets() = %v, want %v", js, want)
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, Options{Store: seededStore(), SearchEndpoint: "/search/"})
	cfg, err := r.BuildConfig(
		[]string{ToolParagraph, ToolUndo, ToolAlignment, ToolImage, ToolLinkAutocomplete},
		&editorjs.RenderContext{WidgetID: "body"},
	)
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}

	if !slices.Equal(cfg.Tunes, []string{ToolAlignment}) {
		t.Errorf("Tunes = %v, want [%s]", cfg.Tunes, ToolAlignment)
	}
	if _, ok := cfg.Tools[ToolUndo]; ok {
		t.Error("undo has an editor entry")
	}
	p := cfg.Tools[ToolParagraph]
	if p["class"] != "Paragraph" || p["inlineToolbar"] != true {
		t.Errorf("paragraph = %v", p)
	}
	img := cfg.Tools[ToolImage]["config"].(map[string]any)
	if img["imageChooserId"] != "editorjs-image-chooser-body" {
		t.Errorf("image config = %v", img)
	}
	auto := cfg.Tools[ToolLinkAutocomplete]["config"].(map[string]any)
	if auto["endpoint"] != "/search/" || auto["queryParam"] != "search" || auto["chooserId"] != "editorjs-page-chooser-body" {
		t.Errorf("link-autocomplete config = %v", auto)
	}
}

// TestBlockTestData renders every feature's sample data and checks that it
// validates, that the pipeline output matches the feature's own RenderBlock,
// and that sanitizing leaves the output unchanged.
func TestBlockTestData(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, Options{Store: seededStore(), HeaderAnchors: true, Highlight: true})
	for _, name := range r.Names() {
		h, _ := r.Handler(name)
		td, ok := h.(editorjs.BlockTestData)
		if !ok || h.Kind() != editorjs.KindFeature {
			continue
		}
		br, ok := h.(editorjs.BlockRenderer)
		if !ok {
			t.Errorf("%s has test data but no RenderBlock", name)
			continue
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			samples := td.TestData()
			if len(samples) == 0 {
				t.Fatal("no test data")
			}
			tools := []string{name, ToolParagraph}
			for i, data := range samples {
				b := editorjs.Block{ID: "b", Type: name, Data: editorjs.Data(data)}
				if err := h.Validate(b); err != nil {
					t.Fatalf("sample %d: Validate() error = %v", i, err)
				}
				doc := &editorjs.Document{Blocks: []editorjs.Block{b}}
				clean, err := r.Render(context.Background(), tools, doc, editorjs.Clean(true))
				if err != nil {
					t.Fatalf("sample %d: Render() error = %v", i, err)
				}
				raw, err := r.Render(context.Background(), tools, doc, editorjs.Clean(false))
				if err != nil {
					t.Fatalf("sample %d: Render() error = %v", i, err)
				}
				if clean == "" {
					t.Fatalf("sample %d: empty output", i)
				}
				direct, err := br.RenderBlock(context.Background(), b, nil)
				if err != nil {
					t.Fatalf("sample %d: RenderBlock() error = %v", i, err)
				}
				if direct == nil {
					t.Fatalf("sample %d: RenderBlock() omitted the block", i)
				}
				assertHTML(t, raw, direct.HTML())
				assertHTML(t, clean, raw)
			}
		})
	}
}

// TestInlineTestFragments runs every inline tool's fragment pairs through a
// paragraph and compares the rewrite.
func TestInlineTestFragments(t *testing.T) {
	t.Parallel()

	r := newRegistry(t, Options{Store: seededStore()})
	for _, name := range r.Names() {
		h, _ := r.Handler(name)
		td, ok := h.(editorjs.InlineTestData)
		if !ok {
			continue
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			pairs := td.TestFragments()
			if len(pairs) == 0 {
				t.Fatal("no test fragments")
			}
			tools := []string{ToolParagraph, name}
			for _, p := range pairs {
				doc := &editorjs.Document{Blocks: []editorjs.Block{
					{ID: "b", Type: ToolParagraph, Data: editorjs.Data{"text": p.Input}},
				}}
				got, err := r.Render(context.Background(), tools, doc)
				if err != nil {
					t.Fatalf("Render() error = %v", err)
				}
				assertHTML(t, got, "<p>"+p.Expected+"</p>")
			}
		})
	}
}
