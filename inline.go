package editorjs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-editorjs/internal/markup"
)

// InlineOptions selects the elements an inline handler rewrites.
type InlineOptions struct {
	Tag string
	// MustHave lists required attributes. An empty value only requires the
	// attribute to be present; otherwise the trimmed value must match, or
	// for class, contain the value as a token.
	MustHave map[string]string
	// CanHave lists optional attributes extracted when present.
	CanHave []string
}

// InlineFeature is the base for inline handlers. It implements matching;
// concrete handlers add ResolveMatch or ResolveMatches.
type InlineFeature struct {
	Tool
	match InlineOptions
}

// NewInlineFeature returns the shared inline state. kind is KindInline or
// KindBulkInline.
func NewInlineFeature(name string, kind Kind, opts ToolOptions, defaults AllowDefaults, match InlineOptions) (*InlineFeature, error) {
	if kind != KindInline && kind != KindBulkInline {
		return nil, fmt.Errorf("inline feature %q: unexpected kind %s", name, kind)
	}
	if match.Tag == "" {
		return nil, fmt.Errorf("inline feature %q: tag name required", name)
	}
	t, err := NewTool(name, kind, opts, defaults)
	if err != nil {
		return nil, err
	}
	return &InlineFeature{Tool: t, match: match}, nil
}

// Match reports whether n is an element this handler rewrites and extracts
// its required and optional attributes.
func (f *InlineFeature) Match(n *html.Node) (Match, bool) {
	if n.Type != html.ElementNode || n.Data != f.match.Tag {
		return Match{}, false
	}
	attrs := make(map[string]string, len(f.match.MustHave)+len(f.match.CanHave))
	for key, want := range f.match.MustHave {
		got, ok := markup.Attr(n, key)
		if !ok || !attrMatches(key, got, want) {
			return Match{}, false
		}
		attrs[key] = got
	}
	for _, key := range f.match.CanHave {
		if v, ok := markup.Attr(n, key); ok {
			attrs[key] = v
		}
	}
	return Match{Node: n, Attrs: attrs}, true
}

func attrMatches(key, got, want string) bool {
	if want == "" {
		return true
	}
	if key == "class" {
		for _, tok := range strings.Fields(got) {
			if tok == want {
				return true
			}
		}
		return false
	}
	return strings.TrimSpace(got) == want
}

// ModelInline rewrites references to stored entities into links. All
// matches of a document are resolved with one ResolveMany call; each
// matched element loses its attributes and gets href and class.
type ModelInline struct {
	*InlineFeature
	store     EntityStore
	kind      string
	idAttr    string
	class     string
	testAttrs map[string]string
}

// ModelOptions configures a ModelInline.
type ModelOptions struct {
	Kind string // entity kind passed to the store
	// IDAttr holds the entity id; defaults to data-id.
	IDAttr string
	// Class is set on resolved links; defaults to "<kind>-link".
	Class string
	// MustHave adds to the id attribute and data-<kind> requirements.
	MustHave map[string]string
	// TestAttrs are the extra attributes written into self-test fragments.
	TestAttrs map[string]string
}

// NewModelInline returns a bulk inline handler matching
// <a data-id data-<kind>> elements.
func NewModelInline(name string, store EntityStore, mo ModelOptions, opts ToolOptions, defaults AllowDefaults) (*ModelInline, error) {
	if store == nil {
		return nil, fmt.Errorf("inline feature %q: entity store required", name)
	}
	if mo.IDAttr == "" {
		mo.IDAttr = "data-id"
	}
	if mo.Class == "" {
		mo.Class = mo.Kind + "-link"
	}
	must := map[string]string{mo.IDAttr: "", "data-" + mo.Kind: ""}
	for k, v := range mo.MustHave {
		must[k] = v
	}
	base, err := NewInlineFeature(name, KindBulkInline, opts, defaults, InlineOptions{Tag: "a", MustHave: must})
	if err != nil {
		return nil, err
	}
	return &ModelInline{
		InlineFeature: base,
		store:         store,
		kind:          mo.Kind,
		idAttr:        mo.IDAttr,
		class:         mo.Class,
		testAttrs:     mo.TestAttrs,
	}, nil
}

// Config adds the chooser element id when rendering for a widget.
func (m *ModelInline) Config(rc *RenderContext) (map[string]any, error) {
	cfg, err := m.Tool.Config(rc)
	if err != nil {
		return nil, err
	}
	if rc == nil || rc.WidgetID == "" {
		return cfg, nil
	}
	inner := map[string]any{}
	if c, ok := cfg["config"].(map[string]any); ok {
		for k, v := range c {
			inner[k] = v
		}
	}
	inner["chooserId"] = fmt.Sprintf("editorjs-%s-chooser-%s", m.kind, rc.WidgetID)
	cfg["config"] = inner
	return cfg, nil
}

// ResolveMatches fetches every referenced entity at once, then rewrites
// each match in place. References to missing entities are left without any
// attribute.
func (m *ModelInline) ResolveMatches(ctx context.Context, ms []Match, rc *RenderContext) error {
	if len(ms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ms))
	seen := make(map[string]struct{}, len(ms))
	for _, match := range ms {
		id := strings.TrimSpace(match.Attrs[m.idAttr])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	found, err := m.store.ResolveMany(ctx, m.kind, ids)
	if err != nil {
		return fmt.Errorf("resolving %s references: %w", m.kind, err)
	}

	for _, match := range ms {
		markup.RemoveAttrs(match.Node)
		e, ok := found[strings.TrimSpace(match.Attrs[m.idAttr])]
		if !ok {
			continue
		}
		markup.SetAttr(match.Node, "href", rc.EntityURL(e))
		markup.SetAttr(match.Node, "class", m.class)
	}
	return nil
}

// testFragmentLimit caps the entities used for self-test fragments.
const testFragmentLimit = 5

// TestFragments builds input and expected fragments from the first stored
// entities. It is empty when the store cannot list entities.
func (m *ModelInline) TestFragments() []FragmentPair {
	lister, ok := m.store.(EntityLister)
	if !ok {
		return nil
	}
	entities, err := lister.List(context.Background(), m.kind, testFragmentLimit)
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(m.testAttrs))
	for k := range m.testAttrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]FragmentPair, 0, len(entities))
	for _, e := range entities {
		var in strings.Builder
		fmt.Fprintf(&in, `<a %s="%s" data-%s="true"`, m.idAttr, e.ID, m.kind)
		for _, k := range keys {
			fmt.Fprintf(&in, ` %s="%s"`, k, m.testAttrs[k])
		}
		in.WriteString("></a>")
		out = append(out, FragmentPair{
			Input:    in.String(),
			Expected: fmt.Sprintf(`<a href="%s" class="%s"></a>`, e.URL, m.class),
		})
	}
	return out
}

// Compile-time interface implementation checks.
var (
	_ BulkInlineResolver = (*ModelInline)(nil)
	_ InlineTestData     = (*ModelInline)(nil)
)
