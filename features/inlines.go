package features

import (
	"context"
	"fmt"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/markup"
)

var linkAllow = editorjs.AllowDefaults{
	Tags:     []string{"a"},
	TagAttrs: []string{"class", "href", "data-id"},
}

// NewLink returns the page link tool. It rewrites
// <a data-id data-page data-parent-id> into links to the page.
func NewLink(name string, store editorjs.EntityStore, opts editorjs.ToolOptions) (*editorjs.ModelInline, error) {
	return editorjs.NewModelInline(name, store, editorjs.ModelOptions{
		Kind:      editorjs.EntityPage,
		MustHave:  map[string]string{"data-parent-id": ""},
		TestAttrs: map[string]string{"data-parent-id": "this-doesnt-get-used"},
	}, opts, linkAllow)
}

// LinkAutocomplete is the page link tool backed by a search endpoint.
type LinkAutocomplete struct {
	*editorjs.ModelInline
	endpoint string
}

// NewLinkAutocomplete returns the autocomplete page link tool. endpoint is
// the page search URL the client queries.
func NewLinkAutocomplete(name string, store editorjs.EntityStore, endpoint string, opts editorjs.ToolOptions) (*LinkAutocomplete, error) {
	m, err := editorjs.NewModelInline(name, store, editorjs.ModelOptions{
		Kind:      editorjs.EntityPage,
		MustHave:  map[string]string{"data-autocomplete": "page"},
		TestAttrs: map[string]string{"data-autocomplete": "page"},
	}, opts, linkAllow)
	if err != nil {
		return nil, err
	}
	return &LinkAutocomplete{ModelInline: m, endpoint: endpoint}, nil
}

// Config adds the search endpoint and its query parameter.
func (l *LinkAutocomplete) Config(rc *editorjs.RenderContext) (map[string]any, error) {
	cfg, err := l.ModelInline.Config(rc)
	if err != nil {
		return nil, err
	}
	inner := map[string]any{}
	if c, ok := cfg["config"].(map[string]any); ok {
		for k, v := range c {
			inner[k] = v
		}
	}
	inner["endpoint"] = l.endpoint
	inner["queryParam"] = "search"
	cfg["config"] = inner
	return cfg, nil
}

// NewDocumentLink returns the document link tool. It rewrites
// <a data-id data-document> into links to the file.
func NewDocumentLink(name string, store editorjs.EntityStore, opts editorjs.ToolOptions) (*editorjs.ModelInline, error) {
	return editorjs.NewModelInline(name, store, editorjs.ModelOptions{
		Kind: editorjs.EntityDocument,
	}, opts, linkAllow)
}

const (
	tooltipClass     = "wagtail-tooltip"
	tooltipContent   = "data-w-tooltip-content-value"
	tooltipPlacement = "data-w-tooltip-placement-value"
	defaultPlacement = "top"
)

// Tooltip rewrites editor tooltip spans into the attributes the front-end
// tooltip library reads. Each match is rewritten on its own.
type Tooltip struct {
	*editorjs.InlineFeature
}

// NewTooltip returns the tooltip tool.
func NewTooltip(name string, opts editorjs.ToolOptions) (*Tooltip, error) {
	f, err := editorjs.NewInlineFeature(name, editorjs.KindInline, opts, editorjs.AllowDefaults{
		Tags:     []string{"span"},
		TagAttrs: []string{"class", "data-tippy-content", "data-tippy-placement"},
	}, editorjs.InlineOptions{
		Tag:      "span",
		MustHave: map[string]string{"class": tooltipClass, tooltipContent: ""},
		CanHave:  []string{tooltipPlacement},
	})
	if err != nil {
		return nil, err
	}
	return &Tooltip{InlineFeature: f}, nil
}

func (t *Tooltip) ResolveMatch(_ context.Context, m editorjs.Match, _ *editorjs.RenderContext) error {
	placement := m.Attrs[tooltipPlacement]
	if placement == "" {
		placement = defaultPlacement
	}
	markup.RemoveAttrs(m.Node)
	markup.SetAttr(m.Node, "class", tooltipClass)
	markup.SetAttr(m.Node, "data-tippy-content", m.Attrs[tooltipContent])
	markup.SetAttr(m.Node, "data-tippy-placement", placement)
	return nil
}

func (t *Tooltip) TestFragments() []editorjs.FragmentPair {
	return []editorjs.FragmentPair{
		{
			Input:    fmt.Sprintf(`<span class="%s" %s="Hello">text</span>`, tooltipClass, tooltipContent),
			Expected: fmt.Sprintf(`<span class="%s" data-tippy-content="Hello" data-tippy-placement="top">text</span>`, tooltipClass),
		},
		{
			Input:    fmt.Sprintf(`<span class="%s" %s="Hi" %s="bottom">text</span>`, tooltipClass, tooltipContent, tooltipPlacement),
			Expected: fmt.Sprintf(`<span class="%s" data-tippy-content="Hi" data-tippy-placement="bottom">text</span>`, tooltipClass),
		},
	}
}

// Format is an inline formatting tool such as marker or underline. The
// client inserts its tag into block text; server side it only widens the
// allowlist. It renders no blocks and leaves matched markup as typed.
type Format struct {
	*editorjs.InlineFeature
}

// NewFormat returns a formatting tool for tag. The tag may carry a class.
func NewFormat(name, tag string, opts editorjs.ToolOptions) (*Format, error) {
	f, err := editorjs.NewInlineFeature(name, editorjs.KindInline, opts, editorjs.AllowDefaults{
		Tags:  []string{tag},
		Attrs: map[string][]string{tag: {"class"}},
	}, editorjs.InlineOptions{Tag: tag})
	if err != nil {
		return nil, err
	}
	return &Format{InlineFeature: f}, nil
}

// Compile-time interface implementation checks.
var (
	_ editorjs.Handler            = (*Format)(nil)
	_ editorjs.InlineResolver     = (*Tooltip)(nil)
	_ editorjs.InlineTestData     = (*Tooltip)(nil)
	_ editorjs.BulkInlineResolver = (*LinkAutocomplete)(nil)
)
