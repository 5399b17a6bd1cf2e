package features

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"golang.org/x/net/html"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/markup"
	"github.com/alnah/go-editorjs/internal/mdrender"
)

// Paragraph renders data.text as <p>.
type Paragraph struct {
	*editorjs.Feature
}

// NewParagraph returns the paragraph feature.
func NewParagraph(name string, opts editorjs.ToolOptions) (*Paragraph, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"p"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Paragraph{Feature: f}, nil
}

// Header renders data.text as <h1> to <h6>.
type Header struct {
	*editorjs.Feature
	anchors bool
}

// NewHeader returns the header feature. With anchors set, headings get an id
// derived from their text.
func NewHeader(name string, opts editorjs.ToolOptions, anchors bool) (*Header, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		TagAttrs: []string{"class", "id"},
	})
	if err != nil {
		return nil, err
	}
	return &Header{Feature: f, anchors: anchors}, nil
}

func (h *Header) Validate(v any) error {
	if err := h.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	_, err := headingLevel(b.Data)
	return err
}

func headingLevel(d editorjs.Data) (int, error) {
	level, ok := d.Int("level")
	if !ok || level < 1 || level > 6 {
		return 0, editorjs.Invalid("level", fmt.Sprintf("must be an integer from 1 to 6, got %v", d["level"]))
	}
	return level, nil
}

func (h *Header) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	level, err := headingLevel(b.Data)
	if err != nil {
		return nil, err
	}
	text := b.Data.String("text")
	var attrs editorjs.Attrs
	if h.anchors {
		if id := slug.Make(plainText(text)); id != "" {
			attrs = editorjs.Attrs{"id": id}
		}
	}
	return editorjs.NewElement(fmt.Sprintf("h%d", level), text, attrs), nil
}

func (h *Header) TestData() []map[string]any {
	out := make([]map[string]any, 0, 6)
	for level := 1; level <= 6; level++ {
		out = append(out, map[string]any{"level": level, "text": fmt.Sprintf("Header %d", level)})
	}
	return out
}

// plainText strips markup from inline editor text.
func plainText(s string) string {
	frag, err := markup.Parse(s)
	if err != nil {
		return s
	}
	return markup.Text(frag.Root())
}

// Delimiter renders <hr class="delimiter"/>.
type Delimiter struct {
	*editorjs.Feature
}

// NewDelimiter returns the delimiter feature.
func NewDelimiter(name string, opts editorjs.ToolOptions) (*Delimiter, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"hr"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Delimiter{Feature: f}, nil
}

func (d *Delimiter) RenderBlock(context.Context, editorjs.Block, *editorjs.RenderContext) (editorjs.Node, error) {
	return editorjs.Void("hr", editorjs.Attrs{"class": "delimiter"}), nil
}

func (d *Delimiter) TestData() []map[string]any {
	return []map[string]any{{}, {}, {}}
}

// Code renders data.code as escaped <code class="code">, or as highlighted
// markup when a highlighter is set and data.language is known.
type Code struct {
	*editorjs.Feature
	hl *mdrender.Highlighter
}

// NewCode returns the code feature. A nil highlighter disables highlighting.
func NewCode(name string, opts editorjs.ToolOptions, hl *mdrender.Highlighter) (*Code, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"code", "pre", "span"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Code{Feature: f, hl: hl}, nil
}

func (c *Code) Validate(v any) error {
	if err := c.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	if !b.Data.Has("code") {
		return editorjs.Invalid("code", "missing")
	}
	return nil
}

func (c *Code) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	code := b.Data.String("code")
	lang := b.Data.String("language")
	if c.hl == nil || !mdrender.Known(lang) {
		return editorjs.NewElement("code", html.EscapeString(code), editorjs.Attrs{"class": "code"}), nil
	}
	out, err := c.hl.Highlight(code, lang)
	if err != nil {
		return nil, err
	}
	raw, err := editorjs.NewRawElement(out)
	if err != nil {
		return nil, err
	}
	if err := raw.AddAttributes(editorjs.Attrs{"class": "code"}); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Code) TestData() []map[string]any {
	return []map[string]any{{"code": "print('Hello, World!')"}}
}

// Raw renders data.html inside <div class="html">. Its allowlist is a small
// set of common formatting tags.
type Raw struct {
	*editorjs.Feature
}

// NewRaw returns the raw HTML feature.
func NewRaw(name string, opts editorjs.ToolOptions) (*Raw, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags: []string{
			"a", "abbr", "acronym", "b", "blockquote", "code", "div", "em",
			"i", "li", "ol", "p", "strong", "ul",
		},
		Attrs: map[string][]string{
			"a":       {"href", "title"},
			"abbr":    {"title"},
			"acronym": {"title"},
			"div":     {"class"},
		},
	})
	if err != nil {
		return nil, err
	}
	return &Raw{Feature: f}, nil
}

func (r *Raw) Validate(v any) error {
	if err := r.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	if !b.Data.Has("html") {
		return editorjs.Invalid("html", "missing")
	}
	return nil
}

func (r *Raw) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	return editorjs.NewElement("div", b.Data.String("html"), editorjs.Attrs{"class": "html"}), nil
}

func (r *Raw) TestData() []map[string]any {
	return []map[string]any{{"html": "<p>This is an HTML block.</p>"}}
}

// Warning renders a titled message box.
type Warning struct {
	*editorjs.Feature
}

// NewWarning returns the warning feature.
func NewWarning(name string, opts editorjs.ToolOptions) (*Warning, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"div", "h2", "p"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Warning{Feature: f}, nil
}

func (w *Warning) Validate(v any) error {
	if err := w.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	return requireKeys(b.Data, "title", "message")
}

func (w *Warning) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	return editorjs.NewElement("div", []editorjs.Node{
		editorjs.NewElement("h2", b.Data.String("title"), nil),
		editorjs.NewElement("p", b.Data.String("message"), nil),
	}, editorjs.Attrs{"class": "warning"}), nil
}

func (w *Warning) TestData() []map[string]any {
	return []map[string]any{{"title": "Warning", "message": "This is a warning message."}}
}

// Table renders data.content rows, with the first row as <thead> when
// data.withHeadings is set.
type Table struct {
	*editorjs.Feature
}

// NewTable returns the table feature.
func NewTable(name string, opts editorjs.ToolOptions) (*Table, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"table", "tr", "th", "td", "thead", "tbody", "tfoot"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Table{Feature: f}, nil
}

func (t *Table) Validate(v any) error {
	if err := t.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	if err := requireKeys(b.Data, "content", "withHeadings"); err != nil {
		return err
	}
	rows, ok := b.Data.Slice("content")
	if !ok {
		return editorjs.Invalid("content", "must be a list of rows")
	}
	for _, row := range rows {
		if _, ok := row.([]any); !ok {
			return editorjs.Invalid("content", "every row must be a list of cells")
		}
	}
	return nil
}

func (t *Table) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	rows, _ := b.Data.Slice("content")
	var parts []editorjs.Node
	if b.Data.Bool("withHeadings") && len(rows) > 0 {
		parts = append(parts, editorjs.NewElement("thead", tableRow("th", rows[0]), nil))
		rows = rows[1:]
	}
	tbody := editorjs.NewElement("tbody", nil, nil)
	for _, row := range rows {
		if err := tbody.Append(tableRow("td", row)); err != nil {
			return nil, err
		}
	}
	parts = append(parts, tbody)
	return editorjs.NewElement("table", parts, nil), nil
}

func tableRow(cellTag string, row any) *editorjs.Element {
	cells, _ := row.([]any)
	out := make([]editorjs.Node, 0, len(cells))
	for _, c := range cells {
		out = append(out, editorjs.NewElement(cellTag, cellText(c), nil))
	}
	return editorjs.NewElement("tr", out, nil)
}

func cellText(v any) string {
	return editorjs.Data{"v": v}.String("v")
}

func (t *Table) TestData() []map[string]any {
	body := []any{
		[]any{"1", "2", "3"},
		[]any{"4", "5", "6"},
		[]any{"7", "8", "9"},
	}
	return []map[string]any{
		{"withHeadings": false, "content": body},
		{"withHeadings": true, "content": append([]any{[]any{"Heading 1", "Heading 2", "Heading 3"}}, body...)},
	}
}

// Quote renders <blockquote> with the caption in a <footer>.
type Quote struct {
	*editorjs.Feature
}

// NewQuote returns the quote feature.
func NewQuote(name string, opts editorjs.ToolOptions) (*Quote, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"blockquote", "footer"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Quote{Feature: f}, nil
}

func (q *Quote) Validate(v any) error {
	if err := q.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	return requireKeys(b.Data, "text", "caption")
}

func (q *Quote) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	return editorjs.NewElement("blockquote", []any{
		b.Data.String("text"),
		editorjs.NewElement("footer", b.Data.String("caption"), nil),
	}, editorjs.Attrs{"class": "blockquote"}), nil
}

func (q *Quote) TestData() []map[string]any {
	return []map[string]any{{"text": "This is a quote.", "caption": "Anonymous"}}
}

// Markdown renders data.markdown with goldmark. Raw HTML in the source is
// omitted.
type Markdown struct {
	*editorjs.Feature
	md *mdrender.Markdown
}

// NewMarkdown returns the markdown feature.
func NewMarkdown(name string, opts editorjs.ToolOptions, md *mdrender.Markdown) (*Markdown, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags: []string{
			"div", "p", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
			"a", "em", "strong", "del", "code", "pre", "span", "blockquote",
			"hr", "br", "img", "table", "thead", "tbody", "tr", "th", "td", "input",
		},
		Attrs: map[string][]string{
			"div":   {"class"},
			"a":     {"href", "title"},
			"img":   {"src", "alt", "title"},
			"pre":   {"class"},
			"code":  {"class"},
			"span":  {"class"},
			"th":    {"align", "style"},
			"td":    {"align", "style"},
			"input": {"type", "checked", "disabled"},
		},
	})
	if err != nil {
		return nil, err
	}
	if md == nil {
		md = mdrender.NewMarkdown(false)
	}
	return &Markdown{Feature: f, md: md}, nil
}

func (m *Markdown) Validate(v any) error {
	if err := m.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	return requireKeys(b.Data, "markdown")
}

func (m *Markdown) RenderBlock(ctx context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	out, err := m.md.Render(ctx, b.Data.String("markdown"))
	if err != nil {
		return nil, err
	}
	return editorjs.NewElement("div", out, editorjs.Attrs{"class": "markdown"}), nil
}

func (m *Markdown) TestData() []map[string]any {
	return []map[string]any{{"markdown": "Some *emphasis* and a [link](https://example.com)."}}
}

// requireKeys fails on the first key missing from d.
func requireKeys(d editorjs.Data, keys ...string) error {
	for _, k := range keys {
		if !d.Has(k) {
			return editorjs.Invalid(k, "missing")
		}
	}
	return nil
}
