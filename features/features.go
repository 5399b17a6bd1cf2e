// Package features provides the built-in block features, tunes and inline
// tools, and registers them on an editorjs.Registry.
package features

import (
	"fmt"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/mdrender"
)

// Tool names of the built-in handlers.
const (
	ToolParagraph        = "paragraph"
	ToolHeader           = "header"
	ToolDelimiter        = "delimiter"
	ToolCode             = "code"
	ToolRaw              = "raw"
	ToolWarning          = "warning"
	ToolTable            = "table"
	ToolQuote            = "quote"
	ToolMarkdown         = "markdown"
	ToolNestedList       = "nested-list"
	ToolChecklist        = "checklist"
	ToolImage            = "image"
	ToolImageRow         = "image-row"
	ToolAttaches         = "attaches"
	ToolMarker           = "marker"
	ToolInlineCode       = "inline-code"
	ToolUnderline        = "underline"
	ToolUndo             = "undo"
	ToolDragDrop         = "drag-drop"
	ToolAlignment        = "text-alignment-tune"
	ToolTextVariant      = "text-variant-tune"
	ToolTextColor        = "text-color-tune"
	ToolBackgroundColor  = "background-color-tune"
	ToolLink             = "link"
	ToolLinkAutocomplete = "link-autocomplete"
	ToolDocument         = "document"
	ToolTooltip          = "tooltip"
)

// Options configures the built-in handlers.
type Options struct {
	// Store resolves images, documents and pages. Without it the image,
	// image-row, attaches, link, link-autocomplete and document tools are
	// not registered.
	Store editorjs.EntityStore
	// AssetPrefix is prepended to every script path.
	AssetPrefix string
	// HeaderAnchors adds slug ids to headings.
	HeaderAnchors bool
	// Highlight enables chroma highlighting of code blocks and fenced code
	// in markdown blocks.
	Highlight bool
	// HighlightStyle names the chroma style; the default is used when empty.
	HighlightStyle string
	// SearchEndpoint is the page search URL for link-autocomplete.
	SearchEndpoint string
}

// textTool is the extra config of tools whose text takes inline formatting.
var textTool = map[string]any{"inlineToolbar": true}

type entry struct {
	name  string
	build func(name string, opts editorjs.ToolOptions) (editorjs.Handler, error)
	opts  editorjs.ToolOptions
}

// RegisterDefaults registers every built-in handler on r and makes the
// alignment, text variant and color tunes apply to all tools.
func RegisterDefaults(r *editorjs.Registry, o Options) error {
	js := func(paths ...string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = o.AssetPrefix + p
		}
		return out
	}
	var hl *mdrender.Highlighter
	if o.Highlight {
		hl = mdrender.NewHighlighter(o.HighlightStyle)
	}
	md := mdrender.NewMarkdown(o.Highlight)

	entries := []entry{
		{ToolParagraph, handler(NewParagraph), editorjs.ToolOptions{Class: "Paragraph", JS: js("vendor/tools/paragraph.umd.js"), Extra: textTool}},
		{ToolHeader, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
			return NewHeader(n, opts, o.HeaderAnchors)
		}, editorjs.ToolOptions{Class: "Header", JS: js("vendor/tools/header.js"), Extra: textTool}},
		{ToolDelimiter, handler(NewDelimiter), editorjs.ToolOptions{Class: "Delimiter", JS: js("vendor/tools/delimiter.js")}},
		{ToolCode, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
			return NewCode(n, opts, hl)
		}, editorjs.ToolOptions{Class: "CodeTool", JS: js("vendor/tools/code.js")}},
		{ToolRaw, handler(NewRaw), editorjs.ToolOptions{Class: "RawTool", JS: js("vendor/tools/raw.js")}},
		{ToolWarning, handler(NewWarning), editorjs.ToolOptions{Class: "Warning", JS: js("vendor/tools/warning.js"), Extra: textTool}},
		{ToolTable, handler(NewTable), editorjs.ToolOptions{Class: "Table", JS: js("vendor/tools/table.js"), Extra: textTool}},
		{ToolQuote, handler(NewQuote), editorjs.ToolOptions{Class: "Quote", JS: js("vendor/tools/quote.js"), Extra: textTool}},
		{ToolMarkdown, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
			return NewMarkdown(n, opts, md)
		}, editorjs.ToolOptions{Class: "MarkdownTool", JS: js("tools/markdown.js")}},
		{ToolNestedList, handler(NewNestedList), editorjs.ToolOptions{Class: "NestedList", JS: js("vendor/tools/nested-list.js"), Extra: textTool}},
		{ToolChecklist, handler(NewChecklist), editorjs.ToolOptions{Class: "Checklist", JS: js("vendor/tools/checklist.js"), Extra: textTool}},
		{ToolMarker, formatTool("mark"), editorjs.ToolOptions{Class: "Marker", JS: js("vendor/tools/marker.js"), Extra: textTool}},
		{ToolInlineCode, formatTool("code"), editorjs.ToolOptions{Class: "InlineCode", JS: js("vendor/tools/inline-code.js"), Extra: textTool}},
		{ToolUnderline, formatTool("u"), editorjs.ToolOptions{Class: "Underline", JS: js("vendor/tools/underline.js"), Extra: textTool}},
		{ToolUndo, clientOnly, editorjs.ToolOptions{JS: js("vendor/editorjs-undo.js"), Weight: 100}},
		{ToolDragDrop, clientOnly, editorjs.ToolOptions{JS: js("vendor/editorjs-drag-drop.js"), Weight: 100}},
		{ToolAlignment, handler(NewAlignment), editorjs.ToolOptions{Class: "AlignmentBlockTune", JS: js("vendor/tools/text-alignment.js")}},
		{ToolTextVariant, handler(NewTextVariant), editorjs.ToolOptions{Class: "TextVariantTune", JS: js("vendor/tools/text-variant-tune.js")}},
		{ToolTextColor, handler(NewTextColor), editorjs.ToolOptions{Class: "WagtailTextColorTune", JS: js("tools/color-tune.js")}},
		{ToolBackgroundColor, handler(NewBackgroundColor), editorjs.ToolOptions{Class: "WagtailBackgroundColorTune", JS: js("tools/color-tune.js")}},
		{ToolTooltip, handler(NewTooltip), editorjs.ToolOptions{Class: "TooltipTool", JS: js("tools/tooltips.js")}},
	}
	if o.Store != nil {
		store := o.Store
		entries = append(entries,
			entry{ToolImage, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewImage(n, store, opts)
			}, editorjs.ToolOptions{Class: "WagtailImageTool", JS: js("tools/wagtail-image.js")}},
			entry{ToolImageRow, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewImageRow(n, store, opts)
			}, editorjs.ToolOptions{Class: "ImageRowTool", JS: js("tools/wagtail-image-row.js")}},
			entry{ToolAttaches, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewAttaches(n, store, opts)
			}, editorjs.ToolOptions{Class: "CSRFAttachesTool", JS: js("vendor/tools/attaches.js", "tools/attaches.js")}},
			entry{ToolLink, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewLink(n, store, opts)
			}, editorjs.ToolOptions{Class: "WagtailLinkTool", JS: js("tools/wagtail-inline-tool.js", "tools/wagtail-link.js")}},
			entry{ToolLinkAutocomplete, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewLinkAutocomplete(n, store, o.SearchEndpoint, opts)
			}, editorjs.ToolOptions{Class: "LinkAutocomplete", JS: js("vendor/tools/link-autocomplete.js")}},
			entry{ToolDocument, func(n string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
				return NewDocumentLink(n, store, opts)
			}, editorjs.ToolOptions{Class: "WagtailDocumentTool", JS: js("tools/wagtail-inline-tool.js", "tools/wagtail-document.js")}},
		)
	}

	for _, e := range entries {
		h, err := e.build(e.name, e.opts)
		if err != nil {
			return fmt.Errorf("building %q: %w", e.name, err)
		}
		if err := r.Register(e.name, h); err != nil {
			return err
		}
	}
	for _, tune := range []string{ToolAlignment, ToolTextVariant, ToolTextColor, ToolBackgroundColor} {
		if err := r.RegisterTune(tune, ""); err != nil {
			return err
		}
	}
	return nil
}

// handler adapts a typed constructor to the registration table.
func handler[H editorjs.Handler](fn func(string, editorjs.ToolOptions) (H, error)) func(string, editorjs.ToolOptions) (editorjs.Handler, error) {
	return func(name string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
		h, err := fn(name, opts)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

// formatTool returns a constructor for an inline formatting tool.
func formatTool(tag string) func(string, editorjs.ToolOptions) (editorjs.Handler, error) {
	return func(name string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
		return NewFormat(name, tag, opts)
	}
}

// clientOnly builds a tool that only ships scripts.
func clientOnly(name string, opts editorjs.ToolOptions) (editorjs.Handler, error) {
	return editorjs.NewJavascriptFeature(name, opts, editorjs.AllowDefaults{})
}

// DefaultTools returns the names RegisterDefaults registers, in order.
func DefaultTools(withStore bool) []string {
	tools := []string{
		ToolParagraph, ToolHeader, ToolDelimiter, ToolCode, ToolRaw, ToolWarning,
		ToolTable, ToolQuote, ToolMarkdown, ToolNestedList, ToolChecklist,
		ToolMarker, ToolInlineCode, ToolUnderline, ToolUndo, ToolDragDrop,
		ToolAlignment, ToolTextVariant, ToolTextColor, ToolBackgroundColor,
		ToolTooltip,
	}
	if withStore {
		tools = append(tools, ToolImage, ToolImageRow, ToolAttaches, ToolLink, ToolLinkAutocomplete, ToolDocument)
	}
	return tools
}
