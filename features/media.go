package features

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/alnah/go-editorjs"
)

// Image renders one stored image, optionally inside a <figure>. Blocks
// referencing a missing image are omitted.
type Image struct {
	*editorjs.Feature
	store editorjs.EntityStore
}

// NewImage returns the image feature.
func NewImage(name string, store editorjs.EntityStore, opts editorjs.ToolOptions) (*Image, error) {
	if store == nil {
		return nil, fmt.Errorf("feature %q: entity store required", name)
	}
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags: []string{"img", "figure", "figcaption", "div"},
		Attrs: map[string][]string{
			"img":        {"src", "alt", "class", "style"},
			"figure":     {"class", "style"},
			"figcaption": {"class"},
			"div":        {"class", "style"},
		},
	})
	if err != nil {
		return nil, err
	}
	return &Image{Feature: f, store: store}, nil
}

// Config adds the chooser element id when rendering for a widget.
func (i *Image) Config(rc *editorjs.RenderContext) (map[string]any, error) {
	cfg, err := i.Feature.Config(rc)
	if err != nil {
		return nil, err
	}
	return addChooser(cfg, rc, "image"), nil
}

func (i *Image) Validate(v any) error {
	if err := i.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	return requireKeys(b.Data, "imageId")
}

func (i *Image) RenderBlock(ctx context.Context, b editorjs.Block, rc *editorjs.RenderContext) (editorjs.Node, error) {
	img, err := i.store.ResolveOne(ctx, editorjs.EntityImage, b.Data.String("imageId"))
	if errors.Is(err, editorjs.ErrEntityNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var class []string
	var style editorjs.Styles
	if b.Data.Bool("withBorder") {
		class = append(class, "with-border")
	}
	if b.Data.Bool("stretched") {
		class = append(class, "stretched")
	}
	if bg := b.Data.String("backgroundColor"); bg != "" {
		style = editorjs.Styles{"background-color": bg}
		class = append(class, "with-background")
	}
	attrs := editorjs.Attrs{}
	if len(class) > 0 {
		attrs["class"] = class
	}
	if style != nil {
		attrs["style"] = style
	}

	alt := b.Data.String("alt")
	if alt == "" {
		alt = img.Alt
	}
	imgAttrs := editorjs.Attrs{"src": rc.EntityURL(img)}
	if alt != "" {
		imgAttrs["alt"] = alt
	}
	var n editorjs.Node = editorjs.Void("img", imgAttrs)
	if b.Data.Bool("usingCaption") {
		caption := b.Data.String("caption")
		if caption == "" {
			caption = alt
		}
		n = editorjs.NewElement("figure", []editorjs.Node{
			n,
			editorjs.NewElement("figcaption", caption, nil),
		}, nil)
	}
	return editorjs.Wrap(n, attrs, "div")
}

// ImageRow renders several stored images side by side. All images are
// resolved with one lookup; missing ones are left out.
type ImageRow struct {
	*editorjs.Feature
	store editorjs.EntityStore
}

// NewImageRow returns the image row feature.
func NewImageRow(name string, store editorjs.EntityStore, opts editorjs.ToolOptions) (*ImageRow, error) {
	if store == nil {
		return nil, fmt.Errorf("feature %q: entity store required", name)
	}
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags: []string{"div", "img"},
		Attrs: map[string][]string{
			"div": {"class", "style"},
			"img": {"src", "alt", "class", "style"},
		},
	})
	if err != nil {
		return nil, err
	}
	return &ImageRow{Feature: f, store: store}, nil
}

// Config adds the chooser element id when rendering for a widget.
func (r *ImageRow) Config(rc *editorjs.RenderContext) (map[string]any, error) {
	cfg, err := r.Feature.Config(rc)
	if err != nil {
		return nil, err
	}
	return addChooser(cfg, rc, "images"), nil
}

func (r *ImageRow) Validate(v any) error {
	if err := r.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	images, ok := b.Data.Slice("images")
	if !ok || len(images) == 0 {
		return editorjs.Invalid("images", "must be a non-empty list")
	}
	if b.Data.Map("settings") == nil {
		return editorjs.Invalid("settings", "must be an object")
	}
	for _, it := range images {
		img := editorjs.AsData(it)
		if img == nil {
			return editorjs.Invalid("images", "every image must be an object")
		}
		if err := requireKeys(img, "id", "title"); err != nil {
			return err
		}
	}
	return nil
}

func (r *ImageRow) RenderBlock(ctx context.Context, b editorjs.Block, rc *editorjs.RenderContext) (editorjs.Node, error) {
	images, _ := b.Data.Slice("images")
	ids := make([]string, 0, len(images))
	for _, it := range images {
		ids = append(ids, editorjs.AsData(it).String("id"))
	}
	found, err := r.store.ResolveMany(ctx, editorjs.EntityImage, ids)
	if err != nil {
		return nil, err
	}

	var cells []editorjs.Node
	for _, id := range ids {
		img, ok := found[id]
		if !ok {
			continue
		}
		cells = append(cells, editorjs.NewElement("div",
			editorjs.Void("img", editorjs.Attrs{"src": rc.EntityURL(img), "alt": img.Title}),
			editorjs.Attrs{"class": "image-wrapper"},
		))
	}
	if len(cells) == 0 {
		return nil, nil
	}

	var attrs editorjs.Attrs
	if b.Data.Map("settings").Bool("stretched") {
		attrs = editorjs.Attrs{"class": "stretched"}
	}
	return editorjs.Wrap(editorjs.NewElement("div", cells, editorjs.Attrs{"class": "image-row"}), attrs, "div")
}

// downloadIcon is the link glyph of the attaches download button.
const downloadIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" fill="currentColor" class="bi bi-link" viewBox="0 0 16 16">` +
	`<path d="M6.354 5.5H4a3 3 0 0 0 0 6h3a3 3 0 0 0 2.83-4H9q-.13 0-.25.031A2 2 0 0 1 7 10.5H4a2 2 0 1 1 0-4h1.535c.218-.376.495-.714.82-1z"/>` +
	`<path d="M9 5.5a3 3 0 0 0-2.83 4h1.098A2 2 0 0 1 9 6.5h3a2 2 0 1 1 0 4h-1.535a4 4 0 0 1-.82 1H12a3 3 0 1 0 0-6z"/>` +
	`</svg>`

// Attaches renders a downloadable file with its title and size. The file
// is looked up by data.file.id; data.file.url is used when there is no id.
type Attaches struct {
	*editorjs.Feature
	store editorjs.EntityStore
}

// NewAttaches returns the attaches feature.
func NewAttaches(name string, store editorjs.EntityStore, opts editorjs.ToolOptions) (*Attaches, error) {
	if store == nil {
		return nil, fmt.Errorf("feature %q: entity store required", name)
	}
	// The sanitizer sees attribute names lowercased, hence viewbox.
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags: []string{"div", "p", "span", "a", "svg", "path"},
		Attrs: map[string][]string{
			"div":  {"class"},
			"p":    {"class"},
			"span": {"class"},
			"a":    {"class", "href", "title"},
			"svg":  {"xmlns", "width", "height", "fill", "class", "viewbox"},
			"path": {"d"},
		},
	})
	if err != nil {
		return nil, err
	}
	return &Attaches{Feature: f, store: store}, nil
}

func (a *Attaches) Validate(v any) error {
	if err := a.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	file := b.Data.Map("file")
	if file == nil {
		return editorjs.Invalid("file", "must be an object")
	}
	if file.String("id") == "" && file.String("url") == "" {
		return editorjs.Invalid("file", "needs an id or a url")
	}
	return requireKeys(b.Data, "title")
}

func (a *Attaches) RenderBlock(ctx context.Context, b editorjs.Block, rc *editorjs.RenderContext) (editorjs.Node, error) {
	file := b.Data.Map("file")
	doc := editorjs.Entity{URL: file.String("url")}
	if id := file.String("id"); id != "" {
		e, err := a.store.ResolveOne(ctx, editorjs.EntityDocument, id)
		switch {
		case errors.Is(err, editorjs.ErrEntityNotFound):
			if doc.URL == "" {
				return nil, nil
			}
		case err != nil:
			return nil, err
		default:
			doc = e
		}
	}
	url := rc.EntityURL(doc)

	title := b.Data.String("title")
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = url
	}
	size := doc.Size
	if size == 0 {
		size, _ = file.Int64("size")
	}

	parts := []editorjs.Node{
		editorjs.NewElement("p",
			editorjs.NewElement("a", title, editorjs.Attrs{"href": url}),
			editorjs.Attrs{"class": "attaches-title"}),
	}
	if size > 0 {
		parts = append(parts, editorjs.NewElement("span",
			humanize.Bytes(uint64(size)),
			editorjs.Attrs{"class": "attaches-size"}))
	}
	parts = append(parts, editorjs.NewElement("a", downloadIcon, editorjs.Attrs{
		"title": "Download",
		"href":  url,
		"class": "attaches-link",
	}))
	return editorjs.NewElement("div", parts, editorjs.Attrs{"class": "attaches"}), nil
}

// addChooser sets config.imageChooserId for the widget being rendered.
func addChooser(cfg map[string]any, rc *editorjs.RenderContext, prefix string) map[string]any {
	if rc == nil || rc.WidgetID == "" {
		return cfg
	}
	inner := map[string]any{}
	if c, ok := cfg["config"].(map[string]any); ok {
		for k, v := range c {
			inner[k] = v
		}
	}
	inner["imageChooserId"] = fmt.Sprintf("editorjs-%s-chooser-%s", prefix, rc.WidgetID)
	cfg["config"] = inner
	return cfg
}

// listEntities returns up to limit stored entities of kind, or nothing when
// the store cannot list.
func listEntities(store editorjs.EntityStore, kind string, limit int) []editorjs.Entity {
	lister, ok := store.(editorjs.EntityLister)
	if !ok {
		return nil
	}
	es, err := lister.List(context.Background(), kind, limit)
	if err != nil {
		return nil
	}
	return es
}

func (i *Image) TestData() []map[string]any {
	es := listEntities(i.store, editorjs.EntityImage, 1)
	if len(es) == 0 {
		return nil
	}
	return []map[string]any{
		{
			"imageId":         es[0].ID,
			"withBorder":      true,
			"stretched":       false,
			"backgroundColor": "#000000",
			"usingCaption":    false,
			"alt":             "Image",
			"caption":         "Image",
		},
		{
			"imageId":         es[0].ID,
			"withBorder":      false,
			"stretched":       true,
			"backgroundColor": nil,
			"usingCaption":    true,
			"alt":             "Image",
			"caption":         "Image",
		},
	}
}

func (r *ImageRow) TestData() []map[string]any {
	es := listEntities(r.store, editorjs.EntityImage, 3)
	if len(es) == 0 {
		return nil
	}
	images := make([]any, 0, len(es))
	for _, e := range es {
		images = append(images, map[string]any{"id": e.ID, "title": e.Title})
	}
	return []map[string]any{{
		"images":   images,
		"settings": map[string]any{"stretched": true},
	}}
}

func (a *Attaches) TestData() []map[string]any {
	es := listEntities(a.store, editorjs.EntityDocument, 1)
	if len(es) == 0 {
		return nil
	}
	return []map[string]any{{
		"file":  map[string]any{"id": es[0].ID},
		"title": "Document",
	}}
}
