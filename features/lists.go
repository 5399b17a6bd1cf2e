package features

import (
	"context"
	"strconv"

	"github.com/alnah/go-editorjs"
)

// NestedList renders data.items as nested <ol> or <ul>. Each level carries
// class nested-list and a --depth custom property.
type NestedList struct {
	*editorjs.Feature
}

// NewNestedList returns the nested list feature.
func NewNestedList(name string, opts editorjs.ToolOptions) (*NestedList, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"ul", "ol", "li"},
		TagAttrs: []string{"class", "style"},
	})
	if err != nil {
		return nil, err
	}
	return &NestedList{Feature: f}, nil
}

func (l *NestedList) Validate(v any) error {
	if err := l.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	if items, ok := b.Data.Slice("items"); !ok || len(items) == 0 {
		return editorjs.Invalid("items", "must be a non-empty list")
	}
	switch b.Data.String("style") {
	case "ordered", "unordered":
		return nil
	}
	return editorjs.Invalid("style", `must be "ordered" or "unordered"`)
}

func (l *NestedList) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	tag := "ul"
	if b.Data.String("style") == "ordered" {
		tag = "ol"
	}
	items, _ := b.Data.Slice("items")
	return nestedList(tag, items, 0), nil
}

func nestedList(tag string, items []any, depth int) *editorjs.Element {
	lis := make([]editorjs.Node, 0, len(items))
	for _, it := range items {
		item := editorjs.AsData(it)
		if item == nil {
			// Older list data stores plain strings.
			item = editorjs.Data{"content": it}
		}
		content := []any{item.String("content")}
		if sub, ok := item.Slice("items"); ok && len(sub) > 0 {
			content = append(content, nestedList(tag, sub, depth+1))
		}
		lis = append(lis, editorjs.NewElement("li", content, nil))
	}
	return editorjs.NewElement(tag, lis, editorjs.Attrs{
		"class": "nested-list",
		"style": editorjs.Styles{"--depth": strconv.Itoa(depth)},
	})
}

func (l *NestedList) TestData() []map[string]any {
	leaf := func(s string) map[string]any { return map[string]any{"content": s, "items": []any{}} }
	return []map[string]any{{
		"style": "unordered",
		"items": []any{
			map[string]any{
				"content": "Item 1",
				"items": []any{
					map[string]any{
						"content": "Item 1.1",
						"items":   []any{leaf("Item 1.1.1"), leaf("Item 1.1.2")},
					},
					leaf("Item 1.2"),
				},
			},
			leaf("Item 2"),
		},
	}}
}

// Checklist renders data.items as <ul class="checklist">; checked items get
// the checked class.
type Checklist struct {
	*editorjs.Feature
}

// NewChecklist returns the checklist feature.
func NewChecklist(name string, opts editorjs.ToolOptions) (*Checklist, error) {
	f, err := editorjs.NewFeature(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"ul", "li"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &Checklist{Feature: f}, nil
}

func (c *Checklist) Validate(v any) error {
	if err := c.Feature.Validate(v); err != nil {
		return err
	}
	b, _ := editorjs.AsBlock(v)
	items, ok := b.Data.Slice("items")
	if !ok || len(items) == 0 {
		return editorjs.Invalid("items", "must be a non-empty list")
	}
	for _, it := range items {
		item := editorjs.AsData(it)
		if item == nil {
			return editorjs.Invalid("items", "every item must be an object")
		}
		if err := requireKeys(item, "checked", "text"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checklist) RenderBlock(_ context.Context, b editorjs.Block, _ *editorjs.RenderContext) (editorjs.Node, error) {
	items, _ := b.Data.Slice("items")
	lis := make([]editorjs.Node, 0, len(items))
	for _, it := range items {
		item := editorjs.AsData(it)
		class := []string{"checklist-item"}
		if item.Bool("checked") {
			class = append(class, "checked")
		}
		lis = append(lis, editorjs.NewElement("li", item.String("text"), editorjs.Attrs{"class": class}))
	}
	return editorjs.NewElement("ul", lis, editorjs.Attrs{"class": "checklist"}), nil
}

func (c *Checklist) TestData() []map[string]any {
	return []map[string]any{{
		"items": []any{
			map[string]any{"checked": true, "text": "Item 1"},
			map[string]any{"checked": false, "text": "Item 2"},
		},
	}}
}
