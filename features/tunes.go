package features

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-editorjs"
)

var alignments = []string{"left", "center", "right"}

// Alignment adds align-content-<alignment> to the tuned element.
type Alignment struct {
	*editorjs.Tune
}

// NewAlignment returns the text alignment tune.
func NewAlignment(name string, opts editorjs.ToolOptions) (*Alignment, error) {
	t, err := editorjs.NewTune(name, opts, editorjs.AllowDefaults{
		Attrs: map[string][]string{editorjs.AnyTag: {"class"}},
	})
	if err != nil {
		return nil, err
	}
	return &Alignment{Tune: t}, nil
}

func (a *Alignment) Validate(v any) error {
	alignment := strings.TrimSpace(editorjs.AsData(v).String("alignment"))
	if !slices.Contains(alignments, alignment) {
		return editorjs.Invalid("alignment", fmt.Sprintf("must be one of %s", strings.Join(alignments, ", ")))
	}
	return nil
}

func (a *Alignment) TuneElement(_ context.Context, n editorjs.Node, v any, _ *editorjs.RenderContext) (editorjs.Node, error) {
	alignment := strings.TrimSpace(editorjs.AsData(v).String("alignment"))
	if alignment == "" {
		return n, nil
	}
	if err := n.AddAttributes(editorjs.Attrs{"class": "align-content-" + alignment}); err != nil {
		return nil, err
	}
	return n, nil
}

var textVariants = []string{"call-out", "citation", "details"}

// TextVariant wraps the tuned element in <div class="text-variant-<v>">.
type TextVariant struct {
	*editorjs.Tune
}

// NewTextVariant returns the text variant tune.
func NewTextVariant(name string, opts editorjs.ToolOptions) (*TextVariant, error) {
	t, err := editorjs.NewTune(name, opts, editorjs.AllowDefaults{
		Tags:     []string{"div"},
		TagAttrs: []string{"class"},
	})
	if err != nil {
		return nil, err
	}
	return &TextVariant{Tune: t}, nil
}

func (t *TextVariant) Validate(v any) error {
	variant, ok := v.(string)
	if v == nil || (ok && variant == "") {
		return nil
	}
	if !ok || !slices.Contains(textVariants, variant) {
		return editorjs.Invalid("variant", fmt.Sprintf("must be one of %s", strings.Join(textVariants, ", ")))
	}
	return nil
}

func (t *TextVariant) TuneElement(_ context.Context, n editorjs.Node, v any, _ *editorjs.RenderContext) (editorjs.Node, error) {
	variant, _ := v.(string)
	if variant == "" {
		return n, nil
	}
	return editorjs.Wrap(n, editorjs.Attrs{"class": "text-variant-" + variant}, "div")
}

const colorTunedClass = "wagtail-editorjs-color-tuned"

// Color wraps the tuned element and sets --text-color, or --background-color
// for the background variant.
type Color struct {
	*editorjs.Tune
	background bool
}

// NewTextColor returns the text color tune.
func NewTextColor(name string, opts editorjs.ToolOptions) (*Color, error) {
	return newColor(name, opts, false)
}

// NewBackgroundColor returns the background color tune. A stretched value
// adds the bg-stretched class.
func NewBackgroundColor(name string, opts editorjs.ToolOptions) (*Color, error) {
	return newColor(name, opts, true)
}

func newColor(name string, opts editorjs.ToolOptions, background bool) (*Color, error) {
	t, err := editorjs.NewTune(name, opts, editorjs.AllowDefaults{
		Tags:  []string{"div"},
		Attrs: map[string][]string{editorjs.AnyTag: {"class", "style"}},
	})
	if err != nil {
		return nil, err
	}
	return &Color{Tune: t, background: background}, nil
}

func (c *Color) Validate(v any) error {
	if v == nil {
		return nil
	}
	d := editorjs.AsData(v)
	if d == nil {
		return editorjs.Invalid("color", "tune value must be an object")
	}
	if !d.Has("color") {
		return nil
	}
	color, ok := d["color"].(string)
	if !ok || !strings.HasPrefix(color, "#") {
		return editorjs.Invalid("color", "must be a hex color starting with #")
	}
	return nil
}

func (c *Color) TuneElement(_ context.Context, n editorjs.Node, v any, _ *editorjs.RenderContext) (editorjs.Node, error) {
	d := editorjs.AsData(v)
	if !d.Has("color") {
		return n, nil
	}
	prop := "--text-color"
	class := []string{colorTunedClass}
	if c.background {
		prop = "--background-color"
		if d.Bool("stretched") {
			class = append(class, "bg-stretched")
		}
	}
	return editorjs.Wrap(n, editorjs.Attrs{
		"class": class,
		"style": editorjs.Styles{prop: d.String("color")},
	}, "div")
}
