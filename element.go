package editorjs

import (
	"fmt"
	"strings"

	"github.com/alnah/go-editorjs/internal/markup"
)

// Node is a rendered piece of a block: a structured Element, a Wrapper
// decorating another node, or a RawElement holding pre-rendered markup.
type Node interface {
	// HTML serializes the node.
	HTML() string
	// AddAttributes extends existing attributes and creates missing ones.
	AddAttributes(attrs Attrs) error
	// Append adds a child (string, Node or a slice of either).
	Append(child any) error
	// Wrapped reports whether the node is a Wrapper.
	Wrapped() bool
}

// Compile-time interface implementation checks.
var (
	_ Node = (*Element)(nil)
	_ Node = (*Wrapper)(nil)
	_ Node = (*RawElement)(nil)
)

// Element is a structured HTML element. String content is inserted as-is:
// block text from the editor already carries inline markup, and cleaning it
// is the sanitizer's job.
type Element struct {
	Tag         string
	SelfClosing bool

	content   []any // string or Node
	attrNames []string
	attrs     map[string]AttrValue
}

// NewElement creates an element with a closing tag.
func NewElement(tag string, content any, attrs Attrs) *Element {
	e := &Element{
		Tag:     tag,
		content: toContent(content),
		attrs:   make(map[string]AttrValue, len(attrs)),
	}
	for _, k := range attrs.sortedKeys() {
		if attrs[k] == nil {
			continue
		}
		e.SetAttr(k, attrs[k])
	}
	return e
}

// Void creates a self-closing element such as <hr/> or <img/>.
func Void(tag string, attrs Attrs) *Element {
	e := NewElement(tag, nil, attrs)
	e.SelfClosing = true
	return e
}

// Content returns the children of the element.
func (e *Element) Content() []any {
	return append([]any(nil), e.content...)
}

// Attr returns the value stored for name.
func (e *Element) Attr(name string) (AttrValue, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// AttrNames returns attribute names in insertion order.
func (e *Element) AttrNames() []string {
	return append([]string(nil), e.attrNames...)
}

// SetAttr replaces the value of name.
func (e *Element) SetAttr(name string, v any) {
	name = normalizeAttrKey(name)
	if _, ok := e.attrs[name]; !ok {
		e.attrNames = append(e.attrNames, name)
	}
	e.attrs[name] = MakeAttr(v)
}

func (e *Element) AddAttributes(attrs Attrs) error {
	for _, k := range attrs.sortedKeys() {
		v := attrs[k]
		if v == nil {
			continue
		}
		key := normalizeAttrKey(k)
		if existing, ok := e.attrs[key]; ok {
			if err := existing.Extend(v); err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			continue
		}
		e.SetAttr(key, v)
	}
	return nil
}

func (e *Element) Append(child any) error {
	e.content = append(e.content, toContent(child)...)
	return nil
}

func (e *Element) Wrapped() bool { return false }

func (e *Element) HTML() string {
	var b strings.Builder
	b.WriteString("<" + e.Tag)
	for _, name := range e.attrNames {
		b.WriteString(" " + name + `="` + e.attrs[name].String() + `"`)
	}
	if e.SelfClosing && len(e.content) == 0 {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")
	for _, c := range e.content {
		switch v := c.(type) {
		case string:
			b.WriteString(v)
		case Node:
			b.WriteString(v.HTML())
		}
	}
	b.WriteString("</" + e.Tag + ">")
	return b.String()
}

func (e *Element) String() string { return e.HTML() }

// Wrapper is an element whose only job is to decorate another node. A
// wrapper never directly contains another wrapper.
type Wrapper struct {
	Element
}

// NewWrapper wraps content in tag ("div" when empty). It fails with
// ErrNestedWrapper when any child is already a wrapper.
func NewWrapper(tag string, content any, attrs Attrs) (*Wrapper, error) {
	if tag == "" {
		tag = "div"
	}
	children := toContent(content)
	if err := checkNotWrapped(children); err != nil {
		return nil, err
	}
	return &Wrapper{Element: *NewElement(tag, children, attrs)}, nil
}

// Wrap decorates n. An existing wrapper gets attrs merged and is returned
// as-is; anything else is placed inside a new wrapper of the given tag.
func Wrap(n Node, attrs Attrs, tag string) (Node, error) {
	if n.Wrapped() {
		if err := n.AddAttributes(attrs); err != nil {
			return nil, err
		}
		return n, nil
	}
	return NewWrapper(tag, n, attrs)
}

// Inner returns the wrapped nodes.
func (w *Wrapper) Inner() []Node {
	var out []Node
	for _, c := range w.content {
		if n, ok := c.(Node); ok {
			out = append(out, n)
		}
	}
	return out
}

func (w *Wrapper) Append(child any) error {
	children := toContent(child)
	if err := checkNotWrapped(children); err != nil {
		return err
	}
	w.content = append(w.content, children...)
	return nil
}

func (w *Wrapper) Wrapped() bool { return true }

func checkNotWrapped(children []any) error {
	for _, c := range children {
		if n, ok := c.(Node); ok && n.Wrapped() {
			return fmt.Errorf("%w: check if the element is already wrapped before re-wrapping", ErrNestedWrapper)
		}
	}
	return nil
}

// toContent flattens supported content values into a slice of string/Node.
func toContent(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []any{val}
	case Node:
		return []any{val}
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []Node:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case []*Element:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case []any:
		var out []any
		for _, item := range val {
			out = append(out, toContent(item)...)
		}
		return out
	default:
		return []any{fmt.Sprint(val)}
	}
}

// RawElement holds pre-rendered HTML, for handlers that embed rendered
// sub-documents. Attribute changes apply to every top-level element of the
// parsed tree; appended children go under the last top-level element.
type RawElement struct {
	frag *markup.Fragment
}

// NewRawElement parses content into a RawElement.
func NewRawElement(content string) (*RawElement, error) {
	frag, err := markup.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing raw element: %w", err)
	}
	return &RawElement{frag: frag}, nil
}

func (r *RawElement) HTML() string {
	// Rendering into a strings.Builder does not fail.
	s, _ := r.frag.Render()
	return s
}

func (r *RawElement) String() string { return r.HTML() }

func (r *RawElement) AddAttributes(attrs Attrs) error {
	for _, n := range r.frag.Elements() {
		for _, k := range attrs.sortedKeys() {
			v := attrs[k]
			if v == nil {
				continue
			}
			key := normalizeAttrKey(k)
			existing, ok := markup.Attr(n, key)
			if !ok {
				markup.SetAttr(n, key, MakeAttr(v).String())
				continue
			}
			current := parseAttr(key, existing)
			if err := current.Extend(v); err != nil {
				return fmt.Errorf("attribute %q: %w", key, err)
			}
			markup.SetAttr(n, key, current.String())
		}
	}
	return nil
}

func (r *RawElement) Append(child any) error {
	parent := r.frag.Root()
	if els := r.frag.Elements(); len(els) > 0 {
		parent = els[len(els)-1]
	}
	for _, c := range toContent(child) {
		var s string
		switch v := c.(type) {
		case string:
			s = v
		case Node:
			s = v.HTML()
		}
		frag, err := markup.Parse(s)
		if err != nil {
			return fmt.Errorf("parsing appended content: %w", err)
		}
		r.frag.AppendFragment(parent, frag)
	}
	return nil
}

func (r *RawElement) Wrapped() bool { return false }

// parseAttr turns a serialized attribute back into an AttrValue.
func parseAttr(key, value string) AttrValue {
	if key != "style" {
		return NewTokenList(value)
	}
	m := &StyleMap{vals: map[string]string{}}
	for _, decl := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		m.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return m
}
