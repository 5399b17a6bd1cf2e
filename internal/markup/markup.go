package markup

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a parsed HTML fragment held under a synthetic document root.
type Fragment struct {
	root *html.Node
}

// Parse parses an HTML fragment in a <body> context so the parser does not
// add <html>/<head>/<body> wrappers around the content.
func Parse(content string) (*Fragment, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &Fragment{root: container}, nil
}

// Root returns the synthetic container node.
func (f *Fragment) Root() *html.Node {
	return f.root
}

// Children returns the top-level nodes of the fragment.
func (f *Fragment) Children() []*html.Node {
	var out []*html.Node
	for c := f.root.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Elements returns the top-level element nodes, skipping text and comments.
func (f *Fragment) Elements() []*html.Node {
	var out []*html.Node
	for c := f.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// AppendFragment moves every top-level node of other under parent.
// A nil parent appends to the fragment root.
func (f *Fragment) AppendFragment(parent *html.Node, other *Fragment) {
	if parent == nil {
		parent = f.root
	}
	for _, c := range other.Children() {
		other.root.RemoveChild(c)
		parent.AppendChild(c)
	}
}

// Render writes the fragment back to a string. Only the children of the
// synthetic root are rendered.
func (f *Fragment) Render() (string, error) {
	var buf strings.Builder
	for c := f.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Find returns every element below the root, in document order, for which
// match returns true.
func (f *Fragment) Find(match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(f.root)
	return out
}

// Walk calls fn for every element below the root in document order until
// fn returns false. Children are read after fn returns, so fn may change n
// and its attributes but must not detach it.
func (f *Fragment) Walk(fn func(*html.Node) bool) {
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && !fn(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(f.root)
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets key to val, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttrs drops every attribute of n.
func RemoveAttrs(n *html.Node) {
	n.Attr = nil
}

// Text returns the concatenated text content below n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Canonical renders content in a normalized form: attributes sorted by name,
// class tokens sorted, whitespace-only text dropped and text trimmed. Two
// fragments with the same tags, attributes and text produce the same string
// regardless of attribute order or formatting.
func Canonical(content string) (string, error) {
	frag, err := Parse(content)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range frag.Children() {
		writeCanonical(&b, c)
	}
	return b.String(), nil
}

func writeCanonical(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(html.EscapeString(t))
		}
	case html.ElementNode:
		attrs := make([]html.Attribute, len(n.Attr))
		copy(attrs, n.Attr)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

		b.WriteString("<" + n.Data)
		for _, a := range attrs {
			val := a.Val
			if a.Key == "class" {
				tokens := strings.Fields(val)
				sort.Strings(tokens)
				val = strings.Join(tokens, " ")
			}
			b.WriteString(" " + a.Key + `="` + html.EscapeString(val) + `"`)
		}
		b.WriteString(">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeCanonical(b, c)
		}
		b.WriteString("</" + n.Data + ">")
	}
}
