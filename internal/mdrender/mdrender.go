// Package mdrender renders Markdown blocks and highlights code blocks.
package mdrender

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrConversion indicates Markdown conversion failed.
var ErrConversion = errors.New("markdown conversion failed")

// Markdown converts Markdown to an HTML fragment.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a Markdown converter with GFM extensions. Fenced code
// is highlighted with CSS classes when highlight is set.
func NewMarkdown(highlight bool) *Markdown {
	exts := []goldmark.Extender{
		extension.GFM, // Tables, strikethrough, autolinks, task lists
	}
	if highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
			// Raw HTML is omitted; WithUnsafe is not used.
		),
	)
	return &Markdown{md: md}
}

// Render converts content to an HTML fragment. Goldmark does not take a
// context, so conversion runs in a goroutine and is abandoned on
// cancellation.
func (m *Markdown) Render(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := m.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
