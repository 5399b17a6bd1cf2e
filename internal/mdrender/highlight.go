package mdrender

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders source code as class-annotated HTML.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHighlighter returns a Highlighter using the named chroma style. Unknown
// styles fall back to chroma's default.
func NewHighlighter(style string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight returns code as a single <pre> element carrying the "chroma"
// class, with one class-annotated <span> per token. Unknown languages are
// rendered as plain text.
func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s code: %w", language, err)
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", fmt.Errorf("formatting %s code: %w", language, err)
	}
	return b.String(), nil
}

// Known reports whether language has a dedicated lexer.
func Known(language string) bool {
	return language != "" && lexers.Get(language) != nil
}
