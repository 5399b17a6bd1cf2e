package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed pages/*.html
var pages embed.FS

// EmbeddedLoader loads the built-in pages.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) LoadPage(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := pages.ReadFile("pages/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}
	return string(content), nil
}

// Names lists the built-in pages in sorted order.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(pages, "pages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".html"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ PageLoader = (*EmbeddedLoader)(nil)
