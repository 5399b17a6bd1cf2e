package assets

import (
	"fmt"
	"html/template"
)

// defaultLoader serves the built-in pages.
var defaultLoader = NewEmbeddedLoader()

// LoadPage loads a built-in page by name.
func LoadPage(name string) (string, error) {
	return defaultLoader.LoadPage(name)
}

// ParsePage loads name from loader and parses it as an html/template. The
// template receives .HTML and .Context.
func ParsePage(loader PageLoader, name string) (*template.Template, error) {
	content, err := loader.LoadPage(name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing page %q: %w", name, err)
	}
	return tmpl, nil
}
