package assets

import (
	"errors"
)

// Resolver tries a custom directory first and falls back to the built-in
// pages when a page is not found there.
type Resolver struct {
	custom   PageLoader // nil if no custom path configured
	embedded PageLoader
}

// NewResolver creates a Resolver. With an empty customBasePath only the
// built-in pages are used. Returns error if customBasePath is set but
// invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

func (r *Resolver) LoadPage(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadPage(name)
	}
	content, err := r.custom.LoadPage(name)
	if err == nil {
		return content, nil
	}
	// Only fall back for "not found", not validation or I/O errors
	if !errors.Is(err, ErrPageNotFound) {
		return "", err
	}
	return r.embedded.LoadPage(name)
}

// HasCustomLoader returns true if a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ PageLoader = (*Resolver)(nil)
