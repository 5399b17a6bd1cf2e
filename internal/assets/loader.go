package assets

// PageLoader loads page templates by name.
type PageLoader interface {
	// LoadPage loads a page by name (without .html extension).
	// Returns ErrPageNotFound if the page doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPage(name string) (string, error)
}

// DefaultPageName is the built-in full HTML page.
const DefaultPageName = "standalone"
