package assets

import "errors"

// Sentinel errors for page loading.
var (
	// ErrPageNotFound indicates the requested page template does not exist.
	ErrPageNotFound = errors.New("page template not found")

	// ErrInvalidAssetName indicates the name contains path separators, dots
	// or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a readable
	// directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error while reading a page.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to read outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
