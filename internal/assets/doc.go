// Package assets provides the page templates the command line tool wraps
// rendered documents in.
//
// # Loader Architecture
//
//	PageLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in pages compiled into the binary
//	    ├── FilesystemLoader  - pages from a directory on disk
//	    └── Resolver          - custom directory first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	└── pages/
//	    └── {name}.html
//
// # Security
//
// Page names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
