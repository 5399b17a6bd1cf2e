// Package markup wraps golang.org/x/net/html for the fragment-level work the
// renderer does after blocks are assembled: parsing a concatenated HTML blob
// into a mutable tree, finding elements by tag and attribute constraints,
// editing attributes in place and rendering the tree back to a string.
//
// Nodes returned by Find keep their identity until Render is called, so
// callers can collect matches first and mutate them later.
package markup
