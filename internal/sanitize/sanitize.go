// Package sanitize builds bluemonday policies from a computed allowlist and
// cleans rendered HTML with them.
package sanitize

import (
	"sort"

	"github.com/microcosm-cc/bluemonday"
)

// Wildcard is the attribute key that applies to every allowed tag.
const Wildcard = "*"

// Policy returns a bluemonday policy that keeps exactly the given tags and,
// per tag, the given attributes. Attributes under Wildcard are allowed on any
// allowed tag. Elements may appear without attributes.
//
// No style policies are registered, so an allowed style attribute passes
// through with its value unchanged. URL attributes must parse and be either
// relative or use mailto, http or https.
func Policy(tags []string, attrs map[string][]string) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("mailto", "http", "https")

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	if len(sorted) > 0 {
		p.AllowElements(sorted...)
		p.AllowNoAttrs().OnElements(sorted...)
	}

	allowed := make(map[string]struct{}, len(sorted))
	for _, t := range sorted {
		allowed[t] = struct{}{}
	}

	for tag, names := range attrs {
		if len(names) == 0 {
			continue
		}
		if tag == Wildcard {
			p.AllowAttrs(names...).Globally()
			continue
		}
		// bluemonday treats any element with an attribute policy as allowed,
		// so attributes for tags outside the tag set are ignored here.
		if _, ok := allowed[tag]; !ok {
			continue
		}
		p.AllowAttrs(names...).OnElements(tag)
	}
	return p
}

// Clean sanitizes content with a policy built from tags and attrs.
func Clean(content string, tags []string, attrs map[string][]string) string {
	return Policy(tags, attrs).Sanitize(content)
}
