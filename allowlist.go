package editorjs

import (
	"fmt"
	"sort"
)

// AnyTag is the allowlist key for attributes allowed on every tag.
const AnyTag = "*"

// baseInlineTags are always allowed, without attributes.
var baseInlineTags = []string{"i", "b", "strong", "em", "u", "s", "strike"}

// AllowDefaults is the allowlist a handler type declares for itself. Attrs
// is keyed by tag (or AnyTag). TagAttrs lists attributes allowed on every
// entry of Tags and requires Tags to be non-empty.
type AllowDefaults struct {
	Tags     []string
	Attrs    map[string][]string
	TagAttrs []string
}

// Allowlist is a set of allowed tags and, per tag, allowed attributes.
type Allowlist struct {
	tags  map[string]struct{}
	attrs map[string]map[string]struct{}
}

// NewAllowlist returns an empty allowlist.
func NewAllowlist() Allowlist {
	return Allowlist{
		tags:  map[string]struct{}{},
		attrs: map[string]map[string]struct{}{},
	}
}

// AddTags allows tags.
func (a *Allowlist) AddTags(tags ...string) {
	if a.tags == nil {
		a.tags = map[string]struct{}{}
	}
	for _, t := range tags {
		a.tags[t] = struct{}{}
	}
}

// AddAttrs allows names on tag (or on every tag for AnyTag).
func (a *Allowlist) AddAttrs(tag string, names ...string) {
	if a.attrs == nil {
		a.attrs = map[string]map[string]struct{}{}
	}
	set, ok := a.attrs[tag]
	if !ok {
		set = map[string]struct{}{}
		a.attrs[tag] = set
	}
	for _, n := range names {
		set[n] = struct{}{}
	}
}

// Merge adds everything allowed by b.
func (a *Allowlist) Merge(b Allowlist) {
	for t := range b.tags {
		a.AddTags(t)
	}
	for tag, names := range b.attrs {
		for n := range names {
			a.AddAttrs(tag, n)
		}
	}
}

// Tags returns the allowed tags, sorted.
func (a Allowlist) Tags() []string {
	out := make([]string, 0, len(a.tags))
	for t := range a.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Attrs returns allowed attributes per tag, each list sorted.
func (a Allowlist) Attrs() map[string][]string {
	out := make(map[string][]string, len(a.attrs))
	for tag, names := range a.attrs {
		list := make([]string, 0, len(names))
		for n := range names {
			list = append(list, n)
		}
		sort.Strings(list)
		out[tag] = list
	}
	return out
}

// AllowsTag reports whether tag is allowed.
func (a Allowlist) AllowsTag(tag string) bool {
	_, ok := a.tags[tag]
	return ok
}

// AllowsAttr reports whether name is allowed on tag, directly or through
// AnyTag.
func (a Allowlist) AllowsAttr(tag, name string) bool {
	if _, ok := a.attrs[tag][name]; ok {
		return true
	}
	_, ok := a.attrs[AnyTag][name]
	return ok
}

// MergeAllowlist combines a handler type's defaults with per-instance tags
// and attributes. The result is always a union.
func MergeAllowlist(defaults AllowDefaults, tags []string, attrs map[string][]string) (Allowlist, error) {
	if len(defaults.TagAttrs) > 0 && len(defaults.Tags) == 0 {
		return Allowlist{}, fmt.Errorf("%w: attributes given as a list without allowed tags", ErrInvalidAllowlist)
	}

	a := NewAllowlist()
	a.AddTags(tags...)
	a.AddTags(defaults.Tags...)
	for tag, names := range attrs {
		a.AddAttrs(tag, names...)
	}
	for tag, names := range defaults.Attrs {
		a.AddAttrs(tag, names...)
	}
	for _, tag := range defaults.Tags {
		if len(defaults.TagAttrs) > 0 {
			a.AddAttrs(tag, defaults.TagAttrs...)
		}
	}
	return a, nil
}

// ComputeAllowlist returns the union of every handler's allowlist and the
// extra lists, seeded with basic inline formatting tags.
func ComputeAllowlist(handlers []Handler, extra ...Allowlist) Allowlist {
	a := NewAllowlist()
	a.AddTags(baseInlineTags...)
	for _, h := range handlers {
		a.Merge(h.Allowlist())
	}
	for _, e := range extra {
		a.Merge(e)
	}
	return a
}
