package editorjs

import (
	"fmt"
	"sort"
	"strings"
)

// AttrValue is an element attribute value that accumulates on Extend.
type AttrValue interface {
	fmt.Stringer
	// Extend appends or merges v into the value. Prior values are kept.
	Extend(v any) error
	Clone() AttrValue
}

// Attrs maps attribute names to raw values. A value may be a string, a
// []string, Styles, map[string]string or an AttrValue. Keys are applied in
// sorted order so the resulting element serializes deterministically.
type Attrs map[string]any

// Styles is a key:value attribute value such as style.
type Styles map[string]string

// TokenList is a space-joined attribute value such as class.
type TokenList struct {
	tokens []string
}

// NewTokenList returns a TokenList holding tokens.
func NewTokenList(tokens ...string) *TokenList {
	return &TokenList{tokens: append([]string(nil), tokens...)}
}

func (t *TokenList) String() string {
	return strings.Join(t.tokens, " ")
}

// Tokens returns the stored tokens in insertion order.
func (t *TokenList) Tokens() []string {
	return append([]string(nil), t.tokens...)
}

// Contains reports whether token is present as a whole space-separated word.
func (t *TokenList) Contains(token string) bool {
	for _, item := range t.tokens {
		for _, f := range strings.Fields(item) {
			if f == token {
				return true
			}
		}
	}
	return false
}

func (t *TokenList) Extend(v any) error {
	switch val := v.(type) {
	case nil:
	case string:
		t.tokens = append(t.tokens, val)
	case []string:
		t.tokens = append(t.tokens, val...)
	case *TokenList:
		t.tokens = append(t.tokens, val.tokens...)
	case Styles, map[string]string, *StyleMap:
		return fmt.Errorf("%w: cannot extend token list with %T", ErrAttributeKind, v)
	default:
		t.tokens = append(t.tokens, fmt.Sprint(val))
	}
	return nil
}

func (t *TokenList) Clone() AttrValue {
	return NewTokenList(t.tokens...)
}

// StyleMap is a semicolon-joined list of "key: value" pairs. Insertion order
// is kept; extending an existing key updates it in place.
type StyleMap struct {
	keys []string
	vals map[string]string
}

// NewStyleMap returns a StyleMap from s with keys in sorted order.
func NewStyleMap(s map[string]string) *StyleMap {
	m := &StyleMap{vals: make(map[string]string, len(s))}
	m.merge(s)
	return m
}

func (m *StyleMap) merge(s map[string]string) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, s[k])
	}
}

// Set stores key, keeping its original position when already present.
func (m *StyleMap) Set(key, value string) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Get returns the value stored for key.
func (m *StyleMap) Get(key string) (string, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *StyleMap) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		parts = append(parts, k+": "+m.vals[k])
	}
	return strings.Join(parts, ";")
}

func (m *StyleMap) Extend(v any) error {
	switch val := v.(type) {
	case nil:
	case Styles:
		m.merge(val)
	case map[string]string:
		m.merge(val)
	case *StyleMap:
		for _, k := range val.keys {
			m.Set(k, val.vals[k])
		}
	default:
		return fmt.Errorf("%w: style value must be a map, got %T", ErrAttributeKind, v)
	}
	return nil
}

func (m *StyleMap) Clone() AttrValue {
	c := &StyleMap{vals: make(map[string]string, len(m.vals))}
	for _, k := range m.keys {
		c.Set(k, m.vals[k])
	}
	return c
}

// MakeAttr converts a raw value into an AttrValue. Maps become a StyleMap;
// everything else becomes a TokenList. An AttrValue is cloned so elements
// never share one.
func MakeAttr(v any) AttrValue {
	switch val := v.(type) {
	case AttrValue:
		return val.Clone()
	case Styles:
		return NewStyleMap(val)
	case map[string]string:
		return NewStyleMap(val)
	case []string:
		return NewTokenList(val...)
	case string:
		return NewTokenList(val)
	default:
		return NewTokenList(fmt.Sprint(val))
	}
}

// normalizeAttrKey strips the trailing underscore used for reserved words
// such as class_.
func normalizeAttrKey(key string) string {
	return strings.TrimSuffix(key, "_")
}

// sortedKeys returns the keys of attrs in sorted order.
func (a Attrs) sortedKeys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
