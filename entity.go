package editorjs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
)

// Entity kinds resolved by the built-in handlers.
const (
	EntityPage     = "page"
	EntityDocument = "document"
	EntityImage    = "image"
)

// Entity is a record referenced from a document: a page, a document file or
// an image.
type Entity struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	// URL is the canonical URL, absolute or relative to the site root.
	URL  string `json:"url" yaml:"url"`
	Size int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Alt  string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// EntityStore resolves references from blocks and inline markup. Timeouts and
// retries belong to the implementation.
type EntityStore interface {
	// ResolveMany returns the entities of kind found among ids. Missing ids
	// are absent from the map.
	ResolveMany(ctx context.Context, kind string, ids []string) (map[string]Entity, error)
	// ResolveOne returns ErrEntityNotFound when id does not exist.
	ResolveOne(ctx context.Context, kind, id string) (Entity, error)
}

// EntityLister is implemented by stores that can enumerate entities. Inline
// handlers use it to build their self-test fragments.
type EntityLister interface {
	List(ctx context.Context, kind string, limit int) ([]Entity, error)
}

// MemoryStore is an in-memory EntityStore. It records every call so batch
// behavior can be asserted. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	entities map[string]map[string]Entity
	many     map[string][][]string
	one      map[string]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: map[string]map[string]Entity{},
		many:     map[string][][]string{},
		one:      map[string]int{},
	}
}

// Add stores entities under kind, replacing any with the same ID.
func (s *MemoryStore) Add(kind string, entities ...Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[kind]
	if !ok {
		m = map[string]Entity{}
		s.entities[kind] = m
	}
	for _, e := range entities {
		m[e.ID] = e
	}
}

func (s *MemoryStore) ResolveMany(ctx context.Context, kind string, ids []string) (map[string]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.many[kind] = append(s.many[kind], append([]string(nil), ids...))
	out := make(map[string]Entity, len(ids))
	for _, id := range ids {
		if e, ok := s.entities[kind][id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (s *MemoryStore) ResolveOne(ctx context.Context, kind, id string) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.one[kind]++
	e, ok := s.entities[kind][id]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %s %q", ErrEntityNotFound, kind, id)
	}
	return e, nil
}

// List returns up to limit entities of kind ordered by ID. A limit of zero
// or less returns all of them.
func (s *MemoryStore) List(ctx context.Context, kind string, limit int) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entity, 0, len(s.entities[kind]))
	for _, e := range s.entities[kind] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// BatchCalls returns the id lists passed to ResolveMany for kind, in call
// order.
func (s *MemoryStore) BatchCalls(kind string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.many[kind]))
	copy(out, s.many[kind])
	return out
}

// SingleCalls returns how many times ResolveOne was called for kind.
func (s *MemoryStore) SingleCalls(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.one[kind]
}

// Kinds returns the stored entity kinds, sorted.
func (s *MemoryStore) Kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entities))
	for k := range s.entities {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RenderContext carries request-scoped data into handlers. A nil
// *RenderContext is valid and means "no request".
type RenderContext struct {
	// BaseURL makes relative entity URLs absolute when set.
	BaseURL *url.URL
	// WidgetID is the DOM id of the editor widget, if rendering for one.
	WidgetID string
	Values   map[string]any
}

// NewRequestContext derives a RenderContext from an incoming request,
// honoring X-Forwarded-Proto and X-Forwarded-Host.
func NewRequestContext(r *http.Request) *RenderContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	host := r.Host
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		host = h
	}
	return &RenderContext{BaseURL: &url.URL{Scheme: scheme, Host: host, Path: "/"}}
}

// AbsoluteURL resolves ref against BaseURL. Without a base, or when ref
// does not parse, ref is returned unchanged.
func (rc *RenderContext) AbsoluteURL(ref string) string {
	if rc == nil || rc.BaseURL == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return rc.BaseURL.ResolveReference(u).String()
}

// EntityURL returns the URL to emit for e.
func (rc *RenderContext) EntityURL(e Entity) string {
	return rc.AbsoluteURL(e.URL)
}

// Value returns a request value, or nil.
func (rc *RenderContext) Value(key string) any {
	if rc == nil {
		return nil
	}
	return rc.Values[key]
}

// Compile-time interface implementation checks.
var (
	_ EntityStore  = (*MemoryStore)(nil)
	_ EntityLister = (*MemoryStore)(nil)
)
