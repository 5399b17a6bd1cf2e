package editorjs

import (
	"errors"
	"fmt"
	"html/template"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/copystructure"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// tunesKey is reserved in tool configs for the tune list.
const tunesKey = "tunes"

// Registry maps tool names to handlers. Build it at startup, register every
// handler, then render. The first render seals the registry; later
// registration fails with ErrRegistrySealed.
type Registry struct {
	mu            sync.RWMutex
	features      map[string]Handler
	order         []string // registration order
	inline        []string // inline-capable tools, registration order
	tunesForAll   []string
	tunesForTools map[string][]string
	sealed        bool
	sealOnce      sync.Once

	log        *zap.Logger
	metricsReg prometheus.Registerer
	metrics    *metrics
	clean      bool
	extra      Allowlist
	tmpl       *template.Template
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		features:      map[string]Handler{},
		tunesForTools: map[string][]string{},
		log:           zap.NewNop(),
		clean:         true,
		extra:         NewAllowlist(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metricsReg != nil {
		m, err := newMetrics(r.metricsReg)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		r.metrics = m
	}
	return r, nil
}

// Register adds h under name, replacing any handler with the same name.
// An empty name registers h under h.Name().
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		name = h.Name()
	}
	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, name)
	}
	if _, ok := r.features[name]; ok {
		r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
		r.inline = slices.DeleteFunc(r.inline, func(n string) bool { return n == name })
	}
	r.features[name] = h
	r.order = append(r.order, name)
	if k := h.Kind(); k == KindInline || k == KindBulkInline {
		r.inline = append(r.inline, name)
	}
	r.mu.Unlock()

	r.log.Debug("registered tool",
		zap.String("tool", name),
		zap.Stringer("kind", h.Kind()),
		zap.Int("weight", h.Weight()))

	if hook, ok := h.(RegistrationHook); ok {
		if err := hook.OnRegister(r); err != nil {
			return fmt.Errorf("registering %q: %w", name, err)
		}
	}
	return nil
}

// RegisterTune makes tune applicable to tool, or to every tool when tool is
// empty.
func (r *Registry) RegisterTune(tune, tool string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register tune %q", ErrRegistrySealed, tune)
	}
	h, ok := r.features[tune]
	if !ok {
		return &UnknownFeatureError{Name: tune}
	}
	if h.Kind() != KindTune {
		return fmt.Errorf("%w: %q", ErrNotATune, tune)
	}
	if tool == "" {
		if !slices.Contains(r.tunesForAll, tune) {
			r.tunesForAll = append(r.tunesForAll, tune)
		}
		return nil
	}
	if _, ok := r.features[tool]; !ok {
		return &UnknownFeatureError{Name: tool}
	}
	if !slices.Contains(r.tunesForTools[tool], tune) {
		r.tunesForTools[tool] = append(r.tunesForTools[tool], tune)
	}
	return nil
}

// RestrictTune replaces the applicability of tune with tools. A tune
// restricted to no tools applies nowhere.
func (r *Registry) RestrictTune(tune string, tools ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot restrict tune %q", ErrRegistrySealed, tune)
	}
	h, ok := r.features[tune]
	if !ok {
		return &UnknownFeatureError{Name: tune}
	}
	if h.Kind() != KindTune {
		return fmt.Errorf("%w: %q", ErrNotATune, tune)
	}
	for _, tool := range tools {
		if _, ok := r.features[tool]; !ok {
			return &UnknownFeatureError{Name: tool}
		}
	}
	r.tunesForAll = slices.DeleteFunc(r.tunesForAll, func(n string) bool { return n == tune })
	for tool, tunes := range r.tunesForTools {
		r.tunesForTools[tool] = slices.DeleteFunc(tunes, func(n string) bool { return n == tune })
	}
	for _, tool := range tools {
		if !slices.Contains(r.tunesForTools[tool], tune) {
			r.tunesForTools[tool] = append(r.tunesForTools[tool], tune)
		}
	}
	return nil
}

type configUpdater interface {
	UpdateConfig(cfg map[string]any)
}

// RegisterConfig merges cfg into the editor config of tool.
func (r *Registry) RegisterConfig(tool string, cfg map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot configure %q", ErrRegistrySealed, tool)
	}
	h, ok := r.features[tool]
	if !ok {
		return &UnknownFeatureError{Name: tool}
	}
	u, ok := h.(configUpdater)
	if !ok {
		return fmt.Errorf("tool %q does not accept configuration", tool)
	}
	u.UpdateConfig(cfg)
	return nil
}

// Seal stops further registration. Render seals automatically.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Handler returns the handler registered under name.
func (r *Registry) Handler(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.features[name]
	return h, ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// InlineTools returns the names of inline-capable tools in registration
// order.
func (r *Registry) InlineTools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.inline)
}

// TunesFor returns the tunes applicable to tool: global tunes first, then
// the tool's own.
func (r *Registry) TunesFor(tool string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.tunesForAll)
	for _, t := range r.tunesForTools[tool] {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) applicable(tool, tune string) bool {
	return slices.Contains(r.tunesForAll, tune) || slices.Contains(r.tunesForTools[tool], tune)
}

// EditorConfig is the client-side editor configuration.
type EditorConfig struct {
	Tools map[string]map[string]any `json:"tools" yaml:"tools"`
	Tunes []string                  `json:"tunes,omitempty" yaml:"tunes,omitempty"`
}

// BuildConfig returns the editor configuration for tools. Each tool config
// is a deep copy; its applicable tunes go under "tunes". Global tunes are
// listed at the top level, restricted to the requested tools.
func (r *Registry) BuildConfig(tools []string, rc *RenderContext) (*EditorConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &EditorConfig{Tools: make(map[string]map[string]any, len(tools))}
	for _, tool := range tools {
		h, ok := r.features[tool]
		if !ok {
			return nil, &UnknownFeatureError{Name: tool}
		}
		cfg, err := h.Config(rc)
		if err != nil {
			return nil, fmt.Errorf("config for %q: %w", tool, err)
		}
		if cfg == nil {
			continue
		}
		copied, err := copystructure.Copy(cfg)
		if err != nil {
			return nil, fmt.Errorf("copying config for %q: %w", tool, err)
		}
		cfg = copied.(map[string]any)
		if _, ok := cfg[tunesKey]; ok {
			return nil, fmt.Errorf("%w: %q", ErrTunesKeyCollision, tool)
		}
		if tunes := r.tunesForTools[tool]; len(tunes) > 0 {
			cfg[tunesKey] = slices.Clone(tunes)
		}
		out.Tools[tool] = cfg
	}
	for _, t := range r.tunesForAll {
		if slices.Contains(tools, t) {
			out.Tunes = append(out.Tunes, t)
		}
	}
	return out, nil
}

// ToDocument converts doc for tools: blocks of an active type are upgraded
// by their feature; other blocks are kept as decoded. A document already
// converted for the same tools is returned unchanged.
func (r *Registry) ToDocument(tools []string, doc *Document) (*Document, error) {
	if doc == nil {
		doc = &Document{}
	}
	if doc.reg == r && slices.Equal(doc.tools, tools) {
		return doc, nil
	}

	r.mu.RLock()
	features := make(map[string]Handler, len(tools))
	for _, tool := range tools {
		h, ok := r.features[tool]
		if !ok {
			r.mu.RUnlock()
			return nil, &UnknownFeatureError{Name: tool}
		}
		features[tool] = h
	}
	r.mu.RUnlock()

	for i, b := range doc.Blocks {
		h, ok := features[b.Type]
		if !ok || b.typed {
			continue
		}
		typed, err := createBlock(h, tools, b)
		if err != nil {
			return nil, withBlock(err, b.Type, b.ID)
		}
		doc.Blocks[i] = typed
	}
	doc.reg = r
	doc.tools = slices.Clone(tools)
	return doc, nil
}

// Decode parses p and converts it for tools.
func (r *Registry) Decode(tools []string, p []byte) (*Document, error) {
	doc, err := ParseDocument(p)
	if err != nil {
		return nil, err
	}
	return r.ToDocument(tools, doc)
}

func createBlock(h Handler, tools []string, b Block) (Block, error) {
	if f, ok := h.(BlockFactory); ok {
		nb, err := f.CreateBlock(tools, b)
		if err != nil {
			return Block{}, err
		}
		b = nb
	}
	b.typed = true
	return b, nil
}

// PrepareValue returns a copy of doc fit for storage: blocks of inactive
// types are dropped, and so are tune entries that are inactive or not
// applicable to their block's tool. Kept tune values are unchanged.
func (r *Registry) PrepareValue(tools []string, doc *Document) *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := &Document{Time: doc.Time, Version: doc.Version, reg: doc.reg, tools: doc.tools}
	out.Blocks = make([]Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if !slices.Contains(tools, b.Type) {
			continue
		}
		b.Tunes = b.Tunes.Filter(func(name string) bool {
			return slices.Contains(tools, name) && r.applicable(b.Type, name)
		})
		out.Blocks = append(out.Blocks, b)
	}
	return out
}

// ValidateForTools validates every block against its feature and every
// tune value against its tune. All failures are returned together; each is
// a *ValidationError naming the tool and block. An unknown tool fails
// immediately with *UnknownFeatureError.
func (r *Registry) ValidateForTools(tools []string, doc *Document) error {
	r.mu.RLock()
	handlers := make([]Handler, 0, len(tools))
	for _, tool := range tools {
		h, ok := r.features[tool]
		if !ok {
			r.mu.RUnlock()
			return &UnknownFeatureError{Name: tool}
		}
		handlers = append(handlers, h)
	}
	r.mu.RUnlock()

	var errs error
	for i, tool := range tools {
		h := handlers[i]
		for _, b := range doc.Blocks {
			if h.Kind() == KindTune {
				v, ok := b.Tunes.Get(tool)
				if !ok || isEmptyValue(v) {
					continue
				}
				if err := h.Validate(v); err != nil {
					errs = multierr.Append(errs, withBlock(err, tool, b.ID))
				}
				continue
			}
			if b.Type != tool {
				continue
			}
			if err := h.Validate(b); err != nil {
				errs = multierr.Append(errs, withBlock(err, tool, b.ID))
			}
		}
	}
	return errs
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}

// ByWeight returns the handlers for tools ordered by ascending weight.
// Equal weights keep registration order.
func (r *Registry) ByWeight(tools []string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Handler
	for _, name := range r.order {
		if slices.Contains(tools, name) {
			out = append(out, r.features[name])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight() < out[j].Weight()
	})
	return out
}

// Assets returns the scripts and stylesheets of tools in load order, each
// listed once.
func (r *Registry) Assets(tools []string) (js, css []string) {
	seenJS := map[string]bool{}
	seenCSS := map[string]bool{}
	for _, h := range r.ByWeight(tools) {
		for _, s := range h.JS() {
			if !seenJS[s] {
				seenJS[s] = true
				js = append(js, s)
			}
		}
		for _, s := range h.CSS() {
			if !seenCSS[s] {
				seenCSS[s] = true
				css = append(css, s)
			}
		}
	}
	return js, css
}

// RenderTemplates renders the include template of every tool that has one,
// in load order.
func (r *Registry) RenderTemplates(tools []string, rc *RenderContext) (template.HTML, error) {
	var b strings.Builder
	for _, h := range r.ByWeight(tools) {
		tr, ok := h.(TemplateRenderer)
		if !ok {
			continue
		}
		out, err := tr.RenderTemplate(rc)
		if errors.Is(err, ErrTemplateNotSpecified) {
			continue
		}
		if err != nil {
			return "", err
		}
		b.WriteString(string(out))
	}
	// #nosec G203 -- concatenation of html/template output
	return template.HTML(b.String()), nil
}
