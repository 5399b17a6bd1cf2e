package editorjs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/net/html"
)

// Kind tags the closed set of handler variants the registry dispatches on.
type Kind int

const (
	KindFeature    Kind = iota // renders blocks
	KindTune                   // decorates rendered blocks
	KindInline                 // rewrites inline markup, one match at a time
	KindBulkInline             // rewrites inline markup with one batch lookup
	KindJavascript             // client-side only, contributes assets and allowlist
)

func (k Kind) String() string {
	switch k {
	case KindFeature:
		return "feature"
	case KindTune:
		return "tune"
	case KindInline:
		return "inline"
	case KindBulkInline:
		return "bulk-inline"
	case KindJavascript:
		return "javascript"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Handler is the capability every registered tool exposes.
type Handler interface {
	Name() string
	Kind() Kind
	// Weight orders asset loading; lower loads first.
	Weight() int
	Allowlist() Allowlist
	// Validate checks a block (features, inline tools) or a tune value
	// (tunes). Failures are *ValidationError.
	Validate(v any) error
	// Config returns the editor configuration for the tool. A nil map means
	// the tool has no editor entry.
	Config(rc *RenderContext) (map[string]any, error)
	JS() []string
	CSS() []string
}

// BlockRenderer renders one block. A nil Node omits the block.
type BlockRenderer interface {
	Handler
	RenderBlock(ctx context.Context, b Block, rc *RenderContext) (Node, error)
}

// Tuner decorates an already rendered block.
type Tuner interface {
	Handler
	TuneElement(ctx context.Context, n Node, value any, rc *RenderContext) (Node, error)
}

// Match is an element selected by an inline handler with the attributes it
// extracted.
type Match struct {
	Node  *html.Node
	Attrs map[string]string
}

// Matcher selects inline elements in the assembled document.
type Matcher interface {
	Match(n *html.Node) (Match, bool)
}

// InlineResolver rewrites each match as soon as it is found.
type InlineResolver interface {
	Handler
	Matcher
	ResolveMatch(ctx context.Context, m Match, rc *RenderContext) error
}

// BulkInlineResolver receives every match of the document at once and
// resolves them with a single lookup.
type BulkInlineResolver interface {
	Handler
	Matcher
	ResolveMatches(ctx context.Context, ms []Match, rc *RenderContext) error
}

// BlockFactory upgrades a decoded block when it is converted or inserted.
type BlockFactory interface {
	CreateBlock(tools []string, b Block) (Block, error)
}

// RegistrationHook is called after the handler is registered.
type RegistrationHook interface {
	OnRegister(r *Registry) error
}

// TemplateRenderer renders a handler's optional include template.
type TemplateRenderer interface {
	RenderTemplate(rc *RenderContext) (template.HTML, error)
}

// BlockTestData provides example data payloads for round-trip checks.
type BlockTestData interface {
	TestData() []map[string]any
}

// FragmentPair is an inline input fragment and its expected rewrite.
type FragmentPair struct {
	Input    string
	Expected string
}

// InlineTestData provides fragment pairs for inline handlers.
type InlineTestData interface {
	TestFragments() []FragmentPair
}

// ToolOptions configures the shared part of every handler.
type ToolOptions struct {
	Class  string         // client-side class name
	JS     []string       // scripts, in load order
	CSS    []string       // stylesheets
	Config map[string]any // nested under "config" in the editor config
	Extra  map[string]any // merged at the top level, e.g. inlineToolbar
	Weight int

	Template *template.Template // optional include template

	AllowedTags       []string
	AllowedAttributes map[string][]string
}

// Tool is the shared state embedded by every handler.
type Tool struct {
	name  string
	kind  Kind
	opts  ToolOptions
	allow Allowlist
}

// NewTool builds the shared handler state, merging the handler type's
// allowlist defaults with the instance's.
func NewTool(name string, kind Kind, opts ToolOptions, defaults AllowDefaults) (Tool, error) {
	allow, err := MergeAllowlist(defaults, opts.AllowedTags, opts.AllowedAttributes)
	if err != nil {
		return Tool{}, fmt.Errorf("tool %q: %w", name, err)
	}
	if opts.Config == nil {
		opts.Config = map[string]any{}
	}
	return Tool{name: name, kind: kind, opts: opts, allow: allow}, nil
}

func (t *Tool) Name() string         { return t.name }
func (t *Tool) Kind() Kind           { return t.kind }
func (t *Tool) Weight() int          { return t.opts.Weight }
func (t *Tool) Allowlist() Allowlist { return t.allow }
func (t *Tool) JS() []string         { return append([]string(nil), t.opts.JS...) }
func (t *Tool) CSS() []string        { return append([]string(nil), t.opts.CSS...) }

// Validate accepts anything; handlers add their own checks.
func (t *Tool) Validate(any) error { return nil }

// Config returns {"class": ..., "config": ..., extra...}.
func (t *Tool) Config(*RenderContext) (map[string]any, error) {
	cfg := map[string]any{"class": t.opts.Class}
	if len(t.opts.Config) > 0 {
		cfg["config"] = t.opts.Config
	}
	for k, v := range t.opts.Extra {
		cfg[k] = v
	}
	return cfg, nil
}

// UpdateConfig merges cfg into the tool's "config" entry.
func (t *Tool) UpdateConfig(cfg map[string]any) {
	if t.opts.Config == nil {
		t.opts.Config = map[string]any{}
	}
	for k, v := range cfg {
		t.opts.Config[k] = v
	}
}

// RenderTemplate executes the include template with the render context.
func (t *Tool) RenderTemplate(rc *RenderContext) (template.HTML, error) {
	if t.opts.Template == nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotSpecified, t.name)
	}
	var buf bytes.Buffer
	data := struct {
		Tool    string
		Context *RenderContext
	}{Tool: t.name, Context: rc}
	if err := t.opts.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering template for %q: %w", t.name, err)
	}
	// #nosec G203 -- output of html/template is already escaped
	return template.HTML(buf.String()), nil
}

// Feature is the base block feature. Its Validate only requires a data
// payload; concrete features call it first and add their own checks. Its
// RenderBlock renders data.text as a paragraph.
type Feature struct {
	Tool
}

// NewFeature returns a block feature.
func NewFeature(name string, opts ToolOptions, defaults AllowDefaults) (*Feature, error) {
	t, err := NewTool(name, KindFeature, opts, defaults)
	if err != nil {
		return nil, err
	}
	return &Feature{Tool: t}, nil
}

func (f *Feature) Validate(v any) error {
	b, ok := AsBlock(v)
	if !ok {
		return &ValidationError{Tool: f.name, Reason: fmt.Sprintf("unexpected value %T", v)}
	}
	if b.Data == nil {
		return Invalid("data", "missing data payload")
	}
	return nil
}

func (f *Feature) RenderBlock(_ context.Context, b Block, _ *RenderContext) (Node, error) {
	return NewElement("p", b.Data.String("text"), nil), nil
}

func (f *Feature) TestData() []map[string]any {
	return []map[string]any{{"text": "Hello, world!"}}
}

// Tune is the base tune. Its TuneElement returns the node unchanged.
type Tune struct {
	Tool
}

// NewTune returns a tune.
func NewTune(name string, opts ToolOptions, defaults AllowDefaults) (*Tune, error) {
	t, err := NewTool(name, KindTune, opts, defaults)
	if err != nil {
		return nil, err
	}
	return &Tune{Tool: t}, nil
}

func (t *Tune) TuneElement(_ context.Context, n Node, _ any, _ *RenderContext) (Node, error) {
	return n, nil
}

// JavascriptFeature only ships client-side assets. It has no editor config
// entry and renders nothing on its own.
type JavascriptFeature struct {
	Tool
}

// NewJavascriptFeature returns a client-side only tool.
func NewJavascriptFeature(name string, opts ToolOptions, defaults AllowDefaults) (*JavascriptFeature, error) {
	t, err := NewTool(name, KindJavascript, opts, defaults)
	if err != nil {
		return nil, err
	}
	return &JavascriptFeature{Tool: t}, nil
}

func (j *JavascriptFeature) Config(*RenderContext) (map[string]any, error) {
	return nil, nil
}

// Compile-time interface implementation checks.
var (
	_ BlockRenderer    = (*Feature)(nil)
	_ Tuner            = (*Tune)(nil)
	_ Handler          = (*JavascriptFeature)(nil)
	_ TemplateRenderer = (*Tool)(nil)
)

// AsBlock returns the block held by a Validate argument.
func AsBlock(v any) (Block, bool) {
	switch b := v.(type) {
	case Block:
		return b, true
	case *Block:
		if b == nil {
			return Block{}, false
		}
		return *b, true
	}
	return Block{}, false
}
