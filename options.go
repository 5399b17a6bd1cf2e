package editorjs

import (
	"html/template"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l == nil {
			l = zap.NewNop()
		}
		r.log = l
	}
}

// WithMetrics registers render metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.metricsReg = reg
	}
}

// WithCleanDefault sets whether Render sanitizes when the call does not
// say. Sanitizing is on by default.
func WithCleanDefault(on bool) Option {
	return func(r *Registry) {
		r.clean = on
	}
}

// WithAllowlist adds tags and attributes allowed on every render.
func WithAllowlist(a Allowlist) Option {
	return func(r *Registry) {
		r.extra.Merge(a)
	}
}

// WithTemplate sets the presentation template the final HTML is wrapped
// in. The template receives .HTML and .Context.
func WithTemplate(t *template.Template) Option {
	return func(r *Registry) {
		r.tmpl = t
	}
}

// RenderOption configures one Render call.
type RenderOption func(*renderConfig)

type renderConfig struct {
	clean *bool
	rc    *RenderContext
	extra []Allowlist
}

// Clean forces sanitizing on or off for this call.
func Clean(on bool) RenderOption {
	return func(c *renderConfig) {
		c.clean = &on
	}
}

// WithRenderContext passes request data to handlers.
func WithRenderContext(rc *RenderContext) RenderOption {
	return func(c *renderConfig) {
		c.rc = rc
	}
}

// WithExtraAllowlist allows additional tags and attributes for this call.
func WithExtraAllowlist(a Allowlist) RenderOption {
	return func(c *renderConfig) {
		c.extra = append(c.extra, a)
	}
}
