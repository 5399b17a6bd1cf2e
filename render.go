package editorjs

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-editorjs/internal/markup"
	"github.com/alnah/go-editorjs/internal/sanitize"
)

// blockSeparator joins rendered blocks.
const blockSeparator = "\n"

// Render renders doc to HTML using the handlers named in tools.
//
// Blocks are rendered in order and decorated by their applicable tunes. The
// joined output is parsed once and every active inline handler rewrites it;
// bulk handlers see all of their matches at once. The result is then
// sanitized against the allowlist of the active handlers, unless disabled.
// Blocks of unknown type, and blocks a handler omits, are skipped. Handler
// errors are returned as-is, wrapped with the block they came from.
func (r *Registry) Render(ctx context.Context, tools []string, doc *Document, opts ...RenderOption) (string, error) {
	start := time.Now()
	defer r.metrics.observe(start)
	r.sealOnce.Do(r.Seal)

	var cfg renderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if doc == nil {
		doc = &Document{}
	}

	active, inline, err := r.snapshot(tools)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		n, err := r.renderBlock(ctx, active, b, cfg.rc)
		if err != nil {
			return "", err
		}
		if n == nil {
			continue
		}
		parts = append(parts, n.HTML())
	}
	out := strings.Join(parts, blockSeparator)

	if len(inline) > 0 {
		out, err = r.resolveInline(ctx, out, inline, cfg.rc)
		if err != nil {
			return "", err
		}
	}

	clean := r.clean
	if cfg.clean != nil {
		clean = *cfg.clean
	}
	if clean {
		handlers := make([]Handler, 0, len(active))
		for _, tool := range tools {
			handlers = append(handlers, active[tool])
		}
		allow := ComputeAllowlist(handlers, append([]Allowlist{r.extra}, cfg.extra...)...)
		out = sanitize.Clean(out, allow.Tags(), allow.Attrs())
	}

	if r.tmpl != nil {
		return r.present(out, cfg.rc)
	}
	return out, nil
}

type inlineTool struct {
	name string
	h    Handler
}

// snapshot returns the handlers for tools and the active inline handlers in
// registration order.
func (r *Registry) snapshot(tools []string) (map[string]Handler, []inlineTool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make(map[string]Handler, len(tools))
	for _, tool := range tools {
		h, ok := r.features[tool]
		if !ok {
			return nil, nil, &UnknownFeatureError{Name: tool}
		}
		active[tool] = h
	}
	var inline []inlineTool
	for _, name := range r.inline {
		if h, ok := active[name]; ok {
			inline = append(inline, inlineTool{name: name, h: h})
		}
	}
	return active, inline, nil
}

// renderBlock renders b and applies its tunes. It returns a nil Node when
// the block is skipped.
func (r *Registry) renderBlock(ctx context.Context, active map[string]Handler, b Block, rc *RenderContext) (Node, error) {
	br, ok := active[b.Type].(BlockRenderer)
	if !ok || active[b.Type].Kind() != KindFeature {
		r.log.Debug("skipping block of unknown type",
			zap.String("type", b.Type),
			zap.String("block", b.ID))
		r.metrics.blockSkipped(skipUnknown)
		return nil, nil
	}

	n, err := br.RenderBlock(ctx, b, rc)
	if err != nil {
		return nil, fmt.Errorf("rendering %s block %q: %w", b.Type, b.ID, err)
	}
	if n == nil {
		r.log.Debug("block omitted by its feature",
			zap.String("type", b.Type),
			zap.String("block", b.ID))
		r.metrics.blockSkipped(skipOmitted)
		return nil, nil
	}

	for _, tv := range b.Tunes {
		tuner, ok := active[tv.Name].(Tuner)
		if !ok || active[tv.Name].Kind() != KindTune || !r.isApplicable(b.Type, tv.Name) {
			continue
		}
		n, err = tuner.TuneElement(ctx, n, tv.Value, rc)
		if err != nil {
			return nil, fmt.Errorf("applying tune %q to block %q: %w", tv.Name, b.ID, err)
		}
		if n == nil {
			r.metrics.blockSkipped(skipOmitted)
			return nil, nil
		}
	}
	r.metrics.blockRendered(b.Type)
	return n, nil
}

func (r *Registry) isApplicable(tool, tune string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.applicable(tool, tune)
}

// resolveInline parses content once and runs every inline handler against
// the shared tree. Bulk handlers collect all of their matches before
// resolving anything.
func (r *Registry) resolveInline(ctx context.Context, content string, inline []inlineTool, rc *RenderContext) (string, error) {
	frag, err := markup.Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing rendered blocks: %w", err)
	}

	for _, it := range inline {
		name, h := it.name, it.h
		switch h.Kind() {
		case KindInline:
			res, ok := h.(InlineResolver)
			if !ok {
				continue
			}
			var resolveErr error
			frag.Walk(func(n *html.Node) bool {
				m, ok := res.Match(n)
				if !ok {
					return true
				}
				if err := res.ResolveMatch(ctx, m, rc); err != nil {
					resolveErr = fmt.Errorf("inline %q: %w", name, err)
					return false
				}
				return true
			})
			if resolveErr != nil {
				return "", resolveErr
			}

		case KindBulkInline:
			res, ok := h.(BulkInlineResolver)
			if !ok {
				continue
			}
			var matches []Match
			frag.Walk(func(n *html.Node) bool {
				if m, ok := res.Match(n); ok {
					matches = append(matches, m)
				}
				return true
			})
			if len(matches) == 0 {
				continue
			}
			r.log.Debug("resolving inline references",
				zap.String("tool", name),
				zap.Int("matches", len(matches)))
			if err := res.ResolveMatches(ctx, matches, rc); err != nil {
				return "", fmt.Errorf("inline %q: %w", name, err)
			}
			r.metrics.inlineBatch(name)
		}
	}

	out, err := frag.Render()
	if err != nil {
		return "", fmt.Errorf("rendering inline markup: %w", err)
	}
	return out, nil
}

func (r *Registry) present(content string, rc *RenderContext) (string, error) {
	var buf bytes.Buffer
	data := struct {
		HTML    template.HTML
		Context *RenderContext
	}{
		// #nosec G203 -- content is the rendered (and possibly sanitized) document
		HTML:    template.HTML(content),
		Context: rc,
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing presentation template: %w", err)
	}
	return buf.String(), nil
}
