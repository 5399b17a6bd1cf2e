package main

import (
	"context"
	"fmt"
	"html/template"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/features"
	"github.com/alnah/go-editorjs/internal/assets"
	"github.com/alnah/go-editorjs/internal/config"
	"github.com/alnah/go-editorjs/internal/fileutil"
	"github.com/alnah/go-editorjs/store/pgstore"
)

// session is a configured registry plus everything a command needs to use
// it. Call close when done.
type session struct {
	cfg     *config.Config
	reg     *editorjs.Registry
	tools   []string
	rc      *editorjs.RenderContext
	log     *zap.Logger
	metrics *prometheus.Registry
	closers []func() error
}

// sessionOptions are the command-specific registry settings.
type sessionOptions struct {
	template string
	metrics  bool
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeSourceFlags applies flags over cfg (CLI wins).
func mergeSourceFlags(f sourceFlags, cfg *config.Config) {
	if len(f.tools) > 0 {
		cfg.Tools = f.tools
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.entities != "" {
		cfg.Entities.File = f.entities
	}
	if f.databaseURL != "" {
		cfg.Entities.DatabaseURL = f.databaseURL
	}
}

// openSession loads config, merges flags and builds the registry.
func openSession(ctx context.Context, common commonFlags, source sourceFlags, opts sessionOptions, deps *Dependencies) (*session, error) {
	cfg, err := loadConfig(common.config)
	if err != nil {
		return nil, err
	}
	mergeSourceFlags(source, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: newLogger(deps.Stderr, common)}
	if err := s.build(ctx, opts); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) build(ctx context.Context, opts sessionOptions) error {
	store, err := s.openStore(ctx)
	if err != nil {
		return err
	}

	extra, err := s.cfg.ExtraAllowlist()
	if err != nil {
		return fmt.Errorf("%w: allowlist: %v", config.ErrInvalidField, err)
	}
	regOpts := []editorjs.Option{
		editorjs.WithLogger(s.log),
		editorjs.WithAllowlist(extra),
	}
	if s.cfg.Clean != nil {
		regOpts = append(regOpts, editorjs.WithCleanDefault(*s.cfg.Clean))
	}
	if opts.template != "" {
		tmpl, err := s.loadTemplate(opts.template)
		if err != nil {
			return err
		}
		regOpts = append(regOpts, editorjs.WithTemplate(tmpl))
	}
	if opts.metrics {
		s.metrics = prometheus.NewRegistry()
		regOpts = append(regOpts, editorjs.WithMetrics(s.metrics))
	}

	reg, err := editorjs.NewRegistry(regOpts...)
	if err != nil {
		return err
	}
	fo := features.Options{
		Store:          store,
		AssetPrefix:    s.cfg.Assets.Prefix,
		HeaderAnchors:  s.cfg.Header.Anchors,
		Highlight:      s.cfg.Code.Highlight,
		HighlightStyle: s.cfg.Code.Style,
		SearchEndpoint: s.cfg.Links.SearchEndpoint,
	}
	if err := features.RegisterDefaults(reg, fo); err != nil {
		return fmt.Errorf("registering tools: %w", err)
	}
	if err := restrictTunes(reg, s.cfg.Tunes); err != nil {
		return err
	}

	s.reg = reg
	s.tools = s.cfg.Tools
	if len(s.tools) == 0 {
		s.tools = reg.Names()
	}
	for _, tool := range s.tools {
		if _, ok := reg.Handler(tool); !ok {
			return &editorjs.UnknownFeatureError{Name: tool}
		}
	}

	base, err := s.cfg.ParsedBaseURL()
	if err != nil {
		return fmt.Errorf("%w: baseURL: %v", config.ErrInvalidField, err)
	}
	s.rc = &editorjs.RenderContext{BaseURL: base}

	s.log.Debug("registry ready",
		zap.Strings("tools", s.tools),
		zap.Bool("entities", store != nil))
	return nil
}

// loadTemplate parses a presentation template file, or a page by name from
// the configured pages directory with the built-in pages as fallback.
func (s *session) loadTemplate(nameOrPath string) (*template.Template, error) {
	if fileutil.IsFilePath(nameOrPath) {
		tmpl, err := template.ParseFiles(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
		}
		return tmpl, nil
	}
	resolver, err := assets.NewResolver(s.cfg.Assets.Pages)
	if err != nil {
		return nil, fmt.Errorf("%w: assets.pages: %v", config.ErrInvalidField, err)
	}
	tmpl, err := assets.ParsePage(resolver, nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	return tmpl, nil
}

// openStore returns the configured entity store, or nil when none is set.
func (s *session) openStore(ctx context.Context) (editorjs.EntityStore, error) {
	switch {
	case s.cfg.Entities.DatabaseURL != "":
		db, err := pgstore.Open(ctx, s.cfg.Entities.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		return pgstore.New(db), nil
	case s.cfg.Entities.File != "":
		store, err := config.LoadEntities(s.cfg.Entities.File)
		if err != nil {
			return nil, fmt.Errorf("loading entities: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

// logMetrics writes every collected counter and histogram count at info
// level.
func (s *session) logMetrics() {
	if s.metrics == nil {
		return
	}
	families, err := s.metrics.Gather()
	if err != nil {
		s.log.Warn("gathering metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()))
			}
			s.log.Info("metric", fields...)
		}
	}
}

func (s *session) close() error {
	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c())
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
	return err
}

// restrictTunes applies the tunes section in tune name order so per-tool
// tune lists come out the same on every run.
func restrictTunes(reg *editorjs.Registry, tunes map[string][]string) error {
	for _, tune := range slices.Sorted(maps.Keys(tunes)) {
		if err := reg.RestrictTune(tune, tunes[tune]...); err != nil {
			return fmt.Errorf("%w: tunes: %v", config.ErrInvalidField, err)
		}
	}
	return nil
}
