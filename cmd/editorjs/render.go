package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-editorjs"
	"github.com/alnah/go-editorjs/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinPath selects stdin as the input.
const stdinPath = "-"

// Sentinel errors for render operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadDocument = errors.New("failed to read document")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// runRender orchestrates a render run.
func runRender(ctx context.Context, positional []string, f *renderFlags, deps *Dependencies) error {
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	timeout, err := parseTimeout(f.timeout)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, f.common, f.source, sessionOptions{template: f.template, metrics: f.metrics}, deps)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	undo, _ := maxprocs.Set(maxprocs.Logger(s.log.Sugar().Debugf))
	defer undo()

	job := renderJob{
		renderer: s.reg,
		tools:    s.tools,
		opts:     []editorjs.RenderOption{editorjs.WithRenderContext(s.rc)},
		timeout:  timeout,
	}
	if f.noClean {
		job.opts = append(job.opts, editorjs.Clean(false))
	}

	if len(positional) == 1 && positional[0] == stdinPath {
		return renderStream(ctx, job, deps.Stdin, deps.Stdout)
	}

	var files []FileToRender
	for _, input := range positional {
		found, err := discoverFiles(input, f.output)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no documents found", ErrNoInput)
	}

	workers := resolvePoolSize(f.workers, s.cfg.Workers)
	s.log.Debug("rendering", zap.Int("files", len(files)), zap.Int("workers", workers))

	start := deps.Now()
	results := renderBatch(ctx, job, files, workers)

	var errs error
	for _, r := range results {
		if r.Err != nil {
			s.log.Error("render failed", zap.String("input", r.InputPath), zap.Error(r.Err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", r.InputPath, r.Err))
			continue
		}
		if !f.common.quiet {
			fmt.Fprintf(deps.Stdout, "%s -> %s\n", r.InputPath, r.OutputPath)
		}
		s.log.Debug("rendered",
			zap.String("input", r.InputPath),
			zap.Duration("took", r.Duration))
	}
	s.log.Debug("done", zap.Duration("took", deps.Now().Sub(start)))
	s.logMetrics()
	return errs
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, job renderJob, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	content, err := readDocument(f.InputPath)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	out, err := renderBytes(ctx, job, content)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := fileutil.WriteAtomic(f.OutputPath, []byte(out), filePermissions, dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	result.Duration = time.Since(start)
	return result
}

// renderStream renders one document from r to w.
func renderStream(ctx context.Context, job renderJob, r io.Reader, w io.Writer) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	out, err := renderBytes(ctx, job, content)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}

// renderBytes decodes and renders one document within the job timeout.
func renderBytes(ctx context.Context, job renderJob, content []byte) (string, error) {
	if job.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.timeout)
		defer cancel()
	}
	doc, err := job.renderer.Decode(job.tools, content)
	if err != nil {
		return "", err
	}
	return job.renderer.Render(ctx, job.tools, doc, job.opts...)
}

// parseTimeout parses a duration flag. Empty means no timeout.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q", ErrUsage, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, d)
	}
	return d, nil
}
