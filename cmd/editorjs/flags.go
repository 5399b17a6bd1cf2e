package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags select the tools and the entity source. They override the
// matching config fields when set.
type sourceFlags struct {
	tools       []string
	baseURL     string
	entities    string
	databaseURL string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common   commonFlags
	source   sourceFlags
	output   string
	workers  int
	timeout  string
	template string
	noClean  bool
	metrics  bool
}

// validateFlags holds flags for the validate command.
type validateFlags struct {
	common   commonFlags
	source   sourceFlags
	required bool
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
	source sourceFlags
	widget string
	yaml   bool
}

// assetsFlags holds flags for the assets command.
type assetsFlags struct {
	common    commonFlags
	source    sourceFlags
	templates bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSourceFlags adds tool and entity source flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringSliceVar(&f.tools, "tools", nil, "enabled tools, comma separated (default: all)")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute URL entity links are resolved against")
	fs.StringVar(&f.entities, "entities", "", "YAML entity fixture file")
	fs.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL DSN for entities")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, deps *Dependencies, usage func()) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(deps.Stderr)
	fs.Usage = usage
	return fs
}

// parseError wraps flag errors so they map to the usage exit code.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, deps *Dependencies) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", deps, func() { printRenderUsage(deps.Stderr) })

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 5s, 1m)")
	fs.StringVar(&f.template, "template", "", "presentation template file or page name (receives .HTML)")
	fs.BoolVar(&f.noClean, "no-clean", false, "skip HTML sanitizing")
	fs.BoolVar(&f.metrics, "metrics", false, "log render metrics when done")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseValidateFlags parses validate command flags and returns positional args.
func parseValidateFlags(args []string, deps *Dependencies) (*validateFlags, []string, error) {
	f := &validateFlags{}
	fs := newFlagSet("validate", deps, func() { printValidateUsage(deps.Stderr) })

	fs.BoolVar(&f.required, "required", false, "require time, version and at least one block")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, deps *Dependencies) (*configFlags, error) {
	f := &configFlags{}
	fs := newFlagSet("config", deps, func() { printConfigUsage(deps.Stderr) })

	fs.StringVar(&f.widget, "widget", "", "editor widget DOM id")
	fs.BoolVar(&f.yaml, "yaml", false, "print YAML instead of JSON")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: config takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseAssetsFlags parses assets command flags.
func parseAssetsFlags(args []string, deps *Dependencies) (*assetsFlags, error) {
	f := &assetsFlags{}
	fs := newFlagSet("assets", deps, func() { printAssetsUsage(deps.Stderr) })

	fs.BoolVar(&f.templates, "templates", false, "also print rendered include templates")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: assets takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}
