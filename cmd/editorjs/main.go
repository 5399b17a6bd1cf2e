package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrNoCommand      = errors.New("no command specified")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultDeps())
	stop()
	os.Exit(code)
}

// runMain runs a command and maps its outcome to an exit code.
func runMain(ctx context.Context, args []string, deps *Dependencies) int {
	err := run(ctx, args, deps)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(deps.Stderr, err)
	}
	return exitCodeFor(err)
}

// run dispatches args[0] to its command.
func run(ctx context.Context, args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ErrNoCommand
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		f, positional, err := parseRenderFlags(rest, deps)
		if err != nil {
			return err
		}
		return runRender(ctx, positional, f, deps)
	case "validate":
		f, positional, err := parseValidateFlags(rest, deps)
		if err != nil {
			return err
		}
		return runValidate(ctx, positional, f, deps)
	case "config":
		f, err := parseConfigFlags(rest, deps)
		if err != nil {
			return err
		}
		return runConfig(ctx, f, deps)
	case "assets":
		f, err := parseAssetsFlags(rest, deps)
		if err != nil {
			return err
		}
		return runAssets(ctx, f, deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "editorjs %s\n", Version)
		return nil
	case "help", "-h", "--help":
		runHelp(rest, deps)
		return nil
	default:
		printUsage(deps.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}
