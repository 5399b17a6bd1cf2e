package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: editorjs <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render Editor.js documents to HTML")
	fmt.Fprintln(w, "  validate   Validate Editor.js documents")
	fmt.Fprintln(w, "  config     Print the client-side editor configuration")
	fmt.Fprintln(w, "  assets     List the scripts and stylesheets of the enabled tools")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'editorjs help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Tools and entities:")
	fmt.Fprintln(w, "      --tools <list>        Enabled tools, comma separated (default: all)")
	fmt.Fprintln(w, "      --base-url <url>      Absolute URL entity links resolve against")
	fmt.Fprintln(w, "      --entities <path>     YAML entity fixture file")
	fmt.Fprintln(w, "      --database-url <dsn>  PostgreSQL entity store")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: editorjs render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Editor.js documents (JSON or YAML) to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Document file or directory; \"-\" reads JSON from stdin and writes stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout")
	fmt.Fprintln(w, "      --template <p>        Presentation template file, or page name (standalone, article)")
	fmt.Fprintln(w, "      --no-clean            Skip HTML sanitizing")
	fmt.Fprintln(w, "      --metrics             Log render metrics when done")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printValidateUsage prints usage for the validate command.
func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: editorjs validate <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check documents against the enabled tools.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --required            Require time, version and blocks")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: editorjs config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the editor configuration for the enabled tools.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --widget <id>         Editor widget DOM id")
	fmt.Fprintln(w, "      --yaml                Print YAML instead of JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printAssetsUsage prints usage for the assets command.
func printAssetsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: editorjs assets [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List scripts and stylesheets in load order.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --templates           Also print rendered include templates")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(deps.Stdout)
	case "validate":
		printValidateUsage(deps.Stdout)
	case "config":
		printConfigUsage(deps.Stdout)
	case "assets":
		printAssetsUsage(deps.Stdout)
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: editorjs version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: editorjs help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
