// ABOUTME: Help display for the robogen CLI with grouped flags and examples.
// ABOUTME: Provides printHelp for usage output covering build, serve, and print modes.
package main

import (
	"fmt"
	"io"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "robogen %s — robots.txt generator for web project pipelines\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  robogen [flags] [root]       Synthesize and emit robots.txt (build mode)")
	fmt.Fprintln(w, "  robogen -serve [root]        Serve robots.txt live during development")
	fmt.Fprintln(w, "  robogen -print [root]        Write synthesized robots.txt to stdout")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Build Flags:")
	fmt.Fprintln(w, "  -config <file>       Config file path (default: <root>/robogen.yaml)")
	fmt.Fprintln(w, "  -out <dir>           Output directory override (default: static/ or public/)")
	fmt.Fprintln(w, "  -filename <name>     Emitted filename (default: robots.txt)")
	fmt.Fprintln(w, "  -mode <mode>         Execution mode (default: development)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Serve Flags:")
	fmt.Fprintln(w, "  -serve               Start the development server")
	fmt.Fprintln(w, "  -bind <addr>         Listen address (default: 127.0.0.1:9090)")
	fmt.Fprintln(w, "  -base-path <path>    URL prefix for the policy route")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -print               Print synthesized output and exit")
	fmt.Fprintln(w, "  -version             Print version and exit")
	fmt.Fprintln(w, "  -help                Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  robogen ./my-site")
	fmt.Fprintln(w, "  robogen -mode production -out dist ./my-site")
	fmt.Fprintln(w, "  robogen -serve -bind 127.0.0.1:3000 ./my-site")
	fmt.Fprintln(w, "  robogen -print")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROBOGEN_MODE, ROBOGEN_BIND, ROBOGEN_BASE_PATH, ROBOGEN_OUT_DIR,")
	fmt.Fprintln(w, "  ROBOGEN_FILENAME, ROBOGEN_NO_STORE override the config file.")
	fmt.Fprintln(w, "  A .env file in the working directory is loaded at startup.")
}
