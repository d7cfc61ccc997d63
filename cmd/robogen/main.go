// ABOUTME: CLI entrypoint for robogen with build, serve, and print modes.
// ABOUTME: Wires config loading, the content synthesizer, the emit sink, and the dev server together.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/2389-research/robogen/config"
	"github.com/2389-research/robogen/emit"
	"github.com/2389-research/robogen/policy"
	"github.com/2389-research/robogen/web"
)

var version = "dev"

// cliConfig holds all CLI configuration parsed from flags and positional arguments.
type cliConfig struct {
	serveMode   bool
	printOnly   bool
	configFile  string
	outDir      string
	mode        string
	bind        string
	filename    string
	basePath    string
	showVersion bool
	root        string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("robogen %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated cliConfig.
func parseFlags() cliConfig {
	var cfg cliConfig

	fs := flag.NewFlagSet("robogen", flag.ContinueOnError)
	fs.BoolVar(&cfg.serveMode, "serve", false, "Start the development server instead of emitting a file")
	fs.BoolVar(&cfg.printOnly, "print", false, "Write the synthesized robots.txt to stdout and exit")
	fs.StringVar(&cfg.configFile, "config", "", "Path to the config file (default: <root>/robogen.yaml)")
	fs.StringVar(&cfg.outDir, "out", "", "Output directory override for emission")
	fs.StringVar(&cfg.mode, "mode", "", "Execution mode override (e.g. development, production)")
	fs.StringVar(&cfg.bind, "bind", "", "Dev server listen address (default: 127.0.0.1:9090)")
	fs.StringVar(&cfg.filename, "filename", "", "Emitted filename (default: robots.txt)")
	fs.StringVar(&cfg.basePath, "base-path", "", "URL prefix for the served policy route")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg.root = "."
	if fs.NArg() > 0 {
		cfg.root = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the cliConfig.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg cliConfig) int {
	root, err := filepath.Abs(cfg.root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	conf, err := config.Load(root, cfg.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	applyFlagOverrides(conf, cfg)

	switch {
	case cfg.serveMode:
		return runServe(root, conf)
	case cfg.printOnly:
		return runPrint(root, conf)
	default:
		return runBuild(root, conf)
	}
}

// applyFlagOverrides layers non-empty CLI flags over the loaded configuration.
// Flags win over both the file and the environment.
func applyFlagOverrides(conf *config.Config, cfg cliConfig) {
	if cfg.mode != "" {
		conf.Mode = cfg.mode
	}
	if cfg.bind != "" {
		conf.Bind = cfg.bind
	}
	if cfg.outDir != "" {
		conf.OutDir = cfg.outDir
	}
	if cfg.filename != "" {
		conf.Filename = cfg.filename
	}
	if cfg.basePath != "" {
		conf.BasePath = cfg.basePath
	}
}

// runBuild synthesizes the policy text and emits it into the project's
// static-assets directory, reporting whether the file changed.
func runBuild(root string, conf *config.Config) int {
	ctx := policy.Context{Mode: conf.Mode, Phase: policy.PhaseBuild, Root: root}
	text := policy.Synthesize(ctx, conf.Options())

	dir, err := emit.ResolveOutputDir(root, conf.OutDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	emitter, err := emit.NewEmitter(dir, conf.Filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	wrote, err := emitter.Write(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if wrote {
		fmt.Printf("wrote %s\n", emitter.Path())
	} else {
		fmt.Printf("%s unchanged\n", emitter.Path())
	}
	return 0
}

// runPrint synthesizes the policy text and writes it to stdout without
// touching the filesystem.
func runPrint(root string, conf *config.Config) int {
	ctx := policy.Context{Mode: conf.Mode, Phase: policy.PhaseBuild, Root: root}
	fmt.Print(policy.Synthesize(ctx, conf.Options()))
	return 0
}

// runServe starts the development server with signal-driven shutdown.
func runServe(root string, conf *config.Config) int {
	srv, err := web.NewServer(web.ServerConfig{
		Addr:       conf.Bind,
		Root:       root,
		BasePath:   conf.BasePath,
		Filename:   conf.Filename,
		Mode:       conf.Mode,
		AllowStore: !conf.NoStore,
		Options:    conf.Options(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	httpServer := srv.HTTPServer()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "serving %s on http://%s%s\n", conf.Filename, conf.Bind, srv.Route())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
