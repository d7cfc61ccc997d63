// ABOUTME: Development HTTP server serving the synthesized robots.txt behind a chi router.
// ABOUTME: Serves the project's static assets alongside the live policy route with no-cache headers.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/2389-research/robogen/policy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// noCacheHeaders disable all client and proxy caching for the policy route
// so edits to the policy configuration are visible on the next request.
var noCacheHeaders = map[string]string{
	"Cache-Control": "no-store, no-cache, must-revalidate, max-age=0",
	"Pragma":        "no-cache",
	"Expires":       "0",
}

// Server is the robogen development server. It answers the robots policy
// route with freshly synthesized content on every request and serves the
// project's static-assets directory for everything else.
type Server struct {
	router   chi.Router
	addr     string
	root     string
	mode     string
	noStore  bool
	route    string
	options  policy.Options
	staticFS http.Handler
}

// ServerConfig holds the configuration for the development server.
// The zero value of AllowStore keeps the no-cache headers on, matching the
// no-store-in-dev default.
type ServerConfig struct {
	Addr       string // listen address (default: "127.0.0.1:9090")
	Root       string // project root directory
	BasePath   string // optional URL prefix for the policy route
	Filename   string // policy filename (default: "robots.txt")
	Mode       string // execution mode passed to synthesis (default: "development")
	AllowStore bool   // permit caching of the policy route (default: false)
	Options    policy.Options
}

// NewServer creates a development server with the given configuration. The
// project's static directory (static/ or public/, if present) is mounted at
// the root; the policy route always takes precedence.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:9090"
	}
	if cfg.Filename == "" {
		cfg.Filename = "robots.txt"
	}
	if cfg.Mode == "" {
		cfg.Mode = "development"
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("Root must not be empty")
	}

	s := &Server{
		addr:    cfg.Addr,
		root:    cfg.Root,
		mode:    cfg.Mode,
		noStore: !cfg.AllowStore,
		route:   path.Join("/", cfg.BasePath, cfg.Filename),
		options: cfg.Options,
	}

	if dir := probeStaticDir(cfg.Root); dir != "" {
		s.staticFS = http.FileServer(http.Dir(dir))
	}

	s.router = s.buildRouter()
	return s, nil
}

// Route returns the URL path the policy is served at.
func (s *Server) Route() string {
	return s.route
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for the configured address with
// timeouts to prevent resource exhaustion from slow clients. Callers that
// need shutdown control (signal handling) use this and close it themselves.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	return s.HTTPServer().ListenAndServe()
}

// buildRouter constructs the chi router with middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get(s.route, s.handleRobots)
	r.Get("/health", s.handleHealth)

	if s.staticFS != nil {
		r.Handle("/*", s.staticFS)
	}

	return r
}

// handleRobots synthesizes the policy text fresh for each request. A
// panicking builder function is caught by the recoverer middleware and
// surfaces as a 500.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	ctx := policy.Context{Mode: s.mode, Phase: policy.PhaseServe, Root: s.root}
	text := policy.Synthesize(ctx, s.options)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.noStore {
		for k, v := range noCacheHeaders {
			w.Header().Set(k, v)
		}
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// handleHealth returns a JSON health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "route": s.route})
}

// probeStaticDir returns the project's conventional static-assets directory
// if one exists. Unlike the emit sink, serving never creates directories.
func probeStaticDir(root string) string {
	for _, name := range []string{"static", "public"} {
		dir := filepath.Join(root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
