// ABOUTME: Tests for the development server: policy route, caching headers, static serving.
// ABOUTME: Covers base path prefixes, per-request synthesis, builder panics, and health checks.
package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/robogen/policy"
)

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
	if cfg.Root == "" {
		cfg.Root = t.TempDir()
	}
	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

func TestServerRobotsRoute(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Body.String(); got != "User-agent: *\nAllow: /\n" {
		t.Errorf("body = %q", got)
	}
}

// Caching must be disabled by default: a zero-value config gets the full
// no-cache header set without opting in.
func TestServerNoStoreByDefault(t *testing.T) {
	srv, err := NewServer(ServerConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	want := map[string]string{
		"Cache-Control": "no-store, no-cache, must-revalidate, max-age=0",
		"Pragma":        "no-cache",
		"Expires":       "0",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestServerAllowStoreDropsNoCacheHeaders(t *testing.T) {
	srv := newTestServer(t, ServerConfig{AllowStore: true})

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	for _, k := range []string{"Cache-Control", "Pragma", "Expires"} {
		if got := rec.Header().Get(k); got != "" {
			t.Errorf("expected no %s header when caching is allowed, got %q", k, got)
		}
	}
}

func TestServerHTTPServerCarriesTimeouts(t *testing.T) {
	srv := newTestServer(t, ServerConfig{Addr: "127.0.0.1:3000"})

	hs := srv.HTTPServer()
	if hs.Addr != "127.0.0.1:3000" {
		t.Errorf("Addr = %q", hs.Addr)
	}
	if hs.ReadHeaderTimeout == 0 || hs.ReadTimeout == 0 || hs.WriteTimeout == 0 || hs.IdleTimeout == 0 {
		t.Error("expected all timeouts to be set on the HTTP server")
	}
	if hs.Handler != srv {
		t.Error("expected the server itself as handler")
	}
}

func TestServerBasePath(t *testing.T) {
	srv := newTestServer(t, ServerConfig{BasePath: "/site"})

	if srv.Route() != "/site/robots.txt" {
		t.Errorf("Route() = %q, want /site/robots.txt", srv.Route())
	}

	req := httptest.NewRequest(http.MethodGet, "/site/robots.txt", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 at prefixed route, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK && rec.Body.String() == "User-agent: *\nAllow: /\n" {
		t.Error("unprefixed route should not serve the policy when a base path is set")
	}
}

func TestServerSynthesizesPerRequest(t *testing.T) {
	calls := 0
	srv := newTestServer(t, ServerConfig{
		Options: policy.Options{
			FooterFunc: func(policy.Context) string {
				calls++
				return "dynamic"
			},
		},
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if !strings.HasSuffix(rec.Body.String(), "# dynamic\n") {
			t.Fatalf("request %d: body = %q", i, rec.Body.String())
		}
	}
	if calls != 3 {
		t.Errorf("expected builder invoked once per request, got %d calls", calls)
	}
}

func TestServerServeContextPhase(t *testing.T) {
	var got policy.Context
	srv := newTestServer(t, ServerConfig{
		Mode: "staging",
		Options: policy.Options{
			PolicyFunc: func(ctx policy.Context) []policy.Policy {
				got = ctx
				return nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	srv.ServeHTTP(httptest.NewRecorder(), req)

	if got.Phase != policy.PhaseServe {
		t.Errorf("phase = %q, want serve", got.Phase)
	}
	if got.Mode != "staging" {
		t.Errorf("mode = %q, want staging", got.Mode)
	}
	if got.Root == "" {
		t.Error("expected non-empty root in synthesis context")
	}
}

func TestServerBuilderPanicRecovered(t *testing.T) {
	srv := newTestServer(t, ServerConfig{
		Options: policy.Options{
			PolicyFunc: func(policy.Context) []policy.Policy {
				panic("builder exploded")
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()

	defer func() {
		if r := recover(); r != nil && r != http.ErrAbortHandler {
			t.Errorf("panic escaped the recoverer: %v", r)
		}
	}()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 for panicking builder, got %d", rec.Code)
	}
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status %q, got %q", "ok", body["status"])
	}
	if body["route"] != "/robots.txt" {
		t.Errorf("expected route /robots.txt, got %q", body["route"])
	}
}

func TestServerServesStaticAssets(t *testing.T) {
	root := t.TempDir()
	staticDir := filepath.Join(root, "static")
	if err := os.Mkdir(staticDir, 0o755); err != nil {
		t.Fatalf("mkdir static: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>hi</h1>"), 0o644); err != nil {
		t.Fatalf("write index.html: %v", err)
	}

	srv := newTestServer(t, ServerConfig{Root: root})

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for static file, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hi") {
		t.Errorf("static body = %q", rec.Body.String())
	}
}

func TestServerPolicyRouteShadowsStaticFile(t *testing.T) {
	root := t.TempDir()
	staticDir := filepath.Join(root, "public")
	if err := os.Mkdir(staticDir, 0o755); err != nil {
		t.Fatalf("mkdir public: %v", err)
	}
	// A stale on-disk robots.txt must never win over live synthesis.
	if err := os.WriteFile(filepath.Join(staticDir, "robots.txt"), []byte("STALE"), 0o644); err != nil {
		t.Fatalf("write robots.txt: %v", err)
	}

	srv := newTestServer(t, ServerConfig{Root: root})

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Body.String() != "User-agent: *\nAllow: /\n" {
		t.Errorf("expected synthesized content, got %q", rec.Body.String())
	}
}

func TestNewServerRequiresRoot(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("expected error for empty Root")
	}
}
