// ABOUTME: Project configuration loaded from robogen.yaml with ROBOGEN_* environment overrides.
// ABOUTME: Declares policies, sitemaps, footer, output location, and dev-server settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2389-research/robogen/policy"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional configuration filename at the project root.
const DefaultFile = "robogen.yaml"

// Config holds the resolved robogen configuration. Defaults are applied by
// Load; all file and environment settings are optional.
type Config struct {
	Mode     string // execution mode (default: "development")
	Bind     string // dev server listen address (default: 127.0.0.1:9090)
	BasePath string // URL prefix for the served policy route
	OutDir   string // output directory override for emission
	Filename string // emitted filename (default: robots.txt)
	NoStore  bool   // disable caching on the served policy route (default: true)

	Policies []policy.Policy
	Sitemaps []string
	Footer   string
}

// fileConfig mirrors Config for YAML decoding. NoStore is a pointer so an
// absent key is distinguishable from an explicit false.
type fileConfig struct {
	Mode     string          `yaml:"mode"`
	Bind     string          `yaml:"bind"`
	BasePath string          `yaml:"base_path"`
	OutDir   string          `yaml:"out_dir"`
	Filename string          `yaml:"filename"`
	NoStore  *bool           `yaml:"no_store"`
	Policies []policy.Policy `yaml:"policies"`
	Sitemaps []string        `yaml:"sitemaps"`
	Footer   string          `yaml:"footer"`
}

// Load reads configuration for the project rooted at root. The file path may
// be empty, in which case <root>/robogen.yaml is used when present; a missing
// default file is not an error. ROBOGEN_* environment variables are layered
// over the file values.
func Load(root, file string) (*Config, error) {
	cfg := &Config{
		Mode:     "development",
		Bind:     "127.0.0.1:9090",
		Filename: "robots.txt",
		NoStore:  true,
	}

	path := file
	explicit := path != ""
	if path == "" {
		path = filepath.Join(root, DefaultFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.apply(fc)
	case os.IsNotExist(err) && !explicit:
		// No project file; defaults and environment apply.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// apply layers non-empty file values over the defaults.
func (c *Config) apply(fc fileConfig) {
	if fc.Mode != "" {
		c.Mode = fc.Mode
	}
	if fc.Bind != "" {
		c.Bind = fc.Bind
	}
	if fc.BasePath != "" {
		c.BasePath = fc.BasePath
	}
	if fc.OutDir != "" {
		c.OutDir = fc.OutDir
	}
	if fc.Filename != "" {
		c.Filename = fc.Filename
	}
	if fc.NoStore != nil {
		c.NoStore = *fc.NoStore
	}
	c.Policies = fc.Policies
	c.Sitemaps = fc.Sitemaps
	c.Footer = fc.Footer
}

// applyEnv layers ROBOGEN_* environment variables over the current values.
func (c *Config) applyEnv() {
	c.Mode = envOrDefault("ROBOGEN_MODE", c.Mode)
	c.Bind = envOrDefault("ROBOGEN_BIND", c.Bind)
	c.BasePath = envOrDefault("ROBOGEN_BASE_PATH", c.BasePath)
	c.OutDir = envOrDefault("ROBOGEN_OUT_DIR", c.OutDir)
	c.Filename = envOrDefault("ROBOGEN_FILENAME", c.Filename)
	if v := os.Getenv("ROBOGEN_NO_STORE"); v != "" {
		c.NoStore = v == "true" || v == "1" || v == "yes"
	}
}

// Options converts the declarative configuration into synthesis options.
// Builder functions are a programmatic surface and never come from the file.
func (c *Config) Options() policy.Options {
	return policy.Options{
		Policies: c.Policies,
		Sitemaps: c.Sitemaps,
		Footer:   c.Footer,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
