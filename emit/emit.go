// ABOUTME: Build-time emit sink writing synthesized robots.txt into a static-assets directory.
// ABOUTME: Resolves the output directory by convention (static, then public) and writes idempotently.
package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is the conventional robots policy filename.
const DefaultFilename = "robots.txt"

// ResolveOutputDir returns the directory that should receive the emitted
// file. An explicit override wins. Otherwise the project root is probed for
// a conventional "static" directory, then "public"; if neither exists,
// "public" is created.
func ResolveOutputDir(root, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if root == "" {
		return "", fmt.Errorf("project root must not be empty")
	}

	for _, name := range []string{"static", "public"} {
		dir := filepath.Join(root, name)
		if dirExists(dir) {
			return dir, nil
		}
	}

	dir := filepath.Join(root, "public")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Emitter writes synthesized content to Dir/Filename.
type Emitter struct {
	Dir      string
	Filename string
}

// NewEmitter creates an Emitter for the given directory, defaulting the
// filename to robots.txt.
func NewEmitter(dir, filename string) (*Emitter, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir must not be empty")
	}
	if filename == "" {
		filename = DefaultFilename
	}
	return &Emitter{Dir: dir, Filename: filename}, nil
}

// Path returns the full path of the emitted file.
func (e *Emitter) Path() string {
	return filepath.Join(e.Dir, e.Filename)
}

// Write persists content to the target path, creating the directory if
// needed. The write is idempotent: when the file already holds identical
// bytes, nothing is written. Returns whether a write was performed.
func (e *Emitter) Write(content string) (bool, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}

	path := e.Path()
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, []byte(content)) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading existing %s: %w", e.Filename, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", e.Filename, err)
	}
	return true, nil
}
