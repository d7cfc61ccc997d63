// ABOUTME: Policy data model for robots.txt rule blocks and the synthesis context.
// ABOUTME: A Policy is one user-agent block; Context carries mode, phase, and project root.
package policy

import "strings"

// Phase identifies which pipeline stage is requesting synthesis.
type Phase string

const (
	// PhaseServe marks per-request synthesis from the development server.
	PhaseServe Phase = "serve"
	// PhaseBuild marks build-time synthesis for file emission.
	PhaseBuild Phase = "build"
)

// Context carries the execution environment for a single synthesis call.
// It is supplied fresh on every call; nothing persists between calls.
type Context struct {
	Mode  string // execution mode, e.g. "development" or "production"
	Phase Phase  // serve or build
	Root  string // project root path
}

// Policy is one user-agent rule block. Allow and Disallow hold path patterns
// and are deduplicated at render time, preserving first-occurrence order.
type Policy struct {
	UserAgent string   `yaml:"user_agent"`
	Allow     []string `yaml:"allow"`
	Disallow  []string `yaml:"disallow"`
}

// agent returns the trimmed user-agent token, falling back to the wildcard.
func (p Policy) agent() string {
	ua := strings.TrimSpace(p.UserAgent)
	if ua == "" {
		return "*"
	}
	return ua
}

// defaultPolicies is the allow-all fallback used when neither an explicit
// policy list nor a builder yields any policies.
func defaultPolicies() []Policy {
	return []Policy{{UserAgent: "*", Allow: []string{"/"}}}
}

// dedupe returns entries with duplicates removed, keeping first-seen order.
func dedupe(entries []string) []string {
	if len(entries) < 2 {
		return entries
	}
	seen := make(map[string]bool, len(entries))
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		result = append(result, e)
	}
	return result
}
