// ABOUTME: Pure robots.txt content synthesis from a Context and Options.
// ABOUTME: Deterministic single-pass rendering: dedup, ordering, and whitespace canonicalization.
package policy

import "strings"

// Options supplies the policy inputs for one synthesis call. Each input may
// be given as a static value or as a builder function computing the value
// from the Context; builders let callers vary output by environment without
// forking configuration.
type Options struct {
	// Policies is an explicit, ordered policy list. A non-empty list wins
	// over PolicyFunc; an empty list does not short-circuit the builder.
	Policies []Policy

	// PolicyFunc computes policies from the context when Policies is empty.
	PolicyFunc func(Context) []Policy

	// Sitemaps is an ordered list of sitemap URLs, rendered without dedup.
	Sitemaps []string

	// SitemapFunc computes sitemap URLs when Sitemaps is empty.
	SitemapFunc func(Context) []string

	// Footer is a free-text comment rendered as a single trailing # line.
	Footer string

	// FooterFunc computes the footer when Footer is blank.
	FooterFunc func(Context) string
}

// Synthesize renders the final robots.txt payload for the given context and
// options. It is a pure function: no I/O, no shared state, safe to call
// concurrently. Builder functions are invoked synchronously and are trusted
// to be fast; a panicking builder propagates to the caller.
func Synthesize(ctx Context, opts Options) string {
	policies := resolvePolicies(ctx, opts)

	blocks := make([]string, 0, len(policies))
	for _, p := range policies {
		var b strings.Builder
		b.WriteString("User-agent: ")
		b.WriteString(p.agent())
		b.WriteByte('\n')
		for _, path := range dedupe(p.Disallow) {
			b.WriteString("Disallow: ")
			b.WriteString(path)
			b.WriteByte('\n')
		}
		for _, path := range dedupe(p.Allow) {
			b.WriteString("Allow: ")
			b.WriteString(path)
			b.WriteByte('\n')
		}
		blocks = append(blocks, b.String())
	}

	// Each block ends with a newline, so joining with one more newline
	// yields the blank-line separator between blocks.
	head := strings.TrimRight(strings.Join(blocks, "\n"), " \t\n") + "\n"

	var out strings.Builder
	out.WriteString(head)

	if sitemaps := resolveSitemaps(ctx, opts); len(sitemaps) > 0 {
		out.WriteByte('\n')
		for _, url := range sitemaps {
			out.WriteString("Sitemap: ")
			out.WriteString(url)
			out.WriteByte('\n')
		}
	}

	if footer := resolveFooter(ctx, opts); footer != "" {
		out.WriteString("\n# ")
		out.WriteString(footer)
		out.WriteByte('\n')
	}

	// At most one blank line before end-of-file.
	text := out.String()
	for strings.HasSuffix(text, "\n\n\n") {
		text = strings.TrimSuffix(text, "\n")
	}
	return text
}

// resolvePolicies applies the precedence chain: explicit non-empty list,
// then builder result, then the default allow-all policy.
func resolvePolicies(ctx Context, opts Options) []Policy {
	if len(opts.Policies) > 0 {
		return opts.Policies
	}
	if opts.PolicyFunc != nil {
		if built := opts.PolicyFunc(ctx); len(built) > 0 {
			return built
		}
	}
	return defaultPolicies()
}

// resolveSitemaps prefers the explicit list, falling back to the builder.
func resolveSitemaps(ctx Context, opts Options) []string {
	if len(opts.Sitemaps) > 0 {
		return opts.Sitemaps
	}
	if opts.SitemapFunc != nil {
		return opts.SitemapFunc(ctx)
	}
	return nil
}

// resolveFooter prefers the explicit value, falling back to the builder.
// The result is trimmed; a blank footer suppresses the comment line.
func resolveFooter(ctx Context, opts Options) string {
	if trimmed := strings.TrimSpace(opts.Footer); trimmed != "" {
		return trimmed
	}
	if opts.FooterFunc != nil {
		return strings.TrimSpace(opts.FooterFunc(ctx))
	}
	return ""
}
