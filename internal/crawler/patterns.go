package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathFilter decides whether a resolved URL should be crawled based on glob
// patterns matched against the URL path.
type PathFilter struct {
	// Ignore patterns skip matching paths.
	Ignore []string

	// Follow patterns, when set, restrict the crawl to matching paths.
	Follow []string
}

// Allows reports whether link passes the filter. Ignore patterns win over
// follow patterns. An empty filter allows everything.
func (f PathFilter) Allows(link string) bool {
	if len(f.Ignore) == 0 && len(f.Follow) == 0 {
		return true
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range f.Ignore {
		if MatchPattern(pattern, path) {
			return false
		}
	}
	if len(f.Follow) == 0 {
		return true
	}
	for _, pattern := range f.Follow {
		if MatchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// MatchPattern matches a URL path against a glob pattern.
//
//   - "/admin/*" matches "/admin" and anything below it
//   - "*.pdf" matches any path ending in .pdf
//   - other patterns use filepath.Match, and patterns without a slash are
//     also tried against the last path segment
func MatchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
		return true
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}
