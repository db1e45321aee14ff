package discover

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignore matches root-relative, slash-separated paths against patterns in
// .gitignore syntax. Discovery and the engine share it so a configured
// pattern means the same thing in both places.
type Ignore struct {
	matcher gitignore.Matcher
	empty   bool
}

// NewIgnore compiles patterns. Blank lines and # comments are skipped.
func NewIgnore(patterns []string) *Ignore {
	ps := parsePatterns(patterns)
	return &Ignore{matcher: gitignore.NewMatcher(ps), empty: len(ps) == 0}
}

// Match reports whether path, or any directory above it, is ignored.
func (i *Ignore) Match(path string, isDir bool) bool {
	if i == nil || i.empty || path == "" {
		return false
	}
	return i.matcher.Match(strings.Split(strings.Trim(path, "/"), "/"), isDir)
}

func parsePatterns(patterns []string) []gitignore.Pattern {
	out := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		out = append(out, gitignore.ParsePattern(p, nil))
	}
	return out
}
