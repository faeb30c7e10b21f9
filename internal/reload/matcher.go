package reload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher tests candidate absolute paths against a compiled glob set.
// A path matches when it satisfies at least one pattern.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles the normalized patterns. Patterns use '/' as the path
// separator, so '*' stays within one path segment and '**' crosses segments.
func NewMatcher(patterns []string) (*Matcher, error) {
	var globs []glob.Glob
	for _, pat := range patterns {
		for _, variant := range expandDoubleStar(pat) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pat, err)
			}
			globs = append(globs, g)
		}
	}
	return &Matcher{globs: globs}, nil
}

// Match reports whether path satisfies at least one pattern. Paths outside
// the watched set are expected input, not an error.
func (m *Matcher) Match(path string) bool {
	candidate := filepath.ToSlash(path)
	for _, g := range m.globs {
		if g.Match(candidate) {
			return true
		}
	}
	return false
}

// expandDoubleStar returns the pattern plus variants with "**/" segments
// collapsed. glob.Compile requires "a/**/b" to span at least one directory,
// while the watch semantics want "a/**/b" to also match "a/b".
func expandDoubleStar(pattern string) []string {
	seen := map[string]struct{}{pattern: {}}
	queue := []string{pattern}
	variants := []string{pattern}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for i := 0; ; i++ {
			j := strings.Index(cur[i:], "**/")
			if j < 0 {
				break
			}
			i += j
			collapsed := cur[:i] + cur[i+len("**/"):]
			if _, ok := seen[collapsed]; !ok {
				seen[collapsed] = struct{}{}
				queue = append(queue, collapsed)
				variants = append(variants, collapsed)
			}
		}
	}

	return variants
}
