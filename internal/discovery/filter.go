package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters report files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps paths whose base name matches pattern.
// Patterns with wildcards ("rspec-*.json", "*api*") match like globs, with every
// literal part required to appear in order; plain patterns match as substrings.
func (f *Filter) FilterByName(paths []string, pattern string) []string {
	if pattern == "" {
		return paths
	}

	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if matchName(filepath.Base(path), pattern) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// Ordered substring match on the literal parts between wildcards
	rest := name
	found := false
	for _, part := range strings.FieldsFunc(pattern, func(r rune) bool { return r == '*' || r == '?' }) {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		found = true
	}
	return found
}
