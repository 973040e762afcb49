package project

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter returns the files whose path matches pattern, in project order.
//
// Patterns containing glob metacharacters are matched with doublestar
// (`**/*.go`, `src/*`). A plain word matches case-insensitively anywhere
// in the path. An empty pattern returns every file.
func (s *State) Filter(pattern string) ([]File, error) {
	if s == nil {
		return nil, nil
	}

	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		out := make([]File, len(s.Files))
		copy(out, s.Files)
		return out, nil
	}

	if !isGlob(pattern) {
		needle := strings.ToLower(pattern)
		var out []File
		for _, f := range s.Files {
			if strings.Contains(strings.ToLower(f.Path), needle) {
				out = append(out, f)
			}
		}
		return out, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var out []File
	for _, f := range s.Files {
		matched, err := doublestar.Match(pattern, strings.TrimPrefix(f.Path, "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if !matched && !strings.Contains(pattern, "/") {
			// A bare pattern like *.go also matches by base name.
			matched, _ = doublestar.Match(pattern, baseName(f.Path))
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
