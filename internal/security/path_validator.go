package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is wrapped by every PathValidator rejection.
var ErrUnsafePath = errors.New("unsafe path")

// PathValidator confines relative paths to a root directory. Generated file
// paths come from the model and are treated as untrusted.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for root. The root is made absolute.
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrUnsafePath)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	return &PathValidator{root: abs}, nil
}

// Root returns the absolute root directory.
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve joins rel onto the root and returns the absolute result. Absolute
// paths, parent escapes, null bytes and symlinks leaving the root are rejected.
func (v *PathValidator) Resolve(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafePath)
	}
	if strings.Contains(rel, "\x00") {
		return "", fmt.Errorf("%w: null byte in %q", ErrUnsafePath, rel)
	}

	// Models write forward slashes regardless of platform.
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrUnsafePath, rel)
	}
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q leaves the export directory", ErrUnsafePath, rel)
	}

	target := filepath.Join(v.root, clean)
	if !isPathWithin(target, v.root) {
		return "", fmt.Errorf("%w: %q leaves the export directory", ErrUnsafePath, rel)
	}

	if err := v.checkSymlinks(target); err != nil {
		return "", err
	}
	return target, nil
}

// checkSymlinks resolves the deepest existing ancestor of target and makes
// sure it still lies under the root.
func (v *PathValidator) checkSymlinks(target string) error {
	root, err := filepath.EvalSymlinks(v.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to resolve root: %w", err)
	}

	existing := target
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return nil
		}
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", existing, err)
	}
	if !isPathWithin(resolved, root) {
		return fmt.Errorf("%w: %s resolves outside the export directory", ErrUnsafePath, existing)
	}
	return nil
}

// isPathWithin reports whether target is base or below it.
func isPathWithin(target, base string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// SanitizeFilename replaces characters that are unsafe in a single path element.
func SanitizeFilename(name string) string {
	dangerous := []string{"\x00", "..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	sanitized := name
	for _, c := range dangerous {
		sanitized = strings.ReplaceAll(sanitized, c, "_")
	}
	return sanitized
}
