package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	// Replace Windows separators and collapse redundant separators/segments.
	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// RootRelative returns the path to target relative to the provided root
// directory. The returned path always uses forward slashes to simplify
// downstream processing and ensure platform agnosticism.
func RootRelative(root, target string) (string, error) {
	base := NormalizePath(root)
	cleanedTarget := NormalizePath(target)

	rel, err := filepath.Rel(base, cleanedTarget)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// WithinRoot reports whether target falls under root after normalization.
func WithinRoot(root, target string) bool {
	rel, err := RootRelative(root, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// RootFor returns the first root in roots that contains target, or the empty
// string when none does.
func RootFor(roots []string, target string) string {
	for _, root := range roots {
		if WithinRoot(root, target) {
			return root
		}
	}
	return ""
}
