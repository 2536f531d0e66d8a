package domain

import (
	"path/filepath"
	"strings"
)

// DocExtensions are the recognised documentation file extensions,
// lowercase with leading dot.
var DocExtensions = []string{".md", ".markdown", ".mdx", ".rst"}

// IsDocFile reports whether the path has a recognised documentation
// extension.
func IsDocFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range DocExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DocStem returns the final path element with a recognised documentation
// extension stripped. Unrecognised extensions are kept as part of the stem.
func DocStem(path string) string {
	base := filepath.Base(path)
	if IsDocFile(base) {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}
