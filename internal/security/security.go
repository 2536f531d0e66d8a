// Package security filters sensitive material out of the indexing
// pipeline: known credential filenames, key-material globs, secret
// patterns in file content, and path traversal escapes.
package security

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// skipFiles are exact basenames that are never indexed.
var skipFiles = map[string]struct{}{
	".env":                 {},
	".env.local":           {},
	".env.production":      {},
	".env.staging":         {},
	".env.development":     {},
	"credentials.json":     {},
	"secrets.yaml":         {},
	"secrets.yml":          {},
	"service-account.json": {},
	".npmrc":               {},
	".pypirc":              {},
	".netrc":               {},
	"config.json":          {}, // only under .docker, see IsSensitivePath
}

// sensitiveGlobs match key material and certificate stores by name.
var sensitiveGlobs = []string{
	"*.pem",
	"*.key",
	"*.p12",
	"*.pfx",
	"*.jks",
	"*.keystore",
	"id_rsa*",
	"id_ed25519*",
	"*.cert",
}

// secretPattern pairs a content regexp with a human-readable label.
type secretPattern struct {
	re    *regexp.Regexp
	label string
}

var secretPatterns = []secretPattern{
	{regexp.MustCompile(`-----BEGIN.*PRIVATE KEY-----`), "private key"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS access key"},
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`), "Anthropic API key"},
	{regexp.MustCompile(`ghp_[a-zA-Z0-9]{36}`), "GitHub personal access token"},
	{regexp.MustCompile(`glpat-[a-zA-Z0-9\-_]{20,}`), "GitLab personal access token"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}T3BlbkFJ[a-zA-Z0-9]+`), "OpenAI API key"},
	{regexp.MustCompile(`xox[boaprs]-[a-zA-Z0-9\-]+`), "Slack token"},
}

// SkipDirs are directory names pruned from filesystem walks.
var SkipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	"dist":         {},
	"build":        {},
	".next":        {},
	".cache":       {},
}

// IsSensitivePath reports whether a repo-relative path must be excluded
// from indexing by name alone.
func IsSensitivePath(p string) bool {
	base := strings.ToLower(path.Base(filepath.ToSlash(p)))

	if base == "config.json" {
		return strings.Contains(filepath.ToSlash(p), ".docker/")
	}
	if _, ok := skipFiles[base]; ok {
		return true
	}
	for _, glob := range sensitiveGlobs {
		if matched, _ := path.Match(glob, base); matched {
			return true
		}
	}
	return false
}

// ScanContent returns labels for every secret pattern found in content.
// An empty result means the content is safe to index.
func ScanContent(content []byte) []string {
	var found []string
	for _, p := range secretPatterns {
		if p.re.Match(content) {
			found = append(found, p.label)
		}
	}
	return found
}

// WithinBase reports whether resolved stays inside base, rejecting
// traversal and symlink escapes. Both paths must already be absolute
// and cleaned.
func WithinBase(resolved, base string) bool {
	rel, err := filepath.Rel(base, resolved)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "..")
}
