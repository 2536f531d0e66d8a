// Package simple provides a heuristic summariser: no model calls, just
// the section's own text. An AI-backed implementation can replace it
// behind the same port.
package simple

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

// maxSummaryLen caps the generated one-line summary.
const maxSummaryLen = 120

var _ driven.Summariser = (*Summariser)(nil)

// Summariser derives a summary from the section's first content line
// and keywords from inline code, identifiers, and common technical
// terms.
type Summariser struct{}

// New creates a heuristic summariser.
func New() *Summariser { return &Summariser{} }

var (
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	identifierRe = regexp.MustCompile(`\b([a-z]+[A-Z][a-zA-Z]*|[a-z]+_[a-z_]+)\b`)

	techTermRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(install|setup|config|api|auth|oauth|token|key|secret)\b`),
		regexp.MustCompile(`(?i)\b(import|export|module|package|dependency)\b`),
		regexp.MustCompile(`(?i)\b(error|debug|log|test|build|deploy)\b`),
	}
)

// Summarise implements driven.Summariser.
func (s *Summariser) Summarise(_ context.Context, title string, content []byte) (string, []string, error) {
	return summary(title, string(content)), keywords(string(content)), nil
}

// summary returns the first prose line of the section, skipping the
// heading itself, adornment lines, and blanks.
func summary(title, content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == title || isAdornment(line) {
			continue
		}
		if len(line) > maxSummaryLen {
			return line[:maxSummaryLen-3] + "..."
		}
		return line
	}
	return ""
}

// isAdornment reports whether a line is a run of one punctuation
// character, as RST underlines are.
func isAdornment(line string) bool {
	if len(line) < 2 {
		return false
	}
	c := line[0]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

// keywords extracts up to domain.MaxKeywords terms: inline code spans,
// identifier-shaped words, and common technical vocabulary, deduped
// and sorted.
func keywords(content string) []string {
	seen := make(map[string]struct{})

	collect := func(matches [][]string) {
		for _, m := range matches {
			kw := strings.ToLower(strings.TrimSpace(m[1]))
			if len(kw) > 2 && len(kw) < 30 {
				seen[kw] = struct{}{}
			}
		}
	}

	collect(inlineCodeRe.FindAllStringSubmatch(content, -1))
	collect(identifierRe.FindAllStringSubmatch(content, -1))
	for _, re := range techTermRes {
		collect(re.FindAllStringSubmatch(content, -1))
	}

	out := make([]string, 0, len(seen))
	for kw := range seen {
		out = append(out, kw)
	}
	sort.Strings(out)
	if len(out) > domain.MaxKeywords {
		out = out[:domain.MaxKeywords]
	}
	return out
}
