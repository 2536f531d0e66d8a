package parsers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps file extensions to section parsers.
type Registry struct {
	byExt map[string]driven.SectionParser
}

// NewRegistry creates a registry with the default parsers: Markdown
// (covering MDX) and reStructuredText.
func NewRegistry(opts ...MarkdownOption) *Registry {
	r := &Registry{byExt: make(map[string]driven.SectionParser)}
	r.Register(NewMarkdownParser(opts...))
	r.Register(NewRSTParser())
	return r
}

// Register adds a parser for all extensions it supports, replacing any
// previous registration for the same extension.
func (r *Registry) Register(p driven.SectionParser) {
	for _, ext := range p.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// ParserFor returns the parser registered for the file's extension.
func (r *Registry) ParserFor(path string) (driven.SectionParser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
	return p, nil
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
