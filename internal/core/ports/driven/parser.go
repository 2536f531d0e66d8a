package driven

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// SectionParser converts one file's newline-normalised content into an
// ordered list of raw sections. Each parser handles specific documentation
// formats (Markdown, MDX, reStructuredText).
type SectionParser interface {
	// SupportedExtensions returns the lowercase file extensions this
	// parser handles, including the leading dot.
	SupportedExtensions() []string

	// Parse extracts raw sections from content in document order.
	// Content must already have line endings collapsed to \n; all byte
	// offsets in the result are relative to that normalised content.
	// A file whose content cannot be decoded as text is a parse failure.
	Parse(ctx context.Context, path string, content []byte) ([]domain.RawSection, error)
}

// ParserRegistry selects the appropriate section parser for a file.
type ParserRegistry interface {
	// ParserFor returns the parser for the file's extension.
	// Returns domain.ErrUnsupportedFormat if no parser matches.
	ParserFor(path string) (SectionParser, error)

	// Extensions returns all extensions with a registered parser.
	Extensions() []string
}
