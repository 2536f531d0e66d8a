package driving

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// SectionService retrieves the content of catalogued sections.
type SectionService interface {
	// Get returns one section's metadata and raw content.
	Get(ctx context.Context, ref domain.RepoRef, sectionID string) (*SectionContent, error)

	// GetMany returns multiple sections; missing IDs are reported
	// individually rather than failing the whole call.
	GetMany(ctx context.Context, ref domain.RepoRef, sectionIDs []string) ([]SectionContent, []domain.Warning, error)
}

// SectionContent is a section together with its raw content.
type SectionContent struct {
	// Section is the catalogue entry.
	Section domain.Section

	// Content is the section's newline-normalised raw text.
	Content string

	// IndexedAt is the owning catalogue's build time, RFC 3339 UTC.
	IndexedAt string

	// CommitHash is the source commit of the owning catalogue.
	CommitHash string
}
