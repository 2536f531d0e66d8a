package driving

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// TocService exposes the section catalogue as a table of contents.
type TocService interface {
	// Toc returns the flat catalogue for a repository in
	// file-then-document order.
	Toc(ctx context.Context, ref domain.RepoRef) (*Toc, error)

	// Tree returns the catalogue as a nested forest, resolved from
	// the sections' parent references.
	Tree(ctx context.Context, ref domain.RepoRef) ([]TocNode, error)

	// Path returns the section IDs from a root to the given section.
	Path(ctx context.Context, ref domain.RepoRef, sectionID string) ([]string, error)
}

// Toc is the flat table of contents for one repository.
type Toc struct {
	// Repo is the "owner/name" identifier.
	Repo string

	// IndexedAt is the catalogue's build time, RFC 3339 UTC.
	IndexedAt string

	// Files lists the indexed documentation files.
	Files []string

	// Sections lists all catalogue entries.
	Sections []domain.Section
}

// TocNode is one node of the nested table of contents.
type TocNode struct {
	// Section is the catalogue entry at this node.
	Section domain.Section

	// Children are the section's direct descendants in document order.
	Children []TocNode
}
