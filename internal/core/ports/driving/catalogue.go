package driving

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// CatalogueService answers questions about which repositories are indexed.
type CatalogueService interface {
	// List returns all indexed repositories, most recent first.
	List(ctx context.Context) ([]domain.RepoSummary, error)

	// Resolve turns a repository identifier into a reference.
	// Accepts "owner/name" or a bare name, which is matched against
	// the catalogue by suffix.
	Resolve(ctx context.Context, repo string) (domain.RepoRef, error)

	// Delete removes a repository's index, raw copies, and
	// catalogue entry.
	Delete(ctx context.Context, ref domain.RepoRef) error
}
