package driven

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// CatalogStore persists the registry of indexed repositories.
// Backed by SQLite for metadata storage.
type CatalogStore interface {
	// Upsert stores or replaces the catalogue entry for a repository.
	Upsert(ctx context.Context, entry domain.RepoSummary) error

	// Get retrieves a catalogue entry.
	// Returns domain.ErrNotFound if the repository is not catalogued.
	Get(ctx context.Context, ref domain.RepoRef) (*domain.RepoSummary, error)

	// List returns all catalogue entries, most recently indexed first.
	List(ctx context.Context) ([]domain.RepoSummary, error)

	// Delete removes a catalogue entry.
	// Deleting an absent entry is not an error.
	Delete(ctx context.Context, ref domain.RepoRef) error
}
