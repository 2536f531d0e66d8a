package driven

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// CurrentIndexVersion is the index schema version this engine writes.
// Increment it when the schema changes in a backward-incompatible way;
// persisted documents with a lower version are discarded and rebuilt.
// Additive fields do not require a bump: loading applies defaults.
const CurrentIndexVersion = 1

// CacheStore owns the versioned on-disk representation of index documents
// and the newline-normalised raw file copies alongside them.
//
// Load treats stale documents (older index version) and malformed data
// exactly like a missing cache: callers get domain.ErrNotFound and a
// single-shaped recovery path, a full rebuild.
type CacheStore interface {
	// Load retrieves the persisted document for a repository.
	// Returns domain.ErrNotFound if absent, stale, or unreadable.
	Load(ctx context.Context, ref domain.RepoRef) (*domain.IndexDocument, error)

	// Save atomically persists a document together with the raw copies
	// of its changed files, and removes raw copies for removed paths.
	// Either the full new document replaces the old one, or on failure
	// the old document remains intact.
	Save(ctx context.Context, ref domain.RepoRef, doc *domain.IndexDocument, rawFiles map[string][]byte, removed []string) error

	// Delete removes a repository's document and all raw copies.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, ref domain.RepoRef) error

	// ReadSection reads a section's content from the raw copy of its
	// file using the section's byte offset and length.
	ReadSection(ctx context.Context, ref domain.RepoRef, section *domain.Section) (string, error)
}
