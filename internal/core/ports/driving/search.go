package driving

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

// SearchService matches catalogued sections against a query.
// Only titles, summaries, and keywords are searched; full-text content
// search is not offered.
type SearchService interface {
	// Search returns scored section matches for a repository,
	// best first, at most limit results.
	Search(ctx context.Context, ref domain.RepoRef, query string, limit int) ([]SectionHit, error)
}

// SectionHit is one scored search result.
type SectionHit struct {
	// Section is the matched catalogue entry.
	Section domain.Section

	// Score is the relevance score; higher is better.
	Score int
}
