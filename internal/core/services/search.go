package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

// DefaultSearchLimit caps results when the caller passes no limit.
const DefaultSearchLimit = 10

// Relevance weights. Title matches dominate, keyword matches beat
// summary word matches, a whole-query hit in the summary sits between.
const (
	scoreTitleSubstring   = 10
	scoreSummarySubstring = 5
	scoreTitleWord        = 3
	scoreKeywordWord      = 2
	scoreSummaryWord      = 1
)

var _ driving.SearchService = (*SearchSvc)(nil)

// SearchSvc scores catalogue sections against a query. Matching runs
// over titles, summaries, and keywords only; raw content is never
// loaded, so a search touches one JSON document regardless of corpus
// size.
type SearchSvc struct {
	cache driven.CacheStore
}

// NewSearchService creates a search service.
func NewSearchService(cache driven.CacheStore) *SearchSvc {
	return &SearchSvc{cache: cache}
}

// Search returns the highest-scoring sections for the query, best
// first. Ties break on catalogue order so results are stable between
// calls.
func (s *SearchSvc) Search(ctx context.Context, ref domain.RepoRef, query string, limit int) ([]driving.SectionHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	var hits []driving.SectionHit
	for _, sec := range doc.Sections {
		score := scoreSection(sec, queryLower, queryWords)
		if score > 0 {
			hits = append(hits, driving.SectionHit{Section: sec, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func scoreSection(sec domain.Section, queryLower string, queryWords []string) int {
	title := strings.ToLower(sec.Title)
	summary := strings.ToLower(sec.Summary)

	score := 0
	if strings.Contains(title, queryLower) {
		score += scoreTitleSubstring
	}
	if summary != "" && strings.Contains(summary, queryLower) {
		score += scoreSummarySubstring
	}

	titleWords := wordSet(title)
	summaryWords := wordSet(summary)
	keywords := make(map[string]bool, len(sec.Keywords))
	for _, kw := range sec.Keywords {
		keywords[strings.ToLower(kw)] = true
	}

	for _, w := range queryWords {
		if titleWords[w] {
			score += scoreTitleWord
		}
		if keywords[w] {
			score += scoreKeywordWord
		}
		if summaryWords[w] {
			score += scoreSummaryWord
		}
	}
	return score
}

func wordSet(s string) map[string]bool {
	if s == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[strings.Trim(w, ".,:;!?()[]{}\"'`")] = true
	}
	return set
}
