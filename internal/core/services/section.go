package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

var _ driving.SectionService = (*SectionSvc)(nil)

// SectionSvc retrieves section content by reading byte ranges out of
// the cached raw copies.
type SectionSvc struct {
	cache driven.CacheStore
}

// NewSectionService creates a section retrieval service.
func NewSectionService(cache driven.CacheStore) *SectionSvc {
	return &SectionSvc{cache: cache}
}

// Get returns one section with its raw content.
func (s *SectionSvc) Get(ctx context.Context, ref domain.RepoRef, sectionID string) (*driving.SectionContent, error) {
	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return s.get(ctx, ref, doc, sectionID)
}

// GetMany returns the requested sections, reporting unknown or
// unreadable IDs as warnings instead of failing the batch.
func (s *SectionSvc) GetMany(ctx context.Context, ref domain.RepoRef, sectionIDs []string) ([]driving.SectionContent, []domain.Warning, error) {
	if len(sectionIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: no section IDs", domain.ErrInvalidInput)
	}

	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}

	var (
		out      []driving.SectionContent
		warnings []domain.Warning
	)
	for _, id := range sectionIDs {
		content, err := s.get(ctx, ref, doc, id)
		if err != nil {
			warnings = append(warnings, domain.Warning{Path: id, Message: err.Error()})
			continue
		}
		out = append(out, *content)
	}
	return out, warnings, nil
}

func (s *SectionSvc) get(ctx context.Context, ref domain.RepoRef, doc *domain.IndexDocument, sectionID string) (*driving.SectionContent, error) {
	sec := doc.Section(sectionID)
	if sec == nil {
		return nil, fmt.Errorf("%w: section %q", domain.ErrNotFound, sectionID)
	}

	content, err := s.cache.ReadSection(ctx, ref, sec)
	if err != nil {
		return nil, fmt.Errorf("read section %s: %w", sectionID, err)
	}
	return &driving.SectionContent{
		Section:    *sec,
		Content:    content,
		IndexedAt:  doc.IndexedAt.UTC().Format(time.RFC3339),
		CommitHash: doc.CommitHash,
	}, nil
}
