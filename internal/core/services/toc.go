package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

var _ driving.TocService = (*TocSvc)(nil)

// TocSvc exposes a repository's catalogue as a table of contents,
// either flat or nested.
type TocSvc struct {
	cache driven.CacheStore
}

// NewTocService creates a table-of-contents service.
func NewTocService(cache driven.CacheStore) *TocSvc {
	return &TocSvc{cache: cache}
}

// Toc returns the flat catalogue in file-then-document order, the
// order sections were assigned in.
func (s *TocSvc) Toc(ctx context.Context, ref domain.RepoRef) (*driving.Toc, error) {
	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return &driving.Toc{
		Repo:      doc.Repo,
		IndexedAt: doc.IndexedAt.UTC().Format(time.RFC3339),
		Files:     doc.DocFiles,
		Sections:  doc.Sections,
	}, nil
}

// Tree nests the catalogue by parent reference. Sections whose parent
// is unset, or references an ID missing from the document, become
// roots; children keep document order.
func (s *TocSvc) Tree(ctx context.Context, ref domain.RepoRef) ([]driving.TocNode, error) {
	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	known := make(map[string]bool, len(doc.Sections))
	for _, sec := range doc.Sections {
		known[sec.ID] = true
	}

	childIDs := make(map[string][]string)
	var rootIDs []string
	byID := make(map[string]domain.Section, len(doc.Sections))
	for _, sec := range doc.Sections {
		byID[sec.ID] = sec
		if sec.Parent != nil && known[*sec.Parent] {
			childIDs[*sec.Parent] = append(childIDs[*sec.Parent], sec.ID)
		} else {
			rootIDs = append(rootIDs, sec.ID)
		}
	}

	var grow func(id string) driving.TocNode
	grow = func(id string) driving.TocNode {
		node := driving.TocNode{Section: byID[id]}
		for _, childID := range childIDs[id] {
			node.Children = append(node.Children, grow(childID))
		}
		return node
	}

	roots := make([]driving.TocNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, grow(id))
	}
	return roots, nil
}

// Path returns section IDs from a root down to the given section,
// inclusive.
func (s *TocSvc) Path(ctx context.Context, ref domain.RepoRef, sectionID string) ([]string, error) {
	doc, err := s.cache.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	byID := make(map[string]domain.Section, len(doc.Sections))
	for _, sec := range doc.Sections {
		byID[sec.ID] = sec
	}

	sec, ok := byID[sectionID]
	if !ok {
		return nil, fmt.Errorf("%w: section %q", domain.ErrNotFound, sectionID)
	}

	path := []string{sec.ID}
	seen := map[string]bool{sec.ID: true}
	for sec.Parent != nil {
		parent, ok := byID[*sec.Parent]
		if !ok || seen[parent.ID] {
			break
		}
		path = append([]string{parent.ID}, path...)
		seen[parent.ID] = true
		sec = parent
	}
	return path, nil
}
