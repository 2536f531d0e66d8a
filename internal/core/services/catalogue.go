package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
)

var _ driving.CatalogueService = (*CatalogueSvc)(nil)

// CatalogueSvc lists, resolves, and deletes indexed repositories.
// It reads the catalogue store for listings and touches the cache
// store only for deletion, so List stays cheap regardless of how
// large the cached documents are.
type CatalogueSvc struct {
	catalogue driven.CatalogStore
	cache     driven.CacheStore
}

// NewCatalogueService creates a catalogue service.
func NewCatalogueService(catalogue driven.CatalogStore, cache driven.CacheStore) *CatalogueSvc {
	return &CatalogueSvc{catalogue: catalogue, cache: cache}
}

// List returns all indexed repositories, most recently indexed first.
// Without a catalogue store the listing is empty.
func (s *CatalogueSvc) List(ctx context.Context) ([]domain.RepoSummary, error) {
	if s.catalogue == nil {
		return nil, nil
	}
	entries, err := s.catalogue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalogue: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].IndexedAt.After(entries[j].IndexedAt)
	})
	return entries, nil
}

// Resolve turns a repository identifier into a reference. Full
// "owner/name" identifiers resolve directly; a bare name is matched
// against the catalogue and must be unambiguous.
func (s *CatalogueSvc) Resolve(ctx context.Context, repo string) (domain.RepoRef, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return domain.RepoRef{}, fmt.Errorf("%w: empty repository identifier", domain.ErrInvalidInput)
	}

	if strings.Contains(repo, "/") {
		return domain.ParseRepoRef(repo)
	}

	if s.catalogue == nil {
		return domain.RepoRef{}, fmt.Errorf("%w: repository %q", domain.ErrNotFound, repo)
	}
	entries, err := s.catalogue.List(ctx)
	if err != nil {
		return domain.RepoRef{}, fmt.Errorf("list catalogue: %w", err)
	}

	var matches []domain.RepoRef
	for _, e := range entries {
		if strings.EqualFold(e.Name, repo) {
			matches = append(matches, e.Ref())
		}
	}
	switch len(matches) {
	case 0:
		return domain.RepoRef{}, fmt.Errorf("%w: repository %q", domain.ErrNotFound, repo)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.String()
		}
		return domain.RepoRef{}, fmt.Errorf("%w: %q is ambiguous, matches %s",
			domain.ErrInvalidInput, repo, strings.Join(names, ", "))
	}
}

// Delete removes a repository's cached document, raw copies, and
// catalogue entry. Absence anywhere is not an error: deleting an
// already-deleted repository is a no-op.
func (s *CatalogueSvc) Delete(ctx context.Context, ref domain.RepoRef) error {
	if err := s.cache.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete cache: %w", err)
	}
	if s.catalogue != nil {
		if err := s.catalogue.Delete(ctx, ref); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete catalogue entry: %w", err)
		}
	}
	logger.Info("Deleted index for %s", ref)
	return nil
}
