package mcp

import (
	"context"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	outcome *driving.IndexOutcome
	status  *driving.IndexStatus
	err     error
}

func (m *mockIndexer) Index(_ context.Context, _ driven.Connector) (*driving.IndexOutcome, error) {
	return m.outcome, m.err
}

func (m *mockIndexer) BuildIndex(_ context.Context, _ domain.RepoRef, _ *domain.FileSet) (*driving.IndexOutcome, error) {
	return m.outcome, m.err
}

func (m *mockIndexer) UpdateIndex(_ context.Context, _ domain.RepoRef, _ *domain.FileSet) (*driving.IndexOutcome, error) {
	return m.outcome, m.err
}

func (m *mockIndexer) Status(_ context.Context, _ domain.RepoRef) (*driving.IndexStatus, error) {
	return m.status, m.err
}

// mockCatalogueService is a mock implementation of driving.CatalogueService.
type mockCatalogueService struct {
	entries []domain.RepoSummary
	ref     domain.RepoRef
	err     error
}

func (m *mockCatalogueService) List(_ context.Context) ([]domain.RepoSummary, error) {
	return m.entries, m.err
}

func (m *mockCatalogueService) Resolve(_ context.Context, repo string) (domain.RepoRef, error) {
	if m.err != nil {
		return domain.RepoRef{}, m.err
	}
	if !m.ref.IsZero() {
		return m.ref, nil
	}
	return domain.ParseRepoRef(repo)
}

func (m *mockCatalogueService) Delete(_ context.Context, _ domain.RepoRef) error {
	return m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits []driving.SectionHit
	err  error
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ domain.RepoRef,
	_ string,
	_ int,
) ([]driving.SectionHit, error) {
	return m.hits, m.err
}

// mockTocService is a mock implementation of driving.TocService.
type mockTocService struct {
	toc   *driving.Toc
	nodes []driving.TocNode
	path  []string
	err   error
}

func (m *mockTocService) Toc(_ context.Context, _ domain.RepoRef) (*driving.Toc, error) {
	return m.toc, m.err
}

func (m *mockTocService) Tree(_ context.Context, _ domain.RepoRef) ([]driving.TocNode, error) {
	return m.nodes, m.err
}

func (m *mockTocService) Path(_ context.Context, _ domain.RepoRef, _ string) ([]string, error) {
	return m.path, m.err
}

// mockSectionService is a mock implementation of driving.SectionService.
type mockSectionService struct {
	content  *driving.SectionContent
	contents []driving.SectionContent
	warnings []domain.Warning
	err      error
}

func (m *mockSectionService) Get(_ context.Context, _ domain.RepoRef, _ string) (*driving.SectionContent, error) {
	return m.content, m.err
}

func (m *mockSectionService) GetMany(_ context.Context, _ domain.RepoRef, _ []string) ([]driving.SectionContent, []domain.Warning, error) {
	return m.contents, m.warnings, m.err
}
