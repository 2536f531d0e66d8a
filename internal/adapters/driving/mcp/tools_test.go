package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Toc == nil {
		ports.Toc = &mockTocService{}
	}
	if ports.Section == nil {
		ports.Section = &mockSectionService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleSearchSections(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scored results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			hits: []driving.SectionHit{
				{
					Section: domain.Section{
						ID:      "readme-intro",
						File:    "README.md",
						Path:    "README.md#intro",
						Title:   "Intro",
						Depth:   1,
						Summary: "Getting started",
					},
					Score: 13,
				},
			},
		}

		server := newTestServer(t, &Ports{Search: mockSearch})

		input := SearchSectionsInput{Repo: "acme/docs", Query: "intro"}
		_, output, err := server.handleSearchSections(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "readme-intro", output.Results[0].Section.ID)
		assert.Equal(t, "Getting started", output.Results[0].Section.Summary)
		assert.Equal(t, 13, output.Results[0].Score)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, _, err := server.handleSearchSections(ctx, nil, SearchSectionsInput{Repo: "acme/docs", Query: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})

	t.Run("fails when search not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleSearchSections(ctx, nil, SearchSectionsInput{Repo: "acme/docs", Query: "x"})
		require.Error(t, err)
	})

	t.Run("resolves bare names through the catalogue", func(t *testing.T) {
		ref, err := domain.ParseRepoRef("acme/docs")
		require.NoError(t, err)
		server := newTestServer(t, &Ports{
			Search:    &mockSearchService{},
			Catalogue: &mockCatalogueService{ref: ref},
		})

		_, output, err := server.handleSearchSections(ctx, nil, SearchSectionsInput{Repo: "docs", Query: "x"})
		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
	})
}

func TestServer_handleGetToc(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the flat catalogue", func(t *testing.T) {
		parent := "readme-intro"
		mockToc := &mockTocService{
			toc: &driving.Toc{
				Repo:      "acme/docs",
				IndexedAt: "2026-08-29T10:00:00Z",
				Files:     []string{"README.md"},
				Sections: []domain.Section{
					{ID: "readme-intro", Title: "Intro", Depth: 1},
					{ID: "readme-setup", Title: "Setup", Depth: 2, Parent: &parent},
				},
			},
		}

		server := newTestServer(t, &Ports{Toc: mockToc})

		_, output, err := server.handleGetToc(ctx, nil, GetTocInput{Repo: "acme/docs"})
		require.NoError(t, err)
		assert.Equal(t, "acme/docs", output.Repo)
		require.Len(t, output.Sections, 2)
		assert.Equal(t, "", output.Sections[0].Parent)
		assert.Equal(t, "readme-intro", output.Sections[1].Parent)
	})

	t.Run("propagates missing index", func(t *testing.T) {
		mockToc := &mockTocService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Toc: mockToc})

		_, _, err := server.handleGetToc(ctx, nil, GetTocInput{Repo: "acme/docs"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleGetSection(t *testing.T) {
	ctx := context.Background()

	t.Run("returns content with per-id warnings", func(t *testing.T) {
		mockSection := &mockSectionService{
			contents: []driving.SectionContent{
				{
					Section:   domain.Section{ID: "readme-intro", Title: "Intro"},
					Content:   "# Intro\nwelcome\n",
					IndexedAt: "2026-08-29T10:00:00Z",
				},
			},
			warnings: []domain.Warning{{Path: "bogus-id", Message: "section not found"}},
		}

		server := newTestServer(t, &Ports{Section: mockSection})

		input := GetSectionInput{Repo: "acme/docs", SectionIDs: []string{"readme-intro", "bogus-id"}}
		_, output, err := server.handleGetSection(ctx, nil, input)

		require.NoError(t, err)
		require.Len(t, output.Sections, 1)
		assert.Equal(t, "# Intro\nwelcome\n", output.Sections[0].Content)
		require.Len(t, output.Warnings, 1)
		assert.Contains(t, output.Warnings[0], "bogus-id")
	})
}

func TestServer_handleListRepos(t *testing.T) {
	ctx := context.Background()

	t.Run("lists catalogued repositories", func(t *testing.T) {
		mockCatalogue := &mockCatalogueService{
			entries: []domain.RepoSummary{
				{
					Owner:        "acme",
					Name:         "docs",
					IndexedAt:    time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
					FileCount:    3,
					SectionCount: 12,
				},
			},
		}

		server := newTestServer(t, &Ports{Catalogue: mockCatalogue})

		_, output, err := server.handleListRepos(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "acme/docs", output.Repos[0].Repo)
		assert.Equal(t, "2026-08-29T10:00:00Z", output.Repos[0].IndexedAt)
	})

	t.Run("fails without a catalogue", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleListRepos(ctx, nil, struct{}{})
		require.Error(t, err)
	})
}

func TestServer_handleIndexRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed repository", func(t *testing.T) {
		server := newTestServer(t, &Ports{Indexer: &mockIndexer{}})
		_, _, err := server.handleIndexRepo(ctx, nil, IndexRepoInput{Repo: "not-a-repo"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("fails when indexer not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{})
		_, _, err := server.handleIndexRepo(ctx, nil, IndexRepoInput{Repo: "acme/docs"})
		require.Error(t, err)
	})
}

func TestServer_handleIndexLocal(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes a directory", func(t *testing.T) {
		mock := &mockIndexer{
			outcome: &driving.IndexOutcome{
				Document: &domain.IndexDocument{
					Repo:     "local/docs",
					DocFiles: []string{"README.md"},
					Sections: []domain.Section{{ID: "readme-intro"}},
				},
				FilesParsed: 1,
				Duration:    42 * time.Millisecond,
			},
		}

		server := newTestServer(t, &Ports{Indexer: mock})

		_, output, err := server.handleIndexLocal(ctx, nil, IndexLocalInput{Path: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, "local/docs", output.Repo)
		assert.Equal(t, 1, output.Sections)
		assert.Equal(t, int64(42), output.DurationMS)
	})
}
