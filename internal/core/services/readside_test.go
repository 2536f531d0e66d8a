package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

func strPtr(s string) *string { return &s }

func seedDoc(cache *fakeCacheStore, ref domain.RepoRef, doc *domain.IndexDocument, raw map[string]string) {
	cache.docs[ref.Key()] = doc
	cache.raw[ref.Key()] = make(map[string][]byte)
	for path, content := range raw {
		cache.raw[ref.Key()][path] = []byte(content)
	}
}

func TestCatalogueService(t *testing.T) {
	ctx := context.Background()

	t.Run("list sorted most recent first", func(t *testing.T) {
		catalogue := newFakeCatalog()
		now := time.Now().UTC()
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{
			Owner: "acme", Name: "old", IndexedAt: now.Add(-time.Hour),
		}))
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{
			Owner: "acme", Name: "new", IndexedAt: now,
		}))

		svc := NewCatalogueService(catalogue, newFakeCacheStore())
		entries, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "new", entries[0].Name)
	})

	t.Run("resolve owner slash name", func(t *testing.T) {
		svc := NewCatalogueService(newFakeCatalog(), newFakeCacheStore())
		ref, err := svc.Resolve(ctx, "acme/docs")
		require.NoError(t, err)
		assert.Equal(t, domain.RepoRef{Owner: "acme", Name: "docs"}, ref)
	})

	t.Run("resolve bare name against catalogue", func(t *testing.T) {
		catalogue := newFakeCatalog()
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{Owner: "acme", Name: "docs"}))

		svc := NewCatalogueService(catalogue, newFakeCacheStore())
		ref, err := svc.Resolve(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, "acme", ref.Owner)
	})

	t.Run("resolve ambiguous bare name rejected", func(t *testing.T) {
		catalogue := newFakeCatalog()
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{Owner: "acme", Name: "docs"}))
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{Owner: "rival", Name: "docs"}))

		svc := NewCatalogueService(catalogue, newFakeCacheStore())
		_, err := svc.Resolve(ctx, "docs")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("resolve unknown bare name not found", func(t *testing.T) {
		svc := NewCatalogueService(newFakeCatalog(), newFakeCacheStore())
		_, err := svc.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete removes cache and catalogue entry", func(t *testing.T) {
		ref := domain.RepoRef{Owner: "acme", Name: "docs"}
		cache := newFakeCacheStore()
		catalogue := newFakeCatalog()
		seedDoc(cache, ref, &domain.IndexDocument{Repo: ref.String()}, nil)
		require.NoError(t, catalogue.Upsert(ctx, domain.RepoSummary{Owner: "acme", Name: "docs"}))

		svc := NewCatalogueService(catalogue, cache)
		require.NoError(t, svc.Delete(ctx, ref))

		_, err := cache.Load(ctx, ref)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = catalogue.Get(ctx, ref)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// Deleting again is a no-op.
		assert.NoError(t, svc.Delete(ctx, ref))
	})
}

func searchDoc() *domain.IndexDocument {
	return &domain.IndexDocument{
		Repo: "acme/docs",
		Sections: []domain.Section{
			{ID: "readme-installation", Title: "Installation", Summary: "How to install the tool", Keywords: []string{"install", "setup"}},
			{ID: "readme-usage", Title: "Usage", Summary: "Running the indexer from the command line", Keywords: []string{"cli"}},
			{ID: "guide-troubleshooting", Title: "Troubleshooting", Summary: "Fixes for installation problems", Keywords: []string{"errors"}},
		},
	}
}

func TestSearchService(t *testing.T) {
	ctx := context.Background()
	ref := domain.RepoRef{Owner: "acme", Name: "docs"}

	newSvc := func() *SearchSvc {
		cache := newFakeCacheStore()
		seedDoc(cache, ref, searchDoc(), nil)
		return NewSearchService(cache)
	}

	t.Run("title substring outranks summary match", func(t *testing.T) {
		hits, err := newSvc().Search(ctx, ref, "installation", 0)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "readme-installation", hits[0].Section.ID)
		assert.Greater(t, hits[0].Score, hits[1].Score)
	})

	t.Run("keyword match scores", func(t *testing.T) {
		hits, err := newSvc().Search(ctx, ref, "cli", 0)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "readme-usage", hits[0].Section.ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		hits, err := newSvc().Search(ctx, ref, "INSTALLATION", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, hits)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		hits, err := newSvc().Search(ctx, ref, "zeppelin", 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("limit caps results", func(t *testing.T) {
		hits, err := newSvc().Search(ctx, ref, "installation", 1)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := newSvc().Search(ctx, ref, "  ", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing index propagates not found", func(t *testing.T) {
		svc := NewSearchService(newFakeCacheStore())
		_, err := svc.Search(ctx, ref, "anything", 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func tocDoc() *domain.IndexDocument {
	return &domain.IndexDocument{
		Repo:      "acme/docs",
		IndexedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		DocFiles:  []string{"README.md"},
		Sections: []domain.Section{
			{ID: "readme-intro", File: "README.md", Title: "Intro", Depth: 1},
			{ID: "readme-setup", File: "README.md", Title: "Setup", Depth: 2, Parent: strPtr("readme-intro")},
			{ID: "readme-config", File: "README.md", Title: "Config", Depth: 3, Parent: strPtr("readme-setup")},
			{ID: "readme-faq", File: "README.md", Title: "FAQ", Depth: 1},
			{ID: "readme-orphan", File: "README.md", Title: "Orphan", Depth: 2, Parent: strPtr("no-such-id")},
		},
	}
}

func TestTocService(t *testing.T) {
	ctx := context.Background()
	ref := domain.RepoRef{Owner: "acme", Name: "docs"}

	newSvc := func() *TocSvc {
		cache := newFakeCacheStore()
		seedDoc(cache, ref, tocDoc(), nil)
		return NewTocService(cache)
	}

	t.Run("flat toc preserves document order", func(t *testing.T) {
		toc, err := newSvc().Toc(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "acme/docs", toc.Repo)
		assert.Equal(t, "2026-02-01T12:00:00Z", toc.IndexedAt)
		require.Len(t, toc.Sections, 5)
		assert.Equal(t, "readme-intro", toc.Sections[0].ID)
	})

	t.Run("tree nests by parent", func(t *testing.T) {
		roots, err := newSvc().Tree(ctx, ref)
		require.NoError(t, err)
		// intro, faq, plus the orphan promoted to root.
		require.Len(t, roots, 3)
		assert.Equal(t, "readme-intro", roots[0].Section.ID)
		require.Len(t, roots[0].Children, 1)
		assert.Equal(t, "readme-setup", roots[0].Children[0].Section.ID)
		require.Len(t, roots[0].Children[0].Children, 1)
		assert.Equal(t, "readme-config", roots[0].Children[0].Children[0].Section.ID)
	})

	t.Run("orphaned parent promotes section to root", func(t *testing.T) {
		roots, err := newSvc().Tree(ctx, ref)
		require.NoError(t, err)
		ids := make([]string, len(roots))
		for i, r := range roots {
			ids[i] = r.Section.ID
		}
		assert.Contains(t, ids, "readme-orphan")
	})

	t.Run("path walks root to section", func(t *testing.T) {
		path, err := newSvc().Path(ctx, ref, "readme-config")
		require.NoError(t, err)
		assert.Equal(t, []string{"readme-intro", "readme-setup", "readme-config"}, path)
	})

	t.Run("path of root is itself", func(t *testing.T) {
		path, err := newSvc().Path(ctx, ref, "readme-faq")
		require.NoError(t, err)
		assert.Equal(t, []string{"readme-faq"}, path)
	})

	t.Run("path of unknown section not found", func(t *testing.T) {
		_, err := newSvc().Path(ctx, ref, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSectionService(t *testing.T) {
	ctx := context.Background()
	ref := domain.RepoRef{Owner: "acme", Name: "docs"}
	content := "# Intro\nwelcome\n# More\nrest\n"

	newSvc := func() (*SectionSvc, *fakeCacheStore) {
		cache := newFakeCacheStore()
		doc := &domain.IndexDocument{
			Repo:       "acme/docs",
			IndexedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
			CommitHash: "abc123",
			DocFiles:   []string{"README.md"},
			Sections: []domain.Section{
				{ID: "readme-intro", File: "README.md", Title: "Intro", Depth: 1, ByteOffset: 0, ByteLength: 16},
				{ID: "readme-more", File: "README.md", Title: "More", Depth: 1, ByteOffset: 16, ByteLength: 12},
			},
		}
		seedDoc(cache, ref, doc, map[string]string{"README.md": content})
		return NewSectionService(cache), cache
	}

	t.Run("get returns exact byte range", func(t *testing.T) {
		svc, _ := newSvc()
		got, err := svc.Get(ctx, ref, "readme-intro")
		require.NoError(t, err)
		assert.Equal(t, "# Intro\nwelcome\n", got.Content)
		assert.Equal(t, "abc123", got.CommitHash)
		assert.Equal(t, "2026-02-01T12:00:00Z", got.IndexedAt)
	})

	t.Run("get unknown section not found", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Get(ctx, ref, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get many reports misses as warnings", func(t *testing.T) {
		svc, _ := newSvc()
		got, warnings, err := svc.GetMany(ctx, ref, []string{"readme-intro", "nope", "readme-more"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		require.Len(t, warnings, 1)
		assert.Equal(t, "nope", warnings[0].Path)
	})

	t.Run("get many with no ids rejected", func(t *testing.T) {
		svc, _ := newSvc()
		_, _, err := svc.GetMany(ctx, ref, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// Compile-time wiring checks for the service constructors.
var (
	_ driving.Indexer          = (*IndexerService)(nil)
	_ driven.CacheStore        = (*fakeCacheStore)(nil)
	_ driven.CatalogStore      = (*fakeCatalog)(nil)
	_ driven.ParserRegistry    = (*fakeRegistry)(nil)
	_ driven.SectionParser     = (*fakeParser)(nil)
	_ driven.Summariser        = (fakeSummariser{})
)
