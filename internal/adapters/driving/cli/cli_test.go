package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

// Fake services for command wiring tests.

type fakeIndexer struct {
	outcome *driving.IndexOutcome
	err     error
}

func (f *fakeIndexer) Index(_ context.Context, _ driven.Connector) (*driving.IndexOutcome, error) {
	return f.outcome, f.err
}

func (f *fakeIndexer) BuildIndex(_ context.Context, _ domain.RepoRef, _ *domain.FileSet) (*driving.IndexOutcome, error) {
	return f.outcome, f.err
}

func (f *fakeIndexer) UpdateIndex(_ context.Context, _ domain.RepoRef, _ *domain.FileSet) (*driving.IndexOutcome, error) {
	return f.outcome, f.err
}

func (f *fakeIndexer) Status(_ context.Context, ref domain.RepoRef) (*driving.IndexStatus, error) {
	return &driving.IndexStatus{Repo: ref.String()}, nil
}

type fakeCatalogueSvc struct {
	entries []domain.RepoSummary
	deleted []domain.RepoRef
	err     error
}

func (f *fakeCatalogueSvc) List(_ context.Context) ([]domain.RepoSummary, error) {
	return f.entries, f.err
}

func (f *fakeCatalogueSvc) Resolve(_ context.Context, repo string) (domain.RepoRef, error) {
	if f.err != nil {
		return domain.RepoRef{}, f.err
	}
	return domain.ParseRepoRef(repo)
}

func (f *fakeCatalogueSvc) Delete(_ context.Context, ref domain.RepoRef) error {
	f.deleted = append(f.deleted, ref)
	return f.err
}

type fakeSearchSvc struct {
	hits []driving.SectionHit
	err  error
}

func (f *fakeSearchSvc) Search(_ context.Context, _ domain.RepoRef, _ string, _ int) ([]driving.SectionHit, error) {
	return f.hits, f.err
}

type fakeTocSvc struct {
	toc   *driving.Toc
	nodes []driving.TocNode
	path  []string
	err   error
}

func (f *fakeTocSvc) Toc(_ context.Context, _ domain.RepoRef) (*driving.Toc, error) {
	return f.toc, f.err
}

func (f *fakeTocSvc) Tree(_ context.Context, _ domain.RepoRef) ([]driving.TocNode, error) {
	return f.nodes, f.err
}

func (f *fakeTocSvc) Path(_ context.Context, _ domain.RepoRef, _ string) ([]string, error) {
	return f.path, f.err
}

type fakeSectionSvc struct {
	contents []driving.SectionContent
	warnings []domain.Warning
	err      error
}

func (f *fakeSectionSvc) Get(_ context.Context, _ domain.RepoRef, _ string) (*driving.SectionContent, error) {
	if len(f.contents) == 0 {
		return nil, f.err
	}
	return &f.contents[0], f.err
}

func (f *fakeSectionSvc) GetMany(_ context.Context, _ domain.RepoRef, _ []string) ([]driving.SectionContent, []domain.Warning, error) {
	return f.contents, f.warnings, f.err
}

// setupTestServices wires fakes into the package-level services and
// returns a cleanup restoring the previous state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	prevIndexer := indexerService
	prevCatalogue := catalogueService
	prevSearch := searchService
	prevToc := tocService
	prevSection := sectionService
	prevConfig := configStore

	cfg, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	indexerService = &fakeIndexer{}
	catalogueService = &fakeCatalogueSvc{
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
	searchService = &fakeSearchSvc{
		hits: []driving.SectionHit{
			{
				Section: domain.Section{
					ID:      "readme-intro",
					Path:    "README.md#intro",
					Title:   "Intro",
					Summary: "Getting started",
				},
				Score: 13,
			},
		},
	}
	tocService = &fakeTocSvc{
		toc: &driving.Toc{
			Repo:      "acme/docs",
			IndexedAt: "2026-08-29T10:00:00Z",
			Files:     []string{"README.md"},
			Sections: []domain.Section{
				{ID: "readme-intro", Title: "Intro", Depth: 1},
				{ID: "readme-setup", Title: "Setup", Depth: 2},
			},
		},
		path: []string{"readme-intro", "readme-setup"},
	}
	sectionService = &fakeSectionSvc{
		contents: []driving.SectionContent{
			{
				Section: domain.Section{ID: "readme-intro", Title: "Intro"},
				Content: "# Intro\nwelcome\n",
			},
		},
	}
	configStore = cfg

	return func() {
		indexerService = prevIndexer
		catalogueService = prevCatalogue
		searchService = prevSearch
		tocService = prevToc
		sectionService = prevSection
		configStore = prevConfig
	}
}

// execute runs the root command with args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docmunch version")
}

func TestListCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/docs")
	assert.Contains(t, out, "12")
}

func TestListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	catalogueService = &fakeCatalogueSvc{}

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No repositories indexed yet")
}

func TestSearchCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "search", "acme/docs", "intro")
	require.NoError(t, err)
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "readme-intro")
	assert.Contains(t, out, "score 13")
}

func TestSearchCmd_RequiresTwoArgs(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "search", "acme/docs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestTocCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "toc", "acme/docs")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/docs")
	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "readme-setup")
}

func TestTocCmd_Path(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { tocPath = "" }()

	out, err := execute(t, "toc", "acme/docs", "--path", "readme-setup")
	require.NoError(t, err)
	assert.Contains(t, out, "readme-intro > readme-setup")
}

func TestSectionCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "section", "acme/docs", "readme-intro")
	require.NoError(t, err)
	assert.Contains(t, out, "== Intro (readme-intro)")
	assert.Contains(t, out, "welcome")
}

func TestDeleteCmd_Force(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { deleteForce = false }()

	fake := &fakeCatalogueSvc{}
	catalogueService = fake

	out, err := execute(t, "delete", "acme/docs", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted index for acme/docs")
	require.Len(t, fake.deleted, 1)
	assert.Equal(t, "acme/docs", fake.deleted[0].String())
}

func TestConfigCmd_SetAndGet(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "config", "set", "index.concurrency", "4")
	require.NoError(t, err)

	out, err := execute(t, "config", "get", "index.concurrency")
	require.NoError(t, err)
	assert.Contains(t, out, "4")
}

func TestConfigCmd_ShowMasksToken(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "config", "set", "github.token", "ghp_secret")
	require.NoError(t, err)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "ghp_secret")
}

func TestIndexCmd_UnknownSource(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "index", "definitely-not-a-directory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a directory nor a GitHub repository")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "index")
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "search")
	assert.Contains(t, names, "toc")
	assert.Contains(t, names, "section")
	assert.Contains(t, names, "delete")
	assert.Contains(t, names, "config")
	assert.Contains(t, names, "mcp")
	assert.Contains(t, names, "version")
}
