package mcp

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	configfile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmunch-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docmunch-cli/internal/connectors/github"
	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

// SectionInfo is the wire shape of one catalogue section.
type SectionInfo struct {
	ID       string   `json:"id"`
	File     string   `json:"file"`
	Path     string   `json:"path"`
	Title    string   `json:"title"`
	Depth    int      `json:"depth"`
	Parent   string   `json:"parent,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Lines    int      `json:"lines"`
}

func sectionInfo(s domain.Section) SectionInfo {
	info := SectionInfo{
		ID:       s.ID,
		File:     s.File,
		Path:     s.Path,
		Title:    s.Title,
		Depth:    s.Depth,
		Summary:  s.Summary,
		Keywords: s.Keywords,
		Lines:    s.LineCount,
	}
	if s.Parent != nil {
		info.Parent = *s.Parent
	}
	return info
}

// IndexRepoInput is the input schema for the index_repo tool.
type IndexRepoInput struct {
	Repo   string `json:"repo" jsonschema:"the GitHub repository as owner/name or a github.com URL"`
	Branch string `json:"branch,omitempty" jsonschema:"branch to index (default: repository default branch)"`
}

// IndexLocalInput is the input schema for the index_local tool.
type IndexLocalInput struct {
	Path string `json:"path" jsonschema:"absolute path of the local directory to index"`
	Name string `json:"name,omitempty" jsonschema:"catalogue name (default: directory basename)"`
}

// IndexOutput is the output schema for the indexing tools.
type IndexOutput struct {
	Repo         string   `json:"repo"`
	Sections     int      `json:"sections"`
	Files        int      `json:"files"`
	FilesParsed  int      `json:"files_parsed"`
	FilesCarried int      `json:"files_carried"`
	CommitHash   string   `json:"commit_hash,omitempty"`
	DurationMS   int64    `json:"duration_ms"`
	Warnings     []string `json:"warnings,omitempty"`
}

// SearchSectionsInput is the input schema for the search_sections tool.
type SearchSectionsInput struct {
	Repo  string `json:"repo" jsonschema:"the repository to search, as owner/name or a bare name"`
	Query string `json:"query" jsonschema:"the search query matched against titles, summaries and keywords"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchSectionsOutput is the output schema for the search_sections tool.
type SearchSectionsOutput struct {
	Results []SectionHitOutput `json:"results"`
	Count   int                `json:"count"`
}

// SectionHitOutput represents a single search result.
type SectionHitOutput struct {
	Section SectionInfo `json:"section"`
	Score   int         `json:"score"`
}

// GetTocInput is the input schema for the get_toc tool.
type GetTocInput struct {
	Repo string `json:"repo" jsonschema:"the repository, as owner/name or a bare name"`
}

// GetTocOutput is the output schema for the get_toc tool.
type GetTocOutput struct {
	Repo      string        `json:"repo"`
	IndexedAt string        `json:"indexed_at"`
	Files     []string      `json:"files"`
	Sections  []SectionInfo `json:"sections"`
}

// GetSectionInput is the input schema for the get_section tool.
type GetSectionInput struct {
	Repo       string   `json:"repo" jsonschema:"the repository, as owner/name or a bare name"`
	SectionIDs []string `json:"section_ids" jsonschema:"the section IDs to read, from get_toc or search_sections"`
}

// GetSectionOutput is the output schema for the get_section tool.
type GetSectionOutput struct {
	Sections []SectionContentOutput `json:"sections"`
	Warnings []string               `json:"warnings,omitempty"`
}

// SectionContentOutput is one section with its raw content.
type SectionContentOutput struct {
	Section    SectionInfo `json:"section"`
	Content    string      `json:"content"`
	IndexedAt  string      `json:"indexed_at"`
	CommitHash string      `json:"commit_hash,omitempty"`
}

// ListReposOutput is the output schema for the list_repos tool.
type ListReposOutput struct {
	Repos []RepoOutput `json:"repos"`
	Count int          `json:"count"`
}

// RepoOutput is one catalogued repository.
type RepoOutput struct {
	Repo       string `json:"repo"`
	IndexedAt  string `json:"indexed_at"`
	CommitHash string `json:"commit_hash,omitempty"`
	Files      int    `json:"files"`
	Sections   int    `json:"sections"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_repo",
		Description: "Index the documentation of a GitHub repository into a section catalogue",
	}, s.handleIndexRepo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_local",
		Description: "Index the documentation of a local directory into a section catalogue",
	}, s.handleIndexLocal)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_index",
		Description: "Refresh a repository's catalogue, re-parsing only changed files",
	}, s.handleUpdateIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_sections",
		Description: "Search a repository's section catalogue by title, summary and keywords",
	}, s.handleSearchSections)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_toc",
		Description: "Get the table of contents of an indexed repository",
	}, s.handleGetToc)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_section",
		Description: "Read the content of one or more catalogued sections",
	}, s.handleGetSection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_repos",
		Description: "List all indexed repositories",
	}, s.handleListRepos)
}

// resolveRepo turns a repository argument into a reference, using the
// catalogue for bare names when available.
func (s *Server) resolveRepo(ctx context.Context, repo string) (domain.RepoRef, error) {
	if s.ports.Catalogue != nil {
		return s.ports.Catalogue.Resolve(ctx, repo)
	}
	return domain.ParseRepoRef(repo)
}

func (s *Server) handleIndexRepo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexRepoInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if s.ports.Indexer == nil {
		return nil, IndexOutput{}, errors.New("indexer not configured")
	}

	ref, err := github.ResolveRepo(input.Repo)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if s.ports.Config != nil {
		if t := s.ports.Config.GetString(configfile.KeyGithubToken); t != "" {
			token = t
		}
	}

	client := github.NewClientWithToken(ctx, token)
	var opts []github.Option
	if input.Branch != "" {
		opts = append(opts, github.WithBranch(input.Branch))
	}

	outcome, err := s.ports.Indexer.Index(ctx, github.New(client, ref, opts...))
	if err != nil {
		return nil, IndexOutput{}, err
	}
	return nil, indexOutput(outcome), nil
}

func (s *Server) handleIndexLocal(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexLocalInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if s.ports.Indexer == nil {
		return nil, IndexOutput{}, errors.New("indexer not configured")
	}

	var opts []filesystem.Option
	if input.Name != "" {
		opts = append(opts, filesystem.WithName(input.Name))
	}
	if s.ports.Config != nil {
		if patterns := s.ports.Config.GetStringSlice(configfile.KeyIgnorePatterns); len(patterns) > 0 {
			opts = append(opts, filesystem.WithIgnorePatterns(patterns))
		}
	}

	connector, err := filesystem.New(input.Path, opts...)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	outcome, err := s.ports.Indexer.Index(ctx, connector)
	if err != nil {
		return nil, IndexOutput{}, err
	}
	return nil, indexOutput(outcome), nil
}

func (s *Server) handleUpdateIndex(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input IndexRepoInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	// An update is an index run against the same source: the engine
	// reconciles against the cached document by itself.
	if strings.HasPrefix(input.Repo, "/") || strings.HasPrefix(input.Repo, ".") {
		return s.handleIndexLocal(ctx, req, IndexLocalInput{Path: input.Repo})
	}
	return s.handleIndexRepo(ctx, req, input)
}

func (s *Server) handleSearchSections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchSectionsInput,
) (*mcp.CallToolResult, SearchSectionsOutput, error) {
	if s.ports.Search == nil {
		return nil, SearchSectionsOutput{}, errors.New("search not configured")
	}

	ref, err := s.resolveRepo(ctx, input.Repo)
	if err != nil {
		return nil, SearchSectionsOutput{}, err
	}

	hits, err := s.ports.Search.Search(ctx, ref, input.Query, input.Limit)
	if err != nil {
		return nil, SearchSectionsOutput{}, err
	}

	output := SearchSectionsOutput{
		Results: make([]SectionHitOutput, len(hits)),
		Count:   len(hits),
	}
	for i, hit := range hits {
		output.Results[i] = SectionHitOutput{
			Section: sectionInfo(hit.Section),
			Score:   hit.Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetToc(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetTocInput,
) (*mcp.CallToolResult, GetTocOutput, error) {
	ref, err := s.resolveRepo(ctx, input.Repo)
	if err != nil {
		return nil, GetTocOutput{}, err
	}

	toc, err := s.ports.Toc.Toc(ctx, ref)
	if err != nil {
		return nil, GetTocOutput{}, err
	}

	output := GetTocOutput{
		Repo:      toc.Repo,
		IndexedAt: toc.IndexedAt,
		Files:     toc.Files,
		Sections:  make([]SectionInfo, len(toc.Sections)),
	}
	for i, sec := range toc.Sections {
		output.Sections[i] = sectionInfo(sec)
	}
	return nil, output, nil
}

func (s *Server) handleGetSection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSectionInput,
) (*mcp.CallToolResult, GetSectionOutput, error) {
	ref, err := s.resolveRepo(ctx, input.Repo)
	if err != nil {
		return nil, GetSectionOutput{}, err
	}

	sections, warnings, err := s.ports.Section.GetMany(ctx, ref, input.SectionIDs)
	if err != nil {
		return nil, GetSectionOutput{}, err
	}

	output := GetSectionOutput{
		Sections: make([]SectionContentOutput, len(sections)),
	}
	for i, sc := range sections {
		output.Sections[i] = SectionContentOutput{
			Section:    sectionInfo(sc.Section),
			Content:    sc.Content,
			IndexedAt:  sc.IndexedAt,
			CommitHash: sc.CommitHash,
		}
	}
	for _, w := range warnings {
		output.Warnings = append(output.Warnings, w.Path+": "+w.Message)
	}
	return nil, output, nil
}

func (s *Server) handleListRepos(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListReposOutput, error) {
	if s.ports.Catalogue == nil {
		return nil, ListReposOutput{}, errors.New("catalogue not configured")
	}

	entries, err := s.ports.Catalogue.List(ctx)
	if err != nil {
		return nil, ListReposOutput{}, err
	}

	output := ListReposOutput{
		Repos: make([]RepoOutput, len(entries)),
		Count: len(entries),
	}
	for i, e := range entries {
		output.Repos[i] = RepoOutput{
			Repo:       e.Ref().String(),
			IndexedAt:  e.IndexedAt.UTC().Format(time.RFC3339),
			CommitHash: e.CommitHash,
			Files:      e.FileCount,
			Sections:   e.SectionCount,
		}
	}
	return nil, output, nil
}

func indexOutput(outcome *driving.IndexOutcome) IndexOutput {
	out := IndexOutput{
		Repo:         outcome.Document.Repo,
		Sections:     len(outcome.Document.Sections),
		Files:        len(outcome.Document.DocFiles),
		FilesParsed:  outcome.FilesParsed,
		FilesCarried: outcome.FilesCarried,
		CommitHash:   outcome.Document.CommitHash,
		DurationMS:   outcome.Duration.Milliseconds(),
	}
	for _, w := range outcome.Warnings {
		out.Warnings = append(out.Warnings, w.Path+": "+w.Message)
	}
	return out
}
