package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docmunch resources.
	uriScheme = "docmunch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexed repositories.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "repos",
		Name:        "repos",
		Description: "List of all indexed repositories",
		MIMEType:    "application/json",
	}, s.handleReposResource)

	// Template for a repository's table of contents.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "repos/{owner}/{name}/toc",
		Name:        "repo-toc",
		Description: "Table of contents of an indexed repository",
		MIMEType:    "application/json",
	}, s.handleTocResource)

	// Template for section content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "repos/{owner}/{name}/sections/{sectionId}",
		Name:        "section-content",
		Description: "Raw content of a catalogued section",
		MIMEType:    "text/plain",
	}, s.handleSectionResource)
}

// handleReposResource returns the list of indexed repositories.
func (s *Server) handleReposResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalogue == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.Catalogue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	infos := make([]RepoOutput, len(entries))
	for i, e := range entries {
		infos[i] = RepoOutput{
			Repo:       e.Ref().String(),
			IndexedAt:  e.IndexedAt.UTC().Format(time.RFC3339),
			CommitHash: e.CommitHash,
			Files:      e.FileCount,
			Sections:   e.SectionCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling repositories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTocResource returns a repository's table of contents.
func (s *Server) handleTocResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ref, rest := extractRepoRef(req.Params.URI)
	if ref.IsZero() || rest != "toc" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	toc, err := s.ports.Toc.Toc(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("loading toc: %w", err)
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

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling toc: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSectionResource returns the raw content of one section.
func (s *Server) handleSectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ref, rest := extractRepoRef(req.Params.URI)
	sectionID, ok := strings.CutPrefix(rest, "sections/")
	if ref.IsZero() || !ok || sectionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sc, err := s.ports.Section.Get(ctx, ref, sectionID)
	if err != nil {
		return nil, fmt.Errorf("reading section: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     sc.Content,
		}},
	}, nil
}

// extractRepoRef parses a URI like docmunch://repos/{owner}/{name}/...
// into a repository reference and the remaining path.
func extractRepoRef(uri string) (domain.RepoRef, string) {
	const prefix = uriScheme + "repos/"
	if !strings.HasPrefix(uri, prefix) {
		return domain.RepoRef{}, ""
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, prefix), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return domain.RepoRef{}, ""
	}
	return domain.RepoRef{Owner: parts[0], Name: parts[1]}, parts[2]
}
