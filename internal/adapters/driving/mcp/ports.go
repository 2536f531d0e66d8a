package mcp

import (
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Indexer builds and refreshes section catalogues.
	Indexer driving.Indexer

	// Catalogue lists and resolves indexed repositories.
	Catalogue driving.CatalogueService

	// Search matches sections against queries.
	Search driving.SearchService

	// Toc exposes catalogues as tables of contents.
	Toc driving.TocService

	// Section reads section content.
	Section driving.SectionService

	// Config supplies indexing options such as the GitHub token.
	Config driven.ConfigStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Toc == nil {
		return ErrMissingTocService
	}
	if p.Section == nil {
		return ErrMissingSectionService
	}
	// Indexer, Catalogue, Search, and Config are optional: without them
	// the corresponding tools report a configuration error at call time.
	return nil
}
