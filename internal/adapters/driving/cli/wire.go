package cli

import (
	"fmt"

	cachefile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/cachestore/file"
	configfile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmunch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docmunch-cli/internal/adapters/driven/summariser/simple"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/services"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
	"github.com/custodia-labs/docmunch-cli/internal/parsers"
)

// initServices builds the full service graph from configuration.
// The catalogue store is optional: if SQLite fails to open, listing
// surfaces degrade but indexing still works.
func initServices() error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	cache, err := cachefile.NewCacheStore(cfg.GetString(configfile.KeyCacheDir))
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}

	var catalogue driven.CatalogStore
	if store, err := sqlite.NewStore(cfg.GetString(configfile.KeyDataDir)); err != nil {
		logger.Warn("Catalogue store unavailable, continuing without it: %v", err)
	} else {
		catalogue = store
	}

	var parserOpts []parsers.MarkdownOption
	if maxLines := cfg.GetInt(configfile.KeyChunkMaxLines); maxLines > 0 {
		policy := parsers.DefaultChunkPolicy
		policy.MaxLines = maxLines
		if minLines := cfg.GetInt(configfile.KeyChunkMinLines); minLines > 0 {
			policy.MinLines = minLines
		}
		parserOpts = append(parserOpts, parsers.WithChunkPolicy(policy))
	}
	registry := parsers.NewRegistry(parserOpts...)

	var indexerOpts []services.IndexerOption
	if n := cfg.GetInt(configfile.KeyConcurrency); n > 0 {
		indexerOpts = append(indexerOpts, services.WithConcurrency(n))
	}

	indexerService = services.NewIndexerService(cache, catalogue, registry, simple.New(), indexerOpts...)
	catalogueService = services.NewCatalogueService(catalogue, cache)
	searchService = services.NewSearchService(cache)
	tocService = services.NewTocService(cache)
	sectionService = services.NewSectionService(cache)

	return nil
}
