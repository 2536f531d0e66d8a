package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Package-level services, wired once by initServices before any
// command runs. Tests inject fakes directly.
var (
	configStore      driven.ConfigStore
	indexerService   driving.Indexer
	catalogueService driving.CatalogueService
	searchService    driving.SearchService
	tocService       driving.TocService
	sectionService   driving.SectionService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docmunch",
	Short: "Index and navigate repository documentation",
	Long: `docmunch parses Markdown, MDX, and reStructuredText files into a
section catalogue with stable IDs, caches the result on disk, and
re-parses only changed files on subsequent runs.

The catalogue can be browsed as a table of contents, searched by
title, summary and keywords, and served to AI assistants over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if servicesWired() {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// servicesWired reports whether the service graph is already built,
// either by initServices or by a test.
func servicesWired() bool {
	return indexerService != nil
}
