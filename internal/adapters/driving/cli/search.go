package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [repo] [query]",
	Short: "Search a repository's section catalogue",
	Long: `Searches section titles, summaries, and keywords for the query.
Results are scored and returned best first. Section content itself is
not searched; use 'docmunch section' to read a matched section.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil || catalogueService == nil {
		return errors.New("search service not configured")
	}

	ctx := cmd.Context()
	ref, err := catalogueService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	hits, err := searchService.Search(ctx, ref, args[1], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, hits)
}

func outputSearchTable(cmd *cobra.Command, hits []driving.SectionHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("[%d] %s (%s, score %d)\n", i+1, hit.Section.Title, hit.Section.ID, hit.Score)
		if hit.Section.Summary != "" {
			cmd.Printf("    %s\n", hit.Section.Summary)
		}
		cmd.Printf("    %s\n", hit.Section.Path)
	}
	return nil
}
