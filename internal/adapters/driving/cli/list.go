package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed repositories",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if catalogueService == nil {
		return errors.New("catalogue service not configured")
	}

	entries, err := catalogueService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No repositories indexed yet. Run 'docmunch index' first.")
		return nil
	}

	cmd.Printf("%-40s %-10s %-10s %s\n", "REPOSITORY", "FILES", "SECTIONS", "INDEXED")
	for _, e := range entries {
		cmd.Printf("%-40s %-10d %-10d %s\n",
			e.Ref().String(), e.FileCount, e.SectionCount,
			e.IndexedAt.Local().Format(time.RFC3339))
	}
	return nil
}
