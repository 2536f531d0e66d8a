package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sectionJSON bool

var sectionCmd = &cobra.Command{
	Use:   "section [repo] [section-id...]",
	Short: "Print the content of catalogued sections",
	Long: `Reads one or more sections from a repository's catalogue and
prints their raw content. Section IDs come from 'docmunch toc' or
'docmunch search'. With multiple IDs, missing sections are reported
as warnings instead of failing the whole command.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSection,
}

func init() {
	sectionCmd.Flags().BoolVar(&sectionJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(sectionCmd)
}

func runSection(cmd *cobra.Command, args []string) error {
	if sectionService == nil || catalogueService == nil {
		return errors.New("section service not configured")
	}

	ctx := cmd.Context()
	ref, err := catalogueService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	sections, warnings, err := sectionService.GetMany(ctx, ref, args[1:])
	if err != nil {
		return fmt.Errorf("read sections: %w", err)
	}

	if sectionJSON {
		return printJSON(cmd, map[string]any{
			"sections": sections,
			"warnings": warnings,
		})
	}

	for i, sc := range sections {
		if i > 0 {
			cmd.Println()
		}
		cmd.Printf("== %s (%s)\n", sc.Section.Title, sc.Section.ID)
		cmd.Print(sc.Content)
		if len(sc.Content) > 0 && sc.Content[len(sc.Content)-1] != '\n' {
			cmd.Println()
		}
	}
	for _, w := range warnings {
		cmd.PrintErrf("warning: %s: %s\n", w.Path, w.Message)
	}
	if len(sections) == 0 {
		return fmt.Errorf("no sections found")
	}
	return nil
}
