package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

var (
	tocTree bool
	tocJSON bool
	tocPath string
)

var tocCmd = &cobra.Command{
	Use:   "toc [repo]",
	Short: "Show a repository's table of contents",
	Long: `Prints the section catalogue for a repository, either as a flat
list in file order or as a nested tree resolved from the sections'
parent references.

Use --path with a section ID to print the chain of sections from the
root down to that section.`,
	Args: cobra.ExactArgs(1),
	RunE: runToc,
}

func init() {
	tocCmd.Flags().BoolVar(&tocTree, "tree", false, "render as a nested tree")
	tocCmd.Flags().BoolVar(&tocJSON, "json", false, "output as JSON")
	tocCmd.Flags().StringVar(&tocPath, "path", "", "print the root-to-section path for a section ID")
	rootCmd.AddCommand(tocCmd)
}

func runToc(cmd *cobra.Command, args []string) error {
	if tocService == nil || catalogueService == nil {
		return errors.New("toc service not configured")
	}

	ctx := cmd.Context()
	ref, err := catalogueService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	if tocPath != "" {
		path, err := tocService.Path(ctx, ref, tocPath)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		cmd.Println(strings.Join(path, " > "))
		return nil
	}

	if tocTree {
		nodes, err := tocService.Tree(ctx, ref)
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}
		if tocJSON {
			return printJSON(cmd, nodes)
		}
		printTree(cmd, nodes, 0)
		return nil
	}

	toc, err := tocService.Toc(ctx, ref)
	if err != nil {
		return fmt.Errorf("load toc: %w", err)
	}
	if tocJSON {
		return printJSON(cmd, toc)
	}

	cmd.Printf("%s (indexed %s, %d files)\n\n", toc.Repo, toc.IndexedAt, len(toc.Files))
	for _, s := range toc.Sections {
		indent := strings.Repeat("  ", max(s.Depth-1, 0))
		cmd.Printf("%s%s  [%s]\n", indent, s.Title, s.ID)
	}
	return nil
}

func printTree(cmd *cobra.Command, nodes []driving.TocNode, depth int) {
	for _, n := range nodes {
		cmd.Printf("%s%s  [%s]\n", strings.Repeat("  ", depth), n.Section.Title, n.Section.ID)
		printTree(cmd, n.Children, depth+1)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
