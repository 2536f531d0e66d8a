package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmunch-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docmunch-cli/internal/connectors/github"
	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
)

var (
	indexBranch   string
	indexToken    string
	indexMaxDepth int
	indexHidden   bool
	indexIgnore   []string
	indexName     string
)

var indexCmd = &cobra.Command{
	Use:   "index [path|owner/repo|url]",
	Short: "Index a repository's documentation",
	Long: `Builds a section catalogue for a repository's documentation files.

The argument is either a local directory path or a GitHub repository
given as owner/name or a github.com URL. Local directories default to
the current directory.

When a cached catalogue exists, only files whose content changed are
re-parsed; unchanged sections are carried forward untouched.

Examples:
  docmunch index .
  docmunch index ~/projects/myapp --name myapp
  docmunch index golang/go
  docmunch index https://github.com/golang/go`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

var updateCmd = &cobra.Command{
	Use:   "update [path|owner/repo|url]",
	Short: "Refresh an existing index",
	Long: `Re-fetches a repository and reconciles its catalogue: only files
whose content hash changed are re-parsed. Equivalent to running index
again on the same source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	for _, cmd := range []*cobra.Command{indexCmd, updateCmd} {
		cmd.Flags().StringVarP(&indexBranch, "branch", "b", "", "GitHub branch (default: repository default branch)")
		cmd.Flags().StringVar(&indexToken, "token", "", "GitHub access token (overrides config and GITHUB_TOKEN)")
		cmd.Flags().IntVar(&indexMaxDepth, "max-depth", filesystem.DefaultMaxDepth, "maximum directory depth for local sources")
		cmd.Flags().BoolVar(&indexHidden, "hidden", false, "include hidden directories in local sources")
		cmd.Flags().StringSliceVar(&indexIgnore, "ignore", nil, "glob patterns to exclude (repeatable)")
		cmd.Flags().StringVar(&indexName, "name", "", "catalogue name for local sources (default: directory name)")
	}
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(updateCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	source := "."
	if len(args) > 0 {
		source = args[0]
	}

	connector, err := buildConnector(cmd.Context(), source)
	if err != nil {
		return err
	}
	defer connector.Close() //nolint:errcheck

	cmd.Printf("Indexing %s...\n", connector.Ref())

	outcome, err := indexWithProgress(cmd.Context(), cmd, connector)
	if err != nil {
		if errors.Is(err, domain.ErrIndexInProgress) {
			return fmt.Errorf("an indexing run for %s is already in progress", connector.Ref())
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	printOutcome(cmd, outcome)
	return nil
}

// buildConnector picks the connector for a source argument: anything
// that is an existing directory is treated as a filesystem source,
// everything else must parse as a GitHub repository.
func buildConnector(ctx context.Context, source string) (driven.Connector, error) {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		opts := []filesystem.Option{
			filesystem.WithMaxDepth(indexMaxDepth),
			filesystem.WithHidden(indexHidden),
		}
		patterns := indexIgnore
		if len(patterns) == 0 && configStore != nil {
			patterns = configStore.GetStringSlice(configfile.KeyIgnorePatterns)
		}
		if len(patterns) > 0 {
			opts = append(opts, filesystem.WithIgnorePatterns(patterns))
		}
		if indexName != "" {
			opts = append(opts, filesystem.WithName(indexName))
		}
		return filesystem.New(source, opts...)
	}

	ref, err := github.ResolveRepo(source)
	if err != nil {
		return nil, fmt.Errorf("source %q is neither a directory nor a GitHub repository: %w", source, err)
	}

	client := github.NewClientWithToken(ctx, githubToken())
	var opts []github.Option
	if indexBranch != "" {
		opts = append(opts, github.WithBranch(indexBranch))
	}
	return github.New(client, ref, opts...), nil
}

// githubToken resolves the GitHub token: flag, then config, then env.
func githubToken() string {
	if indexToken != "" {
		return indexToken
	}
	if configStore != nil {
		if tok := configStore.GetString(configfile.KeyGithubToken); tok != "" {
			return tok
		}
	}
	return os.Getenv("GITHUB_TOKEN")
}

// indexWithProgress runs the indexer while polling its status for
// progress updates.
func indexWithProgress(ctx context.Context, cmd *cobra.Command, connector driven.Connector) (*driving.IndexOutcome, error) {
	type result struct {
		outcome *driving.IndexOutcome
		err     error
	}
	resCh := make(chan result, 1)
	go func() {
		outcome, err := indexerService.Index(ctx, connector)
		resCh <- result{outcome, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			if lastCount > 0 {
				cmd.Println()
			}
			return res.outcome, res.err
		case <-ticker.C:
			// Best effort, ignore status errors
			status, err := indexerService.Status(ctx, connector.Ref())
			if err == nil && status.Running && status.FilesProcessed > lastCount {
				cmd.Printf("\rParsing... %d files", status.FilesProcessed)
				lastCount = status.FilesProcessed
			}
		}
	}
}

func printOutcome(cmd *cobra.Command, outcome *driving.IndexOutcome) {
	doc := outcome.Document
	cmd.Printf("Indexed %s: %d sections across %d files in %s\n",
		doc.Repo, len(doc.Sections), len(doc.DocFiles), outcome.Duration.Round(time.Millisecond))
	if outcome.FilesCarried > 0 {
		cmd.Printf("  %d files unchanged, %d re-parsed\n", outcome.FilesCarried, outcome.FilesParsed)
	}
	if doc.CommitHash != "" {
		cmd.Printf("  commit %s\n", shortHash(doc.CommitHash))
	}
	for _, w := range outcome.Warnings {
		cmd.Printf("  warning: %s: %s\n", w.Path, w.Message)
	}
}

func shortHash(h string) string {
	if len(h) > 12 && !strings.ContainsAny(h, " /") {
		return h[:12]
	}
	return h
}
