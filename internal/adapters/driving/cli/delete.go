package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete [repo]",
	Short: "Delete a repository's index",
	Long: `Removes a repository's cached catalogue, raw file copies, and its
catalogue entry. The source files themselves are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errors.New("catalogue service not configured")
	}

	ctx := cmd.Context()
	ref, err := catalogueService.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	if !deleteForce {
		cmd.Printf("Delete index for %s? [y/N] ", ref)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := catalogueService.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted index for %s.\n", ref)
	return nil
}
