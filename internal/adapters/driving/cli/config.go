package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docmunch-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration. Settings live in a TOML file under
the docmunch config directory.

Recognised keys:
  cache.dir              cache directory for index documents
  data.dir               data directory for the catalogue database
  github.token           GitHub access token
  index.concurrency      parallel file parses per run
  index.chunk_max_lines  max lines before a headingless file is split
  index.chunk_min_lines  min lines per chunk when splitting
  index.ignore_patterns  glob patterns excluded from local walks`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	keys := []string{
		configfile.KeyCacheDir,
		configfile.KeyDataDir,
		configfile.KeyGithubToken,
		configfile.KeyConcurrency,
		configfile.KeyChunkMaxLines,
		configfile.KeyChunkMinLines,
		configfile.KeyIgnorePatterns,
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("%-24s (unset)\n", key)
			continue
		}
		if key == configfile.KeyGithubToken {
			value = "********"
		}
		cmd.Printf("%-24s %v\n", key, value)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, coerceValue(key, raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

// coerceValue converts the raw string argument to the value type the
// key expects: integers for numeric keys and a slice for patterns.
func coerceValue(key, raw string) any {
	switch key {
	case configfile.KeyConcurrency, configfile.KeyChunkMaxLines, configfile.KeyChunkMinLines:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case configfile.KeyIgnorePatterns:
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return raw
}
