package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response and document cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached API response and document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.RedisURL != "" {
				printWarning("Cache is Redis at %s; clear it with redis-cli", c.Config.RedisURL)
				return nil
			}
			if c.Config.CacheDir == "" {
				printInfo("Caching is disabled")
				return nil
			}
			fc, err := cache.NewFileCache(c.Config.CacheDir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.CacheDir == "" {
				return fmt.Errorf("no cache directory configured")
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.CacheDir)
			return nil
		},
	}
}
