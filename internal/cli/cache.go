package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexplorer/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the remote repository cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// openCache opens the cache directory without creating it. ok is false
// when the directory does not exist.
func openCache() (cache *httputil.Cache, dir string, ok bool, err error) {
	dir, err = cacheDir()
	if err != nil {
		return nil, "", false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, dir, false, nil
	}
	cache, err = httputil.NewCache(dir, 0)
	return cache, dir, err == nil, err
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cache, dir, ok, err := openCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo(out, "Cache is empty")
				return nil
			}
			n, err := cache.Clear()
			if err != nil {
				return err
			}
			printSuccess(out, "Cleared %d cached entries", n)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the number of cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cache, dir, ok, err := openCache()
			if err != nil {
				return err
			}
			n := 0
			if ok {
				if n, err = cache.Len(); err != nil {
					return err
				}
			}
			printKeyValue(out, "Directory", dir)
			printKeyValue(out, "Entries", fmt.Sprint(n))
			return nil
		},
	}
}

// cacheDir returns the cache directory, ~/.cache/depexplorer.
func cacheDir() (string, error) {
	return httputil.DefaultDir()
}
