package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/cache"
)

// cacheCommand groups the cache management subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
		Long: `Manage the artifact cache.

Built masks and previews are stored under the hash of the expanded design,
in ~/.cache/maskgen (or $XDG_CACHE_HOME/maskgen) and optionally in Redis.`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand(), c.cacheStatsCommand())
	return cmd
}

func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached masks and previews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); err == nil {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d local entries", n)
				printDetail("Directory: %s", dir)
			} else {
				printInfo("Local cache is empty")
			}

			if redisAddr == "" {
				return nil
			}
			rc, err := cache.NewRedisCache(cmd.Context(), redisConfig(redisAddr))
			if err != nil {
				return err
			}
			defer rc.Close()
			n, err := rc.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear redis cache: %w", err)
			}
			printSuccess("Cleared %d redis entries", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddr, "cache-redis", os.Getenv(envRedis), "also clear the shared Redis cache (env "+envRedis+")")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
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
		Short: "Show the number and size of cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			n, size, err := fc.Usage()
			if err != nil {
				return err
			}
			printKeyValue("entries", fmt.Sprint(n))
			printKeyValue("size", formatBytes(int(size)))
			printKeyValue("directory", fc.Dir())
			return nil
		},
	}
}
