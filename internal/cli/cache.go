package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plasmidmap/plasmidmap/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached datasets and rendered maps",
		Long: `Parsed datasets and rendered maps are cached under the cache directory
($XDG_CACHE_HOME/plasmidmap or ~/.cache/plasmidmap). Entries expire on their
own; "prune" removes expired entries now and "clear" removes everything.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the cache directory, entry count and size",
			Args:  cobra.NoArgs,
			RunE: onFileCache(func(fc *cache.FileCache) error {
				entries, size, err := fc.Usage()
				if err != nil {
					return err
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", fmt.Sprint(entries))
				printKeyValue("Size", formatBytes(size))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired entries",
			Args:  cobra.NoArgs,
			RunE: onFileCache(func(fc *cache.FileCache) error {
				n, err := fc.Prune(time.Now())
				if err != nil {
					return err
				}
				printSuccess("Removed %d expired entries", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached entries",
			Args:  cobra.NoArgs,
			RunE: onFileCache(func(fc *cache.FileCache) error {
				n, err := fc.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("Directory: %s", fc.Dir())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)

	return cmd
}

// onFileCache runs fn on the CLI cache directory, or reports an empty cache
// when the directory was never created.
func onFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		return fn(fc)
	}
}

// formatBytes renders n in binary units: 512 B, 1.5 KiB, 3.0 GiB.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	v, i := float64(n)/unit, 0
	for v >= unit && i < 5 {
		v /= unit
		i++
	}
	return fmt.Sprintf("%.1f %ciB", v, "KMGTPE"[i])
}
