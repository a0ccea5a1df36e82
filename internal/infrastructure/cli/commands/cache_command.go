package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/doctrans/internal/app"
	"github.com/doeshing/doctrans/internal/infrastructure/cli/helpers"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheClearCommand(container),
		newCacheSizeCommand(container),
		newCacheStatsCommand(container),
		newCacheConfigCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCacheEntries(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(container)
		},
	}
}

// newCacheSizeCommand creates the 'cache size' subcommand
func newCacheSizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheSize(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache settings and per-language counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheConfigCommand creates the 'cache config' subcommand
func newCacheConfigCommand(container *app.Container) *cobra.Command {
	var (
		ttl        string
		maxEntries int
		enable     bool
		disable    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Update cache TTL, max entries or toggle caching",
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return fmt.Errorf("--enable and --disable are mutually exclusive")
			}
			var enabled *bool
			if enable || disable {
				enabled = &enable
			}
			return updateCacheConfiguration(cmd.Context(), container, ttl, maxEntries, enabled)
		},
	}

	cmd.Flags().StringVar(&ttl, "ttl", "", "Cache TTL duration (e.g. 30m, 168h)")
	cmd.Flags().IntVar(&maxEntries, "max", 0, "Max cache entries")
	cmd.Flags().BoolVar(&enable, "enable", false, "Enable the translation cache")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the translation cache")
	return cmd
}

// listCacheEntries lists all cache entries
func listCacheEntries(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	entries, err := container.CacheStore.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedTranslations)
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %s | %s->%s | %s\n",
			shortKey(entry.Key),
			entry.Model,
			entry.SourceLang,
			entry.TargetLang,
			entry.CreatedAt.Format(TimestampFormat))
	}

	return nil
}

// clearCache clears the cache directory
func clearCache(container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	if err := container.CacheStore.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// showCacheSize displays the cache directory size
func showCacheSize(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	dir := container.CacheStore.Dir()
	totalSize, err := calculateDirectorySize(dir)
	if err != nil {
		return fmt.Errorf("failed to calculate cache size: %w", err)
	}

	fmt.Fprintf(out, "Cache directory: %s\nSize: %d bytes\n", dir, totalSize)
	return nil
}

// showCacheStats displays cache settings and per-target statistics
func showCacheStats(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	settings := container.Config.Cache
	entries, err := container.CacheStore.Entries()
	if err != nil {
		return fmt.Errorf("failed to retrieve cache entries: %w", err)
	}

	fmt.Fprintf(out, "Enabled: %t\nCache TTL: %s\nMax entries: %d\nCurrent entries: %d\n",
		settings.Enabled,
		settings.TTL,
		container.Config.GetCacheMaxEntries(),
		len(entries))

	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedTranslations)
		return nil
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		counts[entry.TargetLang]++
	}

	fmt.Fprintln(out, "Entries per target language:")
	for _, lang := range sortedByCount(counts) {
		fmt.Fprintf(out, "  %s: %d\n", lang, counts[lang])
	}

	return nil
}

// updateCacheConfiguration updates cache TTL, max entries and the enabled flag
func updateCacheConfiguration(ctx context.Context, container *app.Container, ttl string, maxEntries int, enabled *bool) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if ttl != "" {
		if _, err := time.ParseDuration(ttl); err != nil {
			return fmt.Errorf("invalid ttl: %w", err)
		}
		cfg.Cache.TTL = ttl
	}

	if maxEntries > 0 {
		cfg.Cache.MaxEntries = maxEntries
	}

	if enabled != nil {
		cfg.Cache.Enabled = *enabled
	}

	return helpers.SaveConfig(container, cfg)
}

// calculateDirectorySize calculates the total size of a directory
func calculateDirectorySize(dirPath string) (int64, error) {
	var totalSize int64

	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		totalSize += info.Size()
		return nil
	})

	if err != nil {
		return 0, err
	}

	return totalSize, nil
}

// sortedByCount orders keys by descending count, then name
func sortedByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
