package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/buildinfo"
	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/config"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/wikipedia"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "treesquares draws hierarchical tables as squarified treemaps",
		Long: `treesquares partitions the rows of a table into nested rectangles whose
areas follow a weight column, one band per hierarchy level, and colors
each rectangle by a quality column.

It also prepares the person workbooks the diagrams are drawn from:
Wikidata exports are condensed and enriched with Wikipedia statistics.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.personsCommand())
	root.AddCommand(c.linksCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		registerDebugHooks(c.Logger)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "cache", cfg.CacheDir, "redis", cfg.RedisURL != "", "concurrency", cfg.Concurrency)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, c.keyer(), c.Logger), nil
}

// keyer scopes keys in a shared Redis backend to this application.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.RedisURL == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), config.AppName+":")
}

// openCache returns Redis when configured, else the file cache. An
// unusable cache directory disables caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisURL != "" {
		return cache.NewRedisCache(ctx, c.Config.RedisURL)
	}
	if c.Config.CacheDir == "" {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(c.Config.CacheDir)
	if err != nil {
		c.Logger.Warn("caching disabled", "dir", c.Config.CacheDir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newWikiClient creates a Wikipedia client on the configured cache.
func (c *CLI) newWikiClient(ctx context.Context, noCache, refresh bool) (*wikipedia.Client, cache.Cache, error) {
	backend, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	client := wikipedia.NewClient(backend, c.Config.CacheTTL, c.Config.UserAgent, wikipedia.WithRefresh(refresh), wikipedia.WithKeyer(c.keyer()))
	return client, backend, nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return parseList(s)
}

// parseList splits a comma-separated flag, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
