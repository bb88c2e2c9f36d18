package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/pipeline"
	"github.com/treesquares/treesquares/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		entries int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Long: `Run the HTTP rendering service.

POST a CSV table to /render with the options in the query string:

  curl --data-binary @kommuner.csv \
    'localhost:8080/render?levels=landsdel,lan&area=yta&quality=skog&rule=>0.6,green&rule=,grey'

Rendered documents are kept in an in-memory LRU cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Addr
			}
			if entries <= 0 {
				entries = c.Config.MemoryEntries
			}
			return c.runServe(cmd.Context(), addr, entries)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, "+`":8080"`+")")
	cmd.Flags().IntVar(&entries, "cache-entries", 0, "documents kept in memory (default: from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, entries int) error {
	mem, err := cache.NewMemoryCache(entries)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	runner := pipeline.NewRunner(mem, cache.NewScopedKeyer(nil, "serve:"), c.Logger.WithPrefix("pipeline"))
	defer runner.Close()

	srv := server.New(runner, c.Logger.WithPrefix("http"))
	printInfo("Serving on %s", addr)
	return srv.ListenAndServe(ctx, addr)
}
