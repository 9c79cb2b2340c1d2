package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/plasmidmap/plasmidmap/internal/server"
	"github.com/plasmidmap/plasmidmap/pkg/cache"
	"github.com/plasmidmap/plasmidmap/pkg/pipeline"
)

// apiKeyPrefix scopes server cache entries away from CLI ones when both
// share a Redis instance.
const apiKeyPrefix = "api:"

func (c *CLI) serveCommand() *cobra.Command {
	var (
		timeout time.Duration
		maxDPI  float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on server.addr (default :8080).

Rendered maps are cached in Redis when server.redis_url is set, and in the
local cache directory otherwise.`,
		Example: `  plasmidmap serve --addr :9000
  PLASMIDMAP_SERVER_REDIS_URL=redis://localhost:6379/0 plasmidmap serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), server.Config{Timeout: timeout, MaxDPI: maxDPI})
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().String("redis-url", "", "Redis URL for the render cache")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request deadline")
	cmd.Flags().Float64Var(&maxDPI, "max-dpi", server.DefaultMaxDPI, "largest PNG resolution a request may ask for")
	c.bindFlag("server.addr", cmd.Flags().Lookup("addr"))
	c.bindFlag("server.redis_url", cmd.Flags().Lookup("redis-url"))

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config) error {
	s := c.settings()

	store, err := c.serverCache(ctx, s)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, apiKeyPrefix), c.Logger)
	defer runner.Close()

	cfg.Addr = s.Server.Addr
	srv := server.New(runner, c.Logger, cfg)
	err = srv.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *CLI) serverCache(ctx context.Context, s settings) (cache.Cache, error) {
	if s.Server.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: s.Server.RedisURL})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache")
		return rc, nil
	}
	return newCache(!s.Cache.Enabled)
}
