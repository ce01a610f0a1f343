package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coinvenn/coinvenn/internal/server"
	"github.com/coinvenn/coinvenn/pkg/cache"
	"github.com/coinvenn/coinvenn/pkg/config"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath      string
	addr            string
	refreshInterval time.Duration
	noCache         bool
}

// serveCommand creates the serve command. It runs the HTTP API server with
// a background refresh loop.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the aggregated index and overlap scenes over HTTP.

The server refreshes holdings in the background on a fixed cadence and
always serves the last good snapshot.

Endpoints:
  GET  /healthz         readiness and freshness
  GET  /api/index       the aggregated index
  GET  /api/scene       the layout scene (entities=, assets= select)
  GET  /api/scene.svg   rendered SVG (legend=, guides= toggle)
  POST /api/refresh     force a refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&opts.refreshInterval, "refresh-interval", 0, "background refresh cadence (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}

	var stageCache cache.Cache
	if !opts.noCache {
		if stageCache, err = cfg.OpenCache(cmd.Context()); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	client, err := newCoingeckoClient(opts.noCache)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	interval := opts.refreshInterval
	if interval <= 0 {
		interval = cfg.RefreshInterval()
	}

	runner := pipeline.NewRunner(stageCache, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:            addr,
		Runner:          runner,
		Client:          client,
		Roster:          cfg.CoingeckoRoster(),
		TopCoins:        cfg.Fetch.TopCoins,
		RefreshInterval: interval,
		Logger:          c.Logger,
	})

	printInfo("Serving on %s (refresh every %s)", addr, interval)
	return srv.Run(cmd.Context())
}
