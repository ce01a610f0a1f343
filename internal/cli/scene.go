package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coinvenn/coinvenn/pkg/config"
	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
	"github.com/coinvenn/coinvenn/pkg/scene"
)

// sceneOpts holds the command-line flags for the scene command.
type sceneOpts struct {
	configPath  string
	snapshot    string // read this snapshot file instead of fetching
	entities    string // comma-separated entity selection
	assets      string // comma-separated asset selection
	topCoins    int
	radius      float64
	assetScale  float64
	interactive bool // pick entities in a TUI
	refresh     bool
	noCache     bool
	output      string
}

// sceneCommand creates the scene command. It aggregates holdings into an
// index and computes the overlap layout scene.
func (c *CLI) sceneCommand() *cobra.Command {
	opts := sceneOpts{}

	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Aggregate holdings and compute the overlap layout scene",
		Long: `Aggregate raw holdings into a bidirectional entity-asset index and
compute the deterministic overlap layout for a selection.

Without --snapshot the command fetches fresh holdings first. The selection
flags narrow the scene; omitting them selects everything.

Examples:
  coinvenn scene                                      # fetch and lay out everything
  coinvenn scene --snapshot holdings.json -o out.json # reuse a saved snapshot
  coinvenn scene --entities Binance,Coinbase          # two-entity overlap
  coinvenn scene --interactive                        # pick entities in a TUI`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScene(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "snapshot file to aggregate (fetches when empty)")
	cmd.Flags().StringVar(&opts.entities, "entities", "", "comma-separated entity selection")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "comma-separated asset selection")
	cmd.Flags().IntVar(&opts.topCoins, "top", 0, "number of top coins for estimation")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "anchor circle radius in scene units")
	cmd.Flags().Float64Var(&opts.assetScale, "asset-scale", 0, "bubble size scale factor")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick entities interactively")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runScene(cmd *cobra.Command, opts sceneOpts) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()

	popts := pipelineOptions(cfg)
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if popts.Entities, err = parseEntities(opts.entities); err != nil {
		return err
	}
	if popts.Assets, err = parseAssets(opts.assets); err != nil {
		return err
	}
	if opts.topCoins > 0 {
		popts.TopCoins = opts.topCoins
	}
	if opts.radius > 0 {
		popts.Radius = opts.radius
	}
	if opts.assetScale > 0 {
		popts.AssetScale = opts.assetScale
	}

	snap, err := c.loadOrFetchSnapshot(cmd, runner, &popts, opts.snapshot, opts.noCache)
	if err != nil {
		return err
	}

	idx, aggHit, err := runner.AggregateWithCacheInfo(cmd.Context(), snap, popts)
	if err != nil {
		return err
	}
	printStats(len(idx.Entities), len(idx.Assets), aggHit)

	if opts.interactive {
		selected, ok, err := pickEntities(idx)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Selection cancelled")
			return nil
		}
		popts.Entities = selected
	}

	sc, err := runner.Layout(cmd.Context(), idx, popts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		data, err := scene.Marshal(sc)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := scene.WriteFile(sc, opts.output); err != nil {
		return err
	}
	printSuccess("Scene written (%d elements)", len(sc.Elements))
	printFile(opts.output)
	printNextStep("Render it", "coinvenn render -f svg -o overlap")
	return nil
}

// loadOrFetchSnapshot reads the given snapshot file, or fetches a fresh
// snapshot when no file is given.
func (c *CLI) loadOrFetchSnapshot(cmd *cobra.Command, runner *pipeline.Runner, popts *pipeline.Options, path string, noCache bool) (holdings.Snapshot, error) {
	if path != "" {
		return holdings.ReadSnapshotFile(path)
	}

	client, err := newCoingeckoClient(noCache)
	if err != nil {
		return holdings.Snapshot{}, fmt.Errorf("init client: %w", err)
	}
	popts.Client = client

	spin := newSpinnerWithContext(cmd.Context(), "Fetching holdings...")
	spin.Start()
	snap, err := runner.Fetch(cmd.Context(), *popts)
	spin.Stop()
	return snap, err
}
