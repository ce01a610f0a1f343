package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coinvenn/coinvenn/pkg/config"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string
	entities   string
	assets     string
	topCoins   int
	formats    string // comma-separated output formats
	noLegend   bool
	noGuides   bool
	refresh    bool
	noCache    bool
	output     string // output base path; format extension is appended
}

// renderCommand creates the render command. It runs the full pipeline and
// writes one artifact per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the full pipeline and write rendered artifacts",
		Long: `Fetch, aggregate, lay out, and render in one step.

Formats: json (scene interchange), svg (bubble scene), dot (Graphviz
relation source), png (rasterized relation diagram). Each artifact is
written to <output>.<format>.

Examples:
  coinvenn render -o overlap                      # overlap.svg
  coinvenn render -f svg,json,dot -o overlap      # three artifacts
  coinvenn render --entities Binance,Kraken -f svg -o pair`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&opts.entities, "entities", "", "comma-separated entity selection")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "comma-separated asset selection")
	cmd.Flags().IntVar(&opts.topCoins, "top", 0, "number of top coins for estimation")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "comma-separated formats: json,svg,dot,png (default svg)")
	cmd.Flags().BoolVar(&opts.noLegend, "no-legend", false, "omit the legend panel")
	cmd.Flags().BoolVar(&opts.noGuides, "no-guides", false, "omit the guide circles")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "overlap", "output base path")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer runner.Close()

	client, err := newCoingeckoClient(opts.noCache)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	popts := pipelineOptions(cfg)
	popts.Client = client
	popts.Logger = c.Logger
	popts.Refresh = opts.refresh
	if popts.Entities, err = parseEntities(opts.entities); err != nil {
		return err
	}
	if popts.Assets, err = parseAssets(opts.assets); err != nil {
		return err
	}
	popts.Formats = parseFormats(opts.formats)
	popts.NoLegend = opts.noLegend
	popts.NoGuides = opts.noGuides
	if opts.topCoins > 0 {
		popts.TopCoins = opts.topCoins
	}

	p := newProgress(c.Logger)
	spin := newSpinnerWithContext(cmd.Context(), "Running pipeline...")
	spin.Start()
	result, err := runner.Execute(cmd.Context(), popts)
	spin.Stop()
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d formats", len(result.Artifacts)))

	printSuccess("Pipeline complete")
	printStats(result.Stats.EntityCount, result.Stats.AssetCount, result.CacheInfo.RenderHit)

	for _, format := range popts.Formats {
		path := opts.output + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
