package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coinvenn/coinvenn/pkg/config"
	"github.com/coinvenn/coinvenn/pkg/holdings"
)

// snapshotOpts holds the command-line flags for the snapshot command.
type snapshotOpts struct {
	configPath string // TOML config file (roster, fetch depth)
	topCoins   int    // market depth for estimation
	refresh    bool   // bypass all caches
	noCache    bool   // disable the stage cache entirely
	output     string // output file path (stdout if empty)
}

// snapshotCommand creates the snapshot command. It fetches raw per-entity
// holdings from CoinGecko and writes the snapshot JSON.
func (c *CLI) snapshotCommand() *cobra.Command {
	opts := snapshotOpts{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch raw per-entity holdings from CoinGecko",
		Long: `Fetch or estimate raw holdings for every roster entity and write the
snapshot as JSON.

Exchanges with a CoinGecko id are estimated from live trading volume;
institutions use generated strategy profiles. The roster comes from the
config file, or the built-in default when none is given.

Examples:
  coinvenn snapshot                          # default roster, stdout
  coinvenn snapshot -o holdings.json         # write to file
  coinvenn snapshot --refresh --top 50       # fresh data, top 50 coins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshot(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().IntVar(&opts.topCoins, "top", 0, "number of top coins for estimation (default from config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runSnapshot(cmd *cobra.Command, opts snapshotOpts) error {
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
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if opts.topCoins > 0 {
		popts.TopCoins = opts.topCoins
	}

	p := newProgress(c.Logger)
	spin := newSpinnerWithContext(cmd.Context(), "Fetching holdings...")
	spin.Start()

	snap, hit, err := runner.FetchWithCacheInfo(cmd.Context(), popts)
	spin.Stop()
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Fetched %d entities", len(snap.Raw)))

	if opts.output == "" {
		data, err := holdings.MarshalSnapshot(snap)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := holdings.WriteSnapshotFile(snap, opts.output); err != nil {
		return err
	}
	printSuccess("Snapshot written")
	printFile(opts.output)
	printStats(len(snap.Raw), 0, hit)
	printNextStep("Compute the layout", "coinvenn scene --snapshot "+opts.output)
	return nil
}
