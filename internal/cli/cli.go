// Package cli implements the coinvenn command-line interface.
//
// This package provides commands for fetching crypto holdings snapshots,
// computing overlap layout scenes, rendering them to various formats, and
// running the HTTP server. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - snapshot: Fetch raw per-entity holdings from CoinGecko
//   - scene: Aggregate holdings and compute the overlap layout
//   - render: Run the full pipeline and write artifacts
//   - serve: Run the HTTP API server
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/coinvenn/coinvenn/pkg/buildinfo"
	"github.com/coinvenn/coinvenn/pkg/cache"
	"github.com/coinvenn/coinvenn/pkg/config"
	apperrors "github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/httputil"
	"github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "coinvenn"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Coinvenn visualizes crypto holdings overlap as Venn-style bubble scenes",
		Long:         `Coinvenn aggregates per-entity crypto holdings into a bidirectional index and lays them out as a deterministic Venn-style bubble scene, making shared exposure across exchanges and institutions visible at a glance.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.sceneCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newStageCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newStageCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "stages"))
}

// newCoingeckoClient creates a CoinGecko client backed by the HTTP response
// cache. With noCache the responses are still cached in a throwaway temp
// dir so retries within one run stay cheap.
func newCoingeckoClient(noCache bool) (*coingecko.Client, error) {
	dir, err := cacheDir()
	if err != nil || noCache {
		dir = os.TempDir()
	}
	httpCache, err := httputil.NewCache(filepath.Join(dir, "http"), time.Hour)
	if err != nil {
		return nil, err
	}
	return coingecko.NewClient(httpCache), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/coinvenn/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from a loaded config file.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Roster:     cfg.CoingeckoRoster(),
		TopCoins:   cfg.Fetch.TopCoins,
		Radius:     cfg.Layout.Radius,
		AssetScale: cfg.Layout.AssetScale,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseList parses a comma-separated list, trimming blanks. An empty
// string yields nil, which selects everything.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseEntities parses and validates a comma-separated entity selection.
func parseEntities(s string) ([]string, error) {
	names := parseList(s)
	for _, name := range names {
		if err := apperrors.ValidateEntityName(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// parseAssets parses and validates a comma-separated asset selection.
func parseAssets(s string) ([]string, error) {
	symbols := parseList(s)
	for _, sym := range symbols {
		if err := apperrors.ValidateAssetSymbol(sym); err != nil {
			return nil, err
		}
	}
	return symbols, nil
}
