// Package pipeline provides the core holdings visualization pipeline.
//
// This package implements the complete fetch → aggregate → layout → render
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: Retrieve or estimate raw per-entity holdings from CoinGecko
//  2. Aggregate: Fold raw holdings into a bidirectional entity-asset index
//  3. Layout: Compute the deterministic overlap scene for a selection
//  4. Render: Generate output in various formats (JSON, SVG, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage result is cached under a content-hash key so that a change
// in any upstream input invalidates everything downstream.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Client:   coingecko.NewClient(httpCache),
//	    Entities: []string{"Binance", "Coinbase"},
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Fetch only
//	snap, err := runner.Fetch(ctx, opts)
//
//	// Aggregate an existing snapshot
//	idx, err := runner.Aggregate(ctx, snap, opts)
//
//	// Layout an existing index
//	sc, err := runner.Layout(ctx, idx, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/coinvenn/coinvenn/pkg/cache"
	"github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
	"github.com/coinvenn/coinvenn/pkg/venn"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultTopCoins is the market depth used for holdings estimation.
	DefaultTopCoins = 100
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the holdings pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Roster   []coingecko.RosterEntry `json:"roster,omitempty"`
	TopCoins int                     `json:"top_coins,omitempty"`
	Refresh  bool                    `json:"refresh,omitempty"`

	// Layout options
	Entities   []string `json:"entities,omitempty"` // nil selects all
	Assets     []string `json:"assets,omitempty"`   // nil selects all
	Radius     float64  `json:"radius,omitempty"`
	AssetScale float64  `json:"asset_scale,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	NoLegend bool     `json:"no_legend,omitempty"`
	NoGuides bool     `json:"no_guides,omitempty"`

	// Runtime options (not serialized)
	Client *coingecko.Client `json:"-"`
	Logger *log.Logger       `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetFetchDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetFetchDefaults applies defaults for the fetch stage.
func (o *Options) SetFetchDefaults() {
	if o.TopCoins <= 0 {
		o.TopCoins = DefaultTopCoins
	}
	if o.Roster == nil {
		o.Roster = coingecko.DefaultRoster()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults applies defaults for the render stage.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Selection returns the layout selection implied by the options.
func (o *Options) Selection() venn.Selection {
	return venn.Selection{Entities: o.Entities, Assets: o.Assets}
}

// LayoutOptions returns the layout geometry implied by the options.
func (o *Options) LayoutOptions() venn.Options {
	return venn.Options{Radius: o.Radius, AssetScale: o.AssetScale}
}

// FetchOptions returns the fetch configuration implied by the options.
func (o *Options) FetchOptions() coingecko.FetchOptions {
	return coingecko.FetchOptions{
		Roster:   o.Roster,
		TopCoins: o.TopCoins,
		Refresh:  o.Refresh,
		Logger:   o.Logger,
	}
}

// SceneKeyOpts returns cache key options for the layout stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Entities: o.Entities,
		Assets:   o.Assets,
		Radius:   o.Radius,
		SizeRef:  o.AssetScale,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Legend: !o.NoLegend,
		Guides: !o.NoGuides,
	}
}
