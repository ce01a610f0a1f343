// Package pkg provides the core libraries for coinvenn holdings visualization.
//
// # Overview
//
// Coinvenn aggregates per-entity cryptocurrency holdings into a bidirectional
// entity-asset index and lays the overlaps out as a deterministic 2D bubble
// scene, where assets held by several entities drift toward the shared zone
// between them. The pkg directory is organized into five main areas:
//
//  1. [holdings] - Domain data (snapshots, aggregation, bidirectional index)
//  2. [venn] - Deterministic overlap layout (selection, placement, coloring)
//  3. [scene] - Serialization types for layout scenes (JSON element list)
//  4. [render] - Output sinks (SVG, JSON, Graphviz DOT/PNG)
//  5. [pipeline] - Orchestration (fetch → aggregate → layout → render)
//
// # Architecture
//
// The typical data flow through coinvenn:
//
//	CoinGecko API (markets + exchanges)
//	         ↓
//	    [integrations/coingecko] (fetch or estimate raw holdings)
//	         ↓
//	    [holdings] (aggregate into bidirectional index)
//	         ↓
//	    [venn] (selection + deterministic layout)
//	         ↓
//	    [render/sink], [render/overlap] (SVG/JSON/DOT/PNG output)
//
// # Quick Start
//
// Fetch holdings and render an overlap scene:
//
//	import (
//	    "context"
//	    "github.com/coinvenn/coinvenn/pkg/holdings"
//	    "github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
//	    "github.com/coinvenn/coinvenn/pkg/render/sink"
//	    "github.com/coinvenn/coinvenn/pkg/venn"
//	)
//
//	// 1. Fetch per-entity holdings
//	client := coingecko.NewClient(httpCache)
//	snap, _ := client.FetchHoldings(context.Background(), coingecko.FetchOptions{})
//
//	// 2. Aggregate into a bidirectional index
//	idx := holdings.Aggregate(snap.Holdings)
//
//	// 3. Compute the deterministic layout
//	sc := venn.Build(idx, venn.All(), venn.Options{})
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(sc)
//
// # Main Packages
//
// ## Domain Logic
//
// [holdings] - Snapshot and index types with JSON serialization. Aggregate
// folds raw per-entity records into a bidirectional index keyed both by
// entity and by asset symbol, with canonical orderings for determinism.
//
// [venn] - The overlap layout engine. Resolves entity and asset selections,
// places entity zones on a circle, positions asset bubbles at the centroid
// of their holders, and assigns palette, tier, and shared-holding colors.
//
// [scene] - Serialization types for scenes (element list plus view box).
// A scene is a flat draw-ordered list of guides, zones, bubbles, labels,
// and legend entries.
//
// ## Rendering
//
// [render/sink] - Scene output sinks: positioned SVG with optional legend
// and guide rings, and canonical JSON.
//
// [render/overlap] - Graphviz view of the same selection as a bipartite
// entity-asset relation diagram (DOT, SVG, PNG).
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (fetch → aggregate → layout → render) used
// by CLI and server. Each stage result is cached under a content-hash key so
// upstream changes invalidate everything downstream.
//
// [cache] - Stage and artifact caches with file, Redis, MongoDB, and null
// backends, plus content-hash key derivation.
//
// [integrations] - Shared HTTP client with response caching, retry with
// backoff, and request pacing; [integrations/coingecko] builds rosters and
// holdings snapshots on top of it.
//
// [httputil] - File-backed HTTP response cache and retry helpers.
//
// [config] - TOML configuration for roster, fetch, layout, cache, and
// server settings.
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and the HTTP API.
//
// [observability] - Pluggable hooks for pipeline stages, cache traffic,
// and outbound HTTP.
//
// [buildinfo] - Version metadata injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/venn/...       # Specific package
//
// [holdings]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/holdings
// [venn]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/venn
// [scene]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/scene
// [render]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/render/sink
// [render/overlap]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/render/overlap
// [pipeline]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/cache
// [integrations]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/integrations
// [integrations/coingecko]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/integrations/coingecko
// [httputil]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/httputil
// [config]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/config
// [errors]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/errors
// [observability]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/coinvenn/coinvenn/pkg/buildinfo
package pkg
