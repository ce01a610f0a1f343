package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coinvenn/coinvenn/pkg/cache"
	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/observability"
	"github.com/coinvenn/coinvenn/pkg/scene"
	"github.com/coinvenn/coinvenn/pkg/venn"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot holds the raw fetched holdings.
	Snapshot holdings.Snapshot

	// Index is the aggregated bidirectional index.
	Index *holdings.Index

	// IndexHash is the content hash of the index.
	IndexHash string

	// Scene is the computed overlap layout.
	Scene scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntityCount   int
	AssetCount    int
	ElementCount  int
	FetchTime     time.Duration
	AggregateTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit     bool // snapshot came from cache
	AggregateHit bool // index came from cache
	LayoutHit    bool // scene came from cache
	RenderHit    bool // all artifacts came from cache
}

// Execute runs the complete fetch → aggregate → layout → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}
	hooks := observability.Pipeline()

	// Stage 1: Fetch
	fetchStart := time.Now()
	hooks.OnFetchStart(ctx, len(opts.Roster))
	snap, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	hooks.OnFetchComplete(ctx, len(snap.Raw), time.Since(fetchStart), err)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Snapshot = snap
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.FetchHit = fetchHit

	r.Logger.Info("fetched holdings",
		"entities", len(snap.Raw),
		"cached", fetchHit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Aggregate
	aggStart := time.Now()
	hooks.OnAggregateStart(ctx, len(snap.Raw))
	idx, aggHit, err := r.AggregateWithCacheInfo(ctx, snap, opts)
	if err != nil {
		hooks.OnAggregateComplete(ctx, 0, 0, time.Since(aggStart), err)
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	hooks.OnAggregateComplete(ctx, len(idx.Entities), len(idx.Assets), time.Since(aggStart), nil)
	result.Index = idx
	result.Stats.AggregateTime = time.Since(aggStart)
	result.Stats.EntityCount = len(idx.Entities)
	result.Stats.AssetCount = len(idx.Assets)
	result.CacheInfo.AggregateHit = aggHit

	if data, err := holdings.MarshalIndex(idx); err == nil {
		result.IndexHash = cache.Hash(data)
	}

	r.Logger.Info("aggregated index",
		"entities", len(idx.Entities),
		"assets", len(idx.Assets),
		"duration", result.Stats.AggregateTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, len(idx.Entities), len(idx.Assets))
	sc, layoutHit, err := r.LayoutWithCacheInfo(ctx, idx, opts)
	hooks.OnLayoutComplete(ctx, len(sc.Elements), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = sc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ElementCount = len(sc.Elements)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"elements", len(sc.Elements),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, idx, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FetchWithCacheInfo fetches a holdings snapshot with caching and returns
// cache hit info. Refresh bypasses the cache read but still stores the
// fresh result.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (holdings.Snapshot, bool, error) {
	opts.SetFetchDefaults()
	r.applyLogger(&opts)
	if opts.Client == nil {
		return holdings.Snapshot{}, false, fmt.Errorf("client is required")
	}

	rosterData, _ := json.Marshal(opts.Roster)
	cacheKey := r.Keyer.SnapshotKey(cache.Hash(rosterData), cache.SnapshotKeyOpts{
		TopCoins: opts.TopCoins,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, err := holdings.ReadSnapshot(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "snapshot")
				return snap, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "snapshot")
	}

	snap, err := opts.Client.FetchHoldings(ctx, opts.FetchOptions())
	if err != nil {
		return holdings.Snapshot{}, false, err
	}

	if data, err := holdings.MarshalSnapshot(snap); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSnapshot)
		observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
	}

	return snap, false, nil
}

// Fetch is a convenience wrapper that discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (holdings.Snapshot, error) {
	snap, _, err := r.FetchWithCacheInfo(ctx, opts)
	return snap, err
}

// AggregateWithCacheInfo aggregates a snapshot with caching and returns
// cache hit info. The cache key embeds the snapshot content hash, so an
// unchanged snapshot always hits.
func (r *Runner) AggregateWithCacheInfo(ctx context.Context, snap holdings.Snapshot, opts Options) (*holdings.Index, bool, error) {
	r.applyLogger(&opts)

	snapData, err := holdings.MarshalSnapshot(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	cacheKey := r.Keyer.IndexKey(cache.Hash(snapData))

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if idx, err := holdings.ReadIndex(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, "index")
			return idx, true, nil
		}
		// Corrupt entry falls through to recompute.
	}
	observability.Cache().OnCacheMiss(ctx, "index")

	idx := holdings.Aggregate(snap.Raw)

	if data, err := holdings.MarshalIndex(idx); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLIndex)
		observability.Cache().OnCacheSet(ctx, "index", len(data))
	}

	return idx, false, nil
}

// Aggregate is a convenience wrapper that discards the cache hit info.
func (r *Runner) Aggregate(ctx context.Context, snap holdings.Snapshot, opts Options) (*holdings.Index, error) {
	idx, _, err := r.AggregateWithCacheInfo(ctx, snap, opts)
	return idx, err
}

// LayoutWithCacheInfo computes the overlap scene with caching and returns
// cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, idx *holdings.Index, opts Options) (scene.Scene, bool, error) {
	r.applyLogger(&opts)

	idxData, err := holdings.MarshalIndex(idx)
	if err != nil {
		return scene.Scene{}, false, fmt.Errorf("serialize index for cache key: %w", err)
	}
	cacheKey := r.Keyer.SceneKey(cache.Hash(idxData), opts.SceneKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if sc, err := scene.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "scene")
			return sc, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "scene")

	sc := venn.Build(idx, opts.Selection(), opts.LayoutOptions())

	if data, err := scene.Marshal(sc); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLScene)
		observability.Cache().OnCacheSet(ctx, "scene", len(data))
	}

	return sc, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, idx *holdings.Index, opts Options) (scene.Scene, error) {
	sc, _, err := r.LayoutWithCacheInfo(ctx, idx, opts)
	return sc, err
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info. The hit flag is true only when every requested format came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, idx *holdings.Index, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	r.applyLogger(&opts)
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	sceneData, err := scene.Marshal(sc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := renderArtifacts(ctx, sc, idx, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc scene.Scene, idx *holdings.Index, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, idx, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
