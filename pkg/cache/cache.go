// Package cache provides pluggable caching for pipeline stages.
//
// The [Cache] interface abstracts over storage backends so the same pipeline
// code runs against a local file cache (CLI), Redis (server deployments), a
// MongoDB collection (durable snapshot archives), or no cache at all.
//
// Keys are produced by a [Keyer], which hashes the inputs of each pipeline
// stage so that a change in any upstream parameter invalidates downstream
// entries. Values are opaque byte slices; callers serialize with JSON before
// storing.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for pipeline stage results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per pipeline stage.
//
// Snapshots follow the upstream refresh cadence (the original dashboard
// refreshed hourly). Derived stages can live longer because their keys embed
// the snapshot content hash, so stale entries are simply never requested.
const (
	// TTLSnapshot is how long fetched raw holdings stay fresh.
	TTLSnapshot = time.Hour

	// TTLIndex is how long an aggregated index stays cached.
	TTLIndex = 24 * time.Hour

	// TTLScene is how long a computed layout scene stays cached.
	TTLScene = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// SnapshotKeyOpts are the parameters that distinguish snapshot fetches.
type SnapshotKeyOpts struct {
	TopCoins int // number of top coins used for estimation
}

// SceneKeyOpts are the parameters that distinguish layout computations.
type SceneKeyOpts struct {
	Entities []string // selected entity identifiers, as given
	Assets   []string // selected asset symbols, as given
	Radius   float64
	SizeRef  float64
}

// ArtifactKeyOpts are the parameters that distinguish rendered artifacts.
type ArtifactKeyOpts struct {
	Format string
	Legend bool
	Guides bool
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// SnapshotKey generates a key for a fetched holdings snapshot.
	// rosterHash identifies the set of tracked entities.
	SnapshotKey(rosterHash string, opts SnapshotKeyOpts) string

	// IndexKey generates a key for an aggregated index derived from the
	// snapshot with the given content hash.
	IndexKey(snapshotHash string) string

	// SceneKey generates a key for a layout scene derived from the index
	// with the given content hash.
	SceneKey(indexHash string, opts SceneKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact derived from the
	// scene with the given content hash.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SnapshotKey generates a key for a holdings snapshot.
func (DefaultKeyer) SnapshotKey(rosterHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", rosterHash, opts)
}

// IndexKey generates a key for an aggregated index.
func (DefaultKeyer) IndexKey(snapshotHash string) string {
	return hashKey("index", snapshotHash)
}

// SceneKey generates a key for a layout scene.
func (DefaultKeyer) SceneKey(indexHash string, opts SceneKeyOpts) string {
	return hashKey("scene", indexHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}
