package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when several deployments or users share one Redis or Mongo backend
// and need separate cache namespaces.
//
// Example usage:
//
//	// Deployment-specific keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SnapshotKey generates a prefixed key for holdings snapshot caching.
func (k *ScopedKeyer) SnapshotKey(rosterHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(rosterHash, opts)
}

// IndexKey generates a prefixed key for aggregated index caching.
func (k *ScopedKeyer) IndexKey(snapshotHash string) string {
	return k.prefix + k.inner.IndexKey(snapshotHash)
}

// SceneKey generates a prefixed key for layout scene caching.
func (k *ScopedKeyer) SceneKey(indexHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(indexHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
