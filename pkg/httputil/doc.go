// Package httputil provides HTTP utilities for market data clients.
//
// # Overview
//
// This package provides infrastructure used by the data source clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/coinvenn/)
// with configurable TTL. This dramatically speeds up repeated snapshots
// and keeps request volume inside CoinGecko's free-tier rate limits.
//
// Usage:
//
//	cache, err := httputil.NewCache("", time.Hour)
//	ok, _ := cache.Get("markets:usd", &coins)  // Check cache
//	if !ok {
//	    coins = fetchFromAPI()
//	    cache.Set("markets:usd", coins)        // Store for later
//	}
//
// Cache keys should be namespaced by endpoint to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff so repeated failures back off quickly:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.fetch(ctx)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/coinvenn/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `coinvenn cache clear` or by deleting
// the cache directory.
package httputil
