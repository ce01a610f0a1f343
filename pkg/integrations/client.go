package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/httputil"
	"github.com/coinvenn/coinvenn/pkg/observability"
)

// DefaultPace is the minimum gap between requests. Free-tier market data
// APIs rate-limit aggressively; a little over one second keeps a full
// roster fetch under the CoinGecko limit.
const DefaultPace = 1100 * time.Millisecond

// Client provides shared HTTP functionality for market data clients.
// It handles caching, retry logic, request pacing, and common headers.
//
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	headers map[string]string

	// Pace is the minimum delay between consecutive requests. Zero
	// disables pacing (useful in tests).
	Pace time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewClient creates a Client with the given response cache and default
// headers. Headers are applied to every request; pass nil if none are
// needed. Pacing defaults to [DefaultPace].
func NewClient(cache *httputil.Cache, headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		cache:   cache,
		headers: headers,
		Pace:    DefaultPace,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true, the cache is bypassed and fetch is always
// called. The fetch function should populate v; on success, v is stored
// in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = c.cache.Set(key, v)
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// doRequest performs a paced GET and returns the response body on 200.
func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// pace blocks until the minimum gap since the previous request has
// elapsed, or the context is cancelled.
func (c *Client) pace(ctx context.Context) error {
	if c.Pace <= 0 {
		return nil
	}

	c.mu.Lock()
	wait := c.Pace - time.Since(c.last)
	c.last = time.Now().Add(max(wait, 0))
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func checkStatus(code int, header http.Header) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(header.Get("Retry-After"))
		rl := &apperrors.RateLimitedError{RetryAfter: retryAfter}
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, rl)}
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, ""
	}
	return u.Host, u.Path
}
