package integrations

import (
	"errors"
	"net/http"
	"time"
)

// Sentinel errors returned by API clients. Wrap with fmt.Errorf("%w: ...")
// to add context; check with errors.Is.
var (
	// ErrNotFound indicates the requested resource does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates an HTTP-level failure (timeout, 5xx, rate
	// limit, connection refused).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient returns the http.Client used by all source clients.
// The timeout bounds a full request including body read.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
