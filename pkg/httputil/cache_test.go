package httputil

import (
	"errors"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}

	type payload struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}

	if err := c.Set("markets:btc", payload{Symbol: "BTC", Price: 65000}); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	var got payload
	ok, err := c.Get("markets:btc", &got)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Symbol != "BTC" || got.Price != 65000 {
		t.Errorf("Get = %+v, want {BTC 65000}", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}

	var v map[string]any
	ok, err := c.Get("missing", &v)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)

	var v string
	ok, err := c.Get("key", &v)
	if ok {
		t.Error("expected expired entry to miss")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestCacheNamespace(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}

	markets := c.Namespace("markets:")
	exchanges := c.Namespace("exchanges:")

	if err := markets.Set("usd", "market-data"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Same key, different namespace: no collision
	var v string
	ok, _ := exchanges.Get("usd", &v)
	if ok {
		t.Error("namespaces should not collide")
	}

	ok, _ = markets.Get("usd", &v)
	if !ok || v != "market-data" {
		t.Errorf("namespaced Get = (%v, %q), want (true, market-data)", ok, v)
	}

	// Chained namespaces compose prefixes
	nested := c.Namespace("a:").Namespace("b:")
	if err := nested.Set("k", 1); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	var n int
	ok, _ = c.Namespace("a:b:").Get("k", &n)
	if !ok || n != 1 {
		t.Error("chained namespaces should compose")
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Retry(t.Context(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryRetriesRetryable(t *testing.T) {
	calls := 0
	err := Retry(t.Context(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Errorf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}
