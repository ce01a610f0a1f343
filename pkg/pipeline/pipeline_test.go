package pipeline

import (
	"strings"
	"testing"

	"github.com/coinvenn/coinvenn/pkg/cache"
	apperrors "github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/holdings"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"svg", false},
		{"dot", false},
		{"png", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) should carry the invalid format code, got %v", tt.format, err)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.TopCoins != DefaultTopCoins {
		t.Errorf("TopCoins = %d, want %d", opts.TopCoins, DefaultTopCoins)
	}
	if len(opts.Roster) == 0 {
		t.Error("Roster should default to the built-in roster")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsInvalidFormat(t *testing.T) {
	opts := Options{Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unsupported format should fail validation")
	}
}

func testSnapshot() holdings.Snapshot {
	return holdings.NewSnapshot(map[string]holdings.RawRecord{
		"A": {Assets: map[string]holdings.RawHolding{
			"X": {Name: "X Coin", Quantity: 1, ValueUSD: 100},
		}},
		"B": {Assets: map[string]holdings.RawHolding{
			"X": {Name: "X Coin", Quantity: 3, ValueUSD: 300},
			"Y": {Name: "Y Coin", Quantity: 10, ValueUSD: 50},
		}},
	})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAggregateCaching(t *testing.T) {
	r := newTestRunner(t)
	snap := testSnapshot()

	idx, hit, err := r.AggregateWithCacheInfo(t.Context(), snap, Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if hit {
		t.Error("first aggregation should miss the cache")
	}
	if len(idx.Entities) != 2 || len(idx.Assets) != 2 {
		t.Fatalf("index = %d entities, %d assets", len(idx.Entities), len(idx.Assets))
	}

	idx2, hit, err := r.AggregateWithCacheInfo(t.Context(), snap, Options{})
	if err != nil {
		t.Fatalf("Aggregate (cached): %v", err)
	}
	if !hit {
		t.Error("second aggregation should hit the cache")
	}
	if idx2.Assets["X"].TotalValue != idx.Assets["X"].TotalValue {
		t.Error("cached index should match the computed one")
	}
}

func TestLayoutCaching(t *testing.T) {
	r := newTestRunner(t)
	idx, err := r.Aggregate(t.Context(), testSnapshot(), Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	sc, hit, err := r.LayoutWithCacheInfo(t.Context(), idx, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}
	if len(sc.Elements) == 0 {
		t.Fatal("layout should produce elements")
	}

	sc2, hit, err := r.LayoutWithCacheInfo(t.Context(), idx, Options{})
	if err != nil {
		t.Fatalf("Layout (cached): %v", err)
	}
	if !hit {
		t.Error("second layout should hit the cache")
	}
	if len(sc2.Elements) != len(sc.Elements) {
		t.Error("cached scene should match the computed one")
	}

	// A different selection must not reuse the cached scene.
	_, hit, err = r.LayoutWithCacheInfo(t.Context(), idx, Options{Entities: []string{"A"}})
	if err != nil {
		t.Fatalf("Layout (selection): %v", err)
	}
	if hit {
		t.Error("changed selection should compute a fresh scene")
	}
}

func TestRenderCaching(t *testing.T) {
	r := newTestRunner(t)
	idx, err := r.Aggregate(t.Context(), testSnapshot(), Options{})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	sc, err := r.Layout(t.Context(), idx, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	opts := Options{Formats: []string{FormatJSON, FormatSVG, FormatDOT}}
	artifacts, hit, err := r.RenderWithCacheInfo(t.Context(), sc, idx, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should contain SVG markup")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "graph holdings") {
		t.Error("dot artifact should contain DOT source")
	}

	_, hit, err = r.RenderWithCacheInfo(t.Context(), sc, idx, opts)
	if err != nil {
		t.Fatalf("Render (cached): %v", err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	r := newTestRunner(t)
	idx := holdings.Aggregate(testSnapshot().Raw)
	sc, err := r.Layout(t.Context(), idx, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if _, _, err := r.RenderWithCacheInfo(t.Context(), sc, idx, Options{Formats: []string{"bmp"}}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestFetchRequiresClient(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, _, err := r.FetchWithCacheInfo(t.Context(), Options{}); err == nil {
		t.Error("fetch without a client should fail")
	}
}
