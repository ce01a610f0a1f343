package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coinvenn/coinvenn/pkg/cache"
	apperrors "github.com/coinvenn/coinvenn/pkg/errors"
	"github.com/coinvenn/coinvenn/pkg/httputil"
	"github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
	"github.com/coinvenn/coinvenn/pkg/pipeline"
)

const marketsJSON = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000,"market_cap_rank":1},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":2500,"market_cap_rank":2},
	{"id":"solana","symbol":"sol","name":"Solana","current_price":100,"market_cap_rank":3}
]`

// newTestServer builds a server against a stub CoinGecko upstream with an
// institution-only roster, so only the markets endpoint is needed.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/coins/markets") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(marketsJSON))
	}))
	t.Cleanup(upstream.Close)

	httpCache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	client := coingecko.NewClient(httpCache)
	client.BaseURL = upstream.URL
	client.Pace = 0

	stageCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	s := New(Config{
		Addr:   ":0",
		Runner: pipeline.NewRunner(stageCache, nil, nil),
		Client: client,
		Roster: []coingecko.RosterEntry{
			{Key: "blackrock", Name: "BlackRock"},
			{Key: "grayscale", Name: "Grayscale"},
		},
		TopCoins: 3,
	})
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthReflectsReadiness(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["ready"] != false {
		t.Error("server should not be ready before the first refresh")
	}

	if err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	rec = get(t, s, "/healthz")
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["ready"] != true {
		t.Error("server should be ready after a refresh")
	}
}

func TestIndexEndpoint(t *testing.T) {
	s := newTestServer(t)

	if rec := get(t, s, "/api/index"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("index before refresh = %d, want 503", rec.Code)
	}

	if err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rec := get(t, s, "/api/index")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp indexResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LastUpdated.IsZero() {
		t.Error("response should carry last_updated")
	}
	if len(resp.Index.Entities) != 2 {
		t.Errorf("got %d entities, want 2", len(resp.Index.Entities))
	}
	if _, ok := resp.Index.Assets["BTC"]; !ok {
		t.Error("index should contain BTC")
	}
}

func TestSceneEndpoint(t *testing.T) {
	s := newTestServer(t)
	if err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rec := get(t, s, "/api/scene?entities=BlackRock,Grayscale")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp sceneResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Scene.Elements) == 0 {
		t.Error("scene should contain elements")
	}

	// Unknown entities resolve to an empty selection, not an error.
	rec = get(t, s, "/api/scene?entities=Nobody")
	if rec.Code != http.StatusOK {
		t.Errorf("unknown selection = %d, want 200", rec.Code)
	}
}

func TestSceneRejectsInvalidSelection(t *testing.T) {
	s := newTestServer(t)
	if err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Control characters in an entity name are rejected before layout.
	rec := get(t, s, "/api/scene?entities=bad%09name")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != apperrors.ErrCodeInvalidEntity {
		t.Errorf("code = %q, want %q", resp.Code, apperrors.ErrCodeInvalidEntity)
	}

	// Spaces inside an asset symbol are rejected too.
	rec = get(t, s, "/api/scene.svg?assets=BT%20C")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("asset status = %d, want 400", rec.Code)
	}
}

func TestSceneSVGEndpoint(t *testing.T) {
	s := newTestServer(t)
	if err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rec := get(t, s, "/api/scene.svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body should be SVG")
	}

	rec = get(t, s, "/api/scene.svg?legend=false")
	if strings.Contains(rec.Body.String(), "Market Share") {
		t.Error("legend=false should drop the legend")
	}
}

func TestRefreshEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	if idx, _ := s.currentIndex(); idx == nil {
		t.Error("refresh endpoint should populate the index")
	}
}
