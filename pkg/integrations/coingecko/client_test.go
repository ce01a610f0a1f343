package coingecko

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coinvenn/coinvenn/pkg/httputil"
)

const marketsJSON = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000,"market_cap_rank":1},
	{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":2500,"market_cap_rank":2},
	{"id":"solana","symbol":"sol","name":"Solana","current_price":100,"market_cap_rank":3}
]`

const exchangeJSON = `{
	"name":"Binance",
	"trade_volume_24h_btc":100,
	"tickers":[{"base":"BTC","target":"USDT"},{"base":"ETH","target":"USDT"}]
}`

func newTestServer(t *testing.T, exchangeCalls *atomic.Int32) (*Client, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/coins/markets", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q", got)
		}
		w.Write([]byte(marketsJSON))
	})
	mux.HandleFunc("/exchanges/binance", func(w http.ResponseWriter, r *http.Request) {
		if exchangeCalls != nil {
			exchangeCalls.Add(1)
		}
		w.Write([]byte(exchangeJSON))
	})
	mux.HandleFunc("/exchanges/gdax", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	c := NewClient(cache)
	c.BaseURL = srv.URL
	c.Pace = 0
	return c, srv
}

func TestTopCoins(t *testing.T) {
	c, _ := newTestServer(t, nil)
	coins, err := c.TopCoins(t.Context(), 3, false)
	if err != nil {
		t.Fatalf("TopCoins: %v", err)
	}
	if len(coins) != 3 || coins[0].Symbol != "btc" || coins[0].CurrentPrice != 50000 {
		t.Errorf("coins = %+v", coins)
	}
}

func TestFetchExchangeCaches(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestServer(t, &calls)

	for range 2 {
		ex, err := c.FetchExchange(t.Context(), "binance", false)
		if err != nil {
			t.Fatalf("FetchExchange: %v", err)
		}
		if ex.TradeVolume24hBTC != 100 || len(ex.Tickers) != 2 {
			t.Errorf("exchange = %+v", ex)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("exchange endpoint hit %d times, want 1 (cached)", calls.Load())
	}
}

func TestFetchHoldings(t *testing.T) {
	c, _ := newTestServer(t, nil)

	snap, err := c.FetchHoldings(t.Context(), FetchOptions{
		Roster: []RosterEntry{
			{Key: "binance", Name: "Binance", ExchangeID: "binance"},
			{Key: "coinbase", Name: "Coinbase", ExchangeID: "gdax"}, // 502 → fallback
			{Key: "blackrock", Name: "BlackRock"},
		},
		TopCoins: 3,
	})
	if err != nil {
		t.Fatalf("FetchHoldings: %v", err)
	}
	if snap.ID == "" || snap.FetchedAt.IsZero() {
		t.Error("snapshot should carry an ID and timestamp")
	}
	if len(snap.Raw) != 3 {
		t.Fatalf("got %d entities, want 3", len(snap.Raw))
	}

	// Binance estimated from real exchange data
	if snap.Raw["Binance"].Assets["BTC"].ValueUSD <= 0 {
		t.Error("Binance should hold estimated BTC")
	}

	// Coinbase's exchange endpoint fails, so it falls back to the
	// generated profile rather than dropping out of the snapshot.
	if len(snap.Raw["Coinbase"].Assets) == 0 {
		t.Error("Coinbase should fall back to generated holdings")
	}

	// BlackRock is generated from its strategy profile
	if snap.Raw["BlackRock"].Assets["BTC"].ValueUSD != 3_500_000_000 {
		t.Errorf("BlackRock BTC = %v", snap.Raw["BlackRock"].Assets["BTC"].ValueUSD)
	}
}

func TestFetchHoldingsFailsWithoutMarketData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	c := NewClient(cache)
	c.BaseURL = srv.URL
	c.Pace = 0

	if _, err := c.FetchHoldings(t.Context(), FetchOptions{TopCoins: 3}); err == nil {
		t.Error("missing market data should fail the snapshot")
	}
}
