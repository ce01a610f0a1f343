package coingecko

import (
	"math"
	"testing"
)

func testCoins() []Coin {
	return []Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 50000, MarketCapRank: 1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 2500, MarketCapRank: 2},
		{ID: "tether", Symbol: "usdt", Name: "Tether", CurrentPrice: 1, MarketCapRank: 3},
		{ID: "solana", Symbol: "sol", Name: "Solana", CurrentPrice: 100, MarketCapRank: 4},
		{ID: "cardano", Symbol: "ada", Name: "Cardano", CurrentPrice: 0.5, MarketCapRank: 5},
	}
}

func TestInstitutionalHoldingsBlackRock(t *testing.T) {
	rec := InstitutionalHoldings("BlackRock", testCoins())

	// 70% BTC focus on a 5B base
	btc := rec.Assets["BTC"]
	if btc.ValueUSD != 3_500_000_000 {
		t.Errorf("BTC value = %v, want 3.5B", btc.ValueUSD)
	}
	if btc.Quantity != 3_500_000_000/50000.0 {
		t.Errorf("BTC quantity = %v", btc.Quantity)
	}
	if btc.Name != "Bitcoin" {
		t.Errorf("BTC name = %q", btc.Name)
	}

	// Stablecoins other than BTC are excluded
	if _, ok := rec.Assets["USDT"]; ok {
		t.Error("USDT should be excluded from institutional estimates")
	}

	// Remaining 30% spreads over the rest of the top 5 with sqrt-rank
	// preference: ETH gets 0.3/4/sqrt(2) of the base.
	eth := rec.Assets["ETH"]
	want := 5_000_000_000 * 0.3 / 4 / math.Sqrt(2)
	if math.Abs(eth.ValueUSD-want) > 1 {
		t.Errorf("ETH value = %v, want %v", eth.ValueUSD, want)
	}

	if len(rec.Assets) != 4 { // BTC, ETH, SOL, ADA
		t.Errorf("got %d assets, want 4", len(rec.Assets))
	}
}

func TestInstitutionalHoldingsProfiles(t *testing.T) {
	coins := testCoins()

	// Fidelity spans only the top 3 (and skips USDT), so 2 assets.
	fid := InstitutionalHoldings("Fidelity Digital Assets", coins)
	if len(fid.Assets) != 2 {
		t.Errorf("Fidelity assets = %d, want 2", len(fid.Assets))
	}
	if fid.Assets["BTC"].ValueUSD != 800_000_000 {
		t.Errorf("Fidelity BTC = %v, want 0.8B", fid.Assets["BTC"].ValueUSD)
	}

	// Unknown names fall back to the broad market-maker profile.
	mm := InstitutionalHoldings("Wintermute", coins)
	if mm.Assets["BTC"].ValueUSD != 300_000_000 {
		t.Errorf("market maker BTC = %v, want 0.3B", mm.Assets["BTC"].ValueUSD)
	}
}

func TestInstitutionalHoldingsEmptyMarket(t *testing.T) {
	rec := InstitutionalHoldings("BlackRock", nil)
	if len(rec.Assets) != 0 {
		t.Errorf("no market data should yield no holdings, got %v", rec.Assets)
	}
}

func TestExchangeHoldings(t *testing.T) {
	ex := &Exchange{
		Name:              "Binance",
		TradeVolume24hBTC: 100,
		Tickers: []Ticker{
			{Base: "btc", Target: "usdt"},
			{Base: "BTC", Target: "eur"},
			{Base: "eth", Target: "usdt"},
		},
	}
	rec := ExchangeHoldings(ex, testCoins())

	// Volume 100 BTC at 50k → 5M proxy. BTC: 2 of 3 pairs plus rank 1.
	totalVolume := 100 * 50000.0
	wantBTC := totalVolume * 0.1 * (2.0/3 + 1) / 2
	if math.Abs(rec.Assets["BTC"].ValueUSD-wantBTC) > 1e-6 {
		t.Errorf("BTC value = %v, want %v", rec.Assets["BTC"].ValueUSD, wantBTC)
	}

	// Every top coin appears, even without a trading pair.
	if len(rec.Assets) != 5 {
		t.Errorf("got %d assets, want 5", len(rec.Assets))
	}
	if rec.Assets["ADA"].ValueUSD <= 0 {
		t.Error("pairless coin should still get a rank-based estimate")
	}
	if rec.Assets["BTC"].ValueUSD <= rec.Assets["ETH"].ValueUSD {
		t.Error("BTC should outweigh ETH")
	}
}

func TestExchangeHoldingsVolumeFallback(t *testing.T) {
	// Missing volume falls back to the 10k BTC default.
	rec := ExchangeHoldings(&Exchange{}, testCoins())
	wantBTC := 10_000 * 50000.0 * 0.1 * (0 + 1) / 2
	if math.Abs(rec.Assets["BTC"].ValueUSD-wantBTC) > 1e-6 {
		t.Errorf("BTC value = %v, want %v", rec.Assets["BTC"].ValueUSD, wantBTC)
	}
}
