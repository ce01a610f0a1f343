package coingecko

import (
	"math"
	"strings"

	"github.com/coinvenn/coinvenn/pkg/holdings"
)

// stablecoins institutions avoid as large positions. BTC is never
// filtered even though it heads every profile.
var stablecoins = map[string]bool{
	"USDT": true, "USDC": true, "DAI": true, "BUSD": true,
}

// profile describes an institution's published allocation strategy.
type profile struct {
	topN      int     // how many top coins the portfolio spans
	btcFocus  float64 // share of the portfolio held in BTC
	baseValue float64 // assumed total portfolio value in USD
}

// profileFor returns the strategy for a known institution, or the broad
// market-maker default (wide exposure, light BTC tilt).
func profileFor(name string) profile {
	switch name {
	case "BlackRock":
		return profile{topN: 5, btcFocus: 0.7, baseValue: 5_000_000_000}
	case "Grayscale":
		return profile{topN: 10, btcFocus: 0.6, baseValue: 1_000_000_000}
	case "Fidelity Digital Assets":
		return profile{topN: 3, btcFocus: 0.8, baseValue: 1_000_000_000}
	default:
		return profile{topN: 20, btcFocus: 0.3, baseValue: 1_000_000_000}
	}
}

// InstitutionalHoldings generates estimated holdings for an institution
// without a public data source, distributing a profile's base value
// across the top coins with a square-root market-cap-rank preference.
func InstitutionalHoldings(name string, coins []Coin) holdings.RawRecord {
	rec := holdings.RawRecord{Assets: map[string]holdings.RawHolding{}}
	if len(coins) == 0 {
		return rec
	}

	p := profileFor(name)
	target := coins[:min(p.topN, len(coins))]

	btcAllocation := 0.0
	for _, coin := range target {
		if coin.ID == "bitcoin" {
			btcAllocation = p.btcFocus
			break
		}
	}
	remaining := 1.0 - btcAllocation

	for _, coin := range target {
		symbol := strings.ToUpper(coin.Symbol)
		if symbol != "BTC" && stablecoins[symbol] {
			continue
		}

		var allocation float64
		if symbol == "BTC" && btcAllocation > 0 {
			allocation = btcAllocation
		} else {
			rank := coin.MarketCapRank
			if rank <= 0 {
				rank = len(coins)
			}
			allocation = remaining / float64(max(len(target)-1, 1)) / math.Sqrt(float64(rank))
		}

		value := p.baseValue * allocation
		rec.Assets[symbol] = holdings.RawHolding{
			Name:     coinName(coin, symbol),
			Quantity: quantityFor(value, coin.CurrentPrice),
			ValueUSD: value,
		}
	}
	return rec
}

// ExchangeHoldings estimates an exchange's holdings from its 24h volume
// and the distribution of its trading pairs: volume proxies for size,
// pair popularity and market-cap rank split it across the top 20 coins.
func ExchangeHoldings(ex *Exchange, coins []Coin) holdings.RawRecord {
	rec := holdings.RawRecord{Assets: map[string]holdings.RawHolding{}}
	if len(coins) == 0 {
		return rec
	}

	volumeBTC := ex.TradeVolume24hBTC
	if volumeBTC <= 0 {
		volumeBTC = 10_000
	}
	// coins are market-cap ordered, so coins[0] is BTC's price.
	totalVolume := volumeBTC * coins[0].CurrentPrice

	// Count trading pairs by base currency across the top 100 pairs.
	pairCounts := map[string]int{}
	totalPairs := 0
	for _, t := range ex.Tickers[:min(100, len(ex.Tickers))] {
		base := strings.ToUpper(t.Base)
		if base == "" {
			continue
		}
		pairCounts[base]++
		totalPairs++
	}

	for _, coin := range coins[:min(20, len(coins))] {
		symbol := strings.ToUpper(coin.Symbol)

		pairFactor := float64(pairCounts[symbol]) / float64(max(totalPairs, 1))
		rank := coin.MarketCapRank
		if rank <= 0 {
			rank = 100
		}
		marketCapFactor := 1 / math.Sqrt(float64(rank))

		value := totalVolume * 0.1 * (pairFactor + marketCapFactor) / 2
		rec.Assets[symbol] = holdings.RawHolding{
			Name:     coinName(coin, symbol),
			Quantity: quantityFor(value, coin.CurrentPrice),
			ValueUSD: value,
		}
	}
	return rec
}

func coinName(c Coin, symbol string) string {
	if c.Name != "" {
		return c.Name
	}
	return symbol
}

func quantityFor(value, price float64) float64 {
	if price > 0 {
		return value / price
	}
	return 0
}
