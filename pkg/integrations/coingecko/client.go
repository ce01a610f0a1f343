// Package coingecko fetches market data from the CoinGecko API and
// estimates per-entity holdings from it.
//
// Exchange holdings are estimated from 24h trading volume and the
// distribution of trading pairs; institutional holdings are generated
// from published strategy profiles. Neither is measured data, and the
// aggregation core treats both uniformly.
package coingecko

import (
	"context"
	"fmt"
	"net/url"

	"github.com/coinvenn/coinvenn/pkg/httputil"
	"github.com/coinvenn/coinvenn/pkg/integrations"
)

// DefaultBaseURL is the CoinGecko v3 API root. The free tier needs no
// API key but rate-limits hard; the embedded client paces requests.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Coin is one entry of the /coins/markets response, reduced to the
// fields the estimators use.
type Coin struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCapRank int     `json:"market_cap_rank"`
}

// Ticker is one trading pair of an exchange.
type Ticker struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

// Exchange is the /exchanges/{id} response, reduced to volume and pairs.
type Exchange struct {
	Name              string   `json:"name"`
	TradeVolume24hBTC float64  `json:"trade_volume_24h_btc"`
	Tickers           []Ticker `json:"tickers"`
}

// Client provides access to the CoinGecko API.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client

	// BaseURL can be overridden for testing.
	BaseURL string
}

// NewClient creates a CoinGecko client backed by the given response
// cache.
func NewClient(cache *httputil.Cache) *Client {
	return &Client{
		Client:  integrations.NewClient(cache, map[string]string{"Accept": "application/json"}),
		BaseURL: DefaultBaseURL,
	}
}

// TopCoins fetches the top coins by market capitalization, in USD.
// If refresh is true the response cache is bypassed.
func (c *Client) TopCoins(ctx context.Context, limit int, refresh bool) ([]Coin, error) {
	if limit <= 0 {
		limit = 100
	}
	key := fmt.Sprintf("markets:%d", limit)

	var coins []Coin
	err := c.Cached(ctx, key, refresh, &coins, func() error {
		q := url.Values{}
		q.Set("vs_currency", "usd")
		q.Set("order", "market_cap_desc")
		q.Set("per_page", fmt.Sprint(limit))
		q.Set("page", "1")
		q.Set("sparkline", "false")
		return c.Get(ctx, c.BaseURL+"/coins/markets?"+q.Encode(), &coins)
	})
	if err != nil {
		return nil, fmt.Errorf("top coins: %w", err)
	}
	return coins, nil
}

// FetchExchange fetches volume and trading pairs for one exchange.
func (c *Client) FetchExchange(ctx context.Context, id string, refresh bool) (*Exchange, error) {
	var ex Exchange
	err := c.Cached(ctx, "exchange:"+id, refresh, &ex, func() error {
		return c.Get(ctx, c.BaseURL+"/exchanges/"+url.PathEscape(id), &ex)
	})
	if err != nil {
		return nil, fmt.Errorf("exchange %s: %w", id, err)
	}
	return &ex, nil
}
