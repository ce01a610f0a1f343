package coingecko

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coinvenn/coinvenn/pkg/holdings"
)

// FetchOptions control a holdings snapshot fetch.
type FetchOptions struct {
	Roster   []RosterEntry // entities to fetch; nil means DefaultRoster
	TopCoins int           // market depth for estimation; 0 means 100
	Refresh  bool          // bypass the response cache
	Logger   *log.Logger   // nil discards
}

// FetchHoldings fetches or estimates raw holdings for every roster entry
// and wraps them in a snapshot.
//
// The top-coins market list is required: without prices nothing can be
// estimated, so its failure is fatal. Per-entity failures are not; a
// failing exchange lookup falls back to generated holdings, and the
// entity is skipped only if even that yields nothing. One bad entity
// never aborts the snapshot.
func (c *Client) FetchHoldings(ctx context.Context, opts FetchOptions) (holdings.Snapshot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	roster := opts.Roster
	if roster == nil {
		roster = DefaultRoster()
	}
	limit := opts.TopCoins
	if limit <= 0 {
		limit = 100
	}

	coins, err := c.TopCoins(ctx, limit, opts.Refresh)
	if err != nil {
		return holdings.Snapshot{}, fmt.Errorf("fetch holdings: %w", err)
	}

	raw := make(map[string]holdings.RawRecord, len(roster))
	for _, entry := range roster {
		if err := ctx.Err(); err != nil {
			return holdings.Snapshot{}, err
		}

		rec := c.entityHoldings(ctx, entry, coins, opts.Refresh, logger)
		if len(rec.Assets) == 0 {
			logger.Warn("no holdings for entity, skipping", "entity", entry.Name)
			continue
		}
		raw[entry.Name] = rec
	}

	return holdings.NewSnapshot(raw), nil
}

// entityHoldings resolves one roster entry: exchange estimation when a
// CoinGecko id exists, generated institutional holdings otherwise or on
// failure.
func (c *Client) entityHoldings(ctx context.Context, entry RosterEntry, coins []Coin, refresh bool, logger *log.Logger) holdings.RawRecord {
	if entry.ExchangeID == "" {
		return InstitutionalHoldings(entry.Name, coins)
	}

	ex, err := c.FetchExchange(ctx, entry.ExchangeID, refresh)
	if err != nil {
		logger.Warn("exchange lookup failed, using generated holdings",
			"entity", entry.Name, "exchange", entry.ExchangeID, "err", err)
		return InstitutionalHoldings(entry.Name, coins)
	}
	return ExchangeHoldings(ex, coins)
}
