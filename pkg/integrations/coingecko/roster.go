package coingecko

// RosterEntry identifies one tracked entity. Exchanges carry their
// CoinGecko exchange id; institutions leave it empty and get generated
// holdings instead.
type RosterEntry struct {
	Key        string // stable configuration key
	Name       string // display name, used as the entity identifier
	ExchangeID string // CoinGecko exchange id, empty for institutions
}

// DefaultRoster is the standard set of tracked market participants.
func DefaultRoster() []RosterEntry {
	return []RosterEntry{
		{Key: "binance", Name: "Binance", ExchangeID: "binance"},
		{Key: "coinbase", Name: "Coinbase", ExchangeID: "gdax"},
		{Key: "kraken", Name: "Kraken", ExchangeID: "kraken"},
		{Key: "kucoin", Name: "KuCoin", ExchangeID: "kucoin"},
		{Key: "ftx", Name: "FTX", ExchangeID: "ftx_spot"},
		{Key: "fidelity", Name: "Fidelity Digital Assets"},
		{Key: "blackrock", Name: "BlackRock"},
		{Key: "grayscale", Name: "Grayscale"},
		{Key: "wintermute", Name: "Wintermute"},
		{Key: "jump_trading", Name: "Jump Trading"},
	}
}
