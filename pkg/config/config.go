// Package config loads coinvenn configuration from TOML files.
//
// Configuration is optional everywhere: the zero file, a missing file, and
// an empty path all resolve to [Default]. The file controls the tracked
// entity roster, fetch behavior, layout geometry, the cache backend, and
// the server address.
//
// A minimal file:
//
//	[fetch]
//	top_coins = 50
//
//	[[roster]]
//	key = "binance"
//	name = "Binance"
//	exchange_id = "binance"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/coinvenn/coinvenn/pkg/cache"
	"github.com/coinvenn/coinvenn/pkg/integrations/coingecko"
)

// Config is the root configuration.
type Config struct {
	Roster []RosterEntry `toml:"roster"`
	Fetch  FetchConfig   `toml:"fetch"`
	Layout LayoutConfig  `toml:"layout"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// RosterEntry names one tracked entity. Entries with an exchange_id are
// estimated from live CoinGecko exchange data; the rest use generated
// institutional profiles.
type RosterEntry struct {
	Key        string `toml:"key"`
	Name       string `toml:"name"`
	ExchangeID string `toml:"exchange_id"`
}

// FetchConfig controls snapshot fetching.
type FetchConfig struct {
	TopCoins        int      `toml:"top_coins"`
	RefreshInterval duration `toml:"refresh_interval"`
}

// LayoutConfig controls scene geometry.
type LayoutConfig struct {
	Radius     float64 `toml:"radius"`
	AssetScale float64 `toml:"asset_scale"`
}

// CacheConfig selects and configures the cache backend.
// Backend is one of "file", "redis", "mongo", or "none".
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"` // file backend; defaults to the user cache dir

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration lets TOML carry values like "30m" or "1h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			TopCoins:        100,
			RefreshInterval: duration(time.Hour),
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads and decodes a TOML configuration file. Fields absent from the
// file keep their [Default] values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the file at path, or returns [Default] when path is
// empty or the file does not exist. Malformed files still fail.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// CoingeckoRoster converts the configured roster for the fetch client.
// An empty roster means the built-in default.
func (c *Config) CoingeckoRoster() []coingecko.RosterEntry {
	if len(c.Roster) == 0 {
		return nil
	}
	out := make([]coingecko.RosterEntry, len(c.Roster))
	for i, e := range c.Roster {
		out[i] = coingecko.RosterEntry{Key: e.Key, Name: e.Name, ExchangeID: e.ExchangeID}
	}
	return out
}

// RefreshInterval returns the configured refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	if c.Fetch.RefreshInterval <= 0 {
		return time.Hour
	}
	return time.Duration(c.Fetch.RefreshInterval)
}

// OpenCache constructs the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "", "file":
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		})
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "coinvenn"), nil
}
