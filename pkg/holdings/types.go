package holdings

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Raw Input - Data Source Output
// =============================================================================

// RawHolding is one asset position as reported (or estimated) by a data
// source. Missing fields decode to their zero values; Aggregate treats
// negative numbers as 0 and an empty name as the symbol.
type RawHolding struct {
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	Quantity float64 `json:"quantity,omitempty" bson:"quantity,omitempty"`
	ValueUSD float64 `json:"value_usd,omitempty" bson:"value_usd,omitempty"`
}

// RawRecord is the complete reported position of one entity: a mapping
// from asset symbol to holding.
type RawRecord struct {
	Assets map[string]RawHolding `json:"assets" bson:"assets"`
}

// =============================================================================
// Snapshot - Timestamped Raw Capture
// =============================================================================

// Snapshot is a timestamped capture of raw holdings for a set of entities.
// Snapshots are what the data source client produces, what the cache
// stores, and what Aggregate consumes.
type Snapshot struct {
	ID        string               `json:"id" bson:"_id"`
	FetchedAt time.Time            `json:"fetched_at" bson:"fetched_at"`
	Raw       map[string]RawRecord `json:"raw" bson:"raw"`
}

// NewSnapshot wraps raw records in a snapshot with a fresh ID and the
// current UTC time.
func NewSnapshot(raw map[string]RawRecord) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: time.Now().UTC(),
		Raw:       raw,
	}
}

// =============================================================================
// Normalized Index - Aggregator Output
// =============================================================================

// Holding is the (quantity, value) attribution of one asset to one entity.
// Both fields are non-negative.
type Holding struct {
	Quantity float64 `json:"quantity" bson:"quantity"`
	ValueUSD float64 `json:"value_usd" bson:"value_usd"`
}

// Entity is a market participant and its positions. TotalValue is the sum
// of its own holdings' values, independent of global asset totals.
type Entity struct {
	Name       string             `json:"name" bson:"name"`
	TotalValue float64            `json:"total_value" bson:"total_value"`
	Assets     map[string]Holding `json:"assets" bson:"assets"`
}

// Asset is a tradable instrument and the entities holding it. Entities
// lists holders in first-seen order; totals are sums across holders.
type Asset struct {
	Symbol        string   `json:"symbol" bson:"symbol"`
	Name          string   `json:"name" bson:"name"`
	Entities      []string `json:"entities" bson:"entities"`
	TotalQuantity float64  `json:"total_quantity" bson:"total_quantity"`
	TotalValue    float64  `json:"total_value" bson:"total_value"`
}

// Index is the bidirectional normalized model linking entities to assets.
// AssetOrder lists symbols by total value descending (ties keep first-seen
// order) and is the canonical iteration order for assets.
type Index struct {
	Entities   map[string]*Entity `json:"entities" bson:"entities"`
	Assets     map[string]*Asset  `json:"assets" bson:"assets"`
	AssetOrder []string           `json:"asset_order" bson:"asset_order"`
}

// SortedAssets returns assets in canonical order (total value descending).
func (idx *Index) SortedAssets() []*Asset {
	out := make([]*Asset, 0, len(idx.AssetOrder))
	for _, sym := range idx.AssetOrder {
		if a, ok := idx.Assets[sym]; ok {
			out = append(out, a)
		}
	}
	return out
}

// TotalValue returns the sum of all entity totals. By the conservation
// invariant this equals the sum of all asset totals.
func (idx *Index) TotalValue() float64 {
	var sum float64
	for _, e := range idx.Entities {
		sum += e.TotalValue
	}
	return sum
}

// IsEmpty reports whether the index contains no entities and no assets.
func (idx *Index) IsEmpty() bool {
	return len(idx.Entities) == 0 && len(idx.Assets) == 0
}
