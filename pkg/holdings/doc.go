// Package holdings builds the normalized holdings index.
//
// # Overview
//
// The package turns raw per-entity holding records (one record per market
// participant, each mapping asset symbols to quantity/value pairs) into a
// bidirectional, cross-referenced index:
//
//   - entities: name → Entity (total value, per-asset holdings)
//   - assets: symbol → Asset (display name, holder list, totals)
//
// [Aggregate] is a pure function: it never mutates its input, performs no
// I/O, and returns a fresh index on every call. It is safe to invoke
// concurrently on independently-owned inputs.
//
// # Wire Format
//
// The JSON shape of [Index] is a contract shared with the layout engine,
// the HTTP API, and any external consumer. Field names (total_value,
// total_quantity, assets, entities, quantity, value_usd, name) must not
// change.
//
// # Invariants
//
//   - Referential symmetry: an entity appears in an asset's holder list
//     exactly when that asset appears in the entity's holdings.
//   - Conservation: the sum of asset totals equals the sum of entity totals.
//   - Assets are ordered by total value descending, stable on ties.
//   - Re-running aggregation on the same input yields an identical index.
//
// Symbol matching is exact-string: "BTC" and "btc" are distinct assets.
// No case folding or whitespace normalization is performed.
package holdings
