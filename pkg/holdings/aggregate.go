package holdings

import (
	"slices"
)

// =============================================================================
// Aggregation
// =============================================================================

// Aggregate folds raw per-entity records into a normalized index.
//
// Entities are processed in lexicographic name order so that the output is
// deterministic regardless of map iteration order; "first-seen" holder
// order therefore means alphabetical entity order. For each entity the
// total value is the sum of its holdings; for each asset the holder list,
// total quantity, and total value accumulate across entities. Once all
// entities are folded, assets are ordered by total value descending with
// ties keeping first-seen order.
//
// Malformed numeric fields (negative quantity or value) are clamped to 0
// rather than failing the pass, and one entity's bad record never affects
// the others. The function is pure: it does not mutate raw and returns a
// fresh index on every call.
func Aggregate(raw map[string]RawRecord) *Index {
	idx := &Index{
		Entities: make(map[string]*Entity, len(raw)),
		Assets:   make(map[string]*Asset),
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		foldEntity(idx, name, raw[name])
	}

	// Canonical asset order: total value descending, stable on ties.
	slices.SortStableFunc(idx.AssetOrder, func(a, b string) int {
		av, bv := idx.Assets[a].TotalValue, idx.Assets[b].TotalValue
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})

	return idx
}

// foldEntity adds one entity's record to the index: builds the Entity node
// and accumulates into each referenced Asset, creating assets on first
// sight.
func foldEntity(idx *Index, name string, rec RawRecord) {
	entity := &Entity{
		Name:   name,
		Assets: make(map[string]Holding, len(rec.Assets)),
	}

	symbols := make([]string, 0, len(rec.Assets))
	for sym := range rec.Assets {
		symbols = append(symbols, sym)
	}
	slices.Sort(symbols)

	for _, sym := range symbols {
		rh := rec.Assets[sym]
		h := Holding{
			Quantity: max(rh.Quantity, 0),
			ValueUSD: max(rh.ValueUSD, 0),
		}
		entity.Assets[sym] = h
		entity.TotalValue += h.ValueUSD

		asset, ok := idx.Assets[sym]
		if !ok {
			displayName := rh.Name
			if displayName == "" {
				displayName = sym
			}
			asset = &Asset{Symbol: sym, Name: displayName}
			idx.Assets[sym] = asset
			idx.AssetOrder = append(idx.AssetOrder, sym)
		}
		asset.Entities = append(asset.Entities, name)
		asset.TotalQuantity += h.Quantity
		asset.TotalValue += h.ValueUSD
	}

	idx.Entities[name] = entity
}
