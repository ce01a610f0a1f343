package holdings

import (
	"reflect"
	"testing"
)

func sampleRaw() map[string]RawRecord {
	return map[string]RawRecord{
		"A": {Assets: map[string]RawHolding{
			"X": {ValueUSD: 100},
		}},
		"B": {Assets: map[string]RawHolding{
			"X": {ValueUSD: 300},
			"Y": {ValueUSD: 50},
		}},
	}
}

func TestAggregateExample(t *testing.T) {
	idx := Aggregate(sampleRaw())

	x := idx.Assets["X"]
	if x == nil {
		t.Fatal("asset X missing")
	}
	if x.TotalValue != 400 {
		t.Errorf("X.TotalValue = %v, want 400", x.TotalValue)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(x.Entities, want) {
		t.Errorf("X.Entities = %v, want %v", x.Entities, want)
	}

	// 400 > 50, so X sorts first
	if want := []string{"X", "Y"}; !reflect.DeepEqual(idx.AssetOrder, want) {
		t.Errorf("AssetOrder = %v, want %v", idx.AssetOrder, want)
	}

	if got := idx.Entities["A"].TotalValue; got != 100 {
		t.Errorf("A.TotalValue = %v, want 100", got)
	}
	if got := idx.Entities["B"].TotalValue; got != 350 {
		t.Errorf("B.TotalValue = %v, want 350", got)
	}
}

func TestAggregateReferentialSymmetry(t *testing.T) {
	idx := Aggregate(sampleRaw())

	for sym, asset := range idx.Assets {
		for _, holder := range asset.Entities {
			e, ok := idx.Entities[holder]
			if !ok {
				t.Fatalf("asset %s lists unknown holder %s", sym, holder)
			}
			if _, ok := e.Assets[sym]; !ok {
				t.Errorf("asset %s lists holder %s but entity has no holding", sym, holder)
			}
		}
	}
	for name, e := range idx.Entities {
		for sym := range e.Assets {
			asset, ok := idx.Assets[sym]
			if !ok {
				t.Fatalf("entity %s holds unknown asset %s", name, sym)
			}
			found := false
			for _, h := range asset.Entities {
				if h == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("entity %s holds %s but is not in holder list", name, sym)
			}
		}
	}

	if err := idx.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAggregateConservation(t *testing.T) {
	idx := Aggregate(sampleRaw())

	var entitySum, assetSum float64
	for _, e := range idx.Entities {
		entitySum += e.TotalValue
	}
	for _, a := range idx.Assets {
		assetSum += a.TotalValue
	}
	if entitySum != assetSum {
		t.Errorf("entity sum %v != asset sum %v", entitySum, assetSum)
	}
	if got := idx.TotalValue(); got != entitySum {
		t.Errorf("TotalValue() = %v, want %v", got, entitySum)
	}
}

func TestAggregateOrderingStableOnTies(t *testing.T) {
	// P and Q tie at 10; first-seen order is alphabetical by symbol
	// within the single entity, so P stays ahead of Q. Z is largest.
	raw := map[string]RawRecord{
		"E": {Assets: map[string]RawHolding{
			"P": {ValueUSD: 10},
			"Q": {ValueUSD: 10},
			"Z": {ValueUSD: 99},
		}},
	}
	idx := Aggregate(raw)

	if want := []string{"Z", "P", "Q"}; !reflect.DeepEqual(idx.AssetOrder, want) {
		t.Errorf("AssetOrder = %v, want %v", idx.AssetOrder, want)
	}

	sorted := idx.SortedAssets()
	if len(sorted) != 3 || sorted[0].Symbol != "Z" {
		t.Errorf("SortedAssets first = %v, want Z", sorted)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	raw := sampleRaw()
	a := Aggregate(raw)
	b := Aggregate(raw)
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated aggregation should yield identical indices")
	}
}

func TestAggregateMalformedFields(t *testing.T) {
	raw := map[string]RawRecord{
		"E": {Assets: map[string]RawHolding{
			"NEG": {Quantity: -5, ValueUSD: -100},
			"OK":  {Name: "Okay Coin", Quantity: 2, ValueUSD: 10},
		}},
		"F": {}, // no assets at all
	}
	idx := Aggregate(raw)

	neg := idx.Assets["NEG"]
	if neg.TotalQuantity != 0 || neg.TotalValue != 0 {
		t.Errorf("negative fields should clamp to 0, got qty=%v value=%v",
			neg.TotalQuantity, neg.TotalValue)
	}
	if neg.Name != "NEG" {
		t.Errorf("missing name should default to symbol, got %q", neg.Name)
	}
	if idx.Assets["OK"].Name != "Okay Coin" {
		t.Errorf("name not carried: %q", idx.Assets["OK"].Name)
	}

	// Entity with no assets still appears with zero total
	f, ok := idx.Entities["F"]
	if !ok {
		t.Fatal("entity F should survive aggregation")
	}
	if f.TotalValue != 0 {
		t.Errorf("F.TotalValue = %v, want 0", f.TotalValue)
	}
}

func TestAggregateEmpty(t *testing.T) {
	idx := Aggregate(nil)
	if !idx.IsEmpty() {
		t.Error("empty input should yield empty index")
	}
	if idx.Entities == nil || idx.Assets == nil {
		t.Error("maps should be initialized even when empty")
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	raw := map[string]RawRecord{
		"E": {Assets: map[string]RawHolding{"X": {Quantity: -1, ValueUSD: 5}}},
	}
	Aggregate(raw)
	if raw["E"].Assets["X"].Quantity != -1 {
		t.Error("input record was mutated")
	}
}
