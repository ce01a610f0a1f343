package overlap

import (
	"strings"
	"testing"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/venn"
)

func testIndex() *holdings.Index {
	return &holdings.Index{
		Entities: map[string]*holdings.Entity{
			"A": {Name: "A", TotalValue: 100, Assets: map[string]holdings.Holding{
				"X": {Quantity: 1, ValueUSD: 100},
			}},
			"B": {Name: "B", TotalValue: 350, Assets: map[string]holdings.Holding{
				"X": {Quantity: 3, ValueUSD: 300},
				"Y": {Quantity: 10, ValueUSD: 50},
			}},
		},
		Assets: map[string]*holdings.Asset{
			"X": {Symbol: "X", Name: "X Coin", Entities: []string{"A", "B"}, TotalQuantity: 4, TotalValue: 400},
			"Y": {Symbol: "Y", Name: "Y Coin", Entities: []string{"B"}, TotalQuantity: 10, TotalValue: 50},
		},
		AssetOrder: []string{"X", "Y"},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testIndex(), venn.Selection{})

	for _, want := range []string{
		"graph holdings {",
		`"A" [shape=box`,
		`"B" [shape=box`,
		`"X" [shape=ellipse`,
		`"Y" [shape=ellipse`,
		`"B" -- "X" [label="$300"];`,
		`"A" -- "X" [label="$100"];`,
		`"B" -- "Y" [label="$50"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}

	// X at 400 of 450 sits in the top share tier.
	if !strings.Contains(dot, `"X" [shape=ellipse, style=filled, fillcolor="#FF0000"`) {
		t.Errorf("X should carry the top-tier color:\n%s", dot)
	}
}

func TestToDOTPartialHoldersExcluded(t *testing.T) {
	// With only A selected, X still has holder B outside the selection,
	// so no asset survives.
	dot := ToDOT(testIndex(), venn.Selection{Entities: []string{"A"}})

	if strings.Contains(dot, "ellipse") {
		t.Errorf("partially held assets should be dropped:\n%s", dot)
	}
	if !strings.Contains(dot, `"A" [shape=box`) {
		t.Errorf("selected entity should still appear:\n%s", dot)
	}
}

func TestToDOTEmptyIndex(t *testing.T) {
	dot := ToDOT(&holdings.Index{}, venn.Selection{})
	if !strings.HasPrefix(dot, "graph holdings {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty index should yield a bare graph:\n%s", dot)
	}
	if strings.Contains(dot, "shape=") {
		t.Errorf("empty index should have no nodes:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a := ToDOT(testIndex(), venn.Selection{})
	for range 5 {
		if b := ToDOT(testIndex(), venn.Selection{}); b != a {
			t.Fatal("DOT output should be deterministic")
		}
	}
}
