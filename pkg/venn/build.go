package venn

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/scene"
)

// =============================================================================
// Layout
// =============================================================================

// Build computes the overlap layout scene for the selected slice of an
// index.
//
// Selected entities rank by total value descending and anchor at angle
// 2πi/n on a circle of radius opts.Radius. Each selected asset with at
// least one selected holder sits at the value-weighted centroid of its
// holders' anchors; all holders valued at zero fall back to the
// unweighted mean. Market share uses the sum of selected entity totals as
// denominator, so a bubble's percentage is its share of all observed
// capital, not of the selected-asset subset.
//
// An empty index or an empty effective selection yields a scene with no
// elements, never an error. The call is pure and deterministic.
func Build(idx *holdings.Index, sel Selection, opts Options) scene.Scene {
	opts = opts.withDefaults()
	sc := scene.Scene{View: scene.DefaultView()}
	if idx == nil || idx.IsEmpty() {
		return sc
	}

	entities := SelectEntities(idx, sel)
	assets := SelectAssets(idx, sel)
	if len(entities) == 0 || len(assets) == 0 {
		return sc
	}

	// Background guide circles.
	for _, r := range []float64{guideOuterRadius, guideInnerRadius} {
		sc.Elements = append(sc.Elements, scene.Element{
			Kind:    scene.KindGuideShape,
			Size:    r,
			Color:   "#000000",
			Opacity: 0.1,
		})
	}

	anchors := placeEntities(&sc, idx, entities, opts)

	// Market share divides by the sum of selected entity totals, so a
	// bubble reads as a share of all observed capital rather than of the
	// asset subset.
	var denom float64
	for _, name := range entities {
		denom += idx.Entities[name].TotalValue
	}

	placeAssets(&sc, idx, entities, assets, anchors, denom, opts)
	appendLegend(&sc)

	return sc
}

// =============================================================================
// Selection Resolution
// =============================================================================

// SelectEntities returns selected entity names ranked by total value
// descending, ties broken lexicographically.
func SelectEntities(idx *holdings.Index, sel Selection) []string {
	var names []string
	if sel.Entities == nil {
		for name := range idx.Entities {
			names = append(names, name)
		}
	} else {
		for _, name := range sel.Entities {
			if _, ok := idx.Entities[name]; ok {
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)
	slices.SortStableFunc(names, func(a, b string) int {
		av, bv := idx.Entities[a].TotalValue, idx.Entities[b].TotalValue
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
	return names
}

// SelectAssets returns selected asset symbols in canonical index order.
func SelectAssets(idx *holdings.Index, sel Selection) []string {
	if sel.Assets == nil {
		return slices.Clone(idx.AssetOrder)
	}
	want := make(map[string]bool, len(sel.Assets))
	for _, sym := range sel.Assets {
		want[sym] = true
	}
	var out []string
	for _, sym := range idx.AssetOrder {
		if want[sym] {
			out = append(out, sym)
		}
	}
	return out
}

// =============================================================================
// Entity Placement
// =============================================================================

type point struct{ x, y float64 }

// placeEntities appends zone bubbles and labels and returns each entity's
// anchor position.
func placeEntities(sc *scene.Scene, idx *holdings.Index, entities []string, opts Options) map[string]point {
	n := len(entities)
	anchors := make(map[string]point, n)

	for i, name := range entities {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := point{opts.Radius * math.Cos(angle), opts.Radius * math.Sin(angle)}
		anchors[name] = p

		e := idx.Entities[name]
		size := max(math.Sqrt(e.TotalValue)*opts.EntityScale, opts.EntityMinSize)
		color := PaletteColor(i)

		sc.Elements = append(sc.Elements, scene.Element{
			Kind:    scene.KindEntityZone,
			X:       p.x,
			Y:       p.y,
			Size:    size,
			Color:   Lighten(color, opts.Lighten),
			Stroke:  color,
			Opacity: zoneOpacity,
			Tooltip: fmt.Sprintf("%s\nTotal Holdings: %s", name, formatUSD(e.TotalValue)),
		})
	}

	// Labels after all zones so no zone paints over a neighbor's name.
	for _, name := range entities {
		p := anchors[name]
		sc.Elements = append(sc.Elements, scene.Element{
			Kind:  scene.KindEntityLabel,
			X:     p.x,
			Y:     p.y,
			Size:  16,
			Color: "#000000",
			Text:  strings.ToUpper(name),
		})
	}

	return anchors
}

// =============================================================================
// Asset Placement
// =============================================================================

type placedAsset struct {
	symbol  string
	pos     point
	size    float64
	pct     float64
	holders []string
}

// placeAssets appends asset bubbles, labels, and percentage overlays in
// size-descending draw order (smaller bubbles paint on top).
func placeAssets(sc *scene.Scene, idx *holdings.Index, entities, assets []string, anchors map[string]point, denom float64, opts Options) {
	selected := make(map[string]bool, len(entities))
	for _, name := range entities {
		selected[name] = true
	}

	var placed []placedAsset
	for _, sym := range assets {
		asset := idx.Assets[sym]

		// Holders in entity rank order. An asset with any holder outside
		// the entity selection is excluded entirely rather than rendered
		// with a partial holder set; this keeps every rendered asset's
		// share within the selected-entity denominator.
		var holders []string
		for _, name := range entities {
			if slices.Contains(asset.Entities, name) {
				holders = append(holders, name)
			}
		}
		if len(holders) == 0 || len(holders) != len(asset.Entities) {
			continue
		}

		pos := centroid(idx, sym, holders, anchors)
		size := math.Log10(max(1, asset.TotalValue)) * opts.AssetScale
		pct := 0.0
		if denom > 0 {
			pct = asset.TotalValue / denom * 100
		}

		placed = append(placed, placedAsset{sym, pos, size, pct, holders})
	}

	slices.SortStableFunc(placed, func(a, b placedAsset) int {
		switch {
		case a.size > b.size:
			return -1
		case a.size < b.size:
			return 1
		default:
			return 0
		}
	})

	for _, pa := range placed {
		asset := idx.Assets[pa.symbol]

		stroke := "#00000080"
		if len(pa.holders) > 1 {
			stroke = MultiHolderColor
		}

		sc.Elements = append(sc.Elements, scene.Element{
			Kind:    scene.KindAssetBubble,
			X:       pa.pos.x,
			Y:       pa.pos.y,
			Size:    pa.size,
			Color:   TierColor(pa.pct),
			Stroke:  stroke,
			Opacity: bubbleOpacity,
			Tooltip: assetTooltip(idx, asset, pa.pct, pa.holders),
		})
		sc.Elements = append(sc.Elements, scene.Element{
			Kind:  scene.KindAssetLabel,
			X:     pa.pos.x,
			Y:     pa.pos.y,
			Size:  11,
			Color: "#FFFFFF",
			Text:  pa.symbol,
		})
		if pa.size > overlayMinSize {
			// Percentage overlay slightly below center, offset
			// proportional to the bubble size.
			sc.Elements = append(sc.Elements, scene.Element{
				Kind:  scene.KindAssetLabel,
				X:     pa.pos.x,
				Y:     pa.pos.y + pa.size*0.0048,
				Size:  10,
				Color: "#FFFFFF",
				Text:  fmt.Sprintf("%.1f%%", pa.pct),
			})
		}
	}
}

// centroid places an asset at the value-weighted average of its holders'
// anchors; when every holding is valued at zero it falls back to the
// unweighted mean.
func centroid(idx *holdings.Index, sym string, holders []string, anchors map[string]point) point {
	var xSum, ySum, weightSum float64
	for _, name := range holders {
		p := anchors[name]
		w := idx.Entities[name].Assets[sym].ValueUSD
		xSum += p.x * w
		ySum += p.y * w
		weightSum += w
	}
	if weightSum > 0 {
		return point{xSum / weightSum, ySum / weightSum}
	}

	var x, y float64
	for _, name := range holders {
		p := anchors[name]
		x += p.x
		y += p.y
	}
	n := float64(len(holders))
	return point{x / n, y / n}
}

// assetTooltip summarizes an asset: totals, share, holder list, and a
// per-holder breakdown sorted by value descending.
func assetTooltip(idx *holdings.Index, asset *holdings.Asset, pct float64, holders []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", asset.Symbol)
	fmt.Fprintf(&b, "Total Value: %s\n", formatUSD(asset.TotalValue))
	fmt.Fprintf(&b, "Market Share: %.2f%%\n", pct)
	fmt.Fprintf(&b, "Quantity: %s\n", formatQuantity(asset.TotalQuantity))
	fmt.Fprintf(&b, "Held by: %s", strings.Join(holders, ", "))

	type holderValue struct {
		name  string
		value float64
	}
	breakdown := make([]holderValue, 0, len(holders))
	for _, name := range holders {
		breakdown = append(breakdown, holderValue{name, idx.Entities[name].Assets[asset.Symbol].ValueUSD})
	}
	slices.SortStableFunc(breakdown, func(a, b holderValue) int {
		switch {
		case a.value > b.value:
			return -1
		case a.value < b.value:
			return 1
		default:
			return 0
		}
	})
	for _, hv := range breakdown {
		share := 0.0
		if asset.TotalValue > 0 {
			share = hv.value / asset.TotalValue * 100
		}
		fmt.Fprintf(&b, "\n%s: %s (%.1f%%)", hv.name, formatUSD(hv.value), share)
	}
	return b.String()
}

// =============================================================================
// Legend
// =============================================================================

// appendLegend adds the fixed legend: one entry per tier plus the
// multi-holder marker. Entity zones carry their own legend identity.
func appendLegend(sc *scene.Scene) {
	for _, t := range Tiers {
		sc.Elements = append(sc.Elements, scene.Element{
			Kind:    scene.KindLegendEntry,
			Color:   t.Color,
			Opacity: bubbleOpacity,
			Text:    "Market Share: " + t.Label,
		})
	}
	sc.Elements = append(sc.Elements, scene.Element{
		Kind:    scene.KindLegendEntry,
		Color:   MultiHolderColor,
		Opacity: bubbleOpacity,
		Text:    "Held by multiple entities",
	})
}
