package venn

import (
	"github.com/lucasb-eyer/go-colorful"
)

// =============================================================================
// Entity Palette
// =============================================================================

// Palette is the fixed high-contrast color cycle for entity zones,
// assigned by value rank. More entities than colors wraps around.
var Palette = []string{
	"#3366CC", "#DC3912", "#FF9900", "#109618", "#990099",
	"#0099C6", "#DD4477", "#66AA00", "#B82E2E", "#316395",
	"#994499", "#22AA99", "#AAAA11", "#6633CC", "#E67300",
}

// PaletteColor returns the palette color for a rank index, wrapping
// around when the index exceeds the palette length.
func PaletteColor(rank int) string {
	return Palette[rank%len(Palette)]
}

// Lighten blends a hex color toward white in HSL lightness space,
// preserving hue and saturation. amount is in [0,1]: 0 leaves the color
// unchanged, 1 yields white. Unparseable input is returned as-is.
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := c.Hsl()
	l = min(1, l+amount*(1-l))
	return colorful.Hsl(h, s, l).Hex()
}

// =============================================================================
// Market Share Tiers
// =============================================================================

// Tier is one fixed market-share band. An asset falls in the tier where
// Min ≤ percentage < Max; percentages at or beyond the last band take the
// last tier.
type Tier struct {
	Min   float64
	Max   float64
	Color string
	Label string
}

// Tiers are the five fixed bands, ascending. Legend order follows this
// slice regardless of the data.
var Tiers = []Tier{
	{0, 1, "#CCCCCC", "<1%"},
	{1, 5, "#92D050", "1-5%"},
	{5, 10, "#00B0F0", "5-10%"},
	{10, 20, "#FFC000", "10-20%"},
	{20, 100, "#FF0000", ">20%"},
}

// MultiHolderColor marks assets held by more than one entity, both as a
// bubble outline and as the dedicated legend entry.
const MultiHolderColor = "#8C1AFF"

// TierColor returns the band color for a market-share percentage.
func TierColor(pct float64) string {
	for _, t := range Tiers {
		if pct >= t.Min && pct < t.Max {
			return t.Color
		}
	}
	return Tiers[len(Tiers)-1].Color
}
