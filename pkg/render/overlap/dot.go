// Package overlap renders the entity-asset holding relation as a
// Graphviz diagram.
//
// Unlike the bubble scene, which encodes overlap through spatial
// position, the DOT view shows the raw bipartite structure: one node
// per entity, one per asset, and an edge for every holding. It is the
// format of choice for piping into other Graphviz tooling.
package overlap

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/venn"
)

// ToDOT converts the selected slice of an index to Graphviz DOT.
// Entities render as rounded boxes colored from the layout palette,
// assets as ellipses colored by their market-share tier, and edges
// carry the holder's USD value as a label. The resulting string can be
// rendered with [RenderSVG] or [RenderPNG].
func ToDOT(idx *holdings.Index, sel venn.Selection) string {
	var buf bytes.Buffer
	buf.WriteString("graph holdings {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"Arial\"];\n")
	buf.WriteString("  edge [color=\"#00000060\", fontsize=9, fontname=\"Arial\"];\n")
	buf.WriteString("\n")

	if idx == nil || idx.IsEmpty() {
		buf.WriteString("}\n")
		return buf.String()
	}

	entities := venn.SelectEntities(idx, sel)
	assets := venn.SelectAssets(idx, sel)
	selected := make(map[string]bool, len(entities))
	for _, name := range entities {
		selected[name] = true
	}

	var denom float64
	for _, name := range entities {
		denom += idx.Entities[name].TotalValue
	}

	for i, name := range entities {
		fmt.Fprintf(&buf,
			"  %q [shape=box, style=\"rounded,filled\", fillcolor=%q, fontsize=16];\n",
			name, venn.Lighten(venn.PaletteColor(i), 0.6))
	}
	buf.WriteString("\n")

	for _, sym := range assets {
		asset := idx.Assets[sym]
		if !allSelected(asset.Entities, selected) {
			continue
		}
		pct := 0.0
		if denom > 0 {
			pct = asset.TotalValue / denom * 100
		}
		fmt.Fprintf(&buf,
			"  %q [shape=ellipse, style=filled, fillcolor=%q, fontsize=11];\n",
			sym, venn.TierColor(pct))
	}
	buf.WriteString("\n")

	for _, name := range entities {
		for _, sym := range assets {
			if !allSelected(idx.Assets[sym].Entities, selected) {
				continue
			}
			h, ok := idx.Entities[name].Assets[sym]
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q [label=\"$%.0f\"];\n", name, sym, h.ValueUSD)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// allSelected reports whether every holder of an asset is part of the
// entity selection. Partially held assets are dropped from the diagram,
// matching the scene layout's exclusion rule.
func allSelected(holders []string, selected map[string]bool) bool {
	for _, name := range holders {
		if !selected[name] {
			return false
		}
	}
	return len(holders) > 0
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
