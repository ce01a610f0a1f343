package pipeline

import (
	"context"
	"fmt"

	"github.com/coinvenn/coinvenn/pkg/holdings"
	"github.com/coinvenn/coinvenn/pkg/render/overlap"
	"github.com/coinvenn/coinvenn/pkg/render/sink"
	"github.com/coinvenn/coinvenn/pkg/scene"
)

// renderArtifacts renders the scene (json, svg) or the holding relation
// (dot, png) for every requested format.
//
// The json and svg formats draw the positioned bubble scene. The dot
// format emits the bipartite entity-asset relation as Graphviz source,
// and png rasterizes that relation through Graphviz.
func renderArtifacts(ctx context.Context, sc scene.Scene, idx *holdings.Index, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := sink.RenderJSON(sc)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data

		case FormatSVG:
			artifacts[format] = sink.RenderSVG(sc,
				sink.WithLegend(!opts.NoLegend),
				sink.WithGuides(!opts.NoGuides))

		case FormatDOT:
			artifacts[format] = []byte(overlap.ToDOT(idx, opts.Selection()))

		case FormatPNG:
			data, err := overlap.RenderPNG(ctx, overlap.ToDOT(idx, opts.Selection()))
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data

		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}

	return artifacts, nil
}
