// Package sink renders layout scenes to output formats.
//
// Two sinks exist: [RenderJSON] emits the canonical scene interchange
// format, and [RenderSVG] draws the scene as a standalone SVG honoring
// element order (draw order), colors, opacity, labels, and tooltips.
package sink

import (
	"github.com/coinvenn/coinvenn/pkg/scene"
)

// RenderJSON renders a scene as pretty-printed canonical JSON.
func RenderJSON(s scene.Scene) ([]byte, error) {
	return scene.Marshal(s)
}
