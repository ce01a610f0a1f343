package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/coinvenn/coinvenn/pkg/scene"
)

// Default canvas size in pixels. The scene view is square, so width and
// height match to keep the 1:1 aspect.
const (
	DefaultCanvasSize = 800.0
	legendPanelWidth  = 230.0
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	size       float64
	background string
	legend     bool
	guides     bool
}

// WithCanvasSize sets the square canvas edge length in pixels.
func WithCanvasSize(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.size = px
		}
	}
}

// WithBackground sets the plot background color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithLegend controls whether the legend panel is drawn.
func WithLegend(show bool) SVGOption {
	return func(r *svgRenderer) { r.legend = show }
}

// WithGuides controls whether decorative guide shapes are drawn.
func WithGuides(show bool) SVGOption {
	return func(r *svgRenderer) { r.guides = show }
}

// RenderSVG draws a scene as a standalone SVG document. Elements render
// in slice order, so later elements paint on top; tooltips become
// <title> children and show on hover in browsers.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{
		size:       DefaultCanvasSize,
		background: "#f8f9fa",
		legend:     true,
		guides:     true,
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		r.size, r.size, r.size, r.size)
	fmt.Fprintf(&buf, `<rect width="%.0f" height="%.0f" fill="%s"/>`+"\n", r.size, r.size, r.background)

	var legend []scene.Element
	for _, el := range s.Elements {
		switch el.Kind {
		case scene.KindGuideShape:
			if r.guides {
				r.renderGuide(&buf, s.View, el)
			}
		case scene.KindEntityZone, scene.KindAssetBubble:
			r.renderBubble(&buf, s.View, el)
		case scene.KindEntityLabel, scene.KindAssetLabel:
			r.renderLabel(&buf, s.View, el)
		case scene.KindLegendEntry:
			legend = append(legend, el)
		}
	}

	if r.legend && len(legend) > 0 {
		r.renderLegend(&buf, legend)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Coordinate Mapping
// =============================================================================

// px maps a scene point to canvas pixels. Scene y grows upward, SVG y
// grows downward.
func (r *svgRenderer) px(v scene.View, x, y float64) (float64, float64) {
	return (x - v.XMin) / v.Width() * r.size,
		(v.YMax - y) / v.Height() * r.size
}

// sceneToPx converts a length in scene units to pixels.
func (r *svgRenderer) sceneToPx(v scene.View, l float64) float64 {
	return l / v.Width() * r.size
}

// =============================================================================
// Element Rendering
// =============================================================================

func (r *svgRenderer) renderGuide(buf *bytes.Buffer, v scene.View, el scene.Element) {
	cx, cy := r.px(v, el.X, el.Y)
	fmt.Fprintf(buf,
		`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="%.2f"/>`+"\n",
		cx, cy, r.sceneToPx(v, el.Size), colorOr(el.Color, "#000000"), el.Opacity)
}

func (r *svgRenderer) renderBubble(buf *bytes.Buffer, v scene.View, el scene.Element) {
	cx, cy := r.px(v, el.X, el.Y)
	buf.WriteString(`<circle`)
	fmt.Fprintf(buf, ` cx="%.1f" cy="%.1f" r="%.1f"`, cx, cy, el.Size/2)
	fmt.Fprintf(buf, ` fill="%s" fill-opacity="%.2f"`, colorOr(el.Color, "#888888"), el.Opacity)
	if el.Stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="1.5"`, el.Stroke)
	}
	if el.Tooltip == "" {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">")
	fmt.Fprintf(buf, "<title>%s</title>", html.EscapeString(el.Tooltip))
	buf.WriteString("</circle>\n")
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, v scene.View, el scene.Element) {
	if el.Text == "" {
		return
	}
	cx, cy := r.px(v, el.X, el.Y)
	weight := "bold"
	if el.Kind == scene.KindAssetLabel {
		weight = "normal"
	}
	for i, line := range strings.Split(el.Text, "\n") {
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="%.0f" font-family="Arial, sans-serif" font-weight="%s" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			cx, cy+float64(i)*el.Size*1.2, el.Size, weight,
			colorOr(el.Color, "#000000"), html.EscapeString(line))
	}
}

// renderLegend draws the legend entries as a panel in the top-right
// corner: one swatch circle plus text per entry, in element order.
func (r *svgRenderer) renderLegend(buf *bytes.Buffer, entries []scene.Element) {
	const rowHeight = 24.0
	x := r.size - legendPanelWidth
	height := rowHeight*float64(len(entries)) + 16

	fmt.Fprintf(buf,
		`<rect x="%.1f" y="8" width="%.1f" height="%.1f" rx="6" fill="white" fill-opacity="0.85" stroke="#cccccc"/>`+"\n",
		x-8, legendPanelWidth, height)

	for i, el := range entries {
		cy := 8 + rowHeight*float64(i) + rowHeight/2 + 4
		fmt.Fprintf(buf,
			`<circle cx="%.1f" cy="%.1f" r="7" fill="%s" fill-opacity="%.2f" stroke="black" stroke-width="0.5"/>`+"\n",
			x+8, cy, colorOr(el.Color, "#888888"), el.Opacity)
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="12" font-family="Arial, sans-serif" dominant-baseline="middle">%s</text>`+"\n",
			x+24, cy, html.EscapeString(el.Text))
	}
}

func colorOr(color, fallback string) string {
	if color == "" {
		return fallback
	}
	return color
}
