package scene

import (
	"fmt"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Element kinds. The discriminant every renderer switches on.
const (
	KindEntityZone  = "entity-zone"
	KindEntityLabel = "entity-label"
	KindAssetBubble = "asset-bubble"
	KindAssetLabel  = "asset-label"
	KindLegendEntry = "legend-entry"
	KindGuideShape  = "guide-shape"
)

// ViewExtent is the half-width of the fixed square view window.
// The scene occupies [-ViewExtent, ViewExtent] on both axes at 1:1 aspect.
const ViewExtent = 7.0

// =============================================================================
// Scene - Layout Engine Output
// =============================================================================

// View is the visible coordinate window of a scene. Renderers map it to
// their own device space; the aspect ratio is always 1:1.
type View struct {
	XMin float64 `json:"x_min" bson:"x_min"`
	XMax float64 `json:"x_max" bson:"x_max"`
	YMin float64 `json:"y_min" bson:"y_min"`
	YMax float64 `json:"y_max" bson:"y_max"`
}

// DefaultView returns the standard [-7,7]×[-7,7] window.
func DefaultView() View {
	return View{
		XMin: -ViewExtent, XMax: ViewExtent,
		YMin: -ViewExtent, YMax: ViewExtent,
	}
}

// Width returns the horizontal extent of the view.
func (v View) Width() float64 { return v.XMax - v.XMin }

// Height returns the vertical extent of the view.
func (v View) Height() float64 { return v.YMax - v.YMin }

// Element is one drawable item. The meaning of Size depends on Kind:
// marker diameter in render points for zones and bubbles, a radius in
// scene units for guide circles, and a font size for labels. Legend
// entries carry no position; renderers place them in a panel in element
// order.
type Element struct {
	Kind    string  `json:"kind" bson:"kind"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Size    float64 `json:"size,omitempty" bson:"size,omitempty"`
	Color   string  `json:"color,omitempty" bson:"color,omitempty"`
	Stroke  string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	Opacity float64 `json:"opacity,omitempty" bson:"opacity,omitempty"`
	Text    string  `json:"text,omitempty" bson:"text,omitempty"`
	Tooltip string  `json:"tooltip,omitempty" bson:"tooltip,omitempty"`
}

// Scene is the complete layout output: drawables in draw order plus the
// view window they live in.
type Scene struct {
	View     View      `json:"view" bson:"view"`
	Elements []Element `json:"elements" bson:"elements"`
}

// IsEmpty reports whether the scene has no drawable content. Legend
// entries and guide shapes alone do not count as content.
func (s Scene) IsEmpty() bool {
	for _, el := range s.Elements {
		switch el.Kind {
		case KindEntityZone, KindEntityLabel, KindAssetBubble, KindAssetLabel:
			return false
		}
	}
	return true
}

// OfKind returns the elements of the given kind, in draw order.
func (s Scene) OfKind(kind string) []Element {
	var out []Element
	for _, el := range s.Elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

// Validate checks that every element carries a known kind, a sane opacity,
// and a non-negative size.
func (s Scene) Validate() error {
	for i, el := range s.Elements {
		switch el.Kind {
		case KindEntityZone, KindEntityLabel, KindAssetBubble,
			KindAssetLabel, KindLegendEntry, KindGuideShape:
		default:
			return fmt.Errorf("element %d: unknown kind %q", i, el.Kind)
		}
		if el.Opacity < 0 || el.Opacity > 1 {
			return fmt.Errorf("element %d: opacity %v out of [0,1]", i, el.Opacity)
		}
		if el.Size < 0 {
			return fmt.Errorf("element %d: negative size %v", i, el.Size)
		}
	}
	if s.View.Width() <= 0 || s.View.Height() <= 0 {
		return fmt.Errorf("degenerate view %+v", s.View)
	}
	return nil
}
