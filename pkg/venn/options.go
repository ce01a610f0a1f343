package venn

// =============================================================================
// Layout Constants
// =============================================================================

const (
	// DefaultRadius is the anchor circle radius in scene units.
	DefaultRadius = 5.5

	// DefaultEntityScale maps sqrt(total value) to a zone diameter in
	// render points.
	DefaultEntityScale = 0.0005

	// DefaultEntityMinSize keeps zero/low-value entities visible.
	DefaultEntityMinSize = 40

	// DefaultAssetScale maps log10(total value) to a bubble diameter in
	// render points.
	DefaultAssetScale = 20

	// DefaultLighten is the blend-toward-white amount for zone fills.
	DefaultLighten = 0.8

	// zoneOpacity and bubbleOpacity are the fixed fill opacities.
	zoneOpacity   = 0.4
	bubbleOpacity = 0.85

	// overlayMinSize is the bubble diameter (points) below which the
	// percentage overlay text is dropped.
	overlayMinSize = 35

	// Guide circle radii in scene units.
	guideOuterRadius = 6
	guideInnerRadius = 3
)

// =============================================================================
// Selection and Options
// =============================================================================

// Selection filters which entities and assets participate in a layout.
// A nil slice selects everything in the index; identifiers not present in
// the index are ignored without error.
type Selection struct {
	Entities []string
	Assets   []string
}

// All selects every entity and asset in the index.
func All() Selection { return Selection{} }

// Options tunes the layout geometry. The zero value means "use defaults";
// individual zero fields are filled from the Default* constants.
type Options struct {
	Radius        float64 // anchor circle radius in scene units
	EntityScale   float64 // sqrt(value) → zone diameter in points
	EntityMinSize float64 // zone diameter floor in points
	AssetScale    float64 // log10(value) → bubble diameter in points
	Lighten       float64 // zone fill blend toward white, in [0,1]
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() Options {
	return Options{
		Radius:        DefaultRadius,
		EntityScale:   DefaultEntityScale,
		EntityMinSize: DefaultEntityMinSize,
		AssetScale:    DefaultAssetScale,
		Lighten:       DefaultLighten,
	}
}

// withDefaults fills zero fields from the defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Radius == 0 {
		o.Radius = d.Radius
	}
	if o.EntityScale == 0 {
		o.EntityScale = d.EntityScale
	}
	if o.EntityMinSize == 0 {
		o.EntityMinSize = d.EntityMinSize
	}
	if o.AssetScale == 0 {
		o.AssetScale = d.AssetScale
	}
	if o.Lighten == 0 {
		o.Lighten = d.Lighten
	}
	return o
}
