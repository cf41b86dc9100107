package mosaic

// Mark is a renderable chart layer attached to a Plot.
type Mark interface {
	// Render returns the mark's current render spec. It must not trigger
	// a new rasterization pass; it reports the result of the last one.
	Render() (*RenderSpec, error)
}

// RenderSpec describes one renderable layer emitted by a mark. The raster
// mark always emits an image layer: one source image per group row,
// stretched to the plot's inner drawing area.
type RenderSpec struct {
	// Type identifies the layer kind; the raster mark emits "image".
	Type string

	// Length is the number of data elements backing the layer (the
	// number of group rows for a raster mark).
	Length int

	Options ImageOptions
}

// ImageOptions carries the rendering hints for an image layer.
type ImageOptions struct {
	// Src holds one serialized image (PNG data URL) per group row, in
	// render order.
	Src []string

	// Width and Height are the on-screen pixel dimensions, taken from
	// the plot's inner drawing area.
	Width  int
	Height int

	// PreserveAspectRatio is fixed to "none": the raster image is
	// stretched to the inner area, ignoring its intrinsic aspect.
	PreserveAspectRatio string

	// ImageRendering passes through the user-set smoothing hint
	// (e.g. "pixelated"). Empty means renderer default.
	ImageRendering string

	// FrameAnchor is fixed to "middle".
	FrameAnchor string
}
