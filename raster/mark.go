package raster

import (
	"errors"

	"github.com/Spencerx/mosaic"
)

// Mark is a raster mark: it renders a binned grid as a stack of
// color/opacity-encoded bitmap images stretched to the plot's inner area.
//
// The mark owns its canvas exclusively and re-rasterizes synchronously
// when it receives a grid or when the shared color scheme changes. A pass
// either fully replaces the rendered images or, on a validation error,
// leaves the previous ones untouched.
type Mark struct {
	plot *mosaic.Plot
	grid *mosaic.Grid

	aggregates []string
	groupby    []string
	fill       FillChannel
	opacity    OpacityChannel

	imageRendering string

	canvas canvasCache
	images []string
}

// Option configures a Mark during creation.
type Option func(*Mark)

// WithAggregates declares the active aggregate output names, including the
// reserved density aggregate when the binning step produces it.
func WithAggregates(names ...string) Option {
	return func(m *Mark) { m.aggregates = names }
}

// WithGroupby declares the grouping columns. Each distinct group becomes
// one raster frame.
func WithGroupby(columns ...string) Option {
	return func(m *Mark) { m.groupby = columns }
}

// WithFill binds the fill channel to a column: an aggregate output, the
// reserved density name, or a groupby column.
func WithFill(as string) Option {
	return func(m *Mark) { m.fill = FillChannel{As: as} }
}

// WithFillConst sets a literal fill color (CSS name or hex).
func WithFillConst(color string) Option {
	return func(m *Mark) { m.fill = FillChannel{Const: color} }
}

// WithOpacity binds the fillOpacity channel to a column.
func WithOpacity(as string) Option {
	return func(m *Mark) { m.opacity = OpacityChannel{As: as} }
}

// WithOpacityConst sets a literal opacity in [0, 1].
func WithOpacityConst(v float64) Option {
	return func(m *Mark) { m.opacity = OpacityChannel{Const: v, HasConst: true} }
}

// WithImageRendering passes an image-rendering hint (e.g. "pixelated")
// through to the render spec.
func WithImageRendering(hint string) Option {
	return func(m *Mark) { m.imageRendering = hint }
}

// New creates a raster mark on the given plot and subscribes it to shared
// color-scheme changes: when the scheme attribute changes and a grid is
// already installed, the mark re-rasterizes in place. Without a grid the
// notification is a no-op, so scheme changes during setup are safe.
func New(plot *mosaic.Plot, opts ...Option) *Mark {
	m := &Mark{plot: plot}
	for _, opt := range opts {
		opt(m)
	}
	plot.AddMark(m)

	plot.Attrs.Listen("colorScheme", func(mosaic.AttrEvent) {
		if m.grid == nil {
			return
		}
		if err := m.Rasterize(); err != nil {
			mosaic.Logger().Warn("raster re-encode after scheme change failed", "error", err)
		}
	})
	return m
}

// SetGrid installs the binned grid produced by the external binning or
// convolution step and synchronously rasterizes it.
func (m *Mark) SetGrid(g *mosaic.Grid) error {
	m.grid = g
	return m.Rasterize()
}

// Grid returns the currently installed grid, or nil.
func (m *Mark) Grid() *mosaic.Grid { return m.grid }

// Rasterize runs one full pass: plan the encoding, resolve the scales,
// and write one image per group row. Validation and scale construction
// happen strictly before any pixel mutation, so a failed pass leaves the
// previously rendered images intact.
func (m *Mark) Rasterize() error {
	if m.grid == nil {
		return errors.New("mosaic: raster mark has no grid")
	}

	enc, err := planEncoding(m)
	if err != nil {
		return err
	}

	var colorFn, alphaFn pixelWriter
	if enc.fillMode != modeUndefined {
		if colorFn, err = m.colorWriter(enc); err != nil {
			return err
		}
	}
	if enc.opacityMode != modeUndefined {
		if alphaFn, err = m.alphaWriter(enc); err != nil {
			return err
		}
	}

	images, err := m.rasterizeRows(enc, colorFn, alphaFn)
	if err != nil {
		return err
	}
	m.images = images
	return nil
}

// Images returns the serialized row images from the last successful pass.
func (m *Mark) Images() []string { return m.images }

// Render implements mosaic.Mark: the row images as an image layer
// stretched to the plot's inner drawing area.
func (m *Mark) Render() (*mosaic.RenderSpec, error) {
	if m.images == nil {
		return nil, errors.New("mosaic: raster mark has not been rasterized")
	}
	return &mosaic.RenderSpec{
		Type:   "image",
		Length: len(m.images),
		Options: mosaic.ImageOptions{
			Src:                 m.images,
			Width:               m.plot.InnerWidth(),
			Height:              m.plot.InnerHeight(),
			PreserveAspectRatio: "none",
			ImageRendering:      m.imageRendering,
			FrameAnchor:         "middle",
		},
	}, nil
}
