// Package raster implements the raster mark: it maps a binned grid of
// aggregate values to per-group bitmap images through declaratively
// configured color and opacity scales, reusing one canvas for every group.
package raster

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/Spencerx/mosaic"
	"github.com/Spencerx/mosaic/scale"
)

// ErrInvalidEncoding reports a malformed channel configuration: too many
// aggregates, conflicting density and opacity aggregates, opacity bound to
// a groupby column, or no channel carrying grid values. It is raised
// before any pixel mutation; the previous rendered images stay intact.
var ErrInvalidEncoding = errors.New("mosaic: invalid raster encoding")

// encodingMode says what drives a channel during one rasterization pass.
type encodingMode int

const (
	modeUndefined encodingMode = iota
	modeGrid                   // per-cell values from a grid column
	modeGroup                  // one category per group row
	modeConstant               // literal constant
)

func (m encodingMode) String() string {
	switch m {
	case modeGrid:
		return "grid"
	case modeGroup:
		return "group"
	case modeConstant:
		return "constant"
	}
	return "undefined"
}

// FillChannel binds the fill encoding: either a column reference (an
// aggregate output, the reserved density name, or a groupby column) or a
// literal color constant.
type FillChannel struct {
	As    string
	Const string
}

// OpacityChannel binds the fillOpacity encoding: a column reference or a
// literal opacity constant.
type OpacityChannel struct {
	As       string
	Const    float64
	HasConst bool
}

// encoding is the per-pass plan: which column (or constant) drives each
// channel and in which mode. Recomputed on every rasterization pass, never
// persisted.
type encoding struct {
	colorProp   string
	alphaProp   string
	fillMode    encodingMode
	opacityMode encodingMode
	fillConst   color.NRGBA
	alphaConst  float64
}

// planEncoding validates the mark's channel configuration and derives the
// encoding plan. All validation happens here, before any pixel writes.
func planEncoding(m *Mark) (encoding, error) {
	var enc encoding

	aggr := m.aggregates
	if len(aggr) > 2 {
		return enc, fmt.Errorf("%w: too many aggregates (%d, at most 2)", ErrInvalidEncoding, len(aggr))
	}

	hasDensity := slices.Contains(aggr, mosaic.Density)
	opacityAggr := m.opacity.As != "" && m.opacity.As != mosaic.Density && slices.Contains(aggr, m.opacity.As)
	if hasDensity && opacityAggr {
		return enc, fmt.Errorf("%w: density and fillOpacity aggregates are mutually exclusive", ErrInvalidEncoding)
	}
	if m.opacity.As != "" && slices.Contains(m.groupby, m.opacity.As) {
		return enc, fmt.Errorf("%w: fillOpacity %q must not be a groupby column", ErrInvalidEncoding, m.opacity.As)
	}

	// Fill: explicit density or aggregate → grid; groupby column → group;
	// recognized color literal → constant; implicit density → grid.
	switch {
	case m.fill.As == mosaic.Density,
		m.fill.As != "" && slices.Contains(aggr, m.fill.As):
		enc.fillMode = modeGrid
		enc.colorProp = m.fill.As
	case m.fill.As != "" && slices.Contains(m.groupby, m.fill.As):
		enc.fillMode = modeGroup
		enc.colorProp = m.fill.As
	}
	if enc.fillMode == modeUndefined && m.fill.Const != "" {
		if c, ok := scale.ParseColor(m.fill.Const); ok {
			enc.fillMode = modeConstant
			enc.fillConst = c
		}
	}
	if enc.fillMode == modeUndefined && hasDensity && m.schemeSet() {
		enc.fillMode = modeGrid
	}

	// Opacity: explicit density or aggregate → grid; numeric literal →
	// constant; implicit density → grid only when fill left it unused.
	switch {
	case m.opacity.As == mosaic.Density, opacityAggr:
		enc.opacityMode = modeGrid
		enc.alphaProp = m.opacity.As
	case m.opacity.HasConst:
		enc.opacityMode = modeConstant
		enc.alphaConst = m.opacity.Const
	}
	if enc.opacityMode == modeUndefined && hasDensity && enc.fillMode != modeGrid {
		enc.opacityMode = modeGrid
	}

	if enc.fillMode != modeGrid && enc.opacityMode != modeGrid {
		return enc, fmt.Errorf("%w: missing density values, no channel is grid-valued", ErrInvalidEncoding)
	}

	// A grid channel without an explicit output name reads the reserved
	// density column.
	if enc.fillMode == modeGrid && enc.colorProp == "" {
		enc.colorProp = mosaic.Density
	}
	if enc.opacityMode == modeGrid && enc.alphaProp == "" {
		enc.alphaProp = mosaic.Density
	}
	return enc, nil
}

// schemeSet reports whether the plot carries a color scheme or explicit
// color range, which makes an implicit density fill renderable.
func (m *Mark) schemeSet() bool {
	return m.plot.Attrs.Has("colorScheme") || m.plot.Attrs.Has("colorRange")
}
