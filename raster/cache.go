package raster

import "github.com/Spencerx/mosaic/bitmap"

// canvasCache owns the mark's reusable pixel buffer, keyed by dimensions.
// Every rasterization pass overwrites all pixels, so the same canvas is
// handed out as long as the grid size is stable; a dimension change drops
// the old canvas and allocates a fresh one. There is no partial resize.
type canvasCache struct {
	canvas *bitmap.Canvas
}

// acquire returns a canvas sized exactly (width, height), reusing the
// cached one when dimensions match.
func (c *canvasCache) acquire(width, height int) *bitmap.Canvas {
	if c.canvas != nil && c.canvas.Width() == width && c.canvas.Height() == height {
		return c.canvas
	}
	c.canvas = bitmap.New(width, height)
	return c.canvas
}
