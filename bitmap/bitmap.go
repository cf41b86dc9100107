// Package bitmap provides the reusable pixel buffer backing raster marks:
// a canvas pairing a raw RGBA byte buffer with an image view and PNG
// serialization, including the data-URL form embedded in render specs.
package bitmap

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Canvas is a rectangular RGBA pixel buffer with drawing and encoding
// views. The raw buffer is exposed for bulk per-cell writes; callers are
// expected to overwrite every pixel on each pass, so the buffer is never
// cleared between frames.
type Canvas struct {
	width  int
	height int
	img    *image.NRGBA
}

// New creates a canvas with the given dimensions. All pixels start as
// transparent black.
func New(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the width of the canvas in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height of the canvas in pixels.
func (c *Canvas) Height() int { return c.height }

// Data returns the raw pixel buffer (RGBA, 4 bytes per pixel, row-major).
// Writes to the returned slice mutate the canvas directly.
func (c *Canvas) Data() []uint8 { return c.img.Pix }

// Image returns the canvas as an image.Image backed by the same buffer.
func (c *Canvas) Image() image.Image { return c.img }

// SetPixel sets the color of a single pixel. Out-of-bounds writes are
// ignored.
func (c *Canvas) SetPixel(x, y int, col color.NRGBA) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := c.img.PixOffset(x, y)
	c.img.Pix[i+0] = col.R
	c.img.Pix[i+1] = col.G
	c.img.Pix[i+2] = col.B
	c.img.Pix[i+3] = col.A
}

// GetPixel returns the color of a single pixel. Out-of-bounds reads return
// transparent black.
func (c *Canvas) GetPixel(x, y int) color.NRGBA {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.NRGBA{}
	}
	i := c.img.PixOffset(x, y)
	return color.NRGBA{
		R: c.img.Pix[i+0],
		G: c.img.Pix[i+1],
		B: c.img.Pix[i+2],
		A: c.img.Pix[i+3],
	}
}

// Fill sets every pixel to the given color.
func (c *Canvas) Fill(col color.NRGBA) {
	pix := c.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = col.R
		pix[i+1] = col.G
		pix[i+2] = col.B
		pix[i+3] = col.A
	}
}

// WritePNG encodes the canvas as PNG to w.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return c.WritePNG(f)
}

// DataURL serializes the canvas to a base64 PNG data URL, the transportable
// image-string form embedded in image-layer render specs.
func (c *Canvas) DataURL() (string, error) {
	var buf bytes.Buffer
	buf.WriteString("data:image/png;base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := png.Encode(enc, c.img); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	return c.GetPixel(x, y)
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return color.NRGBAModel
}
