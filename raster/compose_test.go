package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/Spencerx/mosaic"
	"github.com/Spencerx/mosaic/bitmap"
)

func dataURLOf(t *testing.T, c color.NRGBA) string {
	t.Helper()
	cv := bitmap.New(1, 1)
	cv.SetPixel(0, 0, c)
	url, err := cv.DataURL()
	if err != nil {
		t.Fatalf("DataURL() = %v", err)
	}
	return url
}

func TestComposeStretch(t *testing.T) {
	spec := &mosaic.RenderSpec{
		Type:   "image",
		Length: 1,
		Options: mosaic.ImageOptions{
			Src:            []string{dataURLOf(t, color.NRGBA{R: 0xff, A: 0xff})},
			Width:          4,
			Height:         2,
			ImageRendering: "pixelated",
		},
	}

	img, err := Compose(spec)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	nrgba := img.(*image.NRGBA)
	if got := nrgba.Bounds(); got.Dx() != 4 || got.Dy() != 2 {
		t.Fatalf("composed bounds = %v, want 4x2", got)
	}
	for y := range 2 {
		for x := range 4 {
			if got := nrgba.NRGBAAt(x, y); got.R != 0xff || got.G != 0 || got.B != 0 || got.A != 0xff {
				t.Fatalf("pixel (%d, %d) = %v, want opaque red", x, y, got)
			}
		}
	}
}

func TestComposeStacksInOrder(t *testing.T) {
	spec := &mosaic.RenderSpec{
		Type:   "image",
		Length: 2,
		Options: mosaic.ImageOptions{
			Src: []string{
				dataURLOf(t, color.NRGBA{R: 0xff, A: 0xff}),
				dataURLOf(t, color.NRGBA{B: 0xff, A: 0xff}),
			},
			Width:          1,
			Height:         1,
			ImageRendering: "pixelated",
		},
	}

	img, err := Compose(spec)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	got := img.(*image.NRGBA).NRGBAAt(0, 0)
	if got.B != 0xff || got.R != 0 {
		t.Errorf("pixel = %v, want the later opaque blue layer on top", got)
	}
}

func TestComposeRejectsOtherSpecs(t *testing.T) {
	if _, err := Compose(nil); err == nil {
		t.Error("Compose(nil) did not fail")
	}
	if _, err := Compose(&mosaic.RenderSpec{Type: "dot"}); err == nil {
		t.Error("Compose of a non-image spec did not fail")
	}
}

func TestDecodeDataURLRejectsOtherSchemes(t *testing.T) {
	if _, err := DecodeDataURL("https://example.com/x.png"); err == nil {
		t.Error("DecodeDataURL accepted a non-data URL")
	}
	if _, err := DecodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Error("DecodeDataURL accepted invalid base64")
	}
}
