package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/Spencerx/mosaic"
)

// Compose flattens an image-layer render spec into a single image at the
// spec's pixel dimensions, stacking row images in order with alpha
// compositing. The stretch ignores the intrinsic aspect of the raster,
// matching the "none" preserveAspectRatio policy; the image-rendering
// hint selects the scaling kernel ("pixelated" keeps hard cell edges).
func Compose(spec *mosaic.RenderSpec) (image.Image, error) {
	if spec == nil || spec.Type != "image" {
		return nil, fmt.Errorf("mosaic: cannot compose a %q render spec", specType(spec))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, spec.Options.Width, spec.Options.Height))
	var scaler draw.Scaler = draw.CatmullRom
	if spec.Options.ImageRendering == "pixelated" {
		scaler = draw.NearestNeighbor
	}

	for _, src := range spec.Options.Src {
		img, err := DecodeDataURL(src)
		if err != nil {
			return nil, err
		}
		scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	}
	return dst, nil
}

func specType(spec *mosaic.RenderSpec) string {
	if spec == nil {
		return "nil"
	}
	return spec.Type
}

// DecodeDataURL decodes a base64 PNG data URL back into an image.
func DecodeDataURL(url string) (image.Image, error) {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		return nil, fmt.Errorf("mosaic: not a PNG data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(url[len(prefix):])
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(raw))
}
