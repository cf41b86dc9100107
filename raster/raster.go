package raster

import (
	"slices"

	"github.com/Spencerx/mosaic"
)

// rasterizeRows renders one image per group row into the shared canvas and
// serializes each to a PNG data URL. The canvas is acquired once and
// mutated in place for every row; a channel without a writer falls back to
// opaque black so stale bytes from the previous pass never leak through.
func (m *Mark) rasterizeRows(enc encoding, colorFn, alphaFn pixelWriter) ([]string, error) {
	canvas := m.canvas.acquire(m.grid.Width(), m.grid.Height())
	pix := canvas.Data()

	if colorFn == nil {
		colorFn = defaultColor
	}
	if alphaFn == nil {
		alphaFn = defaultAlpha
	}

	order := m.rowOrder(enc)
	images := make([]string, 0, len(order))
	for _, row := range order {
		colorFn(pix, row)
		alphaFn(pix, row)
		url, err := canvas.DataURL()
		if err != nil {
			return nil, err
		}
		images = append(images, url)
	}

	mosaic.Logger().Debug("rasterized grid",
		"rows", len(order), "width", canvas.Width(), "height", canvas.Height(),
		"fill", enc.fillMode.String(), "opacity", enc.opacityMode.String())
	return images, nil
}

// rowOrder returns the order group rows are emitted in. When the mark is
// grouped on the color column and a shared discrete color domain exists,
// rows are permuted so that image N carries the domain's category N and
// color bands line up across coordinated marks. Rows without a domain
// category keep their natural position at the end.
func (m *Mark) rowOrder(enc encoding) []int {
	n := m.grid.NumRows

	if n > 1 && enc.colorProp != "" && slices.Contains(m.groupby, enc.colorProp) {
		// Transient domains were computed by this pass itself; only a
		// pinned or user-supplied domain defines a cross-mark ordering.
		dom := m.plot.Attrs.GetDomain("colorDomain")
		col, ok := m.grid.Column(enc.colorProp)
		if dom != nil && dom.Discrete() && !dom.Transient && ok && col.Keys != nil {
			order := make([]int, 0, n)
			used := make([]bool, n)
			for _, cat := range dom.Categories {
				if i := slices.Index(col.Keys, cat); i >= 0 && !used[i] {
					order = append(order, i)
					used[i] = true
				}
			}
			for i := 0; i < n; i++ {
				if !used[i] {
					order = append(order, i)
				}
			}
			return order
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// defaultColor paints opaque black RGB when the fill channel is undefined.
func defaultColor(pix []uint8, _ int) {
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = 0
		pix[i+1] = 0
		pix[i+2] = 0
	}
}

// defaultAlpha paints full opacity when the opacity channel is undefined.
func defaultAlpha(pix []uint8, _ int) {
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
}
