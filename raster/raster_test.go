package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/Spencerx/mosaic"
	"github.com/Spencerx/mosaic/scale"
)

// densityGrid builds a grid with the given dimensions and one density row
// per value slice.
func densityGrid(bins [2]int, rows ...[]float64) *mosaic.Grid {
	return &mosaic.Grid{
		Bins:    bins,
		NumRows: len(rows),
		Columns: map[string]mosaic.Column{
			mosaic.Density: mosaic.NumColumn(rows...),
		},
	}
}

func decodeImage(t *testing.T, url string) *image.NRGBA {
	t.Helper()
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL() = %v", err)
	}
	// Fully opaque images decode as *image.RGBA; normalize.
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, img.Bounds(), img, img.Bounds().Min, draw.Src)
	return nrgba
}

func TestRasterizeSingleRow(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorScheme", "viridis")
	m := New(plot, WithAggregates(mosaic.Density))

	if err := m.SetGrid(densityGrid([2]int{2, 2}, []float64{0, 1, 2, 3})); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	images := m.Images()
	if len(images) != 1 {
		t.Fatalf("len(Images()) = %d, want 1", len(images))
	}

	img := decodeImage(t, images[0])
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("image is %v, want 2x2", img.Bounds())
	}
}

// The canonical path: a 2x1 density grid with values [0.2, 0.8] under the
// viridis scheme maps its min and max cells to the scheme endpoints at
// full opacity.
func TestRasterizeSchemeEndpoints(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorScheme", "viridis")
	m := New(plot, WithAggregates(mosaic.Density))

	if err := m.SetGrid(densityGrid([2]int{2, 1}, []float64{0.2, 0.8})); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	img := decodeImage(t, m.Images()[0])

	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff}},
		{1, color.NRGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel (%d, 0) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestRasterizeGroupedRowCount(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	grid := &mosaic.Grid{
		Bins:    [2]int{1, 1},
		NumRows: 3,
		Columns: map[string]mosaic.Column{
			mosaic.Density: mosaic.NumColumn([]float64{1}, []float64{2}, []float64{3}),
			"city":         mosaic.GroupColumn("nyc", "sfo", "chi"),
		},
	}
	m := New(plot,
		WithAggregates(mosaic.Density),
		WithGroupby("city"),
		WithFill("city"),
	)
	if err := m.SetGrid(grid); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	if got := len(m.Images()); got != 3 {
		t.Errorf("len(Images()) = %d, want one image per group", got)
	}
}

// With a user-supplied discrete color domain, grouped rows are emitted in
// domain order so category N always lands in image N.
func TestRowOrderSharedDomain(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorDomain", mosaic.DiscreteDomain("chi", "nyc", "sfo"))
	grid := &mosaic.Grid{
		Bins:    [2]int{1, 1},
		NumRows: 3,
		Columns: map[string]mosaic.Column{
			mosaic.Density: mosaic.NumColumn([]float64{1}, []float64{2}, []float64{3}),
			"city":         mosaic.GroupColumn("nyc", "sfo", "chi"),
		},
	}
	m := New(plot,
		WithAggregates(mosaic.Density),
		WithGroupby("city"),
		WithFill("city"),
	)
	if err := m.SetGrid(grid); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}

	// Image i carries domain category i, colored with palette entry i.
	for i := range 3 {
		img := decodeImage(t, m.Images()[i])
		got := img.NRGBAAt(0, 0)
		want := scale.Observable10[i]
		if got.R != want.R || got.G != want.G || got.B != want.B {
			t.Errorf("image %d pixel = %v, want palette entry %v", i, got, want)
		}
	}
}

// Without a shared domain the auto-computed one is transient and must not
// reorder rows: images keep the grid's natural row order.
func TestRowOrderIdentityWithTransientDomain(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	grid := &mosaic.Grid{
		Bins:    [2]int{1, 1},
		NumRows: 3,
		Columns: map[string]mosaic.Column{
			mosaic.Density: mosaic.NumColumn([]float64{1}, []float64{2}, []float64{3}),
			"city":         mosaic.GroupColumn("nyc", "sfo", "chi"),
		},
	}
	m := New(plot,
		WithAggregates(mosaic.Density),
		WithGroupby("city"),
		WithFill("city"),
	)
	if err := m.SetGrid(grid); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}

	dom := plot.Attrs.GetDomain("colorDomain")
	if dom == nil || !dom.Transient {
		t.Fatalf("colorDomain = %+v, want published transient", dom)
	}

	// Natural order: row 0 is nyc. Its color is indexed by the sorted
	// transient domain [chi, nyc, sfo].
	img := decodeImage(t, m.Images()[0])
	got := img.NRGBAAt(0, 0)
	want := scale.Observable10[dom.Index("nyc")]
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("image 0 pixel = %v, want nyc's palette entry %v", got, want)
	}
}

func TestRasterizeConstantFillGridOpacity(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	m := New(plot,
		WithAggregates(mosaic.Density),
		WithFillConst("red"),
	)
	if err := m.SetGrid(densityGrid([2]int{2, 1}, []float64{0, 4})); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}

	img := decodeImage(t, m.Images()[0])
	lo, hi := img.NRGBAAt(0, 0), img.NRGBAAt(1, 0)
	if hi.R != 0xff || hi.G != 0 || hi.B != 0 {
		t.Errorf("max cell = %v, want red", hi)
	}
	if lo.A != 0 || hi.A != 0xff {
		t.Errorf("alphas = %d, %d, want 0, 255", lo.A, hi.A)
	}
}

func TestRasterizeCategoricalGrid(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	grid := &mosaic.Grid{
		Bins:    [2]int{2, 1},
		NumRows: 1,
		Columns: map[string]mosaic.Column{
			"mode": mosaic.StrColumn([]string{"bike", "walk"}),
		},
	}
	m := New(plot, WithAggregates("mode"), WithFill("mode"))
	if err := m.SetGrid(grid); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}

	dom := plot.Attrs.GetDomain("colorDomain")
	if dom == nil || !dom.Discrete() {
		t.Fatalf("colorDomain = %+v, want discrete", dom)
	}

	img := decodeImage(t, m.Images()[0])
	for x, cat := range []string{"bike", "walk"} {
		got := img.NRGBAAt(x, 0)
		want := scale.Observable10[dom.Index(cat)]
		if got.R != want.R || got.G != want.G || got.B != want.B {
			t.Errorf("cell %q = %v, want %v", cat, got, want)
		}
	}
}

func TestRasterizeColorRangeGradient(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorRange", []string{"black", "white"})
	m := New(plot, WithAggregates(mosaic.Density))

	if err := m.SetGrid(densityGrid([2]int{2, 1}, []float64{0, 1})); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}

	img := decodeImage(t, m.Images()[0])
	if got := img.NRGBAAt(0, 0); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("min cell = %v, want black", got)
	}
	if got := img.NRGBAAt(1, 0); got.R != 0xff || got.G != 0xff || got.B != 0xff {
		t.Errorf("max cell = %v, want white", got)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorScheme", "magma")
	m := New(plot, WithAggregates(mosaic.Density))

	grid := densityGrid([2]int{3, 2}, []float64{0, 1, 2, 3, 4, 5})
	if err := m.SetGrid(grid); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	first := m.Images()[0]

	if err := m.Rasterize(); err != nil {
		t.Fatalf("Rasterize() = %v", err)
	}
	if m.Images()[0] != first {
		t.Error("identical input produced different serialized images")
	}
}

func TestCanvasReusedAcrossPasses(t *testing.T) {
	plot := mosaic.NewPlot(100, 50)
	plot.Attrs.Set("colorScheme", "viridis")
	m := New(plot, WithAggregates(mosaic.Density))

	if err := m.SetGrid(densityGrid([2]int{2, 2}, []float64{0, 1, 2, 3})); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	canvas := m.canvas.canvas

	if err := m.Rasterize(); err != nil {
		t.Fatalf("Rasterize() = %v", err)
	}
	if m.canvas.canvas != canvas {
		t.Error("second pass over a same-sized grid reallocated the canvas")
	}

	if err := m.SetGrid(densityGrid([2]int{4, 4}, make([]float64, 16))); err != nil {
		t.Fatalf("SetGrid() = %v", err)
	}
	if m.canvas.canvas == canvas {
		t.Error("resized grid did not get a fresh canvas")
	}
}
