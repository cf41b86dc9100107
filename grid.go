package mosaic

import "math"

// Density is the reserved aggregate name for the per-cell point count or
// density estimate produced by the binning engine. It is the default
// color/opacity source when a mark declares no explicit grid channel.
const Density = "density"

// Grid is the result of binning 2D points into cells, produced by the
// external binning/aggregation engine. It is immutable once produced and
// owned by a single mark for the duration of one render cycle.
//
// Bins gives the grid dimensions in cells. NumRows is the number of
// distinct groups to render (1 when ungrouped); each group becomes one
// raster frame.
type Grid struct {
	Bins    [2]int
	NumRows int
	Columns map[string]Column
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.Bins[0] }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.Bins[1] }

// Column returns the named aggregate column and whether it exists.
func (g *Grid) Column(name string) (Column, bool) {
	c, ok := g.Columns[name]
	return c, ok
}

// Column holds the per-group cell values for one aggregate output.
//
// Numeric aggregates populate Num with one slice of width*height cell
// values per group row. Categorical aggregates populate Str the same way.
// Columns that come from a groupby expression additionally carry Keys, the
// group key value of each row, which drives row ordering against a shared
// discrete color domain.
type Column struct {
	Num  [][]float64
	Str  [][]string
	Keys []string
}

// Discrete reports whether the column holds categorical cell values.
func (c Column) Discrete() bool { return c.Str != nil }

// NumRows returns the number of group rows in the column.
func (c Column) NumRows() int {
	if c.Discrete() {
		return len(c.Str)
	}
	return len(c.Num)
}

// NumColumn builds a numeric column from per-row cell values.
func NumColumn(rows ...[]float64) Column {
	return Column{Num: rows}
}

// StrColumn builds a categorical column from per-row cell values.
func StrColumn(rows ...[]string) Column {
	return Column{Str: rows}
}

// GroupColumn builds a column for a groupby expression: one key per row.
func GroupColumn(keys ...string) Column {
	return Column{Keys: keys}
}

// Extent returns the [min, max] over every numeric cell in the column.
// NaN cells are skipped; an all-NaN or empty column yields (NaN, NaN).
func (c Column) Extent() (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for _, row := range c.Num {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(lo) || v < lo {
				lo = v
			}
			if math.IsNaN(hi) || v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
