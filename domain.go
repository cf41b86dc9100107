package mosaic

import (
	"math"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Domain is the input range or category set a scale maps from. A single
// Domain value may be shared between coordinated marks through the plot
// attribute store.
//
// Exactly one of Values (continuous) or Categories (discrete) is populated.
// The flags control the sharing protocol:
//
//   - Fixed domains are pinned: a rasterization pass must never replace
//     them, regardless of the data it sees.
//   - Transient domains were auto-computed on a previous pass and are
//     eligible for recomputation on the next one unless an explicit domain
//     has been supplied in the meantime.
type Domain struct {
	Values     []float64
	Categories []string
	Fixed      bool
	Transient  bool
}

// Fixed is the sentinel domain value. Setting a domain attribute to Fixed
// asks the next rasterization pass to compute the domain from its data and
// then pin the result. Comparison is by identity, so the sentinel must be
// passed as-is, never copied.
var Fixed = &Domain{Fixed: true}

// IsSentinel reports whether d is the Fixed sentinel rather than a
// concrete domain.
func (d *Domain) IsSentinel() bool { return d == Fixed }

// Discrete reports whether d enumerates categories rather than spanning a
// continuous interval.
func (d *Domain) Discrete() bool { return d != nil && d.Categories != nil }

// Min returns the low end of a continuous domain.
func (d *Domain) Min() float64 {
	if len(d.Values) == 0 {
		return math.NaN()
	}
	return d.Values[0]
}

// Max returns the high end of a continuous domain.
func (d *Domain) Max() float64 {
	if len(d.Values) == 0 {
		return math.NaN()
	}
	return d.Values[len(d.Values)-1]
}

// Index returns the position of category c in a discrete domain, or -1.
func (d *Domain) Index(c string) int {
	return slices.Index(d.Categories, c)
}

// ContinuousDomain builds a continuous domain from ascending values.
// Most domains are the two-element [min, max] form, but multi-point
// domains (e.g. the sorted cell values of a single-row grid) are allowed;
// scales use the first and last entries.
func ContinuousDomain(values ...float64) *Domain {
	return &Domain{Values: values}
}

// DiscreteDomain builds a discrete domain from the given categories,
// preserving their order.
func DiscreteDomain(categories ...string) *Domain {
	return &Domain{Categories: categories}
}

// categoryCollator orders category labels. A locale-neutral collation is
// used instead of byte order so that shared discrete domains sort the same
// way for every coordinated plot, independent of label casing or script.
var categoryCollator = collate.New(language.Und)

// SortCategories sorts category labels in place in the shared collation
// order used for discrete domains.
func SortCategories(cats []string) {
	categoryCollator.SortStrings(cats)
}

// EnumerateCategories returns the distinct values in the given rows of
// categorical cells, sorted in the shared collation order.
func EnumerateCategories(rows [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, c := range row {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	SortCategories(out)
	return out
}
