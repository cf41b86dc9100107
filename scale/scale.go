// Package scale constructs the value→fraction and value→color mappings a
// raster mark encodes grid cells with. Numeric normalization delegates to
// go-moremath's scale package; color schemes are continuous palettes in the
// go-gg sense, sampled into flat RGB tables for fast per-cell lookup.
package scale

import (
	"fmt"
	"math"
	"strings"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/Spencerx/mosaic"
)

// Scale type names. The diverging variants share their transform with the
// base type; the prefix only matters to color ranging, which this core
// approximates by linear fractions (see FractionType).
const (
	Linear = "linear"
	Log    = "log"
	Pow    = "pow"
	Sqrt   = "sqrt"
	Symlog = "symlog"
)

// Spec declares a numeric scale. Zero values select defaults: type linear,
// base 10, exponent 1, constant 1, range [0, 1].
type Spec struct {
	Type    string
	Domain  []float64
	Range   []float64
	Clamp   bool
	Nice    bool
	Reverse bool
	Zero    bool

	Base     float64 // log base
	Exponent float64 // pow exponent
	Constant float64 // symlog linear-region constant

	// Diverging parameters. Symmetric extends the domain so Pivot sits at
	// its midpoint; the fraction mapping itself stays linear in the
	// transformed space.
	Pivot     float64
	Symmetric bool
}

// Scale maps raw values to range-mapped fractions. The zero value is not
// usable; construct with New.
type Scale struct {
	Type     string
	Domain   [2]float64
	Range    [2]float64
	Clamp    bool
	Reverse  bool
	Base     float64
	Exponent float64
	Constant float64

	transform func(float64) float64
	norm      mscale.Linear
}

// New builds a scale from a spec. The domain may hold more than two values
// (e.g. the sorted cells of a single-row grid); the first and last entries
// bound the mapping.
func New(spec Spec) (*Scale, error) {
	typ := spec.Type
	if typ == "" {
		typ = Linear
	}

	base := spec.Base
	if base <= 0 {
		base = 10
	}
	exp := spec.Exponent
	if exp == 0 {
		exp = 1
	}
	con := spec.Constant
	if con <= 0 {
		con = 1
	}

	lo, hi := domainBounds(spec.Domain)
	if spec.Zero {
		lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	}
	if strings.HasPrefix(typ, "diverging") && spec.Symmetric {
		lo = math.Min(lo, 2*spec.Pivot-hi)
		hi = math.Max(hi, 2*spec.Pivot-lo)
	}
	if spec.Nice {
		lo, hi = niceBounds(lo, hi)
	}

	s := &Scale{
		Type:     typ,
		Domain:   [2]float64{lo, hi},
		Range:    [2]float64{0, 1},
		Clamp:    spec.Clamp,
		Reverse:  spec.Reverse,
		Base:     base,
		Exponent: exp,
		Constant: con,
	}
	if len(spec.Range) >= 2 {
		s.Range = [2]float64{spec.Range[0], spec.Range[len(spec.Range)-1]}
	}

	tf, err := transformFor(FractionType(typ), base, exp, con, lo, hi)
	if err != nil {
		return nil, err
	}
	s.transform = tf
	s.norm = mscale.Linear{Min: tf(lo), Max: tf(hi)}
	return s, nil
}

// Apply maps a raw value to the scale's range. With the default [0, 1]
// range this is the fraction used to index a sampled color scheme or an
// alpha ramp. NaN inputs map to the range minimum.
func (s *Scale) Apply(v float64) float64 {
	if math.IsNaN(v) {
		return s.Range[0]
	}

	var f float64
	if s.norm.Max > s.norm.Min {
		f = s.norm.Map(s.transform(v))
	}
	if s.Reverse {
		f = 1 - f
	}
	if s.Clamp {
		f = math.Min(1, math.Max(0, f))
	}
	return s.Range[0] + f*(s.Range[1]-s.Range[0])
}

// FractionType reduces a scale type to the type used for [0,1] fraction
// mapping. Diverging variants keep their log-family transform (symlog,
// log, pow, sqrt) and otherwise degrade to linear; all other types pass
// through unchanged.
func FractionType(typ string) string {
	if !strings.HasPrefix(typ, "diverging") {
		return typ
	}
	switch suffix := strings.TrimPrefix(strings.TrimPrefix(typ, "diverging"), "-"); suffix {
	case Symlog, Log, Pow, Sqrt:
		return suffix
	default:
		return Linear
	}
}

// transformFor returns the forward transform for a fraction-mapping type.
// A log transform over a zero-crossing domain is undefined; it falls back
// to linear with a warning rather than failing the pass.
func transformFor(typ string, base, exp, con, lo, hi float64) (func(float64) float64, error) {
	switch typ {
	case Linear, "":
		return func(x float64) float64 { return x }, nil
	case Log:
		if lo <= 0 && hi >= 0 {
			mosaic.Logger().Warn("log scale domain crosses zero, using linear mapping",
				"lo", lo, "hi", hi)
			return func(x float64) float64 { return x }, nil
		}
		lb := math.Log(base)
		return func(x float64) float64 {
			if x < 0 {
				return -math.Log(-x) / lb
			}
			return math.Log(x) / lb
		}, nil
	case Sqrt:
		return func(x float64) float64 {
			return math.Copysign(math.Sqrt(math.Abs(x)), x)
		}, nil
	case Pow:
		return func(x float64) float64 {
			return math.Copysign(math.Pow(math.Abs(x), exp), x)
		}, nil
	case Symlog:
		return func(x float64) float64 {
			return math.Copysign(math.Log1p(math.Abs(x)/con), x)
		}, nil
	default:
		return nil, fmt.Errorf("mosaic: unknown scale type %q", typ)
	}
}

// domainBounds extracts ascending [lo, hi] bounds, substituting [0, 1] for
// empty or non-finite domains.
func domainBounds(domain []float64) (lo, hi float64) {
	if len(domain) == 0 {
		return 0, 1
	}
	lo, hi = domain[0], domain[len(domain)-1]
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// niceBounds rounds the bounds outward to decade-friendly steps.
func niceBounds(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span <= 0 || math.IsInf(span, 0) {
		return lo, hi
	}
	step := math.Pow(10, math.Floor(math.Log10(span))-1)
	return math.Floor(lo/step) * step, math.Ceil(hi/step) * step
}
