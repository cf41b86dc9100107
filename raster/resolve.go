package raster

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/Spencerx/mosaic"
	"github.com/Spencerx/mosaic/scale"
)

// pixelWriter writes one channel of one group row into the raw RGBA
// buffer. Writers are resolved once per rasterization pass and applied
// once per row; they never allocate.
type pixelWriter func(pix []uint8, row int)

// resolveDomain implements the shared-domain protocol against the plot
// attribute store:
//
//   - unset → compute, mark transient, publish;
//   - the Fixed sentinel → compute, pin, publish;
//   - fixed → reuse, never recompute;
//   - transient → recompute, stay transient, publish;
//   - concrete user-supplied → reuse, do not publish.
//
// Publishing makes sibling marks reading the same attribute namespace see
// the computed domain on their next pass.
func resolveDomain(attrs *mosaic.Attributes, key string, compute func() *mosaic.Domain) *mosaic.Domain {
	d := attrs.GetDomain(key)
	switch {
	case d == nil:
		nd := compute()
		nd.Transient = true
		attrs.Set(key, nd)
		return nd
	case d.IsSentinel():
		nd := compute()
		nd.Fixed = true
		attrs.Set(key, nd)
		return nd
	case d.Fixed:
		return d
	case d.Transient:
		nd := compute()
		nd.Transient = true
		attrs.Set(key, nd)
		return nd
	default:
		return d
	}
}

// numericSpec assembles a scale spec from the channel's attribute
// namespace ("color" or "opacity").
func numericSpec(attrs *mosaic.Attributes, prefix string, dom *mosaic.Domain) scale.Spec {
	return scale.Spec{
		Type:      attrs.GetString(prefix+"Scale", scale.Linear),
		Domain:    dom.Values,
		Range:     attrs.GetFloats(prefix + "Range"),
		Clamp:     attrs.GetBool(prefix+"Clamp", false),
		Nice:      attrs.GetBool(prefix+"Nice", false),
		Reverse:   attrs.GetBool(prefix+"Reverse", false),
		Zero:      attrs.GetBool(prefix+"Zero", false),
		Base:      attrs.GetFloat(prefix+"Base", 0),
		Exponent:  attrs.GetFloat(prefix+"Exponent", 0),
		Constant:  attrs.GetFloat(prefix+"Constant", 0),
		Pivot:     attrs.GetFloat(prefix+"Pivot", 0),
		Symmetric: attrs.GetBool(prefix+"Symmetric", false),
	}
}

// alphaWriter builds the opacity channel's writer.
func (m *Mark) alphaWriter(enc encoding) (pixelWriter, error) {
	if enc.opacityMode == modeConstant {
		a := uint8(math.Round(255 * math.Min(1, math.Max(0, enc.alphaConst))))
		return func(pix []uint8, _ int) {
			for i := 3; i < len(pix); i += 4 {
				pix[i] = a
			}
		}, nil
	}

	col, ok := m.grid.Column(enc.alphaProp)
	if !ok {
		return nil, fmt.Errorf("mosaic: raster grid has no column %q", enc.alphaProp)
	}
	attrs := m.plot.Attrs

	dom := resolveDomain(attrs, "opacityDomain", func() *mosaic.Domain {
		lo, hi := col.Extent()
		return mosaic.ContinuousDomain(lo, hi)
	})
	if dom.Discrete() {
		mosaic.Logger().Warn("opacity domain is discrete, recomputing continuous bounds for this pass",
			"attr", "opacityDomain")
		lo, hi := col.Extent()
		dom = mosaic.ContinuousDomain(lo, hi)
	}

	s, err := scale.New(numericSpec(attrs, "opacity", dom))
	if err != nil {
		return nil, err
	}
	return func(pix []uint8, row int) {
		values := col.Num[row]
		for i, v := range values {
			f := math.Min(1, math.Max(0, s.Apply(v)))
			pix[i*4+3] = uint8(math.Round(255 * f))
		}
	}, nil
}

// colorWriter builds the fill channel's writer: a constant fill, a
// per-row category band, a category-lookup cell writer, or a sampled
// continuous ramp indexed by a [0,1] fraction scale.
func (m *Mark) colorWriter(enc encoding) (pixelWriter, error) {
	switch enc.fillMode {
	case modeConstant:
		return constantColor(enc.fillConst), nil
	case modeGroup:
		return m.groupColor(enc)
	}

	col, ok := m.grid.Column(enc.colorProp)
	if !ok {
		return nil, fmt.Errorf("mosaic: raster grid has no column %q", enc.colorProp)
	}
	if col.Discrete() {
		return m.discreteGridColor(col)
	}
	return m.continuousGridColor(col)
}

func constantColor(c color.NRGBA) pixelWriter {
	return func(pix []uint8, _ int) {
		for i := 0; i < len(pix); i += 4 {
			pix[i+0] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
		}
	}
}

// groupColor colors each row uniformly by its group key's position in the
// shared discrete color domain.
func (m *Mark) groupColor(enc encoding) (pixelWriter, error) {
	col, ok := m.grid.Column(enc.colorProp)
	if !ok || col.Keys == nil {
		return nil, fmt.Errorf("mosaic: raster grid has no group keys for %q", enc.colorProp)
	}
	attrs := m.plot.Attrs

	dom := resolveDomain(attrs, "colorDomain", func() *mosaic.Domain {
		cats := slices.Clone(col.Keys)
		mosaic.SortCategories(cats)
		return mosaic.DiscreteDomain(slices.Compact(cats)...)
	})
	if !dom.Discrete() {
		mosaic.Logger().Warn("color domain is continuous but fill is grouped, recomputing categories for this pass",
			"attr", "colorDomain")
		cats := slices.Clone(col.Keys)
		mosaic.SortCategories(cats)
		dom = mosaic.DiscreteDomain(slices.Compact(cats)...)
	}

	colors := scale.Discrete(
		attrs.GetString("colorScheme", ""),
		attrs.GetString("colorInterpolate", ""),
		len(dom.Categories),
	)
	return func(pix []uint8, row int) {
		c := color.NRGBA{} // not in domain: black
		if i := dom.Index(col.Keys[row]); i >= 0 {
			c = colors[i]
		}
		constantColor(c)(pix, row)
	}, nil
}

// discreteGridColor looks cell categories up in a category→RGB table.
func (m *Mark) discreteGridColor(col mosaic.Column) (pixelWriter, error) {
	attrs := m.plot.Attrs

	dom := resolveDomain(attrs, "colorDomain", func() *mosaic.Domain {
		return mosaic.DiscreteDomain(mosaic.EnumerateCategories(col.Str)...)
	})
	if !dom.Discrete() {
		mosaic.Logger().Warn("color domain is continuous but grid values are categorical, recomputing for this pass",
			"attr", "colorDomain")
		dom = mosaic.DiscreteDomain(mosaic.EnumerateCategories(col.Str)...)
	}

	colors := scale.Discrete(
		attrs.GetString("colorScheme", ""),
		attrs.GetString("colorInterpolate", ""),
		len(dom.Categories),
	)
	lookup := make(map[string]color.NRGBA, len(dom.Categories))
	for i, cat := range dom.Categories {
		lookup[cat] = colors[i]
	}

	return func(pix []uint8, row int) {
		cells := col.Str[row]
		for i, cat := range cells {
			c := lookup[cat]
			pix[i*4+0] = c.R
			pix[i*4+1] = c.G
			pix[i*4+2] = c.B
		}
	}, nil
}

// continuousGridColor samples the scheme at fixed resolution and indexes
// it by a parallel fraction scale mirroring the color scale's parameters,
// with diverging types degraded to their linear-equivalent fraction type.
func (m *Mark) continuousGridColor(col mosaic.Column) (pixelWriter, error) {
	attrs := m.plot.Attrs

	dom := resolveDomain(attrs, "colorDomain", func() *mosaic.Domain {
		if m.grid.NumRows == 1 && len(col.Num) == 1 {
			vals := slices.Clone(col.Num[0])
			slices.Sort(vals)
			return mosaic.ContinuousDomain(vals...)
		}
		lo, hi := col.Extent()
		return mosaic.ContinuousDomain(lo, hi)
	})
	if dom.Discrete() {
		mosaic.Logger().Warn("color domain is discrete but grid values are numeric, recomputing bounds for this pass",
			"attr", "colorDomain")
		lo, hi := col.Extent()
		dom = mosaic.ContinuousDomain(lo, hi)
	}

	spec := numericSpec(attrs, "color", dom)
	spec.Type = scale.FractionType(spec.Type)
	spec.Range = nil // fractions index the table; colorRange is the scheme
	frac, err := scale.New(spec)
	if err != nil {
		return nil, err
	}

	n := attrs.GetInt("colorN", 0)
	if n < 2 {
		n = scale.SampleCount
	}
	table, err := m.schemeTable(n)
	if err != nil {
		return nil, err
	}

	return func(pix []uint8, row int) {
		values := col.Num[row]
		for i, v := range values {
			idx := scale.TableIndex(frac.Apply(v), n) * 3
			pix[i*4+0] = table[idx+0]
			pix[i*4+1] = table[idx+1]
			pix[i*4+2] = table[idx+2]
		}
	}, nil
}

// schemeTable resolves the sampled RGB table for the current scheme
// configuration: an explicit colorRange gradient wins over a named scheme;
// the default scheme covers grid fills with no configuration at all.
func (m *Mark) schemeTable(n int) ([]uint8, error) {
	attrs := m.plot.Attrs

	if rangeColors := attrs.GetStrings("colorRange"); len(rangeColors) > 0 {
		cs := make([]color.RGBA, len(rangeColors))
		for i, s := range rangeColors {
			c, ok := scale.ParseColor(s)
			if !ok {
				return nil, fmt.Errorf("mosaic: colorRange entry %q is not a color", s)
			}
			cs[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
		}
		return scale.Sample(scale.Gradient(cs...), n), nil
	}

	name := attrs.GetString("colorScheme", scale.DefaultScheme)
	table, ok := scale.SampleNamed(name, attrs.GetString("colorInterpolate", ""), n)
	if !ok {
		return nil, fmt.Errorf("mosaic: unknown color scheme %q", name)
	}
	return table, nil
}
