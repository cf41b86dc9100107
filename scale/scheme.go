package scale

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-moremath/vec"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/Spencerx/mosaic/internal/cache"
)

// SampleCount is the fixed resolution continuous schemes are sampled at
// for per-cell color lookup.
const SampleCount = 1024

// DefaultScheme is used when a grid-valued color channel has no
// colorScheme attribute.
const DefaultScheme = "viridis"

// Scheme is a continuous color scheme: a function from [0, 1] to colors.
type Scheme = palette.Continuous

// ramp interpolates between anchor colors in a perceptual color space.
type ramp struct {
	stops []colorful.Color
	blend func(a, b colorful.Color, t float64) colorful.Color
}

// Map implements Scheme.
func (r ramp) Map(x float64) color.Color {
	n := len(r.stops)
	if n == 1 || x <= 0 {
		return toNRGBA(r.stops[0])
	}
	if x >= 1 {
		return toNRGBA(r.stops[n-1])
	}
	pos := x * float64(n-1)
	i := int(pos)
	return toNRGBA(r.blend(r.stops[i], r.stops[i+1], pos-float64(i)).Clamped())
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Gradient builds a scheme interpolating the given sRGB colors with evenly
// spaced stops, as used for an explicit colorRange attribute.
func Gradient(colors ...color.RGBA) Scheme {
	return palette.RGBGradient{Colors: colors}
}

// Lookup resolves a named scheme in the given interpolation space
// ("rgb", "hsv", "hcl", "luv", or the default "lab"). Scheme names are
// case-insensitive. The second result is false for unknown names.
func Lookup(name, interpolate string) (Scheme, bool) {
	stops, ok := schemeStops[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	cs := make([]colorful.Color, len(stops))
	for i, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, false
		}
		cs[i] = c
	}
	return ramp{stops: cs, blend: blendFunc(interpolate)}, true
}

func blendFunc(space string) func(a, b colorful.Color, t float64) colorful.Color {
	switch strings.ToLower(space) {
	case "rgb":
		return colorful.Color.BlendRgb
	case "hsv":
		return colorful.Color.BlendHsv
	case "hcl":
		return colorful.Color.BlendHcl
	case "luv":
		return colorful.Color.BlendLuv
	default:
		return colorful.Color.BlendLab
	}
}

// sampleCache memoizes sampled tables keyed by scheme identity. Sampling
// walks the full ramp, so repeated rasterization passes reuse tables.
var sampleCache = cache.New[string, []uint8](cache.DefaultCapacity)

// Sample evaluates a scheme at n evenly spaced fractions and returns a
// flat RGB table of length n*3. Sampling is deterministic: equal fractions
// always yield equal table indices.
func Sample(s Scheme, n int) []uint8 {
	if n < 2 {
		n = 2
	}
	table := make([]uint8, 0, n*3)
	for _, x := range vec.Linspace(0, 1, n) {
		r, g, b, _ := s.Map(x).RGBA()
		table = append(table, uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
	return table
}

// SampleNamed samples a named scheme, memoizing the table per
// (name, interpolate, n). The second result is false for unknown names.
func SampleNamed(name, interpolate string, n int) ([]uint8, bool) {
	s, ok := Lookup(name, interpolate)
	if !ok {
		return nil, false
	}
	key := fmt.Sprintf("%s/%s/%d", strings.ToLower(name), strings.ToLower(interpolate), n)
	return sampleCache.GetOrCreate(key, func() []uint8 {
		return Sample(s, n)
	}), true
}

// TableIndex maps a [0,1] fraction to a row of an n-entry table, rounding
// so nearby fractions land on identical entries.
func TableIndex(f float64, n int) int {
	i := int(math.Round(f * float64(n-1)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Observable10 is the default categorical palette for discrete color
// domains.
var Observable10 = []color.NRGBA{
	{R: 0x42, G: 0x69, B: 0xd0, A: 0xff},
	{R: 0xef, G: 0xb1, B: 0x18, A: 0xff},
	{R: 0xff, G: 0x72, B: 0x5c, A: 0xff},
	{R: 0x6c, G: 0xc5, B: 0xb0, A: 0xff},
	{R: 0x3c, G: 0xa9, B: 0x51, A: 0xff},
	{R: 0xff, G: 0x8a, B: 0xb7, A: 0xff},
	{R: 0xa4, G: 0x63, B: 0xf2, A: 0xff},
	{R: 0x97, G: 0xbb, B: 0xf5, A: 0xff},
	{R: 0x9c, G: 0x6b, B: 0x4e, A: 0xff},
	{R: 0x94, G: 0x98, B: 0xa0, A: 0xff},
}

// Discrete returns k colors for a discrete domain. Categorical scheme
// names cycle their fixed palette; continuous schemes are sampled at k
// evenly spaced fractions. Unknown names fall back to the categorical
// default.
func Discrete(name, interpolate string, k int) []color.NRGBA {
	if k <= 0 {
		return nil
	}
	switch strings.ToLower(name) {
	case "", "observable10", "tableau10", "category10", "categorical":
		out := make([]color.NRGBA, k)
		for i := range out {
			out[i] = Observable10[i%len(Observable10)]
		}
		return out
	}

	s, ok := Lookup(name, interpolate)
	if !ok {
		return Discrete("", interpolate, k)
	}
	out := make([]color.NRGBA, k)
	if k == 1 {
		out[0] = nrgbaOf(s.Map(0.5))
		return out
	}
	for i := range out {
		out[i] = nrgbaOf(s.Map(float64(i) / float64(k-1)))
	}
	return out
}

func nrgbaOf(c color.Color) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}

// ParseColor resolves a literal color constant: a CSS color name or a hex
// string. Used to detect constant fill encodings.
func ParseColor(s string) (color.NRGBA, bool) {
	if s == "" {
		return color.NRGBA{}, false
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	if strings.HasPrefix(s, "#") {
		if c, err := colorful.Hex(s); err == nil {
			r, g, b := c.RGB255()
			return color.NRGBA{R: r, G: g, B: b, A: 255}, true
		}
	}
	return color.NRGBA{}, false
}

// schemeStops anchors the built-in continuous schemes. Sequential and
// diverging ramps follow the d3-scale-chromatic anchor colors.
var schemeStops = map[string][]string{
	"viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"magma": {
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf",
	},
	"plasma": {
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	},
	"inferno": {
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d03c", "#fcffa4",
	},
	"turbo": {
		"#30123b", "#4145ab", "#4675ed", "#39a2fc", "#1bcfd4",
		"#24eca6", "#61fc6c", "#a4fc3b", "#d1e834", "#f3c63a",
		"#fe9b2d", "#f36315", "#d93806", "#b11901", "#7a0402",
	},
	"blues": {
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	},
	"greens": {
		"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476",
		"#41ab5d", "#238b45", "#006d2c", "#00441b",
	},
	"greys": {
		"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696",
		"#737373", "#525252", "#252525", "#000000",
	},
	"oranges": {
		"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c",
		"#f16913", "#d94801", "#a63603", "#7f2704",
	},
	"purples": {
		"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8",
		"#807dba", "#6a51a3", "#54278f", "#3f007d",
	},
	"reds": {
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	},
	"rdbu": {
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
		"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac",
		"#053061",
	},
	"ylgnbu": {
		"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4",
		"#1d91c0", "#225ea8", "#253494", "#081d58",
	},
}
