package mosaic

// Plot is the shared context a set of coordinated marks render into. It
// owns the attribute store and the inner drawing area that image layers are
// stretched to. Cross-plot layout (margins, axes, facets) is handled by the
// surrounding chart system; marks only ever see the inner area.
type Plot struct {
	Attrs *Attributes

	innerWidth  int
	innerHeight int

	marks []Mark
}

// NewPlot creates a plot with the given inner drawing area in pixels.
func NewPlot(innerWidth, innerHeight int) *Plot {
	return &Plot{
		Attrs:       NewAttributes(),
		innerWidth:  innerWidth,
		innerHeight: innerHeight,
	}
}

// InnerWidth returns the width of the inner drawing area in pixels.
func (p *Plot) InnerWidth() int { return p.innerWidth }

// InnerHeight returns the height of the inner drawing area in pixels.
func (p *Plot) InnerHeight() int { return p.innerHeight }

// SetInnerSize resizes the inner drawing area.
func (p *Plot) SetInnerSize(w, h int) {
	p.innerWidth, p.innerHeight = w, h
}

// AddMark attaches a mark to the plot.
func (p *Plot) AddMark(m Mark) {
	p.marks = append(p.marks, m)
}

// Marks returns the marks attached to the plot, in attach order.
func (p *Plot) Marks() []Mark { return p.marks }
