package canvas

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultLineWidth is the stroke width of new contexts in mm.
const DefaultLineWidth = 0.1

type state struct {
	m     Matrix
	color model.Color
	width float64
}

// Context records drawing commands into a Drawing. Paths are stored in
// device coordinates, so later transform changes never affect geometry
// already added. Not safe for concurrent use.
type Context struct {
	st    state
	stack []state

	path     []Segment
	cur      r2.Vec
	hasCur   bool
	subStart r2.Vec

	drawing *Drawing
	part    *Part
}

// NewContext returns an empty context with the identity transform, black
// pen and DefaultLineWidth.
func NewContext() *Context {
	c := &Context{
		st:      state{m: Identity(), color: model.Black, width: DefaultLineWidth},
		drawing: &Drawing{},
	}
	c.part = &Part{}
	c.drawing.Parts = append(c.drawing.Parts, c.part)
	return c
}

func (c *Context) device(x, y float64) r2.Vec {
	return c.st.m.Apply(r2.Vec{X: x, Y: y})
}

// MoveTo starts a new subpath. Moving onto the current point is a no-op so
// that chained primitives produce one continuous subpath.
func (c *Context) MoveTo(x, y float64) {
	p := c.device(x, y)
	if c.hasCur && samePoint(p, c.cur) {
		return
	}
	if n := len(c.path); n > 0 && c.path[n-1].Op == OpMove {
		c.path[n-1].Pts[0] = p
	} else {
		c.path = append(c.path, Segment{Op: OpMove, Pts: [3]r2.Vec{p}})
	}
	c.cur, c.hasCur, c.subStart = p, true, p
}

// LineTo adds a line. Without a current point it behaves like MoveTo.
func (c *Context) LineTo(x, y float64) {
	if !c.hasCur {
		c.MoveTo(x, y)
		return
	}
	p := c.device(x, y)
	if samePoint(p, c.cur) {
		return
	}
	c.path = append(c.path, Segment{Op: OpLine, Pts: [3]r2.Vec{p}})
	c.cur = p
}

func (c *Context) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !c.hasCur {
		c.MoveTo(x1, y1)
	}
	seg := Segment{Op: OpCurve, Pts: [3]r2.Vec{c.device(x1, y1), c.device(x2, y2), c.device(x3, y3)}}
	c.path = append(c.path, seg)
	c.cur = seg.Pts[2]
}

func (c *Context) Arc(cx, cy, r, a0, a1 float64) {
	for a1 < a0 {
		a1 += 2 * math.Pi
	}
	c.arc(cx, cy, r, a0, a1)
}

func (c *Context) ArcNegative(cx, cy, r, a0, a1 float64) {
	for a1 > a0 {
		a1 -= 2 * math.Pi
	}
	c.arc(cx, cy, r, a0, a1)
}

// arc joins the current point to the arc start with a line and then
// approximates the sweep with cubic Beziers of at most 90 degrees each.
func (c *Context) arc(cx, cy, r, a0, a1 float64) {
	start := r2.Vec{X: cx + r*math.Cos(a0), Y: cy + r*math.Sin(a0)}
	if c.hasCur {
		c.LineTo(start.X, start.Y)
	} else {
		c.MoveTo(start.X, start.Y)
	}
	sweep := a1 - a0
	if r <= 0 || math.Abs(sweep) < 1e-12 {
		return
	}
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := 0; i < n; i++ {
		t0 := a0 + float64(i)*step
		t1 := t0 + step
		s0, c0 := math.Sincos(t0)
		s1, c1 := math.Sincos(t1)
		c.CurveTo(
			cx+r*(c0-k*s0), cy+r*(s0+k*c0),
			cx+r*(c1+k*s1), cy+r*(s1-k*c1),
			cx+r*c1, cy+r*s1,
		)
	}
}

func (c *Context) Rectangle(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.LineTo(x, y)
}

// ClosePath draws back to the start of the current subpath.
func (c *Context) ClosePath() {
	if !c.hasCur {
		return
	}
	c.path = append(c.path, Segment{Op: OpClose})
	c.cur = c.subStart
}

func (c *Context) Translate(tx, ty float64) { c.st.m = c.st.m.Translate(tx, ty) }
func (c *Context) Rotate(rad float64)       { c.st.m = c.st.m.Rotate(rad) }
func (c *Context) Scale(sx, sy float64)     { c.st.m = c.st.m.Scale(sx, sy) }
func (c *Context) Matrix() Matrix           { return c.st.m }

func (c *Context) CurrentPoint() (x, y float64, ok bool) {
	if !c.hasCur {
		return 0, 0, false
	}
	inv, invertible := c.st.m.Invert()
	if !invertible {
		return 0, 0, false
	}
	p := inv.Apply(c.cur)
	return p.X, p.Y, true
}

// Stroke commits the current path with the current color and width and
// clears it, including the current point.
func (c *Context) Stroke() {
	c.commit(false)
}

// Fill commits the current path as a filled area and clears it.
func (c *Context) Fill() {
	c.commit(true)
}

func (c *Context) commit(filled bool) {
	drawn := false
	for _, s := range c.path {
		if s.Op != OpMove {
			drawn = true
			break
		}
	}
	if drawn {
		segs := make([]Segment, len(c.path))
		copy(segs, c.path)
		c.part.Paths = append(c.part.Paths, Path{Color: c.st.color, Width: c.st.width, Filled: filled, Segments: segs})
	}
	c.path = c.path[:0]
	c.hasCur = false
}

// Save pushes the matrix, color and line width.
func (c *Context) Save() {
	c.stack = append(c.stack, c.st)
}

// Restore pops the last saved state. An unbalanced Restore is ignored.
func (c *Context) Restore() {
	n := len(c.stack)
	if n == 0 {
		logging.Logger().Warn("canvas: restore without matching save")
		return
	}
	c.st = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// Depth returns the number of saved states.
func (c *Context) Depth() int { return len(c.stack) }

func (c *Context) SetColor(col model.Color) { c.st.color = col }
func (c *Context) SetLineWidth(w float64)   { c.st.width = w }

// Color returns the current pen color.
func (c *Context) Color() model.Color { return c.st.color }

func (c *Context) ShowText(text string, style TextStyle) {
	m := c.st.m
	style.Size *= math.Sqrt(math.Abs(m.Det()))
	c.part.Texts = append(c.part.Texts, Text{
		Content:  text,
		Pos:      m.Origin(),
		Angle:    m.Heading(),
		Mirrored: m.Det() < 0,
		Style:    style,
	})
}

func (c *Context) NewPart(name string) {
	c.Stroke()
	if c.part.Empty() {
		c.part.Name = name
		return
	}
	c.part = &Part{Name: name}
	c.drawing.Parts = append(c.drawing.Parts, c.part)
}

// Drawing strokes any pending path and returns everything recorded so far.
// Empty parts are dropped.
func (c *Context) Drawing() *Drawing {
	c.Stroke()
	out := &Drawing{}
	for _, p := range c.drawing.Parts {
		if !p.Empty() {
			out.Parts = append(out.Parts, p)
		}
	}
	return out
}

func samePoint(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
