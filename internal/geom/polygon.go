// Package geom implements the polygon queries the hole-fill engine needs:
// containment, distance to the boundary, and horizontal scan-line
// intersection of a region and of its inward offset. Regions may carry
// holes.
package geom

import (
	"math"
	"sort"

	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a simple closed polygon. The last vertex connects back to the
// first one.
type Polygon []r2.Vec

// FromOutline converts an outline, dropping a repeated closing vertex.
func FromOutline(o model.Outline) Polygon {
	o = o.Unclosed()
	p := make(Polygon, len(o))
	for i, pt := range o {
		p[i] = r2.Vec{X: pt.X, Y: pt.Y}
	}
	return p
}

// Outline converts back to a model outline.
func (p Polygon) Outline() model.Outline {
	o := make(model.Outline, len(p))
	for i, v := range p {
		o[i] = model.Point2D{X: v.X, Y: v.Y}
	}
	return o
}

// Bounds returns the axis-aligned bounding box.
func (p Polygon) Bounds() (min, max r2.Vec) {
	if len(p) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Area returns the absolute enclosed area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// SignedArea is positive for counter-clockwise vertex order.
func (p Polygon) SignedArea() float64 {
	var a float64
	for i := range p {
		a += r2.Cross(p[i], p[(i+1)%len(p)])
	}
	return a / 2
}

// Oriented returns p with its vertices counter-clockwise, or clockwise
// when ccw is false.
func (p Polygon) Oriented(ccw bool) Polygon {
	if (p.SignedArea() >= 0) == ccw {
		return p
	}
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Map returns a new polygon with f applied to every vertex.
func (p Polygon) Map(f func(r2.Vec) r2.Vec) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = f(v)
	}
	return out
}

func (p Polygon) edge(i int) (a, b r2.Vec) {
	return p[i], p[(i+1)%len(p)]
}

// Contains reports whether q is inside or on the boundary.
func (p Polygon) Contains(q r2.Vec) bool { return Shape{Outer: p}.Contains(q) }

// Distance returns the distance from q to the nearest boundary point.
func (p Polygon) Distance(q r2.Vec) float64 { return Shape{Outer: p}.Distance(q) }

// Intervals returns the parts of the horizontal line at y that lie inside
// the polygon, sorted left to right.
func (p Polygon) Intervals(y float64) []Interval { return Shape{Outer: p}.Intervals(y) }

// InsetIntervals returns the parts of the horizontal line at y whose points
// are inside the polygon and at least d away from its boundary.
func (p Polygon) InsetIntervals(y, d float64) []Interval {
	return Shape{Outer: p}.Inset(d).Intervals(y)
}

// crossings appends the x positions where the line at y crosses an edge.
// Vertices on the line count for the edge that continues above it.
func (p Polygon) crossings(y float64, xs []float64) []float64 {
	for i := range p {
		a, b := p.edge(i)
		if (a.Y > y) != (b.Y > y) {
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
	}
	return xs
}

// Interval is a closed range [Lo, Hi] on a scan line.
type Interval struct {
	Lo, Hi float64
}

func (iv Interval) Len() float64 { return iv.Hi - iv.Lo }

func (iv Interval) Contains(x float64) bool { return x >= iv.Lo && x <= iv.Hi }

// pairUp sorts crossings and pairs them into inside intervals, even-odd.
func pairUp(xs []float64) []Interval {
	sort.Float64s(xs)
	out := make([]Interval, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		if xs[i+1] > xs[i] {
			out = append(out, Interval{xs[i], xs[i+1]})
		}
	}
	return out
}
