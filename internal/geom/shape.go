package geom

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// clipScale converts millimeters to the integer grid of the offsetter.
	clipScale = 1e5
	// insetSlack widens the offset ring so scan lines tangent to the exact
	// inset still cross it; snap trims the surplus.
	insetSlack = 1e-3
	// snapRange is how far snap searches past an interval end.
	snapRange = 1e-2
	// clearanceEps absorbs rounding in distance comparisons.
	clearanceEps = 1e-12
)

// Shape is a polygon with polygonal holes. Holes lie inside Outer and do
// not touch each other.
type Shape struct {
	Outer Polygon
	Holes []Polygon
}

// NewShape builds a shape from an outline and its hole outlines.
func NewShape(outer model.Outline, holes ...model.Outline) Shape {
	s := Shape{Outer: FromOutline(outer)}
	for _, h := range holes {
		if p := FromOutline(h); len(p) >= 3 {
			s.Holes = append(s.Holes, p)
		}
	}
	return s
}

// Empty reports whether the outer ring encloses no area.
func (s Shape) Empty() bool { return len(s.Outer) < 3 || s.Outer.Area() == 0 }

// Rings returns the outer ring followed by the holes.
func (s Shape) Rings() []Polygon {
	return append([]Polygon{s.Outer}, s.Holes...)
}

// Bounds is the bounding box of the outer ring.
func (s Shape) Bounds() (min, max r2.Vec) { return s.Outer.Bounds() }

// Area is the outer area minus the hole areas.
func (s Shape) Area() float64 {
	a := s.Outer.Area()
	for _, h := range s.Holes {
		a -= h.Area()
	}
	return a
}

// Map applies f to every vertex of every ring.
func (s Shape) Map(f func(r2.Vec) r2.Vec) Shape {
	out := Shape{Outer: s.Outer.Map(f)}
	for _, h := range s.Holes {
		out.Holes = append(out.Holes, h.Map(f))
	}
	return out
}

func ring(p Polygon) orb.Ring {
	r := make(orb.Ring, 0, len(p)+1)
	for _, v := range p {
		r = append(r, orb.Point{v.X, v.Y})
	}
	if len(p) > 0 {
		r = append(r, r[0])
	}
	return r
}

func (s Shape) toOrb() orb.Polygon {
	poly := orb.Polygon{ring(s.Outer)}
	for _, h := range s.Holes {
		poly = append(poly, ring(h))
	}
	return poly
}

// Contains reports whether q is inside the outer ring and outside every
// hole. Boundary points count as inside.
func (s Shape) Contains(q r2.Vec) bool {
	if len(s.Outer) < 3 {
		return false
	}
	return planar.PolygonContains(s.toOrb(), orb.Point{q.X, q.Y})
}

// Distance returns the distance from q to the nearest point of any ring.
func (s Shape) Distance(q r2.Vec) float64 {
	if len(s.Outer) == 0 {
		return math.Inf(1)
	}
	return planar.DistanceFrom(s.toOrb(), orb.Point{q.X, q.Y})
}

// clearance is the boundary distance of q, negative outside poly.
func clearance(poly orb.Polygon, q r2.Vec) float64 {
	pt := orb.Point{q.X, q.Y}
	d := planar.DistanceFrom(poly, pt)
	if !planar.PolygonContains(poly, pt) {
		return -d
	}
	return d
}

// Intervals returns the parts of the horizontal line at y inside the
// shape, sorted left to right.
func (s Shape) Intervals(y float64) []Interval {
	var xs []float64
	for _, p := range s.Rings() {
		xs = p.crossings(y, xs)
	}
	return pairUp(xs)
}

// Offset is the part of a shape at least D away from its boundary: the
// shape offset inward with round joins.
type Offset struct {
	D     float64
	src   orb.Polygon
	rings []Polygon
}

// Inset offsets s inward by d. Compute it once per distance and reuse it
// for every scan line.
func (s Shape) Inset(d float64) Offset {
	o := Offset{D: d, src: s.toOrb()}
	if d <= 0 || s.Empty() {
		o.rings = s.Rings()
		return o
	}
	co := clipper.NewClipperOffset()
	co.ArcTolerance = insetSlack / 2 * clipScale
	co.AddPath(toPath(s.Outer.Oriented(true)), clipper.JtRound, clipper.EtClosedPolygon)
	for _, h := range s.Holes {
		co.AddPath(toPath(h.Oriented(false)), clipper.JtRound, clipper.EtClosedPolygon)
	}
	for _, path := range co.Execute(-(d - insetSlack) * clipScale) {
		if len(path) >= 3 {
			o.rings = append(o.rings, fromPath(path))
		}
	}
	return o
}

// Rings returns the offset rings, outer and hole rings alike.
func (o Offset) Rings() []Polygon { return o.rings }

// Intervals returns the parts of the line at y at least D inside the
// source shape. A line tangent to the offset keeps its touching points.
func (o Offset) Intervals(y float64) []Interval {
	var xs []float64
	for _, p := range o.rings {
		xs = p.crossings(y, xs)
	}
	ivs := pairUp(xs)
	if o.D <= 0 {
		return ivs
	}
	out := ivs[:0]
	for _, iv := range ivs {
		mid := (iv.Lo + iv.Hi) / 2
		lo, ok := o.snap(iv.Lo, y, 1, mid)
		if !ok {
			continue
		}
		hi, ok := o.snap(iv.Hi, y, -1, mid)
		if !ok || hi < lo {
			continue
		}
		out = append(out, Interval{lo, hi})
	}
	return out
}

func (o Offset) clear(x, y float64) bool {
	return clearance(o.src, r2.Vec{X: x, Y: y}) >= o.D-clearanceEps
}

// snap moves the interval end x onto the exact clearance boundary. in is
// +1 when the interval continues to the right of x, -1 otherwise; mid
// bounds the search inside the interval. It reports false when no point
// near x clears D.
func (o Offset) snap(x, y, in, mid float64) (float64, bool) {
	inside := x + in*snapRange
	if in*(inside-mid) > 0 {
		inside = mid
	}
	if !o.clear(inside, y) {
		if !o.clear(mid, y) {
			return 0, false
		}
		inside = mid
	}
	outside := x - in*snapRange
	if o.clear(outside, y) {
		return x, true
	}
	for i := 0; i < 64; i++ {
		m := (outside + inside) / 2
		if m == outside || m == inside {
			break
		}
		if o.clear(m, y) {
			inside = m
		} else {
			outside = m
		}
	}
	return inside, true
}

func toPath(p Polygon) clipper.Path {
	path := make(clipper.Path, len(p))
	for i, v := range p {
		path[i] = &clipper.IntPoint{
			X: clipper.CInt(math.Round(v.X * clipScale)),
			Y: clipper.CInt(math.Round(v.Y * clipScale)),
		}
	}
	return path
}

func fromPath(path clipper.Path) Polygon {
	p := make(Polygon, len(path))
	for i, pt := range path {
		p[i] = r2.Vec{X: float64(pt.X) / clipScale, Y: float64(pt.Y) / clipScale}
	}
	return p
}
