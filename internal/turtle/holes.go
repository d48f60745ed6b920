package turtle

import (
	"math"
	"slices"

	"github.com/piwi3910/BoxCut/internal/logging"
	"gonum.org/v1/gonum/spatial/r2"
)

// Default width ratios of DHole and FlatHole.
const (
	DHoleRelWidth    = 0.75
	FlatHoleRelWidth = 0.75
)

// Hole cuts a circular hole of radius r centered at (x, y). The cut is
// drawn at r - Burn so the finished hole measures r. Radii smaller than
// the kerf degrade to the smallest possible cut.
func (t *Turtle) Hole(x, y, r float64, tabs int) {
	defer t.Saved()()
	defer t.holeColor()()
	b := t.Settings.Burn
	if r < b {
		r = b + 1e-9
	}
	t.MoveTo(x+r-b, y, -90)
	t.Corner(-360, r, tabs)
}

// RegularPolygonHole cuts a regular n-gon with circumradius r centered at
// (x, y), rotated by a degrees, with corners rounded to cornerRadius.
// n == 0 cuts a round hole.
func (t *Turtle) RegularPolygonHole(x, y, r float64, n int, a, cornerRadius float64) {
	if n == 0 {
		t.Hole(x, y, r, 0)
		return
	}
	defer t.Saved()()
	defer t.holeColor()()
	b := t.Settings.Burn
	if r < b {
		r = b + 1e-9
	}
	r -= b
	if cornerRadius < b {
		cornerRadius = b
	}
	cr := cornerRadius - b

	fn := float64(n)
	side := 2 * r * math.Sin(math.Pi/fn)
	s := math.Sqrt(2 * cr * cr * (1 - math.Cos(2*math.Pi/fn)))
	inset := math.Sin(math.Pi/fn) / math.Sin(2*math.Pi/fn) * s
	flat := side - 2*inset

	t.MoveTo(x, y, a)
	t.MoveTo(r, 0, 90+180/fn)
	t.MoveTo(inset, 0, 0)
	for i := 0; i < n; i++ {
		t.Edge(flat, 0)
		t.Corner(360/fn, cr, 0)
	}
}

// RectangularHole cuts a dx by dy rectangle with corner radius r. By
// default (x, y) is the center; with centerX or centerY false it is the
// left or bottom side instead.
func (t *Turtle) RectangularHole(x, y, dx, dy, r float64, centerX, centerY bool) {
	defer t.Saved()()
	defer t.holeColor()()
	r = min(r, dx/2, dy/2)
	xs := x
	if !centerX {
		xs = x + dx/2
	}
	ys := y - dy/2
	if !centerY {
		ys = y
	}
	t.MoveTo(xs, ys+t.Settings.Burn, 180)
	t.Edge(dx/2-r, 0)
	for _, d := range []float64{dy, dx, dy, dx/2 + r} {
		t.Corner(-90, r, 0)
		t.Edge(d-2*r, 0)
	}
}

// PolygonHole cuts the closed polygon points as a hole with sharp
// corners. The cut runs clockwise, Burn inside the outline.
func (t *Turtle) PolygonHole(points []r2.Vec) {
	pts := make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if len(pts) == 0 || r2.Norm(r2.Sub(p, pts[len(pts)-1])) > 1e-9 {
			pts = append(pts, p)
		}
	}
	for len(pts) > 1 && r2.Norm(r2.Sub(pts[0], pts[len(pts)-1])) <= 1e-9 {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return
	}
	var area float64
	for i := range pts {
		area += r2.Cross(pts[i], pts[(i+1)%len(pts)])
	}
	if area > 0 {
		slices.Reverse(pts)
	}
	n := len(pts)
	heading := func(i int) float64 {
		d := r2.Sub(pts[(i+1)%n], pts[i%n])
		return math.Atan2(d.Y, d.X)
	}

	defer t.Saved()()
	defer t.holeColor()()
	b := t.Settings.Burn
	h := heading(0)
	t.MoveTo(pts[0].X+b*math.Sin(h), pts[0].Y-b*math.Cos(h), deg(h))
	for i := 0; i < n; i++ {
		t.Edge(r2.Norm(r2.Sub(pts[(i+1)%n], pts[i])), 0)
		turn := deg(heading(i+1) - heading(i))
		for turn > 180 {
			turn -= 360
		}
		for turn <= -180 {
			turn += 360
		}
		t.Corner(turn, 0, 0)
	}
}

// DHole cuts a round hole of radius r with one flat side. w is the width
// from the flat to the opposite side; w <= 0 uses DHoleRelWidth of the
// diameter. angle rotates the flat.
func (t *Turtle) DHole(x, y, r, w, angle float64) {
	if r <= 0 {
		return
	}
	if w <= 0 {
		w = 2 * r * DHoleRelWidth
	}
	w -= r
	if math.Abs(w) > r {
		t.Hole(x, y, r, 0)
		return
	}
	defer t.Saved()()
	defer t.holeColor()()
	a := deg(math.Acos(w / r))
	t.MoveTo(x, y, angle-a)
	t.MoveTo(r-t.Settings.Burn, 0, -90)
	t.Corner(-360+2*a, r, 0)
	t.Corner(-a, 0, 0)
	t.Edge(2*r*math.Sin(rad(a)), 0)
}

// FlatHole cuts a round hole of radius r with two parallel flats w apart.
// w <= 0 uses FlatHoleRelWidth of the diameter.
func (t *Turtle) FlatHole(x, y, r, w, angle float64) {
	if r <= 0 {
		return
	}
	if w <= 0 {
		w = r * FlatHoleRelWidth
	} else {
		w /= 2
	}
	if math.Abs(w) > r {
		t.Hole(x, y, r, 0)
		return
	}
	defer t.Saved()()
	defer t.holeColor()()
	a := deg(math.Acos(w / r))
	t.MoveTo(x, y, angle-a)
	t.MoveTo(r-t.Settings.Burn, 0, -90)
	for i := 0; i < 2; i++ {
		t.Corner(-180+2*a, r, 0)
		t.Corner(-a, 0, 0)
		t.Edge(2*r*math.Sin(rad(a)), 0)
		t.Corner(-a, 0, 0)
	}
}

// MountingHole cuts a keyhole: a shaft slot of diameter dShaft ending in a
// head opening of diameter dHead. Without a usable head it is a plain hole.
func (t *Turtle) MountingHole(x, y, dShaft, dHead, angle float64, tabs int) {
	b := t.Settings.Burn
	if dShaft < 2*b {
		logging.Logger().Debug("mounting hole narrower than kerf skipped", "d_shaft", dShaft)
		return
	}
	if dHead <= 0 || dHead < 2*b {
		t.Hole(x, y, dShaft/2, tabs)
		return
	}
	defer t.Saved()()
	defer t.holeColor()()
	rs, rh := dShaft/2, dHead/2
	t.MoveTo(x, y, angle)
	t.MoveTo(0, rs-b, 0)
	t.Corner(-180, rs, tabs)
	t.Edge(2*rs, tabs)
	a := deg(math.Asin(min(rs/rh, 1)))
	t.Corner(90-a, 0, tabs)
	t.Corner(-360+2*a, rh, tabs)
	t.Corner(90-a, 0, tabs)
	t.Edge(2*rs, tabs)
}

// Circle draws a full circle outline of radius r at (x, y) in the current
// pen color, grown by the kerf.
func (t *Turtle) Circle(x, y, r float64) {
	defer t.Saved()()
	r += t.Settings.Burn
	t.MoveTo(x+r, y, 0)
	const n = 10
	da := 2 * math.Pi / n
	for i := 0; i < n; i++ {
		a := float64(i) * da
		t.ctx.Arc(-r, 0, r, a, a+da)
	}
	t.ctx.Stroke()
}

// RegularPolygon completes the measures of a regular polygon with the
// given corner count. Exactly one of circumradius r, apothem h or side
// length is needed; the first non-zero one wins.
func RegularPolygon(corners int, r, h, side float64) (float64, float64, float64) {
	half := math.Pi / float64(corners)
	switch {
	case r > 0:
		side = 2 * math.Sin(half) * r
		h = r * math.Cos(half)
	case h > 0:
		r = h / math.Cos(half)
		side = 2 * math.Sin(half) * r
	case side > 0:
		r = side / 2 / math.Sin(half)
		h = r * math.Cos(half)
	}
	return r, h, side
}

// RegularPolygonAt draws the outline of a regular polygon in the current
// pen color. (x, y) is the center; with angle 0 one side lies flat at the
// bottom.
func (t *Turtle) RegularPolygonAt(x, y float64, corners int, angle, r, h, side float64) {
	defer t.Saved()()
	_, h, side = RegularPolygon(corners, r, h, side)
	t.MoveTo(x, y, angle)
	t.MoveTo(-side/2, -h-t.Settings.Burn, 0)
	for i := 0; i < corners; i++ {
		t.Edge(side, 0)
		t.Corner(360/float64(corners), 0, 0)
	}
}
