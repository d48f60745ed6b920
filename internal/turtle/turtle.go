// Package turtle implements the relative drawing primitives every panel is
// built from.
//
// The turtle always sits at the origin of the current user coordinate
// system, heading along +x. Each primitive draws relative to that frame and
// then moves the frame to its own end point and heading, so primitives chain
// without the caller tracking absolute coordinates. All cuts are offset by
// the kerf (Settings.Burn).
package turtle

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
)

// Turtle draws onto a canvas with the settings of one drawing session.
type Turtle struct {
	ctx      canvas.Canvas
	Settings model.Settings
	Colors   model.ColorScheme

	footprints []model.Footprint
}

// New returns a turtle drawing onto ctx. The canvas pen is set to the outer
// cut color.
func New(ctx canvas.Canvas, settings model.Settings, colors model.ColorScheme) *Turtle {
	ctx.SetColor(colors.OuterCut)
	return &Turtle{ctx: ctx, Settings: settings, Colors: colors}
}

// Canvas returns the underlying drawing surface.
func (t *Turtle) Canvas() canvas.Canvas { return t.ctx }

// Thickness is the material thickness in mm.
func (t *Turtle) Thickness() float64 { return t.Settings.Thickness }

// Burn is the kerf compensation in mm.
func (t *Turtle) Burn() float64 { return t.Settings.Burn }

// Spacing is the gap added around every placed part.
func (t *Turtle) Spacing() float64 { return t.Settings.Spacing() }

// Pose is the turtle position and heading in device coordinates.
type Pose struct {
	X, Y    float64
	Heading float64 // degrees
}

// Pose reports where the turtle currently is.
func (t *Turtle) Pose() Pose {
	m := t.ctx.Matrix()
	o := m.Origin()
	return Pose{X: o.X, Y: o.Y, Heading: m.Heading() * 180 / math.Pi}
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
func deg(rad float64) float64 { return rad * 180 / math.Pi }

// MoveTo relocates the turtle by (x, y) in the current frame and turns it
// by degrees, without drawing.
func (t *Turtle) MoveTo(x, y, degrees float64) {
	t.ctx.MoveTo(0, 0)
	t.ctx.Translate(x, y)
	t.ctx.Rotate(rad(degrees))
	t.ctx.MoveTo(0, 0)
}

// MoveArc moves the turtle along an arc of radius r without drawing. A
// negative radius flips the turning direction.
func (t *Turtle) MoveArc(angle, r float64) {
	if r < 0 {
		r, angle = -r, -angle
	}
	a := rad(angle)
	if angle > 0 {
		t.MoveTo(r*math.Sin(a), r*(1-math.Cos(a)), angle)
	} else {
		t.MoveTo(r*math.Sin(-a), -r*(1-math.Cos(a)), angle)
	}
}

// continueDirection moves the frame origin to the current point and turns
// it by a radians.
func (t *Turtle) continueDirection(a float64) {
	x, y, _ := t.ctx.CurrentPoint()
	t.ctx.Translate(x, y)
	t.ctx.Rotate(a)
}

// Edge draws a straight line of the given length along the heading. With
// tabs > 0 and Settings.Tabs set, the line is split into that many evenly
// spaced cut runs separated by uncut bridges.
func (t *Turtle) Edge(length float64, tabs int) {
	t.ctx.MoveTo(0, 0)
	tw := t.Settings.Tabs
	switch {
	case tabs > 0 && tw > 0 && tw > length:
		t.ctx.MoveTo(length, 0)
	case tabs > 0 && tw > 0:
		n := min(tabs, max(1, int(math.Floor(length/(float64(tabs)*3*tw)))))
		square := (length - float64(n)*tw) / float64(n)
		x := square / 2
		t.ctx.LineTo(x, 0)
		for i := 1; i < n; i++ {
			x += tw
			t.ctx.MoveTo(x, 0)
			x += square
			t.ctx.LineTo(x, 0)
		}
		t.ctx.MoveTo(x+tw, 0)
		t.ctx.LineTo(length, 0)
	default:
		t.ctx.LineTo(length, 0)
	}
	t.continueDirection(0)
}

// Corner turns the turtle by degrees (positive is counter-clockwise) along
// an arc of the given inside radius. The drawn radius is adjusted by the
// kerf. Large turns are split into smaller arcs.
func (t *Turtle) Corner(degrees, radius float64, tabs int) {
	if tabs > 0 && t.Settings.Tabs > 0 && t.cornerTabs(degrees, radius, tabs) {
		return
	}
	b := t.Settings.Burn
	if (radius > 0.5*b && math.Abs(degrees) > 36) || math.Abs(degrees) > 100 {
		steps := int(math.Abs(degrees)/36) + 1
		for i := 0; i < steps; i++ {
			t.Corner(degrees/float64(steps), radius, 0)
		}
		return
	}
	a := rad(degrees)
	switch {
	case degrees > 0:
		t.ctx.Arc(0, radius+b, radius+b, -math.Pi/2, a-math.Pi/2)
	case radius > b:
		t.ctx.ArcNegative(0, -(radius - b), radius-b, math.Pi/2, a+math.Pi/2)
	default:
		// inner corner tighter than the kerf: loop around the corner point
		t.ctx.ArcNegative(0, b-radius, b-radius, -math.Pi/2, -math.Pi/2+a)
	}
	t.continueDirection(a)
}

// cornerTabs draws a corner split by bridges. It reports false when the arc
// is too short to hold a single tab.
func (t *Turtle) cornerTabs(degrees, radius float64, tabs int) bool {
	b, tw := t.Settings.Burn, t.Settings.Tabs
	var r, tabAngle float64
	if degrees > 0 {
		r = radius + b
		tabAngle = tw / math.Max(r, 0.01)
	} else {
		r = radius - b
		tabAngle = -tw / math.Max(r, 0.01)
	}
	if r <= 0 {
		return false
	}
	length := math.Abs(r * rad(degrees))
	n := min(tabs, int(math.Floor(length/(float64(tabs)*3*tw))))
	if n <= 0 {
		return false
	}
	square := (length - float64(n)*tw) / float64(n)
	step := deg(square / r)
	if degrees < 0 {
		step = -step
	}
	t.Corner(step/2, radius, 0)
	for i := 0; i < n-1; i++ {
		t.MoveArc(deg(tabAngle), r)
		t.Corner(step, radius, 0)
	}
	t.MoveArc(deg(tabAngle), r)
	t.Corner(step/2, radius, 0)
	return true
}

// CurveTo draws a cubic Bezier and leaves the turtle heading along the
// final tangent.
func (t *Turtle) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	t.ctx.CurveTo(x1, y1, x2, y2, x3, y3)
	dx, dy := x3-x2, y3-y2
	if dx == 0 && dy == 0 {
		logging.Logger().Debug("curve ends with zero tangent", "x", x3, "y", y3)
	}
	t.continueDirection(math.Atan2(dy, dx))
}

// Elem is one entry of a polyline: an edge length or a corner angle, with
// optional tabs for edges and inside radius for corners.
type Elem struct {
	Value  float64
	Tabs   int
	Radius float64
}

// Polyline alternates edges and corners: values at even positions are edge
// lengths, values at odd positions are corner angles in degrees.
func (t *Turtle) Polyline(values ...float64) {
	for i, v := range values {
		if i%2 == 1 {
			t.Corner(v, 0, 0)
		} else {
			t.Edge(v, 0)
		}
	}
}

// PolylineOf is Polyline with per-element tabs and corner radii.
func (t *Turtle) PolylineOf(elems ...Elem) {
	for i, e := range elems {
		if i%2 == 1 {
			t.Corner(e.Value, e.Radius, e.Tabs)
		} else {
			t.Edge(e.Value, e.Tabs)
		}
	}
}

// Step draws a perpendicular offset of the given depth. Positive values
// step outward (to the right of the heading), negative values inward.
func (t *Turtle) Step(out float64) {
	switch {
	case out > 1e-5:
		t.Corner(-90, 0, 0)
		t.Edge(out, 0)
		t.Corner(90, 0, 0)
	case out < -1e-5:
		t.Corner(90, 0, 0)
		t.Edge(-out, 0)
		t.Corner(-90, 0, 0)
	}
}

// SetColor strokes what is drawn so far and switches the pen.
func (t *Turtle) SetColor(c model.Color) {
	t.ctx.Stroke()
	t.ctx.SetColor(c)
}

// Stroke commits the pending path.
func (t *Turtle) Stroke() { t.ctx.Stroke() }
