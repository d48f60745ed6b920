// Package canvas defines the drawing surface the turtle layer emits to and
// a recording implementation of it.
//
// Coordinates follow the usual mathematical convention: millimeters, y up,
// angles counter-clockwise in radians. Backends flip y when they write
// formats with y down.
package canvas

import "github.com/piwi3910/BoxCut/internal/model"

// Canvas is the set of drawing operations the geometry engine needs. It
// mirrors a cairo-style context: a current path built in user space,
// a transformation matrix, and a stack of saved graphics states.
type Canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	// Arc adds a counter-clockwise arc around (cx, cy) from angle a0 to a1.
	Arc(cx, cy, r, a0, a1 float64)
	// ArcNegative adds a clockwise arc around (cx, cy) from angle a0 to a1.
	ArcNegative(cx, cy, r, a0, a1 float64)
	Rectangle(x, y, w, h float64)
	ClosePath()

	Translate(tx, ty float64)
	Rotate(rad float64)
	Scale(sx, sy float64)
	Matrix() Matrix

	// CurrentPoint returns the current point in user space.
	CurrentPoint() (x, y float64, ok bool)

	Stroke()
	// Fill commits the current path as a filled area.
	Fill()
	Save()
	Restore()

	SetColor(c model.Color)
	SetLineWidth(w float64)
	// ShowText draws text anchored at the user-space origin.
	ShowText(text string, style TextStyle)

	// NewPart closes the current part group and starts another.
	NewPart(name string)
}
