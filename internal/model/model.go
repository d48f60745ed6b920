package model

import (
	"math"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Map returns a new outline with f applied to every point.
func (o Outline) Map(f func(Point2D) Point2D) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = f(p)
	}
	return result
}

// Area computes the absolute area of the outline using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}

// Unclosed drops a trailing point that repeats the first one.
func (o Outline) Unclosed() Outline {
	n := len(o)
	if n > 1 && math.Abs(o[0].X-o[n-1].X) < 1e-9 && math.Abs(o[0].Y-o[n-1].Y) < 1e-9 {
		return o[:n-1]
	}
	return o
}

// Rect returns the outline of an axis-aligned rectangle with its lower left
// corner at the origin.
func Rect(w, h float64) Outline {
	return Outline{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// Footprint is the sheet area reserved by one placed panel, including the
// inter-panel spacing. Coordinates are absolute sheet millimeters.
type Footprint struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Directive string  `json:"directive"`
}

func NewFootprint(label string, x, y, w, h float64, directive string) Footprint {
	return Footprint{
		ID:        uuid.New().String()[:8],
		Label:     label,
		X:         x,
		Y:         y,
		Width:     w,
		Height:    h,
		Directive: directive,
	}
}

// Area returns the reserved area in mm².
func (f Footprint) Area() float64 {
	return f.Width * f.Height
}
