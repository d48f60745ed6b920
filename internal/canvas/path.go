package canvas

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Op is a path segment kind.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpCurve
	OpClose
)

// Segment is one path command in device coordinates. Move and Line use
// Pts[0]; Curve uses two control points and the end point.
type Segment struct {
	Op  Op
	Pts [3]r2.Vec
}

// End returns the point the segment finishes at. Close segments report the
// zero vector; use Path.Flatten to resolve them.
func (s Segment) End() r2.Vec {
	if s.Op == OpCurve {
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is one stroked or filled path.
type Path struct {
	Color    model.Color
	Width    float64
	Filled   bool
	Segments []Segment
}

// Flatten converts the path into polylines, subdividing curves until no
// control point is farther than tolerance from its chord.
func (p Path) Flatten(tolerance float64) [][]r2.Vec {
	var lines [][]r2.Vec
	var cur []r2.Vec
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			flush()
			cur = []r2.Vec{s.Pts[0]}
		case OpLine:
			cur = append(cur, s.Pts[0])
		case OpCurve:
			if len(cur) == 0 {
				cur = []r2.Vec{s.Pts[0]}
			}
			flattenCubic(cur[len(cur)-1], s.Pts[0], s.Pts[1], s.Pts[2], tolerance, &cur, 0)
		case OpClose:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return lines
}

// flattenCubic subdivides a cubic Bezier with de Casteljau until it is flat
// enough and appends the end points to out.
func flattenCubic(p0, p1, p2, p3 r2.Vec, tolerance float64, out *[]r2.Vec, depth int) {
	if depth > 16 || (distToLine(p1, p0, p3) <= tolerance && distToLine(p2, p0, p3) <= tolerance) {
		*out = append(*out, p3)
		return
	}
	m01 := mid(p0, p1)
	m12 := mid(p1, p2)
	m23 := mid(p2, p3)
	m012 := mid(m01, m12)
	m123 := mid(m12, m23)
	m0123 := mid(m012, m123)
	flattenCubic(p0, m01, m012, m0123, tolerance, out, depth+1)
	flattenCubic(m0123, m123, m23, p3, tolerance, out, depth+1)
}

func mid(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}

func distToLine(p, a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	return math.Abs(r2.Cross(d, r2.Sub(p, a))) / l
}

// HAlign is horizontal text alignment relative to the anchor point.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how a text line is rendered.
type TextStyle struct {
	Size  float64 // font size in mm
	Align HAlign
	Color model.Color
	Font  string
}

// Text is one line of text anchored at Pos on its baseline.
type Text struct {
	Content  string
	Pos      r2.Vec
	Angle    float64 // baseline direction in radians
	Mirrored bool
	Style    TextStyle
}

// Part groups the paths and texts of one placed panel.
type Part struct {
	Name  string
	Paths []Path
	Texts []Text
}

// Empty reports whether nothing was drawn into the part.
func (p *Part) Empty() bool {
	return len(p.Paths) == 0 && len(p.Texts) == 0
}

// Drawing is the complete output of a session, in millimeters with y up.
type Drawing struct {
	Parts []*Part
}

// PathCount returns the number of stroked paths in all parts.
func (d *Drawing) PathCount() int {
	n := 0
	for _, p := range d.Parts {
		n += len(p.Paths)
	}
	return n
}

// Bounds returns the extent of all path points and text anchors. Curve
// control points are included, so the box may be slightly loose.
func (d *Drawing) Bounds() (min, max r2.Vec, ok bool) {
	min = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	add := func(v r2.Vec) {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		ok = true
	}
	for _, part := range d.Parts {
		for _, p := range part.Paths {
			for _, s := range p.Segments {
				switch s.Op {
				case OpMove, OpLine:
					add(s.Pts[0])
				case OpCurve:
					add(s.Pts[0])
					add(s.Pts[1])
					add(s.Pts[2])
				}
			}
		}
		for _, t := range part.Texts {
			add(t.Pos)
			add(r2.Add(t.Pos, r2.Vec{Y: t.Style.Size}))
		}
	}
	if !ok {
		return r2.Vec{}, r2.Vec{}, false
	}
	return min, max, true
}
