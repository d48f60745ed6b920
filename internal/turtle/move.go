package turtle

import (
	"math"
	"slices"
	"strings"

	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

type moveWhen int

const (
	moveAfter moveWhen = iota
	moveBefore
	moveNever
)

type moveTerm struct {
	dx, dy float64 // multiples of the part width and height
	when   moveWhen
}

var moveTerms = map[string]moveTerm{
	"up":      {0, 1, moveAfter},
	"down":    {0, -1, moveBefore},
	"left":    {-1, 0, moveBefore},
	"right":   {1, 0, moveAfter},
	"only":    {0, 0, moveNever},
	"mirror":  {0, 0, moveNever},
	"rotated": {0, 0, moveNever},
}

// Move places a part of size x by y on the sheet. It is called twice per
// part: with before set ahead of drawing, and with before unset after.
//
// The directive holds space separated tokens. up and right advance the
// placement after the part, down and left before it. only advances without
// drawing: Move then reports true and the caller must skip the part.
// rotated swaps the footprint and turns the part by 90 degrees, mirror
// flips it horizontally.
//
// Every part is padded by Settings.Spacing. After the part, the label is
// written into its center when labels are enabled.
func (t *Turtle) Move(x, y float64, where string, before bool, label string) (bool, error) {
	terms := strings.Fields(where)
	for _, term := range terms {
		if _, ok := moveTerms[term]; !ok {
			return false, model.NewConfigError("direction", term)
		}
	}
	dontDraw := before && slices.Contains(terms, "only")
	if before && !dontDraw {
		t.ctx.NewPart(label)
	}

	sp := t.Spacing()
	x += sp
	y += sp
	rotated := slices.Contains(terms, "rotated")
	if rotated {
		x, y = y, x
	}

	if !before {
		t.ctx.Restore()
		if t.Settings.Labels && label != "" {
			err := t.Text(label, x/2, y/2, TextOptions{Align: "middle center", Size: 4, Color: t.Colors.Annotations})
			if err != nil {
				return false, err
			}
		}
		t.ctx.Stroke()
		t.recordFootprint(x, y, where, label)
	}

	for _, term := range terms {
		mv := moveTerms[term]
		switch {
		case mv.when == moveBefore && before:
			t.MoveTo(mv.dx*x, mv.dy*y, 0)
		case (mv.when != moveBefore && !before) || dontDraw:
			t.MoveTo(mv.dx*x, mv.dy*y, 0)
		}
	}

	if !dontDraw && before {
		if t.Settings.Debug {
			done := t.WithColor(t.Colors.Annotations)
			t.ctx.Rectangle(0, 0, x, y)
			done()
		}
		t.ctx.Save()
		if rotated {
			t.MoveTo(x, 0, 90)
			x, y = y, x
		}
		if slices.Contains(terms, "mirror") {
			t.MoveTo(x, 0, 0)
			t.ctx.Scale(-1, 1)
		}
		t.MoveTo(sp/2, sp/2, 0)
	}
	if !before {
		t.ctx.NewPart("")
	}
	return dontDraw, nil
}

// recordFootprint stores the device-space bounding box of the x by y
// rectangle at the current origin.
func (t *Turtle) recordFootprint(x, y float64, where, label string) {
	m := t.ctx.Matrix()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range []r2.Vec{{}, {X: x}, {X: x, Y: y}, {Y: y}} {
		p := m.Apply(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	t.footprints = append(t.footprints, model.NewFootprint(label, minX, minY, maxX-minX, maxY-minY, where))
}

// Footprints returns the placed part rectangles in placement order.
func (t *Turtle) Footprints() []model.Footprint {
	return slices.Clone(t.footprints)
}

// Place runs draw between the two passes of Move. When draw fails the
// placement state is unwound and the error returned; the part stays
// unfinished.
func (t *Turtle) Place(w, h float64, where, label string, draw func() error) error {
	skip, err := t.Move(w, h, where, true, label)
	if err != nil || skip {
		return err
	}
	if err := draw(); err != nil {
		t.ctx.Restore()
		return err
	}
	_, err = t.Move(w, h, where, false, label)
	return err
}
