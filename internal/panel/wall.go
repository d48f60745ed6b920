// Package panel draws whole parts: rectangular and polygonal walls whose
// borders are edge profiles, placed on the sheet with the turtle's
// placement protocol.
package panel

import (
	"fmt"
	"slices"

	"github.com/piwi3910/BoxCut/internal/edges"
	"github.com/piwi3910/BoxCut/internal/fill"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
)

// Callback draws a feature relative to a border of a part. It is called
// with the turtle at the start of border i, heading along it, and offset
// inward by the width of that border's profile.
type Callback func(i int) error

// HexHoles fills the inside of a rectangular wall with a hex grid of round
// holes, keeping Margin to the border.
type HexHoles struct {
	Margin   float64
	Settings model.HexHolesSettings
}

// WallOptions are the optional parts of a rectangular wall.
type WallOptions struct {
	// IgnoreWidths lists corners whose profile widths are folded into the
	// adjacent border instead. Corner k is 2*i-1 at the start and 2*i at
	// the end of border i; 7 also drops the left spacing.
	IgnoreWidths []int
	// BedBolts holds the bolt policy per border; nil entries have none.
	BedBolts []*edges.BedBolts
	Holes    *HexHoles
	// Fill cuts a hole pattern into the inner rectangle.
	Fill     *fill.Options
	Callback Callback
	Move     string
	Label    string
}

func (o WallOptions) bolts(i int) *edges.BedBolts {
	if i < len(o.BedBolts) {
		return o.BedBolts[i]
	}
	return nil
}

// callAt runs cb for border i with the turtle moved by (x, y) and turned
// by a degrees. The frame is restored afterwards.
func callAt(t *turtle.Turtle, cb Callback, i int, x, y, a float64) error {
	if cb == nil {
		return nil
	}
	restore := t.Saved()
	t.MoveTo(x, y, a)
	err := cb(i)
	restore()
	t.Canvas().MoveTo(0, 0)
	if err != nil {
		return fmt.Errorf("border %d: %w", i, err)
	}
	return nil
}

// RectangularWall draws an x by y wall. edgeChars names the profiles of
// the bottom, right, top and left border, in that order.
func RectangularWall(t *turtle.Turtle, reg *edges.Registry, x, y float64, edgeChars string, opts WallOptions) error {
	ps, err := reg.Edges(edgeChars)
	if err != nil {
		return err
	}
	if len(ps) != 4 {
		return &model.ConfigError{Kind: "edges", Value: edgeChars, Reason: "four edges required"}
	}
	straight, err := reg.Get('e')
	if err != nil {
		return err
	}
	if opts.Fill != nil {
		if err := opts.Fill.Validate(); err != nil {
			return err
		}
	}
	// wrap around so ps[i+1] and ps[i-1] always exist
	ps = append(ps, ps...)
	prev := func(i int) edges.Profile { return ps[(i+3)%4] }
	ignored := func(k int) bool { return slices.Contains(opts.IgnoreWidths, k) }

	w := x + ps[3].Spacing() + ps[1].Spacing()
	h := y + ps[0].Spacing() + ps[2].Spacing()

	return t.Place(w, h, opts.Move, opts.Label, func() error {
		if !ignored(7) {
			t.MoveTo(ps[3].Spacing(), 0, 0)
		}
		t.MoveTo(0, ps[0].Margin(), 0)

		for i, length := range []float64{x, y, x, y} {
			if err := callAt(t, opts.Callback, i, 0, ps[i].StartWidth()+t.Burn(), 0); err != nil {
				return err
			}
			from, to := ps[i], ps[i+1]
			if ignored(2*i-1) || ignored(2*i-1+8) {
				length += prev(i).EndWidth()
			}
			if ignored(2 * i) {
				length += ps[i+1].StartWidth()
				to = straight
			}
			if ignored(2*i + 1) {
				from = straight
			}
			ps[i].Draw(length, opts.bolts(i))
			edges.EdgeCorner(t, from, to, 90)
		}

		if opts.Holes != nil {
			m := opts.Holes.Margin
			restore := t.Saved()
			t.MoveTo(m, m+ps[0].StartWidth(), 0)
			fill.HexHolesRectangle(t, x-2*m, y-2*m, opts.Holes.Settings, nil)
			restore()
		}
		if opts.Fill != nil {
			restore := t.Saved()
			t.MoveTo(0, ps[0].StartWidth(), 0)
			_, err := fill.Fill(t, model.Rect(x, y), *opts.Fill)
			restore()
			if err != nil {
				return err
			}
		}
		return nil
	})
}
