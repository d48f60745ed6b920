package panel

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxCut/internal/edges"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
	"gonum.org/v1/gonum/spatial/r2"
)

// PolygonOptions are the optional parts of a polygon wall.
type PolygonOptions struct {
	// Close appends the border that leads back to the start.
	Close bool
	// InPlace draws at the turtle position without placing a part.
	InPlace bool
	// KeepCorners skips shortening the borders next to inward corners.
	KeepCorners bool
	// Hole is the diameter of a center hole of a regular polygon wall.
	Hole     float64
	Callback Callback
	Move     string
	Label    string
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func dir(deg float64) r2.Vec {
	return r2.Vec{X: math.Cos(rad(deg)), Y: math.Sin(rad(deg))}
}

// NormalizeTurn maps a turn in degrees into (-180, 180].
func NormalizeTurn(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// walker follows a border list without drawing. Positions are relative to
// the start, headings in degrees.
type walker struct {
	pos   r2.Vec
	angle float64
	visit func(r2.Vec)
}

func (w *walker) edge(length float64) {
	w.pos = r2.Add(w.pos, r2.Scale(length, dir(w.angle)))
	if w.visit != nil {
		w.visit(w.pos)
	}
}

func (w *walker) corner(a, r float64) {
	if r <= 0 || a == 0 {
		w.angle += a
		return
	}
	side := 90.0
	if a < 0 {
		side = -90
	}
	center := r2.Add(w.pos, r2.Scale(r, dir(w.angle+side)))
	steps := int(math.Ceil(math.Abs(a)/15)) + 1
	for k := 1; k <= steps; k++ {
		w.pos = r2.Add(center, r2.Scale(r, dir(w.angle+a*float64(k)/float64(steps)-side)))
		if w.visit != nil {
			w.visit(w.pos)
		}
	}
	w.angle += a
}

func (w *walker) walk(borders []turtle.Elem) {
	for i, b := range borders {
		if i%2 == 1 {
			w.corner(b.Value, b.Radius)
		} else {
			w.edge(b.Value)
		}
	}
}

// ClosePolygon appends the turns and the border that lead from the end of
// an open border list back to its start, ending with the start heading.
func ClosePolygon(borders []turtle.Elem) []turtle.Elem {
	out := append([]turtle.Elem(nil), borders...)
	var w walker
	w.walk(out)
	if len(out)%2 == 0 {
		out = append(out, turtle.Elem{})
	}
	d := r2.Norm(w.pos)
	if d < 1e-9 {
		return append(out, turtle.Elem{Value: NormalizeTurn(-w.angle)})
	}
	a := math.Atan2(-w.pos.Y, -w.pos.X) * 180 / math.Pi
	return append(out,
		turtle.Elem{Value: NormalizeTurn(a - w.angle)},
		turtle.Elem{Value: d},
		turtle.Elem{Value: NormalizeTurn(-a)},
	)
}

// polygonExtent returns the bounding box of a border list, including the
// margin each border's profile needs outside the outline.
func polygonExtent(borders []turtle.Elem, ps []edges.Profile) (min, max r2.Vec) {
	var traced []turtle.Elem
	for i, b := range borders {
		if i%2 == 1 {
			traced = append(traced, b)
			continue
		}
		m := ps[(i/2)%len(ps)].Margin()
		if m == 0 {
			traced = append(traced, b)
			continue
		}
		// detour outward by the margin along the border
		for _, v := range []float64{0, -90, m, 90, b.Value, 90, m, -90, 0} {
			traced = append(traced, turtle.Elem{Value: v})
		}
	}

	w := walker{visit: func(p r2.Vec) {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}}
	w.walk(traced)
	return min, max
}

// PolygonWall draws a wall from an alternating list of border lengths and
// corners. edgeChars gives the profile of each border, repeating when
// there are more borders than characters.
func PolygonWall(t *turtle.Turtle, reg *edges.Registry, borders []turtle.Elem, edgeChars string, opts PolygonOptions) error {
	ps, err := reg.Edges(edgeChars)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		return &model.ConfigError{Kind: "edges", Value: edgeChars, Reason: "at least one edge required"}
	}
	if len(borders) == 0 {
		return &model.ConfigError{Kind: "polygon", Value: "[]", Reason: "no borders"}
	}
	if opts.Close {
		borders = ClosePolygon(borders)
	}
	if len(borders)%2 == 1 {
		borders = append(borders, turtle.Elem{})
	}
	min, max := polygonExtent(borders, ps)

	draw := func() error {
		if !opts.InPlace {
			t.MoveTo(-min.X, -min.Y, 0)
		}
		var corr float64
		for i := 0; i < len(borders); i += 2 {
			if err := callAt(t, opts.Callback, i/2, 0, t.Burn(), 0); err != nil {
				return err
			}
			t.Edge(corr, 0)
			length := borders[i].Value - corr
			next := borders[i+1]
			corr = 0
			if !opts.KeepCorners && next.Radius == 0 && next.Value < 0 {
				corr = t.Thickness() * math.Tan(rad(-next.Value/2))
			}
			length -= corr
			ps[(i/2)%len(ps)].Draw(length, nil)
			t.Edge(corr, 0)
			t.Corner(next.Value, next.Radius, 1)
		}
		return nil
	}
	if opts.InPlace {
		defer t.Saved()()
		return draw()
	}
	return t.Place(max.X-min.X, max.Y-min.Y, opts.Move, opts.Label, draw)
}

// RegularPolygonWall draws a regular polygon wall with the given corner
// count. One of r, h and side sizes it, see turtle.RegularPolygon. edgeChars
// is a single profile for all borders or one per border.
//
// Callback 0 is called at the center, callback i+1 at border i.
func RegularPolygonWall(t *turtle.Turtle, reg *edges.Registry, corners int, r, h, side float64, edgeChars string, opts PolygonOptions) error {
	if corners < 3 {
		return &model.ConfigError{Kind: "polygon corners", Value: fmt.Sprint(corners), Reason: "at least three required"}
	}
	r, h, side = turtle.RegularPolygon(corners, r, h, side)
	if side <= 0 {
		return &model.ConfigError{Kind: "polygon size", Value: "0", Reason: "one of radius, height or side required"}
	}
	ps, err := reg.Edges(edgeChars)
	if err != nil {
		return err
	}
	switch len(ps) {
	case 1:
		for len(ps) < corners {
			ps = append(ps, ps[0])
		}
	case corners:
	default:
		return &model.ConfigError{Kind: "edges", Value: edgeChars, Reason: fmt.Sprintf("need 1 or %d edges", corners)}
	}
	ps = append(ps, ps...)

	fc := float64(corners)
	slant := math.Sin(rad(90 - 180/fc))
	var th float64
	if corners%2 == 1 {
		th = r + h + ps[0].Spacing() + math.Max(ps[corners/2].Spacing(), ps[corners/2+1].Spacing())/slant
	} else {
		th = 2*h + ps[0].Spacing() + ps[corners/2].Spacing()
	}
	var tw float64
	for i := 0; i < corners; i++ {
		ang := (180 + 360*float64(i)) / fc
		reach := r + math.Max(ps[i].Spacing(), ps[i+1].Spacing())/slant
		tw = math.Max(tw, 2*math.Abs(math.Sin(rad(ang))*reach))
	}

	draw := func() error {
		if !opts.InPlace {
			t.MoveTo(0.5*tw-0.5*side, ps[0].Margin(), 0)
		}
		cy := h + ps[0].StartWidth() + t.Burn()
		if opts.Hole > 0 {
			t.Hole(side/2, cy, opts.Hole/2, 0)
		}
		if err := callAt(t, opts.Callback, 0, side/2, cy, 0); err != nil {
			return err
		}
		for i := 0; i < corners; i++ {
			if err := callAt(t, opts.Callback, i+1, 0, ps[i].StartWidth()+t.Burn(), 0); err != nil {
				return err
			}
			ps[i].Draw(side, nil)
			edges.EdgeCorner(t, ps[i], ps[i+1], 360/fc)
		}
		return nil
	}
	if opts.InPlace {
		defer t.Saved()()
		return draw()
	}
	return t.Place(tw, th, opts.Move, opts.Label, draw)
}
