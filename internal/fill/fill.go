// Package fill cuts patterns of holes into a polygonal region: regular
// lattices, slotted bars and a random packing. Regions may have holes of
// their own, which the pattern keeps clear of like the outer boundary.
package fill

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/piwi3910/BoxCut/internal/geom"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
	"gonum.org/v1/gonum/spatial/r2"
)

// maxMisses ends the random packing after that many rejected points in a row.
const maxMisses = 20

// Options configures one fill run.
type Options struct {
	Pattern   string
	Style     string
	MaxRadius float64
	MinRadius float64
	Spacing   float64 // between holes
	Border    float64 // between holes and the region boundary
	BarLength float64
	MaxRandom int

	// Rand drives the random pattern. Nil seeds from the clock.
	Rand *rand.Rand
}

// DefaultOptions matches the defaults of model.NewFillSettings.
func DefaultOptions() Options {
	return Options{
		Pattern:   string(model.PatternNone),
		Style:     string(model.StyleRound),
		MaxRadius: 3,
		MinRadius: 0.5,
		Spacing:   4,
		Border:    4,
		BarLength: 50,
		MaxRandom: 1000,
	}
}

// OptionsFrom reads the options from a fill settings group.
func OptionsFrom(s model.FillSettings) Options {
	return Options{
		Pattern:   string(s.Pattern()),
		Style:     string(s.HoleStyle()),
		MaxRadius: s.MaxRadius(),
		MinRadius: s.MinRadius(),
		Spacing:   s.SpaceBetweenHoles(),
		Border:    s.SpaceToBorder(),
		BarLength: s.BarLength(),
		MaxRandom: s.MaxRandom(),
	}
}

// Validate checks the pattern and style tokens and the numeric options.
func (o Options) Validate() error {
	if _, err := model.ParsePattern(o.Pattern); err != nil {
		return err
	}
	if _, err := model.ParseHoleStyle(o.Style); err != nil {
		return err
	}
	return o.checkValues()
}

func (o Options) checkValues() error {
	return model.CheckFillValues(o.MaxRadius, o.MinRadius, o.Spacing, o.Border, o.BarLength, o.MaxRandom)
}

// Hole is one placed hole, in region coordinates.
type Hole struct {
	Center r2.Vec
	Radius float64
}

// Bar is one slot: a stadium of the given radius around the segment from
// Start to End. Row counts the scan lines of the bar pattern from 0.
type Bar struct {
	Start, End r2.Vec
	Radius     float64
	Row        int
}

// Length is the distance between the two cap centers.
func (b Bar) Length() float64 { return r2.Norm(r2.Sub(b.End, b.Start)) }

// Result lists what a fill run cut.
type Result struct {
	Holes []Hole
	Bars  []Bar
}

type filler struct {
	t     *turtle.Turtle
	o     Options
	n     int
	a     float64
	shape geom.Shape
	min   r2.Vec
	max   r2.Vec
	res   Result
}

// Fill cuts the pattern selected by o into region. The region is given in
// the current turtle frame and is closed implicitly. Unknown pattern or
// style tokens fail before anything is drawn; a region too small for the
// pattern yields an empty result.
func Fill(t *turtle.Turtle, region model.Outline, o Options) (Result, error) {
	return FillRegion(t, region, nil, o)
}

// FillRegion is Fill for a region with holes. Every hole outline must lie
// inside region; the pattern keeps Border away from them. The holes
// themselves are not cut.
func FillRegion(t *turtle.Turtle, region model.Outline, holes []model.Outline, o Options) (Result, error) {
	pattern, err := model.ParsePattern(o.Pattern)
	if err != nil {
		return Result{}, err
	}
	style, err := model.ParseHoleStyle(o.Style)
	if err != nil {
		return Result{}, err
	}
	if err := o.checkValues(); err != nil {
		return Result{}, err
	}
	if pattern == model.PatternNone {
		return Result{}, nil
	}
	shape := geom.NewShape(region, holes...)
	if shape.Empty() {
		logging.Logger().Debug("fill region has no area", "points", len(shape.Outer))
		return Result{}, nil
	}

	defer t.Saved()()
	defer t.WithColor(t.Colors.InnerCut)()

	if t.Settings.Debug {
		if err := borders(t, shape); err != nil {
			return Result{}, err
		}
	}

	f := &filler{t: t, o: o, shape: shape}
	f.n, f.a = style.Polygon()
	f.min, f.max = shape.Bounds()

	switch pattern {
	case model.PatternRandom:
		f.random()
	case model.PatternHex, model.PatternSquare:
		f.lattice(pattern == model.PatternHex)
	case model.PatternHBar:
		f.hbar()
	case model.PatternVBar:
		if err := f.vbar(); err != nil {
			return Result{}, err
		}
	}
	logging.Logger().Debug("region filled", "pattern", pattern, "holes", len(f.res.Holes), "bars", len(f.res.Bars), "region_holes", len(shape.Holes))
	return f.res, nil
}

// borders draws every ring of s for inspection.
func borders(t *turtle.Turtle, s geom.Shape) error {
	for _, ring := range s.Rings() {
		if err := t.BorderPoly(ring); err != nil {
			return fmt.Errorf("fill debug outline: %w", err)
		}
	}
	return nil
}

// fitRadius returns the largest radius not above the configured maximum
// that lets a whole number of holes span extent exactly.
func (f *filler) fitRadius(extent float64) (float64, bool) {
	bs, hs, R := f.o.Border, f.o.Spacing, f.o.MaxRadius
	n := math.Ceil((extent - 2*bs + hs) / (2*R + hs))
	if n < 1 {
		return 0, false
	}
	return (extent - 2*bs - (n-1)*hs) / n / 2, true
}

// fitRadiusHex is fitRadius for rows stacked at the height of an
// equilateral triangle.
func (f *filler) fitRadiusHex(extent float64) (float64, bool) {
	bs, hs, R := f.o.Border, f.o.Spacing, f.o.MaxRadius
	n := math.Ceil((extent - 2*bs - 2*R) / (math.Sqrt(3) / 2 * (2*R + hs)))
	if n < 1 {
		return 0, false
	}
	return (extent - 2*bs - math.Sqrt(3)/2*n*hs) / (math.Sqrt(3)*n + 2), true
}

func (f *filler) hole(x, y, r float64) {
	f.t.RegularPolygonHole(x, y, r, f.n, f.a, 0)
	f.res.Holes = append(f.res.Holes, Hole{Center: r2.Vec{X: x, Y: y}, Radius: r})
}

func (f *filler) lattice(hex bool) {
	bs, hs := f.o.Border, f.o.Spacing
	rx, okx := f.fitRadius(f.max.X - f.min.X)
	ry, oky := f.fitRadius(f.max.Y - f.min.Y)
	if hex {
		ry, oky = f.fitRadiusHex(f.max.Y - f.min.Y)
	}
	if !okx || !oky {
		logging.Logger().Debug("fill region too small for a lattice")
		return
	}
	R := math.Min(rx, ry)
	if R <= 0 || f.max.Y-f.min.Y < 2*R+2*bs {
		return
	}

	pitch := 2*rx + hs
	rowPitch := 2*ry + hs - 1e-4
	if hex {
		rowPitch = math.Sqrt(3)/2*(2*ry+hs) - 1e-4
	}

	outer, inner := f.shape.Inset(bs), f.shape.Inset(bs+R)
	row := 0
	for y := f.min.Y + bs + ry; y < f.max.Y-bs-ry; y += rowPitch {
		xs := f.min.X + bs + rx
		if hex && row%2 == 1 {
			xs += rx + hs/2
		}
		full := inner.Intervals(y)
		for _, iv := range outer.Intervals(y) {
			xw := math.Ceil((iv.Lo-xs)/pitch)*pitch + xs
			for ; xw <= iv.Hi; xw += pitch {
				if within(full, xw) {
					f.hole(xw, y, R)
					continue
				}
				r := math.Min(f.shape.Distance(r2.Vec{X: xw, Y: y})-bs, R)
				if r >= f.o.MinRadius {
					f.hole(xw, y, r)
				}
			}
		}
		row++
	}
}

func within(ivs []geom.Interval, x float64) bool {
	for _, iv := range ivs {
		if iv.Contains(x) {
			return true
		}
	}
	return false
}

func (f *filler) random() {
	bs, hs, R, minR := f.o.Border, f.o.Spacing, f.o.MaxRadius, f.o.MinRadius
	rng := f.o.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	x0, x1 := f.min.X+bs, f.max.X-bs
	y0, y1 := f.min.Y+bs, f.max.Y-bs
	if x1 <= x0 || y1 <= y0 {
		return
	}

	cell := 2*R + hs
	grid := make(map[[2]int][]Hole)
	placed, misses := 0, 0
	for placed < f.o.MaxRandom && misses < maxMisses {
		misses++
		p := r2.Vec{X: x0 + rng.Float64()*(x1-x0), Y: y0 + rng.Float64()*(y1-y0)}
		if !f.shape.Contains(p) {
			continue
		}
		bdist := f.shape.Distance(p) - bs
		if bdist < minR {
			continue
		}
		key := [2]int{int(math.Floor(p.X / cell)), int(math.Floor(p.Y / cell))}
		hdist := nearest(grid, key, p, hs, R, minR)
		r := math.Min(bdist, hdist)
		if r < minR {
			continue
		}
		r = math.Min(r, R)
		grid[key] = append(grid[key], Hole{Center: p, Radius: r})
		f.hole(p.X, p.Y, r)
		placed++
		misses = 0
	}
}

// nearest returns the largest radius a hole at p may have without coming
// closer than hs to a hole in the surrounding grid cells, capped at R. It
// returns 0 as soon as the radius drops below minR.
func nearest(grid map[[2]int][]Hole, key [2]int, p r2.Vec, hs, R, minR float64) float64 {
	d := R
	for gx := -1; gx <= 1; gx++ {
		for gy := -1; gy <= 1; gy++ {
			for _, h := range grid[[2]int{key[0] + gx, key[1] + gy}] {
				d = math.Min(d, r2.Norm(r2.Sub(p, h.Center))-h.Radius-hs)
				if d < minR {
					return 0
				}
			}
		}
	}
	return d
}

func (f *filler) hbar() {
	bs, hs := f.o.Border, f.o.Spacing
	ry, ok := f.fitRadius(f.max.Y - f.min.Y)
	if !ok || ry <= 0 || f.max.Y-f.min.Y < 2*ry+2*bs {
		return
	}
	R := ry
	full := f.o.BarLength
	half := full / 2

	band := f.shape.Inset(bs + R)
	row := 0
	for y := f.min.Y + bs + R; y < f.max.Y-bs-R; y += 2*R + hs - 1e-4 {
		first := full
		if row%2 == 1 {
			first = half
		}
		for _, iv := range band.Intervals(y) {
			if iv.Len() <= first {
				f.bar(iv.Lo, iv.Hi, y, R, row)
				continue
			}
			target := first
			for x := iv.Lo; iv.Hi-x > 0; x += target + hs + 2*R {
				if x > iv.Lo {
					target = full
				}
				end := math.Min(x+target, iv.Hi)
				f.bar(x, end, y, R, row)
				if end == iv.Hi {
					break
				}
			}
		}
		row++
	}
}

// bar cuts a slot of radius R whose cap centers are (x0, y) and (x1, y).
func (f *filler) bar(x0, x1, y, R float64, row int) {
	t := f.t
	restore := t.Saved()
	t.MoveTo(x0, y+R-t.Burn(), 0)
	t.Edge(x1-x0, 0)
	t.Corner(-180, R, 0)
	t.Edge(x1-x0, 0)
	t.Corner(-180, R, 0)
	t.Stroke()
	restore()
	f.res.Bars = append(f.res.Bars, Bar{Start: r2.Vec{X: x0, Y: y}, End: r2.Vec{X: x1, Y: y}, Radius: R, Row: row})
}

// vbar mirrors the region across its diagonal, runs hbar in a frame rotated
// to match and maps the result back.
func (f *filler) vbar() error {
	min, max := f.min, f.max
	flip := func(v r2.Vec) r2.Vec { return r2.Vec{X: max.Y - v.Y + min.Y, Y: v.X} }
	back := func(v r2.Vec) r2.Vec { return r2.Vec{X: v.Y, Y: max.Y + min.Y - v.X} }

	f.shape = f.shape.Map(flip)
	f.min, f.max = f.shape.Bounds()

	restore := f.t.Saved()
	defer restore()
	f.t.MoveTo(0, f.max.X+f.min.X, -90)
	if f.t.Settings.Debug {
		if err := borders(f.t, f.shape); err != nil {
			return err
		}
	}
	f.hbar()

	for i, b := range f.res.Bars {
		f.res.Bars[i].Start, f.res.Bars[i].End = back(b.Start), back(b.End)
	}
	return nil
}
