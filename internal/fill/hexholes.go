package fill

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
	"gonum.org/v1/gonum/spatial/r2"
)

// SkipFunc decides whether the hole at (px, py) of an x by y hex grid with
// hole radius r and distance b is left out.
type SkipFunc func(x, y, r, b, px, py float64) bool

// HexHolesRectangle fills an x by y rectangle with round holes on a
// hexagonal grid. The grid is centered; skip may drop single holes.
func HexHolesRectangle(t *turtle.Turtle, x, y float64, s model.HexHolesSettings, skip SkipFunc) []Hole {
	r, b := s.Diameter()/2, s.Distance()
	w := r + b/2
	dist := w * math.Cos(math.Pi/6)

	cx := int(math.Floor((x-2*r)/w)) + 2
	cy := int(math.Floor((y-2*r)/dist)) + 2
	lx := (x - (2*r + float64(cx-2)*w)) / 2
	ly := (y - (2*r + float64(cy/2*2)*dist - 2*dist)) / 2

	var holes []Hole
	for i := 0; i < cy/2; i++ {
		for j := 0; j < (cx-i%2)/2; j++ {
			px := 2*float64(j)*w + r + lx
			py := float64(i)*2*dist + r + ly
			if i%2 == 1 {
				px += w
			}
			if skip != nil && skip(x, y, r, b, px, py) {
				continue
			}
			t.Hole(px, py, r, 0)
			holes = append(holes, Hole{Center: r2.Vec{X: px, Y: py}, Radius: r})
		}
	}
	return holes
}

// HexHolesCircle fills a circle of diameter d, with its bounding square at
// the origin.
func HexHolesCircle(t *turtle.Turtle, d float64, s model.HexHolesSettings) []Hole {
	return HexHolesRectangle(t, d, d, s, skipCircle)
}

func skipCircle(x, y, r, _, px, py float64) bool {
	cx, cy := x/2, y/2
	return math.Hypot(px-cx, py-cy) > cx-r
}

// HexHolesPlate fills an x by y plate whose corners are rounded to rc.
func HexHolesPlate(t *turtle.Turtle, x, y, rc float64, s model.HexHolesSettings) []Hole {
	skip := func(x, y, r, _, px, py float64) bool {
		px = math.Abs(px - x/2)
		py = math.Abs(py - y/2)
		wx := x/2 - rc - r
		wy := y/2 - rc - r
		if px <= wx || py <= wy {
			return false
		}
		return math.Hypot(px-wx, py-wy) > rc
	}
	return HexHolesRectangle(t, x, y, s, skip)
}

// HexHolesHex fills a hexagon of height h, with its bounding square at the
// origin, with rows of holes shortening towards the top and bottom.
func HexHolesHex(t *turtle.Turtle, h float64, s model.HexHolesSettings) []Hole {
	r, b := s.Diameter()/2, s.Distance()
	w := r + b/2
	dist := w * math.Cos(math.Pi/6)
	cy := 2*int(math.Floor((h-4*dist)/(4*w))) + 1
	if cy < 1 {
		return nil
	}

	defer t.Saved()()
	ox := h/2 - float64(cy/2)*2*w
	oy := h / 2
	t.MoveTo(ox, oy, 0)

	var holes []Hole
	hole := func(x, y float64) {
		t.Hole(x, y, r, 0)
		holes = append(holes, Hole{Center: r2.Vec{X: ox + x, Y: oy + y}, Radius: r})
	}
	for j := 0; j < cy; j++ {
		hole(2*float64(j)*w, 0)
	}
	for i := 1; i <= cy/2; i++ {
		for j := 0; j < cy-i; j++ {
			x := float64(j)*2*w + float64(i)*w
			hole(x, float64(i)*2*dist)
			hole(x, -float64(i)*2*dist)
		}
	}
	return holes
}
