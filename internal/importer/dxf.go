package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/BoxCut/internal/geom"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

const (
	// joinTolerance is the largest gap between two path ends that still
	// counts as connected, in drawing units.
	joinTolerance = 0.01
	// chordTolerance bounds the distance between an arc and the chords
	// that replace it.
	chordTolerance = 0.01
)

// ImportDXF reads the closed shapes of a DXF file as fill regions.
// LWPOLYLINE and CIRCLE entities close on their own; LINE, ARC and open
// LWPOLYLINE entities are joined end to end into closed chains. A shape
// inside another one becomes a hole of it, and a shape inside a hole
// starts a new region. Outlines come out counter-clockwise and holes
// clockwise, in drawing coordinates.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var rings []model.Outline
	var open []model.Outline
	skipped := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := lwPolylinePoints(e)
			if e.Closed {
				rings = append(rings, pts)
			} else {
				open = append(open, pts)
			}

		case *entity.Circle:
			pts := arcPoints(model.Point2D{X: e.Center[0], Y: e.Center[1]}, e.Radius, 0, 2*math.Pi)
			rings = append(rings, pts[:len(pts)-1])

		case *entity.Arc:
			start := e.Angle[0] * math.Pi / 180
			sweep := e.Angle[1]*math.Pi/180 - start
			for sweep <= 0 {
				sweep += 2 * math.Pi
			}
			open = append(open, arcPoints(model.Point2D{X: e.Center[0], Y: e.Center[1]}, e.Radius, start, sweep))

		case *entity.Line:
			open = append(open, model.Outline{
				{X: e.Start[0], Y: e.Start[1]},
				{X: e.End[0], Y: e.End[1]},
			})

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	chained, dangling := joinPaths(open, joinTolerance)
	if dangling > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d open paths", dangling))
	}
	rings = append(rings, chained...)

	var shapes []geom.Polygon
	for _, r := range rings {
		p := geom.FromOutline(r)
		if len(p) < minRegionPoints || p.Area() < 1e-9 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate shape with %d points", len(p)))
			continue
		}
		shapes = append(shapes, p)
	}
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	result.Regions = nestRegions(shapes)
	holes := 0
	for _, r := range result.Regions {
		holes += len(r.Holes)
	}
	min, max := result.Regions[0].Outline.BoundingBox()
	logging.Logger().Info("dxf regions imported", "path", path, "regions", len(result.Regions), "holes", holes,
		"largest_w", max.X-min.X, "largest_h", max.Y-min.Y)
	return result
}

// lwPolylinePoints flattens an LWPOLYLINE. A bulge on a vertex bends the
// segment to the next vertex into an arc; on a closed polyline the last
// vertex bends towards the first.
func lwPolylinePoints(lw *entity.LwPolyline) model.Outline {
	n := len(lw.Vertices)
	var out model.Outline
	for i, v := range lw.Vertices {
		p := model.Point2D{X: v[0], Y: v[1]}
		out = append(out, p)
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			continue
		}
		if i == n-1 && !lw.Closed {
			continue
		}
		next := lw.Vertices[(i+1)%n]
		arc := bulgePoints(p, model.Point2D{X: next[0], Y: next[1]}, lw.Bulges[i])
		out = append(out, arc[1:len(arc)-1]...)
	}
	return out
}

// bulgePoints flattens the arc from p1 to p2 with the given DXF bulge,
// the tangent of a quarter of the signed sweep. Positive bulges turn
// counter-clockwise. Both end points are included.
func bulgePoints(p1, p2 model.Point2D, bulge float64) model.Outline {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}
	sweep := 4 * math.Atan(bulge)
	r := chord / (2 * math.Abs(math.Sin(sweep/2)))
	// signed distance from the chord midpoint to the center, to the left
	d := chord / 2 / math.Tan(sweep/2)
	c := model.Point2D{
		X: (p1.X+p2.X)/2 - dy/chord*d,
		Y: (p1.Y+p2.Y)/2 + dx/chord*d,
	}
	pts := arcPoints(c, r, math.Atan2(p1.Y-c.Y, p1.X-c.X), sweep)
	pts[0], pts[len(pts)-1] = p1, p2
	return pts
}

// arcPoints flattens an arc around c starting at angle start (radians) and
// turning by sweep, counter-clockwise when positive. The chords stay
// within chordTolerance of the arc.
func arcPoints(c model.Point2D, r, start, sweep float64) model.Outline {
	step := math.Pi / 4
	if r > chordTolerance {
		step = math.Min(step, 2*math.Acos(1-chordTolerance/r))
	}
	n := int(math.Ceil(math.Abs(sweep) / step))
	n = max(n, 1)
	pts := make(model.Outline, n+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(n)
		pts[i] = model.Point2D{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// endKey buckets a path end on a grid of tolerance-sized cells.
type endKey struct{ x, y int64 }

func keyOf(p model.Point2D, tol float64) endKey {
	return endKey{int64(math.Floor(p.X / tol)), int64(math.Floor(p.Y / tol))}
}

// joinPaths connects open paths whose ends lie within tol of each other
// into closed rings. Paths that close on their own are rings too. It
// returns the rings and the number of paths left over in open chains.
func joinPaths(paths []model.Outline, tol float64) ([]model.Outline, int) {
	type end struct {
		path int
		last bool
	}
	index := map[endKey][]end{}
	var live []int
	for i, p := range paths {
		if len(p) < 2 {
			continue
		}
		live = append(live, i)
		index[keyOf(p[0], tol)] = append(index[keyOf(p[0], tol)], end{i, false})
		index[keyOf(p[len(p)-1], tol)] = append(index[keyOf(p[len(p)-1], tol)], end{i, true})
	}

	used := make([]bool, len(paths))
	// next finds an unused path with an end at q.
	next := func(q model.Point2D) (end, bool) {
		k := keyOf(q, tol)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, e := range index[endKey{k.x + dx, k.y + dy}] {
					if used[e.path] {
						continue
					}
					p := paths[e.path]
					at := p[0]
					if e.last {
						at = p[len(p)-1]
					}
					if near(at, q, tol) {
						return e, true
					}
				}
			}
		}
		return end{}, false
	}

	var rings []model.Outline
	dangling := 0
	for _, i := range live {
		if used[i] {
			continue
		}
		used[i] = true
		chain := append(model.Outline{}, paths[i]...)
		members := 1
		for !near(chain[0], chain[len(chain)-1], tol) || len(chain) < 3 {
			e, ok := next(chain[len(chain)-1])
			if !ok {
				break
			}
			used[e.path] = true
			members++
			p := paths[e.path]
			if e.last {
				for j := len(p) - 2; j >= 0; j-- {
					chain = append(chain, p[j])
				}
			} else {
				chain = append(chain, p[1:]...)
			}
		}
		if len(chain) > 3 && near(chain[0], chain[len(chain)-1], tol) {
			rings = append(rings, chain[:len(chain)-1])
			continue
		}
		dangling += members
	}
	return rings, dangling
}

func near(a, b model.Point2D, tol float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tol
}

// nestRegions sorts rings into regions by containment depth. Rings at an
// even depth are outlines; a ring at an odd depth is a hole of the ring
// directly around it. Regions are ordered by outline area, largest first.
func nestRegions(rings []geom.Polygon) []Region {
	sort.SliceStable(rings, func(i, j int) bool { return rings[i].Area() > rings[j].Area() })

	parent := make([]int, len(rings))
	depth := make([]int, len(rings))
	for i, r := range rings {
		parent[i] = -1
		// rings are sorted by area, so the last container found is the
		// innermost one
		for j := 0; j < i; j++ {
			if rings[j].Contains(r[0]) {
				parent[i] = j
			}
		}
		if parent[i] >= 0 {
			depth[i] = depth[parent[i]] + 1
		}
	}

	var regions []Region
	at := map[int]int{}
	for i, r := range rings {
		if depth[i]%2 == 0 {
			at[i] = len(regions)
			regions = append(regions, Region{
				Name:    fmt.Sprintf("DXF Region %d", len(regions)+1),
				Outline: r.Oriented(true).Outline(),
			})
			continue
		}
		reg := &regions[at[parent[i]]]
		reg.Holes = append(reg.Holes, r.Oriented(false).Outline())
	}
	return regions
}
