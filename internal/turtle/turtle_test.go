package turtle

import (
	"math"
	"slices"
	"testing"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestTurtle(burn, tabs float64) (*Turtle, *canvas.Context) {
	s := model.DefaultSettings()
	s.Burn = burn
	s.Tabs = tabs
	ctx := canvas.NewContext()
	return New(ctx, s, model.DefaultColorScheme()), ctx
}

// polylines flattens every path drawn in color c.
func polylines(d *canvas.Drawing, c model.Color) [][]r2.Vec {
	var out [][]r2.Vec
	for _, part := range d.Parts {
		for _, p := range part.Paths {
			if p.Color == c {
				out = append(out, p.Flatten(0.001)...)
			}
		}
	}
	return out
}

func extent(lines [][]r2.Vec) (min, max r2.Vec) {
	min = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, l := range lines {
		for _, p := range l {
			min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
			max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
		}
	}
	return min, max
}

func length(l []r2.Vec) float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += r2.Norm(r2.Sub(l[i], l[i-1]))
	}
	return total
}

func assertPose(t *testing.T, tu *Turtle, x, y, heading float64) {
	t.Helper()
	p := tu.Pose()
	assert.InDelta(t, x, p.X, 1e-6, "x")
	assert.InDelta(t, y, p.Y, 1e-6, "y")
	assert.InDelta(t, heading, p.Heading, 1e-6, "heading")
}

func TestHoleIsCompensatedForBurn(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	tu.Hole(50, 30, 5, 0)

	lines := polylines(ctx.Drawing(), tu.Colors.InnerCut)
	require.NotEmpty(t, lines)
	center := r2.Vec{X: 50, Y: 30}
	for _, l := range lines {
		for _, p := range l {
			assert.InDelta(t, 4.9, r2.Norm(r2.Sub(p, center)), 1e-3)
		}
	}
	assert.Equal(t, 0, ctx.Depth())
	assertPose(t, tu, 0, 0, 0)
}

func TestHoleSmallerThanKerfDoesNotPanic(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	assert.NotPanics(t, func() { tu.Hole(10, 10, 0.05, 0) })
	assert.Equal(t, 0, ctx.Depth())
}

func TestCornerZeroIsNoop(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	tu.Corner(0, 0, 0)
	assertPose(t, tu, 0, 0, 0)
	assert.Equal(t, 0, ctx.Drawing().PathCount())
}

func TestZeroTurnsAndClosedPolylinesKeepPose(t *testing.T) {
	tests := []struct {
		name string
		draw func(tu *Turtle)
	}{
		{"corner zero degrees radius 5", func(tu *Turtle) { tu.Corner(0, 5, 0) }},
		{"corner zero degrees radius below kerf", func(tu *Turtle) { tu.Corner(0, 0.05, 0) }},
		{"corner zero degrees with tabs", func(tu *Turtle) { tu.Corner(0, 5, 2) }},
		{"50 by 30 rectangle", func(tu *Turtle) { tu.Polyline(50, 90, 30, 90, 50, 90, 30, 90) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, _ := newTestTurtle(0.1, 0)
			tt.draw(tu)

			p := tu.Pose()
			assert.InDelta(t, 0.0, p.X, 1e-9)
			assert.InDelta(t, 0.0, p.Y, 1e-9)
			assert.InDelta(t, 0.0, math.Sin(p.Heading*math.Pi/180), 1e-9)
			assert.InDelta(t, 1.0, math.Cos(p.Heading*math.Pi/180), 1e-9)
		})
	}
}

func TestRectanglePolylineExtent(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	tu.Polyline(50, 90, 30, 90, 50, 90, 30, 90)

	min, max := extent(polylines(ctx.Drawing(), tu.Colors.OuterCut))
	assert.InDelta(t, -0.1, min.X, 1e-6)
	assert.InDelta(t, 0.0, min.Y, 1e-6)
	assert.InDelta(t, 50.1, max.X, 1e-6)
	assert.InDelta(t, 30.2, max.Y, 1e-6)
}

func TestPolylineSquareCloses(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	tu.Polyline(10, 90, 10, 90, 10, 90, 10, 90)

	p := tu.Pose()
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
	assert.InDelta(t, 0.0, math.Sin(p.Heading*math.Pi/180), 1e-9)

	min, max := extent(polylines(ctx.Drawing(), tu.Colors.OuterCut))
	assert.InDelta(t, -0.1, min.X, 1e-6)
	assert.InDelta(t, 0.0, min.Y, 1e-6)
	assert.InDelta(t, 10.1, max.X, 1e-6)
	assert.InDelta(t, 10.2, max.Y, 1e-6)
}

func TestEdgeTabsLeaveBridges(t *testing.T) {
	tu, ctx := newTestTurtle(0, 2)
	tu.Edge(60, 2)
	assertPose(t, tu, 60, 0, 0)

	lines := polylines(ctx.Drawing(), tu.Colors.OuterCut)
	require.Len(t, lines, 3)
	total := 0.0
	for _, l := range lines {
		total += length(l)
	}
	assert.InDelta(t, 56.0, total, 1e-9)
	assert.InDelta(t, 14.0, length(lines[0]), 1e-9)
	assert.InDelta(t, 28.0, length(lines[1]), 1e-9)
}

func TestEdgeShorterThanTabIsUncut(t *testing.T) {
	tu, ctx := newTestTurtle(0, 2)
	tu.Edge(1, 1)
	assertPose(t, tu, 1, 0, 0)
	assert.Equal(t, 0, ctx.Drawing().PathCount())
}

func TestCornerTabsEndLikePlainCorner(t *testing.T) {
	tu, ctx := newTestTurtle(0, 1)
	tu.Corner(90, 20, 1)
	assertPose(t, tu, 20, 20, 90)
	assert.Len(t, polylines(ctx.Drawing(), tu.Colors.OuterCut), 2)
}

func TestStep(t *testing.T) {
	tu, _ := newTestTurtle(0, 0)
	tu.Step(3)
	assertPose(t, tu, 0, -3, 0)
	tu.Step(-5)
	assertPose(t, tu, 0, 2, 0)
	tu.Step(0)
	assertPose(t, tu, 0, 2, 0)
}

func TestMoveArc(t *testing.T) {
	tu, _ := newTestTurtle(0, 0)
	tu.MoveArc(90, 10)
	assertPose(t, tu, 10, 10, 90)

	tu, _ = newTestTurtle(0, 0)
	tu.MoveArc(90, -10)
	assertPose(t, tu, 10, -10, -90)
}

func TestRectangularHoleExtent(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	tu.RectangularHole(10, 10, 6, 4, 0, true, true)

	min, max := extent(polylines(ctx.Drawing(), tu.Colors.InnerCut))
	assert.InDelta(t, 7.0, min.X, 1e-6)
	assert.InDelta(t, 8.0, min.Y, 1e-6)
	assert.InDelta(t, 13.0, max.X, 1e-6)
	assert.InDelta(t, 12.0, max.Y, 1e-6)

	tu, ctx = newTestTurtle(0, 0)
	tu.RectangularHole(10, 10, 6, 4, 1, false, false)
	min, max = extent(polylines(ctx.Drawing(), tu.Colors.InnerCut))
	assert.InDelta(t, 10.0, min.X, 1e-3)
	assert.InDelta(t, 10.0, min.Y, 1e-3)
	assert.InDelta(t, 16.0, max.X, 1e-3)
	assert.InDelta(t, 14.0, max.Y, 1e-3)
}

func TestRegularPolygonHoleVertices(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	tu.RegularPolygonHole(0, 0, 10, 4, 0, 0)

	lines := polylines(ctx.Drawing(), tu.Colors.InnerCut)
	require.NotEmpty(t, lines)
	min, max := extent(lines)
	assert.InDelta(t, -10.0, min.X, 1e-6)
	assert.InDelta(t, 10.0, max.X, 1e-6)
	assert.InDelta(t, -10.0, min.Y, 1e-6)
	assert.InDelta(t, 10.0, max.Y, 1e-6)
}

func TestDHoleFallsBackToRound(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	tu.DHole(0, 0, 5, 20, 0)
	for _, l := range polylines(ctx.Drawing(), tu.Colors.InnerCut) {
		for _, p := range l {
			assert.InDelta(t, 5.0, r2.Norm(p), 1e-3)
		}
	}
}

func TestDHoleFlatSide(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	tu.DHole(0, 0, 5, 0, 0)
	// default width is 7.5: the flat sits 2.5 from the center
	min, max := extent(polylines(ctx.Drawing(), tu.Colors.InnerCut))
	assert.InDelta(t, -5.0, min.X, 1e-3)
	assert.InDelta(t, 2.5, max.X, 1e-3)
}

func TestMountingHoleWithoutHeadIsRound(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	tu.MountingHole(0, 0, 4, 0, 0, 0)
	lines := polylines(ctx.Drawing(), tu.Colors.InnerCut)
	require.NotEmpty(t, lines)
	for _, l := range lines {
		for _, p := range l {
			assert.InDelta(t, 2.0, r2.Norm(p), 1e-3)
		}
	}

	tu, ctx = newTestTurtle(0.5, 0)
	tu.MountingHole(0, 0, 0.5, 4, 0, 0)
	assert.Equal(t, 0, ctx.Drawing().PathCount(), "shaft narrower than the kerf")
}

func TestRegularPolygonMeasures(t *testing.T) {
	r, h, side := RegularPolygon(6, 10, 0, 0)
	assert.InDelta(t, 10.0, r, 1e-9)
	assert.InDelta(t, 10.0, side, 1e-9)
	assert.InDelta(t, 5*math.Sqrt(3), h, 1e-9)

	r, _, _ = RegularPolygon(4, 0, 0, 2)
	assert.InDelta(t, math.Sqrt2, r, 1e-9)
}

func TestBedBoltHoleKeepsEdgeLength(t *testing.T) {
	tu, _ := newTestTurtle(0, 0)
	tu.BedBoltHole(40, model.DefaultBedBoltSettings(), 0)
	assertPose(t, tu, 40, 0, 0)
}

func TestPolygonHole(t *testing.T) {
	lShape := []r2.Vec{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 20}, {X: 0, Y: 20}}
	reversed := slices.Clone(lShape)
	slices.Reverse(reversed)

	tests := []struct {
		name   string
		burn   float64
		points []r2.Vec
	}{
		{"counter-clockwise input", 0, lShape},
		{"clockwise input", 0, reversed},
		{"with kerf", 0.1, lShape},
		{"repeated closing vertex", 0.1, append(slices.Clone(lShape), lShape[0])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, ctx := newTestTurtle(tt.burn, 0)
			tu.PolygonHole(tt.points)
			assert.Equal(t, 0, ctx.Depth())

			lines := polylines(ctx.Drawing(), tu.Colors.InnerCut)
			require.NotEmpty(t, lines)
			min, max := extent(lines)
			assert.InDelta(t, 0.0, min.X, 1e-6)
			assert.InDelta(t, 0.0, min.Y, 1e-6)
			assert.InDelta(t, 20.0, max.X, 1e-6)
			assert.InDelta(t, 20.0, max.Y, 1e-6)

			first, last := lines[0][0], lines[len(lines)-1][len(lines[len(lines)-1])-1]
			assert.InDelta(t, first.X, last.X, 1e-6, "cut closes")
			assert.InDelta(t, first.Y, last.Y, 1e-6, "cut closes")
			// the cut starts Burn inside the first clockwise edge
			assert.InDelta(t, 0.0, first.X, 1e-6)
			assert.InDelta(t, 20-tt.burn, first.Y, 1e-6)
		})
	}
}

func TestPolygonHoleSkipsDegenerateOutline(t *testing.T) {
	tu, ctx := newTestTurtle(0.1, 0)
	tu.PolygonHole([]r2.Vec{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 5, Y: 5}})
	assert.Empty(t, polylines(ctx.Drawing(), tu.Colors.InnerCut))
}

func TestBorderPolyNumbersVertices(t *testing.T) {
	tu, ctx := newTestTurtle(0, 0)
	require.NoError(t, tu.BorderPoly([]r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}))
	assert.Equal(t, 0, ctx.Depth())

	texts := ctx.Drawing().Parts[0].Texts
	require.Len(t, texts, 3)
	assert.Equal(t, "2", texts[2].Content)
	assert.InDelta(t, 10.0, texts[2].Pos.X, 1e-9)
	assert.Len(t, polylines(ctx.Drawing(), tu.Colors.Annotations), 1)

	require.NoError(t, tu.BorderPoly(nil))
}
