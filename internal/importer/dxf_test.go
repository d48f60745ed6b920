package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/export"
	"github.com/piwi3910/BoxCut/internal/geom"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

func saveDXF(t *testing.T, d *drawing.Drawing) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.dxf")
	require.NoError(t, d.SaveAs(path))
	return path
}

func TestImportDXFShapes(t *testing.T) {
	d := dxf.NewDrawing()
	_, err := d.LwPolyline(true, []float64{10, 10}, []float64{50, 10}, []float64{50, 40}, []float64{10, 40})
	require.NoError(t, err)
	_, err = d.Circle(100, 100, 0, 5)
	require.NoError(t, err)
	// a triangle from loose lines, given in scrambled order
	_, err = d.Line(0, 0, 0, 20, 0, 0)
	require.NoError(t, err)
	_, err = d.Line(10, 15, 0, 0, 0, 0)
	require.NoError(t, err)
	_, err = d.Line(20, 0, 0, 10, 15, 0)
	require.NoError(t, err)
	path := saveDXF(t, d)

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Regions, 3)

	rect := result.Regions[0]
	assert.Equal(t, "DXF Region 1", rect.Name)
	require.Len(t, rect.Outline, 4)
	min, _ := rect.Outline.BoundingBox()
	assert.Equal(t, model.Point2D{X: 10, Y: 10}, min, "drawing coordinates are kept")
	assert.InDelta(t, 1200.0, rect.Outline.Area(), 1e-9)
	assert.Empty(t, rect.Holes)

	tri := result.Regions[1]
	assert.Len(t, tri.Outline, 3)
	assert.InDelta(t, 150.0, tri.Outline.Area(), 1e-9)

	circle := result.Regions[2]
	assert.InDelta(t, math.Pi*25, circle.Outline.Area(), 0.5)
	for _, p := range circle.Outline {
		assert.InDelta(t, 5.0, math.Hypot(p.X-100, p.Y-100), 1e-9)
	}

	for _, r := range result.Regions {
		assert.Greater(t, geom.FromOutline(r.Outline).SignedArea(), 0.0, "%s runs counter-clockwise", r.Name)
	}
}

func TestImportDXFNestsHoles(t *testing.T) {
	d := dxf.NewDrawing()
	var err error
	// clockwise outer square
	_, err = d.LwPolyline(true, []float64{0, 0}, []float64{0, 100}, []float64{100, 100}, []float64{100, 0})
	require.NoError(t, err)
	_, err = d.Circle(30, 50, 0, 10)
	require.NoError(t, err)
	// a square window from lines
	_, err = d.Line(60, 40, 0, 80, 40, 0)
	require.NoError(t, err)
	_, err = d.Line(80, 40, 0, 80, 60, 0)
	require.NoError(t, err)
	_, err = d.Line(60, 60, 0, 80, 60, 0)
	require.NoError(t, err)
	_, err = d.Line(60, 40, 0, 60, 60, 0)
	require.NoError(t, err)
	// an island inside the window
	_, err = d.LwPolyline(true, []float64{65, 45}, []float64{75, 45}, []float64{75, 55}, []float64{65, 55})
	require.NoError(t, err)
	path := saveDXF(t, d)

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Regions, 2)

	frame := result.Regions[0]
	assert.InDelta(t, 10000.0, frame.Outline.Area(), 1e-9)
	assert.Greater(t, geom.FromOutline(frame.Outline).SignedArea(), 0.0)
	require.Len(t, frame.Holes, 2)
	assert.InDelta(t, 400.0, frame.Holes[0].Area(), 1e-9, "larger hole first")
	assert.InDelta(t, math.Pi*100, frame.Holes[1].Area(), 1)
	for _, h := range frame.Holes {
		assert.Less(t, geom.FromOutline(h).SignedArea(), 0.0, "holes run clockwise")
	}

	island := result.Regions[1]
	assert.Equal(t, "DXF Region 2", island.Name)
	assert.InDelta(t, 100.0, island.Outline.Area(), 1e-9)
	assert.Empty(t, island.Holes)
}

func TestImportDXFJoinsArcsAndLines(t *testing.T) {
	// a 20x10 slot with round ends
	d := dxf.NewDrawing()
	_, err := d.Line(0, 0, 0, 20, 0, 0)
	require.NoError(t, err)
	_, err = d.Arc(20, 5, 0, 5, 270, 90)
	require.NoError(t, err)
	_, err = d.Line(20, 10, 0, 0, 10, 0)
	require.NoError(t, err)
	_, err = d.Arc(0, 5, 0, 5, 90, 270)
	require.NoError(t, err)
	_, err = d.Line(200, 0, 0, 210, 0, 0)
	require.NoError(t, err)
	path := saveDXF(t, d)

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Regions, 1)
	slot := result.Regions[0].Outline
	assert.InDelta(t, 200+math.Pi*25, slot.Area(), 0.5)
	min, max := slot.BoundingBox()
	assert.InDelta(t, -5.0, min.X, chordTolerance)
	assert.InDelta(t, 25.0, max.X, chordTolerance)
	assert.Contains(t, result.Warnings, "Skipped 1 open paths")
}

func TestJoinPaths(t *testing.T) {
	tests := []struct {
		name     string
		paths    []model.Outline
		rings    int
		points   int
		dangling int
	}{
		{
			name: "reversed segments",
			paths: []model.Outline{
				{{X: 0, Y: 0}, {X: 10, Y: 0}},
				{{X: 10, Y: 10}, {X: 10, Y: 0}},
				{{X: 10, Y: 10}, {X: 0, Y: 10}},
				{{X: 0, Y: 0}, {X: 0, Y: 10}},
			},
			rings: 1, points: 4,
		},
		{
			name: "gap within tolerance",
			paths: []model.Outline{
				{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
				{{X: 10.004, Y: 10.003}, {X: 0, Y: 10}, {X: 0.002, Y: 0.001}},
			},
			rings: 1, points: 4,
		},
		{
			name:  "self closing polyline",
			paths: []model.Outline{{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 0}}},
			rings: 1, points: 3,
		},
		{
			name: "open chain",
			paths: []model.Outline{
				{{X: 0, Y: 0}, {X: 10, Y: 0}},
				{{X: 10, Y: 0}, {X: 10, Y: 10}},
			},
			dangling: 2,
		},
		{
			name: "gap too wide",
			paths: []model.Outline{
				{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
				{{X: 10.5, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}},
			},
			dangling: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rings, dangling := joinPaths(tt.paths, joinTolerance)
			require.Len(t, rings, tt.rings)
			assert.Equal(t, tt.dangling, dangling)
			for _, r := range rings {
				assert.Len(t, r, tt.points)
			}
		})
	}
}

func TestImportDXFRoundTrip(t *testing.T) {
	ctx := canvas.NewContext()
	ctx.Rectangle(5, 5, 40, 20)
	ctx.Stroke()
	ctx.MoveTo(60, 0)
	ctx.Arc(60, 0, 10, 0, math.Pi)
	ctx.ClosePath()
	ctx.Stroke()

	path := filepath.Join(t.TempDir(), "drawing.dxf")
	require.NoError(t, export.WriteDXF(path, export.Job{
		Drawing: ctx.Drawing(),
		Colors:  model.DefaultColorScheme(),
	}))

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Regions, 2)
	assert.InDelta(t, 800.0, result.Regions[0].Outline.Area(), 1e-6)
	// the flattened half disc stays within tolerance of the true area
	assert.InDelta(t, math.Pi*50, result.Regions[1].Outline.Area(), 0.5)
}

func TestImportDXFErrors(t *testing.T) {
	result := ImportDXF("/nonexistent/file.dxf")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open DXF file")

	d := dxf.NewDrawing()
	_, err := d.Line(0, 0, 0, 10, 0, 0)
	require.NoError(t, err)
	path := saveDXF(t, d)
	result = ImportDXF(path)
	assert.Equal(t, []string{"No closed shapes found in DXF file"}, result.Errors)
}

func TestBulgePoints(t *testing.T) {
	tests := []struct {
		name   string
		bulge  float64
		center model.Point2D
		mid    model.Point2D
	}{
		// quarter circles from (1,0) to (0,1)
		{"counter-clockwise", math.Tan(math.Pi / 8), model.Point2D{}, model.Point2D{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}},
		{"clockwise three quarters", -math.Tan(3 * math.Pi / 8), model.Point2D{}, model.Point2D{X: -math.Sqrt2 / 2, Y: -math.Sqrt2 / 2}},
		{"half circle", 1, model.Point2D{X: 0.5, Y: 0.5}, model.Point2D{X: 1, Y: 1}},
	}
	p1, p2 := model.Point2D{X: 1, Y: 0}, model.Point2D{X: 0, Y: 1}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := bulgePoints(p1, p2, tt.bulge)
			require.GreaterOrEqual(t, len(pts), 3)
			assert.Equal(t, p1, pts[0])
			assert.Equal(t, p2, pts[len(pts)-1])
			r := math.Hypot(p1.X-tt.center.X, p1.Y-tt.center.Y)
			closest := math.Inf(1)
			for _, p := range pts {
				assert.InDelta(t, r, math.Hypot(p.X-tt.center.X, p.Y-tt.center.Y), 1e-9)
				closest = math.Min(closest, math.Hypot(p.X-tt.mid.X, p.Y-tt.mid.Y))
			}
			// the arc passes through mid, up to the chord spacing
			assert.Less(t, closest, 0.2)
		})
	}
}

func TestArcPointsKeepChordTolerance(t *testing.T) {
	for _, r := range []float64{0.005, 1, 50, 1000} {
		pts := arcPoints(model.Point2D{}, r, 0, math.Pi)
		require.GreaterOrEqual(t, len(pts), 2)
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
			assert.LessOrEqual(t, r-math.Hypot(mx, my), chordTolerance+1e-12, "radius %v", r)
		}
	}
}
