package fill

import (
	"math"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexHolesRectangle(t *testing.T) {
	tu, ctx := newTestTurtle()
	s := model.NewHexHolesSettings(3)

	holes := HexHolesRectangle(tu, 50, 50, s, nil)
	require.Len(t, holes, 14)
	for _, h := range holes {
		assert.InDelta(t, 5.0, h.Radius, 1e-9)
		assert.GreaterOrEqual(t, h.Center.X, h.Radius)
		assert.LessOrEqual(t, h.Center.X, 50-h.Radius)
		assert.GreaterOrEqual(t, h.Center.Y, h.Radius)
		assert.LessOrEqual(t, h.Center.Y, 50-h.Radius)
	}
	assert.Equal(t, 0, ctx.Depth())
}

func TestHexHolesCircleStaysInside(t *testing.T) {
	tu, _ := newTestTurtle()
	s := model.NewHexHolesSettings(3)

	all := HexHolesRectangle(tu, 80, 80, s, nil)
	holes := HexHolesCircle(tu, 80, s)
	require.NotEmpty(t, holes)
	assert.Less(t, len(holes), len(all))
	for _, h := range holes {
		assert.LessOrEqual(t, math.Hypot(h.Center.X-40, h.Center.Y-40), 40-h.Radius+1e-9)
	}
}

func TestHexHolesPlateDropsCorners(t *testing.T) {
	tu, _ := newTestTurtle()
	s := model.NewHexHolesSettings(3)

	all := HexHolesRectangle(tu, 80, 60, s, nil)
	holes := HexHolesPlate(tu, 80, 60, 20, s)
	assert.Less(t, len(holes), len(all))

	holes = HexHolesPlate(tu, 80, 60, 0, s)
	assert.Len(t, holes, len(all), "sharp corners keep every hole")
}

func TestHexHolesHex(t *testing.T) {
	tu, ctx := newTestTurtle()
	s := model.NewHexHolesSettings(3)

	holes := HexHolesHex(tu, 60, s)
	// a row of three with two rows of two above and below
	require.Len(t, holes, 7)
	assert.InDelta(t, 30.0-13, holes[0].Center.X, 1e-9)
	assert.InDelta(t, 30.0, holes[1].Center.X, 1e-9)
	assert.InDelta(t, 30.0, holes[1].Center.Y, 1e-9)
	assert.Equal(t, 0, ctx.Depth())

	assert.Empty(t, HexHolesHex(tu, 10, s))
}
