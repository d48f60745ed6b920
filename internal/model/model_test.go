package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutlineBoundingBoxAndArea(t *testing.T) {
	o := Outline{{1, 2}, {11, 2}, {11, 7}, {1, 7}}
	min, max := o.BoundingBox()

	assert.Equal(t, Point2D{1, 2}, min)
	assert.Equal(t, Point2D{11, 7}, max)
	assert.InDelta(t, 50.0, o.Area(), 1e-9)
	moved := o.Map(func(p Point2D) Point2D { return Point2D{X: p.X - 1, Y: p.Y - 2} })
	assert.InDelta(t, 50.0, moved.Area(), 1e-9)
	assert.Equal(t, Point2D{X: 0, Y: 0}, moved[0])
}

func TestOutlineUnclosed(t *testing.T) {
	o := Outline{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	assert.Len(t, o.Unclosed(), 3)
	assert.Len(t, Rect(2, 3), 4)
}

func TestNewFootprint(t *testing.T) {
	f := NewFootprint("side", 1, 2, 30, 40, "right")
	assert.Len(t, f.ID, 8)
	assert.InDelta(t, 1200.0, f.Area(), 1e-9)
	assert.NotEqual(t, f.ID, NewFootprint("side", 1, 2, 30, 40, "right").ID)
}

func TestSettingsSpacingAndValidate(t *testing.T) {
	s := DefaultSettings()
	assert.InDelta(t, 2*0.1+1.5, s.Spacing(), 1e-9)
	assert.NoError(t, s.Validate())

	s.Burn = -1
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)

	s = DefaultSettings()
	s.Format = "eps"
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfig)
}

func TestColorScheme(t *testing.T) {
	cs := DefaultColorScheme()
	assert.Equal(t, "#ff0000", cs.OuterCut.Hex())

	role, ok := cs.RoleOf(Blue)
	assert.True(t, ok)
	assert.Equal(t, RoleInnerCut, role)
	assert.Equal(t, "inner_cut", role.String())

	_, ok = cs.RoleOf(Color{0.3, 0.3, 0.3})
	assert.False(t, ok)

	_, err := ColorSchemeByName("neon")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
