package model

import "fmt"

// Color is an RGB color with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var (
	Black   = Color{0, 0, 0}
	White   = Color{1, 1, 1}
	Red     = Color{1, 0, 0}
	Green   = Color{0, 1, 0}
	Blue    = Color{0, 0, 1}
	Cyan    = Color{0, 1, 1}
	Magenta = Color{1, 0, 1}
)

// RGB8 returns the color scaled to 0..255.
func (c Color) RGB8() (r, g, b int) {
	return to8(c.R), to8(c.G), to8(c.B)
}

// Hex returns the color as a #rrggbb string.
func (c Color) Hex() string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func to8(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}

// ColorRole names what a stroke is for. Backends map roles to layers.
type ColorRole int

const (
	RoleOuterCut    ColorRole = iota // Part outlines
	RoleInnerCut                     // Holes and slots
	RoleAnnotations                  // Labels, debug rectangles; never cut
	RoleEtching                      // Surface engraving
	RoleEtchingDeep                  // Deep engraving
)

var roleNames = [...]string{"outer_cut", "inner_cut", "annotations", "etching", "etching_deep"}

func (r ColorRole) String() string {
	if int(r) < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// Roles lists all roles in declaration order.
func Roles() []ColorRole {
	return []ColorRole{RoleOuterCut, RoleInnerCut, RoleAnnotations, RoleEtching, RoleEtchingDeep}
}

// ColorScheme assigns a color to each role. It is passed to the drawing
// session explicitly; there are no global color constants beyond the
// default theme.
type ColorScheme struct {
	OuterCut    Color `json:"outer_cut"`
	InnerCut    Color `json:"inner_cut"`
	Annotations Color `json:"annotations"`
	Etching     Color `json:"etching"`
	EtchingDeep Color `json:"etching_deep"`
}

// DefaultColorScheme returns the standard laser-cutter color convention.
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		OuterCut:    Red,
		InnerCut:    Blue,
		Annotations: Black,
		Etching:     Green,
		EtchingDeep: Cyan,
	}
}

// MonochromeColorScheme cuts everything in black and etches in gray, for
// cutters that ignore stroke colors.
func MonochromeColorScheme() ColorScheme {
	gray := Color{0.5, 0.5, 0.5}
	return ColorScheme{
		OuterCut:    Black,
		InnerCut:    Black,
		Annotations: gray,
		Etching:     gray,
		EtchingDeep: gray,
	}
}

// ColorSchemeByName resolves a theme name.
func ColorSchemeByName(name string) (ColorScheme, error) {
	switch name {
	case "", "default":
		return DefaultColorScheme(), nil
	case "mono", "monochrome":
		return MonochromeColorScheme(), nil
	}
	return ColorScheme{}, NewConfigError("color scheme", name)
}

// Color returns the color assigned to a role.
func (s ColorScheme) Color(r ColorRole) Color {
	switch r {
	case RoleInnerCut:
		return s.InnerCut
	case RoleAnnotations:
		return s.Annotations
	case RoleEtching:
		return s.Etching
	case RoleEtchingDeep:
		return s.EtchingDeep
	default:
		return s.OuterCut
	}
}

// RoleOf finds the first role using c. Unknown colors report false.
func (s ColorScheme) RoleOf(c Color) (ColorRole, bool) {
	for _, r := range Roles() {
		if s.Color(r) == c {
			return r, true
		}
	}
	return RoleOuterCut, false
}
