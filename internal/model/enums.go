package model

// Pattern selects how a fill region is tiled.
type Pattern string

const (
	PatternNone   Pattern = "none"
	PatternRandom Pattern = "random"
	PatternHex    Pattern = "hex"
	PatternSquare Pattern = "square"
	PatternHBar   Pattern = "hbar"
	PatternVBar   Pattern = "vbar"
)

// ParsePattern validates a fill pattern token. "no fill" is accepted as an
// alias of none.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case PatternNone, PatternRandom, PatternHex, PatternSquare, PatternHBar, PatternVBar:
		return p, nil
	}
	if s == "no fill" {
		return PatternNone, nil
	}
	return "", NewConfigError("fill pattern", s)
}

// HoleStyle selects the outline of each fill hole.
type HoleStyle string

const (
	StyleRound    HoleStyle = "round"
	StyleTriangle HoleStyle = "triangle"
	StyleSquare   HoleStyle = "square"
	StyleHexagon  HoleStyle = "hexagon"
	StyleOctagon  HoleStyle = "octagon"
)

// ParseHoleStyle validates a hole style token.
func ParseHoleStyle(s string) (HoleStyle, error) {
	switch h := HoleStyle(s); h {
	case StyleRound, StyleTriangle, StyleSquare, StyleHexagon, StyleOctagon:
		return h, nil
	}
	return "", NewConfigError("hole style", s)
}

// Polygon returns the corner count and rotation in degrees used to draw the
// style as a regular polygon. Zero corners means a true circle.
func (h HoleStyle) Polygon() (n int, angle float64) {
	switch h {
	case StyleTriangle:
		return 3, 60
	case StyleSquare:
		return 4, 0
	case StyleHexagon:
		return 6, 30
	case StyleOctagon:
		return 8, 22.5
	default:
		return 0, 0
	}
}
