package edges

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
)

// BedBolts spreads a number of bed bolts over the fingers of an edge. The
// same value must be passed to both mating edges.
type BedBolts struct {
	Count    int
	Settings model.BedBoltSettings

	fingers int
}

// NewBedBolts returns a policy for n bolts with default bolt dimensions.
func NewBedBolts(n int) *BedBolts {
	return &BedBolts{Count: n, Settings: model.DefaultBedBoltSettings()}
}

// NumFingers adjusts a finger count so the bolts can sit symmetrically:
// an odd number of bolts needs an even finger count and vice versa.
func (b *BedBolts) NumFingers(n int) int {
	if b.Count%2 == 1 {
		b.fingers = n / 2 * 2
	} else if n%2 == 0 {
		b.fingers = n - 1
	} else {
		b.fingers = n
	}
	return b.fingers
}

// DrawBolt reports whether the space before finger pos takes a bolt.
// NumFingers must have been called first.
func (b *BedBolts) DrawBolt(pos int) bool {
	if b.fingers <= 0 {
		return false
	}
	half := b.fingers / 2
	if pos > half {
		pos = b.fingers - pos
	}
	if pos == 0 {
		return false
	}
	if pos == half && b.Count%2 == 0 {
		return false
	}
	step := float64(b.Count+1) / float64(b.fingers)
	return math.Floor(float64(pos)*step-0.01) != math.Floor(float64(pos+1)*step-0.01)
}

// Straight is the plain edge 'e'. With bed bolts it cuts evenly spaced
// T-slots.
type Straight struct {
	t *turtle.Turtle
}

func NewStraight(t *turtle.Turtle) *Straight { return &Straight{t: t} }

func (s *Straight) Char() rune          { return 'e' }
func (s *Straight) Description() string { return "Straight Edge" }
func (s *Straight) StartWidth() float64 { return 0 }
func (s *Straight) EndWidth() float64   { return 0 }
func (s *Straight) Margin() float64     { return 0 }
func (s *Straight) Spacing() float64    { return 0 }

func (s *Straight) Draw(length float64, bolts *BedBolts) {
	drawStraight(s.t, length, bolts)
}

func drawStraight(t *turtle.Turtle, length float64, bolts *BedBolts) {
	if bolts == nil || bolts.Count <= 0 {
		t.Edge(length, 2)
		return
	}
	interval := length / float64(bolts.Count)
	for i := 0; i < bolts.Count; i++ {
		tabs := 0
		if i == 0 || i == bolts.Count-1 {
			tabs = 1
		}
		t.BedBoltHole(interval, bolts.Settings, tabs)
	}
}

// OutSet is the straight edge 'E' moved outward by a fixed width, the
// material thickness unless set.
type OutSet struct {
	t     *turtle.Turtle
	width float64
}

// NewOutSet returns an outset edge. width <= 0 uses the material thickness.
func NewOutSet(t *turtle.Turtle, width float64) *OutSet {
	return &OutSet{t: t, width: width}
}

func (o *OutSet) Char() rune          { return 'E' }
func (o *OutSet) Description() string { return "Straight Edge (outset by thickness)" }

func (o *OutSet) StartWidth() float64 {
	if o.width > 0 {
		return o.width
	}
	return o.t.Thickness()
}

func (o *OutSet) EndWidth() float64 { return o.StartWidth() }
func (o *OutSet) Margin() float64   { return 0 }
func (o *OutSet) Spacing() float64  { return o.StartWidth() }

func (o *OutSet) Draw(length float64, bolts *BedBolts) {
	drawStraight(o.t, length, bolts)
}
