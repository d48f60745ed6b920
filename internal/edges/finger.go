package edges

import (
	"math"

	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
)

// CalcFingers returns how many fingers fit into length and the length
// left over, split evenly at both ends of the edge.
func CalcFingers(s model.FingerJointSettings, length float64, bolts *BedBolts) (int, float64) {
	space, finger := s.Space(), s.Finger()
	fingers := int(math.Floor((length - (s.SurroundingSpaces()-1)*space) / (space + finger)))
	if fingers == 0 && length > finger+s.Thickness() {
		fingers = 1
	}
	if finger == 0 {
		fingers = 0
	}
	if bolts != nil && bolts.Count > 0 {
		fingers = bolts.NumFingers(fingers)
	}
	if fingers <= 0 {
		return 0, length
	}
	return fingers, length - float64(fingers)*(space+finger) + space
}

// fingerLength returns the finger depth and the recess of the spaces for
// the joint angle. Right angles and beyond use the plain thickness.
func fingerLength(s model.FingerJointSettings) (float64, float64) {
	t, angle := s.Thickness(), s.Angle()
	switch {
	case angle >= 90 || angle <= -90:
		return t + s.ExtraLength(), 0
	case angle < 0:
		return math.Sin(-angle*math.Pi/180)*t + s.ExtraLength(), 0
	}
	a := 90 - (180-angle)/2
	length := t * math.Tan(a*math.Pi/180)
	b := 90 - 2*a
	recess := -math.Sin(b*math.Pi/180) * length
	return length + s.ExtraLength(), recess
}

// FingerJoint is the finger joint edge. The positive variant 'f' has
// fingers sticking out of the panel; the counterpart 'F' has the matching
// notches and reaches one finger depth further out.
type FingerJoint struct {
	t        *turtle.Turtle
	Settings model.FingerJointSettings
	positive bool
}

func NewFingerJoint(t *turtle.Turtle, s model.FingerJointSettings) *FingerJoint {
	return &FingerJoint{t: t, Settings: s, positive: true}
}

func NewFingerJointCounterpart(t *turtle.Turtle, s model.FingerJointSettings) *FingerJoint {
	return &FingerJoint{t: t, Settings: s, positive: false}
}

func (f *FingerJoint) Char() rune {
	if f.positive {
		return 'f'
	}
	return 'F'
}

func (f *FingerJoint) Description() string {
	if f.positive {
		return "Finger Joint"
	}
	return "Finger Joint (opposing side)"
}

func (f *FingerJoint) StartWidth() float64 {
	if f.positive {
		return 0
	}
	l, _ := fingerLength(f.Settings)
	return l
}

func (f *FingerJoint) EndWidth() float64 { return f.StartWidth() }

func (f *FingerJoint) Margin() float64 {
	if !f.positive {
		return 0
	}
	l1, l2 := fingerLength(f.Settings)
	return l1 - l2
}

func (f *FingerJoint) Spacing() float64 { return f.StartWidth() + f.Margin() }

func (f *FingerJoint) Draw(length float64, bolts *BedBolts) {
	t := f.t
	space, finger := f.Settings.Space(), f.Settings.Finger()
	fingers, leftover := CalcFingers(f.Settings, length, bolts)
	if fingers == 0 {
		logging.Logger().Debug("edge too short for fingers", "length", length)
	}
	if !f.positive {
		play := f.Settings.Play()
		finger += play
		space -= play
		leftover -= play
	}
	l1, l2 := fingerLength(f.Settings)
	h := l1 - l2
	d := model.DefaultBedBoltSettings().D
	if bolts != nil {
		d = bolts.Settings.D
	}

	t.Edge(leftover/2, 1)
	for i := 0; i < fingers; i++ {
		if i != 0 {
			bolt := bolts != nil && bolts.Count > 0 && bolts.DrawBolt(i)
			switch {
			case bolt && f.positive:
				t.BedBoltHole(space, bolts.Settings, 0)
			case bolt:
				t.Hole(0.5*space, 0.5*f.Settings.Thickness(), 0.5*d, 0)
				t.Edge(space, 0)
			default:
				t.Edge(space, 0)
			}
		}
		if f.positive {
			t.Polyline(0, -90, h, 90, finger, 90, h, -90)
		} else {
			t.Polyline(0, 90, h, -90, finger, -90, h, 90)
		}
	}
	t.Edge(leftover/2, 1)
}

// FingerHoles cuts the slots a finger joint edge plugs into, on a panel
// the mating panel meets away from its border.
type FingerHoles struct {
	t        *turtle.Turtle
	Settings model.FingerJointSettings
}

func NewFingerHoles(t *turtle.Turtle, s model.FingerJointSettings) *FingerHoles {
	return &FingerHoles{t: t, Settings: s}
}

// Draw cuts the slots for an edge of the given length starting at (x, y)
// and running in direction angle. The slots are centered on that line.
func (h *FingerHoles) Draw(x, y, length, angle float64, bolts *BedBolts) {
	t := h.t
	defer t.Saved()()
	t.MoveTo(x, y, angle)
	s, f, p := h.Settings.Space(), h.Settings.Finger(), h.Settings.Play()
	b := t.Burn()
	width := h.Settings.Width()
	fingers, leftover := CalcFingers(h.Settings, length, bolts)
	if t.Settings.Debug {
		done := t.WithColor(t.Colors.Annotations)
		t.Canvas().Rectangle(0, -width/2+b, length, width-2*b)
		done()
	}
	d := model.DefaultBedBoltSettings().D
	if bolts != nil {
		d = bolts.Settings.D
	}
	for i := 0; i < fingers; i++ {
		pos := leftover/2 + float64(i)*(s+f)
		if bolts != nil && bolts.Count > 0 && bolts.DrawBolt(i) {
			t.Hole(pos-0.5*s, 0, d*0.5, 0)
		}
		t.RectangularHole(pos+0.5*f, 0, f+p, width+p, 0, true, true)
	}
}

// FingerHoleEdge is the straight edge 'h' with a row of finger holes
// parallel to it, for a panel that a finger jointed wall stands on.
type FingerHoleEdge struct {
	t     *turtle.Turtle
	holes *FingerHoles
}

func NewFingerHoleEdge(t *turtle.Turtle, holes *FingerHoles) *FingerHoleEdge {
	return &FingerHoleEdge{t: t, holes: holes}
}

func (e *FingerHoleEdge) Char() rune          { return 'h' }
func (e *FingerHoleEdge) Description() string { return "Edge (parallel Finger Joint Holes)" }

func (e *FingerHoleEdge) StartWidth() float64 {
	return e.holes.Settings.EdgeWidth() + e.holes.Settings.Thickness()
}

func (e *FingerHoleEdge) EndWidth() float64 { return e.StartWidth() }
func (e *FingerHoleEdge) Margin() float64   { return 0 }
func (e *FingerHoleEdge) Spacing() float64  { return e.StartWidth() }

func (e *FingerHoleEdge) Draw(length float64, bolts *BedBolts) {
	dist := e.holes.Settings.EdgeWidth()
	e.holes.Draw(0, e.t.Burn()+dist+e.holes.Settings.Thickness()/2, length, 0, bolts)
	e.t.Edge(length, 2)
}
