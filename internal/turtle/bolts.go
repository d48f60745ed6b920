package turtle

import "github.com/piwi3910/BoxCut/internal/model"

// BedBoltHole draws an edge of the given length with a T-slot in its
// middle that takes a bolt and captive nut. The slot reaches into the
// material on the left of the heading.
func (t *Turtle) BedBoltHole(length float64, s model.BedBoltSettings, tabs int) {
	d, dn, hn, l1 := s.D, s.DNut, s.HNut, s.L1
	wing := (dn - d) / 2
	rest := s.Length - l1 - hn
	t.Edge((length-d)/2, tabs/2)
	t.Polyline(
		0, 90, l1, 90, wing, -90, hn, -90, wing, 90, rest,
		-90, d,
		-90, rest, 90, wing, -90, hn, -90, wing, 90, l1, 90,
	)
	t.Edge((length-d)/2, tabs-tabs/2)
}
