// Package edges holds the edge profiles panel borders are drawn with and
// the registry that resolves them by their one-character key.
package edges

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/turtle"
)

// Profile draws one border segment of a panel.
//
// StartWidth and EndWidth are the material the profile reaches beyond the
// nominal panel outline at its start and end; adjoining profiles use them
// to meet flush at corners. Margin is the clearance the profile needs
// outside the outline, Spacing is StartWidth plus Margin.
//
// Draw must leave the turtle at the end of the segment, heading along it.
type Profile interface {
	Char() rune
	Description() string
	StartWidth() float64
	EndWidth() float64
	Margin() float64
	Spacing() float64
	Draw(length float64, bolts *BedBolts)
}

// Registry maps edge keys to profiles. Profiles are registered once per
// configuration and reused for every panel.
type Registry struct {
	profiles map[rune]Profile
}

func NewRegistry() *Registry {
	return &Registry{profiles: make(map[rune]Profile)}
}

// Register adds p under its key. Keys are unique.
func (r *Registry) Register(p Profile) error {
	c := p.Char()
	if _, dup := r.profiles[c]; dup {
		return &model.ConfigError{Kind: "edge", Value: string(c), Reason: "already registered"}
	}
	r.profiles[c] = p
	return nil
}

// Get returns the profile registered under c.
func (r *Registry) Get(c rune) (Profile, error) {
	p, ok := r.profiles[c]
	if !ok {
		return nil, model.NewConfigError("edge", string(c))
	}
	return p, nil
}

// Resolve accepts a Profile, a rune or a one-character string. Profiles
// are returned unchanged.
func (r *Registry) Resolve(v any) (Profile, error) {
	switch x := v.(type) {
	case Profile:
		return x, nil
	case rune:
		return r.Get(x)
	case string:
		runes := []rune(x)
		if len(runes) != 1 {
			return nil, model.NewConfigError("edge", x)
		}
		return r.Get(runes[0])
	default:
		return nil, model.NewConfigError("edge", fmt.Sprint(v))
	}
}

// Edges resolves every character of s.
func (r *Registry) Edges(s string) ([]Profile, error) {
	out := make([]Profile, 0, len(s))
	for _, c := range s {
		p, err := r.Get(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Chars lists the registered keys in sorted order.
func (r *Registry) Chars() string {
	keys := make([]rune, 0, len(r.profiles))
	for c := range r.profiles {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return string(keys)
}

// EdgeCorner turns by angle degrees between the end of from and the start
// of to. The turtle first runs on by the width to reaches beyond the
// outline, turns, then runs by the width from reaches, so both profiles
// meet flush. The widths come in that order because the material of to
// sticks out along the current heading, and after the turn the material
// of from sticks out along the new one.
func EdgeCorner(t *turtle.Turtle, from, to Profile, angle float64) {
	tan := math.Tan(angle * math.Pi / 360)
	t.Edge(to.StartWidth()*tan, 0)
	t.Corner(angle, 0, 0)
	t.Edge(from.EndWidth()*tan, 0)
}

// DefaultRegistry registers the straight, outset, finger joint and finger
// hole profiles for the given finger settings.
func DefaultRegistry(t *turtle.Turtle, fingers model.FingerJointSettings) (*Registry, error) {
	r := NewRegistry()
	for _, p := range []Profile{
		NewStraight(t),
		NewOutSet(t, 0),
		NewFingerJoint(t, fingers),
		NewFingerJointCounterpart(t, fingers),
		NewFingerHoleEdge(t, NewFingerHoles(t, fingers)),
	} {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}
