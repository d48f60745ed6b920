package model

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
)

// Param declares one numeric parameter of a ParamSet. Relative parameters
// are given as a multiple of the material thickness.
type Param struct {
	Name     string
	Default  float64
	Relative bool
}

// ParamSet holds named absolute and thickness-relative parameters.
// Relative values are frozen to millimeters when the set is built or a value
// is set; they only follow a new thickness through Reapply.
type ParamSet struct {
	kind      string
	thickness float64
	params    map[string]Param
	factors   map[string]float64
	values    map[string]float64
	choices   map[string][]string
	selected  map[string]string
}

// NewParamSet builds a set for the given thickness. The first entry of each
// choice list is its default.
func NewParamSet(kind string, thickness float64, params []Param, choices map[string][]string) *ParamSet {
	p := &ParamSet{
		kind:      kind,
		thickness: thickness,
		params:    make(map[string]Param, len(params)),
		factors:   make(map[string]float64),
		values:    make(map[string]float64, len(params)),
		choices:   make(map[string][]string, len(choices)),
		selected:  make(map[string]string, len(choices)),
	}
	for _, def := range params {
		p.params[def.Name] = def
		if def.Relative {
			p.factors[def.Name] = def.Default
			p.values[def.Name] = def.Default * thickness
		} else {
			p.values[def.Name] = def.Default
		}
	}
	for name, opts := range choices {
		p.choices[name] = slices.Clone(opts)
		if len(opts) > 0 {
			p.selected[name] = opts[0]
		}
	}
	return p
}

// Kind names the settings group, e.g. "FingerJoint".
func (p *ParamSet) Kind() string { return p.kind }

// Thickness returns the thickness the relative values are frozen for.
func (p *ParamSet) Thickness() float64 { return p.thickness }

// Float returns the frozen millimeter value of a numeric parameter.
func (p *ParamSet) Float(name string) float64 { return p.values[name] }

// Choice returns the selected value of a choice parameter.
func (p *ParamSet) Choice(name string) string { return p.selected[name] }

// Set assigns a numeric parameter. For relative parameters v is a factor of
// the current thickness.
func (p *ParamSet) Set(name string, v float64) error {
	def, ok := p.params[name]
	if !ok {
		return p.unknown(name)
	}
	if def.Relative {
		p.factors[name] = v
		p.values[name] = v * p.thickness
		return nil
	}
	p.values[name] = v
	return nil
}

// SetAbsolute assigns a numeric parameter in millimeters, relative or not.
// The stored factor is derived so that Reapply scales it proportionally.
func (p *ParamSet) SetAbsolute(name string, mm float64) error {
	def, ok := p.params[name]
	if !ok {
		return p.unknown(name)
	}
	if def.Relative && p.thickness != 0 {
		p.factors[name] = mm / p.thickness
	}
	p.values[name] = mm
	return nil
}

// SetChoice selects one of the declared values of a choice parameter.
func (p *ParamSet) SetChoice(name, v string) error {
	opts, ok := p.choices[name]
	if !ok {
		return p.unknown(name)
	}
	if !slices.Contains(opts, v) {
		return &ConfigError{Kind: p.kind + " " + name, Value: v, Reason: fmt.Sprintf("expected one of %v", opts)}
	}
	p.selected[name] = v
	return nil
}

// Apply sets several parameters from a loosely typed map, as produced by
// config decoders. Numeric strings are accepted for numeric parameters.
func (p *ParamSet) Apply(kv map[string]any) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := p.applyOne(k, kv[k]); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParamSet) applyOne(name string, raw any) error {
	if _, ok := p.choices[name]; ok {
		s, ok := raw.(string)
		if !ok {
			return &ConfigError{Kind: p.kind + " " + name, Value: fmt.Sprint(raw), Reason: "expected a string"}
		}
		return p.SetChoice(name, s)
	}
	if _, ok := p.params[name]; !ok {
		return p.unknown(name)
	}
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return &ConfigError{Kind: p.kind + " " + name, Value: x, Reason: "not a number"}
		}
		v = f
	default:
		return &ConfigError{Kind: p.kind + " " + name, Value: fmt.Sprint(raw), Reason: "not a number"}
	}
	return p.Set(name, v)
}

// Reapply re-derives all relative values for a new thickness.
func (p *ParamSet) Reapply(thickness float64) {
	p.thickness = thickness
	for name, f := range p.factors {
		p.values[name] = f * thickness
	}
}

// Names lists all parameter names in sorted order.
func (p *ParamSet) Names() []string {
	names := make([]string, 0, len(p.params)+len(p.choices))
	for n := range p.params {
		names = append(names, n)
	}
	for n := range p.choices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Values returns a snapshot of all current values, keyed by name.
func (p *ParamSet) Values() map[string]any {
	out := make(map[string]any, len(p.values)+len(p.selected))
	for k, v := range p.values {
		out[k] = v
	}
	for k, v := range p.selected {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (p *ParamSet) Clone() *ParamSet {
	c := &ParamSet{
		kind:      p.kind,
		thickness: p.thickness,
		params:    p.params,
		factors:   make(map[string]float64, len(p.factors)),
		values:    make(map[string]float64, len(p.values)),
		choices:   p.choices,
		selected:  make(map[string]string, len(p.selected)),
	}
	for k, v := range p.factors {
		c.factors[k] = v
	}
	for k, v := range p.values {
		c.values[k] = v
	}
	for k, v := range p.selected {
		c.selected[k] = v
	}
	return c
}

func (p *ParamSet) unknown(name string) error {
	return NewConfigError(p.kind+" parameter", name)
}

// FingerJointSettings configures finger joints and finger holes.
type FingerJointSettings struct {
	*ParamSet
}

func NewFingerJointSettings(thickness float64) FingerJointSettings {
	return FingerJointSettings{NewParamSet("FingerJoint", thickness, []Param{
		{Name: "surroundingspaces", Default: 2},
		{Name: "angle", Default: 90},
		{Name: "space", Default: 2, Relative: true},
		{Name: "finger", Default: 2, Relative: true},
		{Name: "width", Default: 1, Relative: true},
		{Name: "edge_width", Default: 1, Relative: true},
		{Name: "play", Default: 0, Relative: true},
		{Name: "extra_length", Default: 0, Relative: true},
	}, map[string][]string{
		"style": {"rectangular"},
	})}
}

func (s FingerJointSettings) Style() string              { return s.Choice("style") }
func (s FingerJointSettings) SurroundingSpaces() float64 { return s.Float("surroundingspaces") }
func (s FingerJointSettings) Angle() float64             { return s.Float("angle") }
func (s FingerJointSettings) Space() float64             { return s.Float("space") }
func (s FingerJointSettings) Finger() float64            { return s.Float("finger") }
func (s FingerJointSettings) Width() float64             { return s.Float("width") }
func (s FingerJointSettings) EdgeWidth() float64         { return s.Float("edge_width") }
func (s FingerJointSettings) Play() float64              { return s.Float("play") }
func (s FingerJointSettings) ExtraLength() float64       { return s.Float("extra_length") }

// Validate rejects finger and space combinations that cannot be cut.
func (s FingerJointSettings) Validate() error {
	if s.Space()+s.Finger() < 0.1 {
		return &ConfigError{Kind: "FingerJoint space+finger", Value: fmt.Sprint(s.Space() + s.Finger()), Reason: "must be at least 0.1mm"}
	}
	if s.Space()-s.Play() < 0.1 && s.Space() > 0 {
		return &ConfigError{Kind: "FingerJoint play", Value: fmt.Sprint(s.Play()), Reason: "leaves no space between fingers"}
	}
	return nil
}

// FillSettings configures the hole-fill engine.
type FillSettings struct {
	*ParamSet
}

func NewFillSettings(thickness float64) FillSettings {
	return FillSettings{NewParamSet("FillHoles", thickness, []Param{
		{Name: "max_random", Default: 1000},
		{Name: "bar_length", Default: 50},
		{Name: "hole_max_radius", Default: 3},
		{Name: "hole_min_radius", Default: 0.5},
		{Name: "space_between_holes", Default: 4},
		{Name: "space_to_border", Default: 4},
	}, map[string][]string{
		"fill_pattern": {string(PatternNone), string(PatternHex), string(PatternSquare), string(PatternRandom), string(PatternHBar), string(PatternVBar)},
		"hole_style":   {string(StyleRound), string(StyleTriangle), string(StyleSquare), string(StyleHexagon), string(StyleOctagon)},
	})}
}

func (s FillSettings) Pattern() Pattern           { return Pattern(s.Choice("fill_pattern")) }
func (s FillSettings) HoleStyle() HoleStyle       { return HoleStyle(s.Choice("hole_style")) }
func (s FillSettings) MaxRandom() int             { return int(s.Float("max_random")) }
func (s FillSettings) BarLength() float64         { return s.Float("bar_length") }
func (s FillSettings) MaxRadius() float64         { return s.Float("hole_max_radius") }
func (s FillSettings) MinRadius() float64         { return s.Float("hole_min_radius") }
func (s FillSettings) SpaceBetweenHoles() float64 { return s.Float("space_between_holes") }
func (s FillSettings) SpaceToBorder() float64     { return s.Float("space_to_border") }

// Validate rejects radii and distances no hole can be placed with.
func (s FillSettings) Validate() error {
	return CheckFillValues(s.MaxRadius(), s.MinRadius(), s.SpaceBetweenHoles(), s.SpaceToBorder(), s.BarLength(), s.MaxRandom())
}

// CheckFillValues checks the numeric fill parameters, in millimeters.
func CheckFillValues(maxR, minR, spacing, border, barLength float64, maxRandom int) error {
	bad := func(name string, v any, reason string) error {
		return &ConfigError{Kind: "FillHoles " + name, Value: fmt.Sprint(v), Reason: reason}
	}
	switch {
	case maxR <= 0:
		return bad("hole_max_radius", maxR, "must be positive")
	case minR < 0:
		return bad("hole_min_radius", minR, "must not be negative")
	case minR > maxR:
		return bad("hole_min_radius", minR, fmt.Sprintf("exceeds hole_max_radius %g", maxR))
	case spacing < 0:
		return bad("space_between_holes", spacing, "must not be negative")
	case border < 0:
		return bad("space_to_border", border, "must not be negative")
	case barLength <= 0:
		return bad("bar_length", barLength, "must be positive")
	case maxRandom < 0:
		return bad("max_random", maxRandom, "must not be negative")
	}
	return nil
}

// HexHolesSettings configures the simple hexagonal hole helpers.
type HexHolesSettings struct {
	*ParamSet
}

func NewHexHolesSettings(thickness float64) HexHolesSettings {
	return HexHolesSettings{NewParamSet("HexHoles", thickness, []Param{
		{Name: "diameter", Default: 10},
		{Name: "distance", Default: 3},
	}, map[string][]string{
		"style": {"circle"},
	})}
}

func (s HexHolesSettings) Diameter() float64 { return s.Float("diameter") }
func (s HexHolesSettings) Distance() float64 { return s.Float("distance") }
