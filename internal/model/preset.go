package model

import "fmt"

// MaterialPreset bundles the settings that depend on the sheet material and
// the laser, so a job can name "plywood-3" instead of repeating numbers.
type MaterialPreset struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsBuiltIn   bool    `json:"is_built_in"`
	Thickness   float64 `json:"thickness"`
	Burn        float64 `json:"burn"`
	Tabs        float64 `json:"tabs"`

	// Optional finger joint factors, relative to the thickness
	Finger float64 `json:"finger,omitempty"`
	Space  float64 `json:"space,omitempty"`
	Play   float64 `json:"play,omitempty"`
}

// Built-in material presets
var MaterialPresets = []MaterialPreset{
	{
		Name:        "plywood-3",
		Description: "3mm birch plywood, CO2 laser",
		IsBuiltIn:   true,
		Thickness:   3,
		Burn:        0.1,
	},
	{
		Name:        "plywood-4",
		Description: "4mm poplar plywood, CO2 laser",
		IsBuiltIn:   true,
		Thickness:   4,
		Burn:        0.1,
	},
	{
		Name:        "mdf-6",
		Description: "6mm MDF, CO2 laser, tabs against falling parts",
		IsBuiltIn:   true,
		Thickness:   6,
		Burn:        0.12,
		Tabs:        0.5,
	},
	{
		Name:        "acrylic-3",
		Description: "3mm cast acrylic, tight fingers",
		IsBuiltIn:   true,
		Thickness:   3,
		Burn:        0.08,
	},
	{
		Name:        "cardboard-2",
		Description: "2mm grey board, diode laser",
		IsBuiltIn:   true,
		Thickness:   2,
		Burn:        0.05,
		Finger:      3,
		Space:       3,
		Play:        0.05,
	},
}

// FindPreset looks a preset up by name, custom presets first so they can
// shadow a built-in one.
func FindPreset(name string, custom []MaterialPreset) (MaterialPreset, error) {
	for _, p := range custom {
		if p.Name == name {
			return p, nil
		}
	}
	for _, p := range MaterialPresets {
		if p.Name == name {
			return p, nil
		}
	}
	return MaterialPreset{}, NewConfigError("preset", name)
}

// PresetNames lists the built-in names followed by the custom ones.
func PresetNames(custom []MaterialPreset) []string {
	var names []string
	for _, p := range MaterialPresets {
		names = append(names, p.Name)
	}
	for _, p := range custom {
		names = append(names, p.Name)
	}
	return names
}

// ApplyToSettings copies the material values into s.
func (p MaterialPreset) ApplyToSettings(s *Settings) {
	s.Thickness = p.Thickness
	s.Burn = p.Burn
	s.Tabs = p.Tabs
}

// FingerOverrides returns the finger joint factors the preset sets, keyed
// like the FingerJoint parameter set.
func (p MaterialPreset) FingerOverrides() map[string]any {
	kv := map[string]any{}
	if p.Finger > 0 {
		kv["finger"] = p.Finger
	}
	if p.Space > 0 {
		kv["space"] = p.Space
	}
	if p.Play > 0 {
		kv["play"] = p.Play
	}
	return kv
}

// Validate rejects presets that cannot drive a drawing.
func (p MaterialPreset) Validate() error {
	if p.Name == "" {
		return &ConfigError{Kind: "preset", Value: "", Reason: "name required"}
	}
	s := DefaultSettings()
	p.ApplyToSettings(&s)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return nil
}
