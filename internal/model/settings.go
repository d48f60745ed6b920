package model

import "fmt"

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatDXF Format = "dxf"
	FormatPNG Format = "png"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatSVG, FormatPDF, FormatDXF, FormatPNG:
		return f, nil
	}
	return "", NewConfigError("format", s)
}

// Settings holds the parameters shared by every primitive of one drawing
// session.
type Settings struct {
	Thickness float64 `json:"thickness" mapstructure:"thickness"` // material thickness in mm
	Burn      float64 `json:"burn" mapstructure:"burn"`           // kerf half-width in mm
	Tabs      float64 `json:"tabs" mapstructure:"tabs"`           // bridge tab width in mm, 0 = no tabs
	Debug     bool    `json:"debug" mapstructure:"debug"`         // draw footprint rectangles
	Labels    bool    `json:"labels" mapstructure:"labels"`       // label parts
	Reference float64 `json:"reference" mapstructure:"reference"` // reference rectangle length, 0 = none
	Format    Format  `json:"format" mapstructure:"format"`
}

// DefaultSettings returns sensible defaults for 3mm plywood on a typical
// CO2 laser.
func DefaultSettings() Settings {
	return Settings{
		Thickness: 3.0,
		Burn:      0.1,
		Tabs:      0,
		Debug:     false,
		Labels:    true,
		Reference: 100,
		Format:    FormatSVG,
	}
}

// Spacing is the clearance added around every placed panel.
func (s Settings) Spacing() float64 {
	return 2*s.Burn + 0.5*s.Thickness
}

// Validate rejects values no drawing can be produced with.
func (s Settings) Validate() error {
	if s.Thickness <= 0 {
		return &ConfigError{Kind: "thickness", Value: fmt.Sprint(s.Thickness), Reason: "must be positive"}
	}
	if s.Burn < 0 {
		return &ConfigError{Kind: "burn", Value: fmt.Sprint(s.Burn), Reason: "must not be negative"}
	}
	if s.Tabs < 0 {
		return &ConfigError{Kind: "tabs", Value: fmt.Sprint(s.Tabs), Reason: "must not be negative"}
	}
	if _, err := ParseFormat(string(s.Format)); err != nil {
		return err
	}
	return nil
}

// BedBoltSettings describes the T-slot cut for a bed bolt and its nut.
type BedBoltSettings struct {
	D      float64 `json:"d" mapstructure:"d"`           // bolt diameter
	DNut   float64 `json:"d_nut" mapstructure:"d_nut"`   // nut width
	HNut   float64 `json:"h_nut" mapstructure:"h_nut"`   // nut height
	Length float64 `json:"length" mapstructure:"length"` // slot depth
	L1     float64 `json:"l1" mapstructure:"l1"`         // distance from edge to nut
}

func DefaultBedBoltSettings() BedBoltSettings {
	return BedBoltSettings{D: 3, DNut: 5.5, HNut: 2, Length: 20, L1: 15}
}
