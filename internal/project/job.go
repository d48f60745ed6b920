// Package project loads job files, keeps the user's app config and
// material presets, and renders jobs into drawings ready for export.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BOXCUT_SETTINGS_BURN.
const EnvPrefix = "BOXCUT"

// Panel kinds
const (
	KindRect    = "rect"
	KindPolygon = "polygon"
	KindRegular = "regular"
	KindRegion  = "region"
)

// PanelSpec describes one panel of a job, or Count copies of it.
type PanelSpec struct {
	Kind  string `mapstructure:"kind"`
	Label string `mapstructure:"label"`
	Edges string `mapstructure:"edges"`
	Move  string `mapstructure:"move"`

	// rect
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`

	// polygon: alternating border lengths and turns in degrees
	Borders []float64 `mapstructure:"borders"`
	Close   bool      `mapstructure:"close"`

	// regular: corner count and one of radius, height or side
	Corners int     `mapstructure:"corners"`
	Radius  float64 `mapstructure:"radius"`
	Side    float64 `mapstructure:"side"`
	Hole    float64 `mapstructure:"hole"`

	// region: DXF, CSV or XLSX file with closed outlines
	Region string `mapstructure:"region"`

	Count   int     `mapstructure:"count"`
	Columns int     `mapstructure:"columns"`
	Fill    bool    `mapstructure:"fill"`
	Holes   float64 `mapstructure:"hex_holes"` // margin of a hex hole grid, 0 = none
}

// Job is one drawing: the session settings, parameter overrides per
// settings group and the panels to place.
type Job struct {
	Name     string         `mapstructure:"name"`
	Output   string         `mapstructure:"output"`
	Theme    string         `mapstructure:"theme"`
	Preset   string         `mapstructure:"preset"`
	Seed     int64          `mapstructure:"seed"`
	Settings model.Settings `mapstructure:"settings"`
	Finger   map[string]any `mapstructure:"finger"`
	Fill     map[string]any `mapstructure:"fill"`
	HexHoles map[string]any `mapstructure:"hex_holes"`
	Panels   []PanelSpec    `mapstructure:"panels"`

	// Dir resolves relative region paths; the job file's directory.
	Dir string `mapstructure:"-"`
}

// NewViper returns a viper instance reading BOXCUT_* environment
// overrides, with nested keys joined by underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Defaults are the values a job starts from before its preset and its own
// keys apply.
type Defaults struct {
	Settings model.Settings
	Theme    string
	// Presets are the custom presets, searched before the built-ins.
	Presets []model.MaterialPreset
}

// DefaultsFrom takes the defaults from the user's app config.
func DefaultsFrom(cfg model.AppConfig, presets []model.MaterialPreset) Defaults {
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	return Defaults{Settings: s, Theme: cfg.Theme, Presets: presets}
}

// LoadJob reads the job file at path. The format follows the file
// extension (yaml, json, toml).
func LoadJob(path string) (Job, error) {
	return ReadJob(NewViper(), path, DefaultsFrom(model.DefaultAppConfig(), nil))
}

// ReadJob reads a job through v, which may carry bound CLI flags. An empty
// path reads flags, environment and defaults only. A preset named by the
// job replaces the material values of def before the job's own settings
// apply.
func ReadJob(v *viper.Viper, path string, def Defaults) (Job, error) {
	dir := "."
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Job{}, fmt.Errorf("failed to read job %s: %w", path, err)
		}
		dir = filepath.Dir(path)
	}

	s := def.Settings
	var fingerDefaults map[string]any
	if name := v.GetString("preset"); name != "" {
		p, err := model.FindPreset(name, def.Presets)
		if err != nil {
			return Job{}, err
		}
		p.ApplyToSettings(&s)
		fingerDefaults = p.FingerOverrides()
	}
	setDefaults(v, s, def.Theme)

	var job Job
	if err := v.Unmarshal(&job); err != nil {
		return Job{}, fmt.Errorf("failed to decode job: %w", err)
	}
	job.Dir = dir
	if job.Finger == nil {
		job.Finger = map[string]any{}
	}
	for k, val := range fingerDefaults {
		if _, ok := job.Finger[k]; !ok {
			job.Finger[k] = val
		}
	}
	for i := range job.Panels {
		job.Panels[i].applyDefaults()
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// setDefaults registers every scalar key so environment overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper, s model.Settings, theme string) {
	v.SetDefault("name", "boxcut")
	v.SetDefault("output", "")
	v.SetDefault("theme", theme)
	v.SetDefault("preset", "")
	v.SetDefault("seed", 0)
	v.SetDefault("settings.thickness", s.Thickness)
	v.SetDefault("settings.burn", s.Burn)
	v.SetDefault("settings.tabs", s.Tabs)
	v.SetDefault("settings.debug", s.Debug)
	v.SetDefault("settings.labels", s.Labels)
	v.SetDefault("settings.reference", s.Reference)
	v.SetDefault("settings.format", string(s.Format))
}

func (p *PanelSpec) applyDefaults() {
	if p.Kind == "" {
		p.Kind = KindRect
	}
	if p.Edges == "" {
		p.Edges = "e"
		if p.Kind == KindRect {
			p.Edges = "eeee"
		}
	}
	if p.Move == "" {
		p.Move = "right"
	}
	if p.Count == 0 {
		p.Count = 1
	}
}

// Validate checks the settings and the panel list without drawing.
func (j Job) Validate() error {
	if err := j.Settings.Validate(); err != nil {
		return err
	}
	if _, err := model.ColorSchemeByName(j.Theme); err != nil {
		return err
	}
	for i, p := range j.Panels {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("panel %d: %w", i+1, err)
		}
	}
	return nil
}

// Validate checks the fields the panel kind needs.
func (p PanelSpec) Validate() error {
	if p.Count < 0 {
		return &model.ConfigError{Kind: "count", Value: fmt.Sprint(p.Count), Reason: "must not be negative"}
	}
	switch p.Kind {
	case KindRect:
		if p.Width <= 0 || p.Height <= 0 {
			return &model.ConfigError{Kind: "rect size", Value: fmt.Sprintf("%gx%g", p.Width, p.Height), Reason: "must be positive"}
		}
	case KindPolygon:
		if len(p.Borders) == 0 {
			return &model.ConfigError{Kind: "polygon", Value: "[]", Reason: "no borders"}
		}
	case KindRegular:
		if p.Corners < 3 {
			return &model.ConfigError{Kind: "polygon corners", Value: fmt.Sprint(p.Corners), Reason: "at least three required"}
		}
		if p.Radius <= 0 && p.Height <= 0 && p.Side <= 0 {
			return &model.ConfigError{Kind: "polygon size", Value: "0", Reason: "one of radius, height or side required"}
		}
	case KindRegion:
		if p.Region == "" {
			return &model.ConfigError{Kind: "region", Value: "", Reason: "file required"}
		}
	default:
		return model.NewConfigError("panel kind", p.Kind)
	}
	return nil
}

// OutputPath returns the configured output file, or the job name with the
// extension of the output format.
func (j Job) OutputPath() string {
	if j.Output != "" {
		return j.Output
	}
	name := j.Name
	if name == "" {
		name = "boxcut"
	}
	return name + "." + string(j.Settings.Format)
}
