package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new jobs
	DefaultThickness float64 `json:"default_thickness"`
	DefaultBurn      float64 `json:"default_burn"`
	DefaultTabs      float64 `json:"default_tabs"`
	DefaultFormat    Format  `json:"default_format"`
	DefaultLabels    bool    `json:"default_labels"`
	DefaultReference float64 `json:"default_reference"`

	// Application preferences
	OutputDir  string   `json:"output_dir"`
	RecentJobs []string `json:"recent_jobs"`
	Theme      string   `json:"theme"` // color scheme: "default", "mono"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultThickness: defaults.Thickness,
		DefaultBurn:      defaults.Burn,
		DefaultTabs:      defaults.Tabs,
		DefaultFormat:    defaults.Format,
		DefaultLabels:    defaults.Labels,
		DefaultReference: defaults.Reference,
		OutputDir:        ".",
		RecentJobs:       []string{},
		Theme:            "default",
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// This is used when creating a new job so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Thickness = c.DefaultThickness
	s.Burn = c.DefaultBurn
	s.Tabs = c.DefaultTabs
	s.Format = c.DefaultFormat
	s.Labels = c.DefaultLabels
	s.Reference = c.DefaultReference
}

// AddRecentJob moves path to the front of the recent list, keeping at most
// max entries.
func (c *AppConfig) AddRecentJob(path string, max int) {
	out := []string{path}
	for _, p := range c.RecentJobs {
		if p != path && len(out) < max {
			out = append(out, p)
		}
	}
	c.RecentJobs = out
}
