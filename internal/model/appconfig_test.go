package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.DefaultThickness != defaults.Thickness {
		t.Errorf("Thickness mismatch: config=%f settings=%f", cfg.DefaultThickness, defaults.Thickness)
	}
	if cfg.DefaultBurn != defaults.Burn {
		t.Errorf("Burn mismatch: config=%f settings=%f", cfg.DefaultBurn, defaults.Burn)
	}
	if cfg.DefaultFormat != defaults.Format {
		t.Errorf("Format mismatch: config=%s settings=%s", cfg.DefaultFormat, defaults.Format)
	}
	if cfg.Theme != "default" {
		t.Errorf("expected default theme=default, got %s", cfg.Theme)
	}
	if cfg.RecentJobs == nil {
		t.Error("RecentJobs should not be nil")
	}
}

func TestApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultThickness = 6.0
	cfg.DefaultBurn = 0.15
	cfg.DefaultFormat = FormatDXF

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	if s.Thickness != 6.0 {
		t.Errorf("expected Thickness=6.0, got %f", s.Thickness)
	}
	if s.Burn != 0.15 {
		t.Errorf("expected Burn=0.15, got %f", s.Burn)
	}
	if s.Format != FormatDXF {
		t.Errorf("expected Format=dxf, got %s", s.Format)
	}
}

func TestAddRecentJob(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentJob("a.yaml", 2)
	cfg.AddRecentJob("b.yaml", 2)
	cfg.AddRecentJob("a.yaml", 2)
	cfg.AddRecentJob("c.yaml", 2)

	if len(cfg.RecentJobs) != 2 {
		t.Fatalf("expected 2 recent jobs, got %d", len(cfg.RecentJobs))
	}
	if cfg.RecentJobs[0] != "c.yaml" || cfg.RecentJobs[1] != "a.yaml" {
		t.Errorf("unexpected order: %v", cfg.RecentJobs)
	}
}
