package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultBurn = 0.15
	cfg.DefaultFormat = model.FormatDXF
	cfg.Theme = "mono"
	cfg.RecentJobs = []string{"/tmp/box1.yaml", "/tmp/box2.yaml"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultBurn != 0.15 {
		t.Errorf("expected DefaultBurn=0.15, got %f", loaded.DefaultBurn)
	}
	if loaded.DefaultFormat != model.FormatDXF {
		t.Errorf("expected DefaultFormat=dxf, got %s", loaded.DefaultFormat)
	}
	if loaded.Theme != "mono" {
		t.Errorf("expected Theme=mono, got %s", loaded.Theme)
	}
	if len(loaded.RecentJobs) != 2 {
		t.Errorf("expected 2 recent jobs, got %d", len(loaded.RecentJobs))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultThickness != defaults.DefaultThickness {
		t.Errorf("expected default thickness %f, got %f", defaults.DefaultThickness, cfg.DefaultThickness)
	}
	if cfg.Theme != "default" {
		t.Errorf("expected theme=default, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write config with null recent_jobs and no thickness
	data := []byte(`{"default_burn":0.2,"theme":"mono","recent_jobs":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentJobs == nil {
		t.Error("RecentJobs should not be nil after loading")
	}
	if cfg.DefaultThickness != model.DefaultSettings().Thickness {
		t.Errorf("expected default thickness to survive, got %f", cfg.DefaultThickness)
	}
	if cfg.DefaultBurn != 0.2 {
		t.Errorf("expected DefaultBurn=0.2, got %f", cfg.DefaultBurn)
	}
}

func TestRememberJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")

	for _, p := range []string{a, b, a} {
		if err := RememberJob(path, p); err != nil {
			t.Fatalf("RememberJob failed: %v", err)
		}
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.RecentJobs) != 2 || cfg.RecentJobs[0] != a || cfg.RecentJobs[1] != b {
		t.Errorf("unexpected recent jobs %v", cfg.RecentJobs)
	}
}
