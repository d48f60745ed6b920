package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
)

func TestSaveAndLoadCustomPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.json")

	presets := []model.MaterialPreset{
		{
			Name:        "oak-5",
			Description: "5mm oak veneer board",
			IsBuiltIn:   true,
			Thickness:   5,
			Burn:        0.12,
			Tabs:        0.4,
		},
		{
			Name:      "felt-3",
			Thickness: 3,
			Burn:      0.2,
			Finger:    3,
			Space:     2.5,
		},
	}

	if err := SaveCustomPresets(path, presets); err != nil {
		t.Fatalf("SaveCustomPresets: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("presets file was not created")
	}

	loaded, err := LoadCustomPresets(path)
	if err != nil {
		t.Fatalf("LoadCustomPresets: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded))
	}
	if loaded[0].Name != "oak-5" || loaded[0].Tabs != 0.4 {
		t.Errorf("unexpected first preset %+v", loaded[0])
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded presets must not be built-in")
	}
	if loaded[1].Space != 2.5 {
		t.Errorf("expected space 2.5, got %f", loaded[1].Space)
	}
}

func TestLoadCustomPresetsMissingFile(t *testing.T) {
	presets, err := LoadCustomPresets(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if presets == nil || len(presets) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", presets)
	}
}

func TestLoadCustomPresetsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte("[{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomPresets(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportImportPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.json")

	builtin, err := model.FindPreset("mdf-6", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ExportPreset(path, builtin); err != nil {
		t.Fatalf("ExportPreset: %v", err)
	}

	imported, err := ImportPreset(path)
	if err != nil {
		t.Fatalf("ImportPreset: %v", err)
	}
	if imported.IsBuiltIn {
		t.Error("imported preset must not be built-in")
	}
	if imported.Name != "mdf-6" || imported.Thickness != 6 || imported.Tabs != 0.5 {
		t.Errorf("unexpected preset %+v", imported)
	}
}

func TestImportPresetRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"noname.json":    `{"thickness":3}`,
		"negative.json":  `{"name":"x","thickness":-3}`,
		"truncated.json": `{"name":`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ImportPreset(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ImportPreset(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAddCustomPresetReplacesByName(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "presets.json")
	src := filepath.Join(dir, "src.json")

	for _, burn := range []float64{0.1, 0.3} {
		if err := ExportPreset(src, model.MaterialPreset{Name: "pine-4", Thickness: 4, Burn: burn}); err != nil {
			t.Fatal(err)
		}
		if _, err := AddCustomPreset(store, src); err != nil {
			t.Fatalf("AddCustomPreset: %v", err)
		}
	}

	presets, err := LoadCustomPresets(store)
	if err != nil {
		t.Fatal(err)
	}
	if len(presets) != 1 || presets[0].Burn != 0.3 {
		t.Errorf("expected one replaced preset, got %+v", presets)
	}
}
