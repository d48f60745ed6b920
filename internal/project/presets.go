package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxCut/internal/model"
)

// DefaultPresetsPath returns the default file path for custom material presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SaveCustomPresets saves custom presets to a JSON file.
func SaveCustomPresets(path string, presets []model.MaterialPreset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomPresets loads custom presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomPresets(path string) ([]model.MaterialPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.MaterialPreset{}, nil
		}
		return nil, err
	}

	var presets []model.MaterialPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, err
	}

	// Ensure loaded presets are not marked as built-in
	for i := range presets {
		presets[i].IsBuiltIn = false
	}
	return presets, nil
}

// ExportPreset exports a single preset to a JSON file (for sharing).
func ExportPreset(path string, preset model.MaterialPreset) error {
	preset.IsBuiltIn = false
	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportPreset imports a single preset from a JSON file.
func ImportPreset(path string) (model.MaterialPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.MaterialPreset{}, err
	}

	var preset model.MaterialPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		return model.MaterialPreset{}, err
	}

	preset.IsBuiltIn = false
	if preset.Name == "" {
		return model.MaterialPreset{}, errors.New("imported preset has no name")
	}
	if err := preset.Validate(); err != nil {
		return model.MaterialPreset{}, err
	}
	return preset, nil
}

// AddCustomPreset imports the preset at src into the custom preset file at
// path, replacing a custom preset of the same name.
func AddCustomPreset(path, src string) (model.MaterialPreset, error) {
	preset, err := ImportPreset(src)
	if err != nil {
		return model.MaterialPreset{}, err
	}
	presets, err := LoadCustomPresets(path)
	if err != nil {
		return model.MaterialPreset{}, err
	}
	replaced := false
	for i := range presets {
		if presets[i].Name == preset.Name {
			presets[i] = preset
			replaced = true
		}
	}
	if !replaced {
		presets = append(presets, preset)
	}
	return preset, SaveCustomPresets(path, presets)
}
