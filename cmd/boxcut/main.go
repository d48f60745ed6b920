// BoxCut — laser-cut panel and box generator
//
// Renders a job file (YAML, JSON or TOML) describing walls, polygon panels
// and filled regions into an SVG, PDF, DXF or PNG cutting plan.
//
// Build:
//
//	go build -o boxcut ./cmd/boxcut
//
// Usage:
//
//	boxcut -c crate.yaml
//	boxcut -c crate.yaml -f dxf --burn 0.15 --report parts.xlsx --labels labels.pdf
//	BOXCUT_SETTINGS_THICKNESS=4 boxcut -c crate.yaml
//	boxcut --list-presets
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxCut/internal/export"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/project"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "boxcut:", err)
		os.Exit(1)
	}
}

// flagKeys binds command line flags to job keys.
var flagKeys = map[string]string{
	"output":    "output",
	"format":    "settings.format",
	"thickness": "settings.thickness",
	"burn":      "settings.burn",
	"tabs":      "settings.tabs",
	"reference": "settings.reference",
	"debug":     "settings.debug",
	"preset":    "preset",
	"theme":     "theme",
	"seed":      "seed",
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("boxcut", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	jobPath := flags.StringP("config", "c", "", "job file (yaml, json or toml)")
	flags.StringP("output", "o", "", "output file, defaults to <name>.<format>")
	flags.StringP("format", "f", "", "output format: svg, pdf, dxf or png")
	flags.Float64("thickness", 0, "material thickness in mm")
	flags.Float64("burn", 0, "kerf compensation in mm")
	flags.Float64("tabs", 0, "bridge tab width in mm, 0 disables tabs")
	flags.Float64("reference", 0, "reference rectangle length in mm, 0 disables it")
	flags.Bool("debug", false, "draw footprints and fill region outlines")
	flags.String("preset", "", "material preset")
	flags.String("theme", "", "color scheme: default or mono")
	flags.Int64("seed", 0, "seed for random fill patterns")
	report := flags.String("report", "", "write a parts report (xlsx)")
	labels := flags.String("labels", "", "write QR part labels (pdf)")
	configPath := flags.String("app-config", project.DefaultConfigPath(), "application config file")
	presetsPath := flags.String("presets", project.DefaultPresetsPath(), "custom presets file")
	listPresets := flags.Bool("list-presets", false, "list material presets and exit")
	importPreset := flags.String("import-preset", "", "add a preset file to the custom presets and exit")
	backup := flags.String("backup", "", "write app config and presets to a backup file and exit")
	restore := flags.String("restore", "", "restore app config and presets from a backup file and exit")
	verbose := flags.BoolP("verbose", "v", false, "log debug output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer logging.SetLogger(nil)

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load app config: %w", err)
	}
	presets, err := project.LoadCustomPresets(*presetsPath)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	switch {
	case *listPresets:
		for _, name := range model.PresetNames(presets) {
			p, _ := model.FindPreset(name, presets)
			fmt.Fprintf(stdout, "%-14s %4.1fmm  burn %.2fmm  %s\n", p.Name, p.Thickness, p.Burn, p.Description)
		}
		return nil
	case *importPreset != "":
		p, err := project.AddCustomPreset(*presetsPath, *importPreset)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added preset %s\n", p.Name)
		return nil
	case *backup != "":
		return project.ExportAllData(*backup, cfg, presets)
	case *restore != "":
		data, err := project.ImportAllData(*restore)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(*configPath, data.Config); err != nil {
			return err
		}
		return project.SaveCustomPresets(*presetsPath, data.Presets)
	}

	v := project.NewViper()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}
	job, err := project.ReadJob(v, *jobPath, project.DefaultsFrom(cfg, presets))
	if err != nil {
		return err
	}
	out, err := project.Render(job)
	if err != nil {
		return err
	}

	path := job.OutputPath()
	if !filepath.IsAbs(path) && job.Output == "" {
		path = filepath.Join(cfg.OutputDir, path)
	}
	if err := export.Write(path, out); err != nil {
		return err
	}
	if *report != "" {
		if err := export.WriteReport(*report, out); err != nil {
			return err
		}
	}
	if *labels != "" {
		if err := export.WriteLabels(*labels, out); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "%s: %d parts\n", path, len(out.Footprints))

	if *jobPath != "" {
		if err := project.RememberJob(*configPath, *jobPath); err != nil {
			logging.Logger().Warn("recent jobs not updated", "error", err)
		}
	}
	return nil
}
