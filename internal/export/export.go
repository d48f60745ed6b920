// Package export writes recorded drawings to cutter and preview formats,
// plus part reports and QR-coded label sheets built from the footprints.
package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Margin is the blank border in mm around the drawing in page based formats.
const Margin = 5.0

// flattenTolerance is the maximum chord deviation in mm when curves are
// converted to polylines.
const flattenTolerance = 0.01

// ErrEmptyDrawing is returned when there is nothing to write.
var ErrEmptyDrawing = errors.New("drawing is empty")

// Job is everything one output file is generated from.
type Job struct {
	Title      string
	Drawing    *canvas.Drawing
	Footprints []model.Footprint
	Settings   model.Settings
	Colors     model.ColorScheme
}

// frame maps device millimeters (y up) to page millimeters (y down) with
// Margin around the drawing bounds.
type frame struct {
	min, max r2.Vec
}

func newFrame(d *canvas.Drawing) (frame, error) {
	if d == nil {
		return frame{}, ErrEmptyDrawing
	}
	min, max, ok := d.Bounds()
	if !ok {
		return frame{}, ErrEmptyDrawing
	}
	return frame{min: min, max: max}, nil
}

func (f frame) width() float64  { return f.max.X - f.min.X + 2*Margin }
func (f frame) height() float64 { return f.max.Y - f.min.Y + 2*Margin }

func (f frame) page(v r2.Vec) r2.Vec {
	return r2.Vec{X: v.X - f.min.X + Margin, Y: f.max.Y - v.Y + Margin}
}

// textAngle converts a device baseline angle (radians, y up) to degrees in
// page space, where positive is clockwise.
func textAngle(a float64) float64 {
	return -a * 180 / math.Pi
}

// Write renders j in the format named by j.Settings.Format. Parent
// directories are created as needed.
func Write(path string, j Job) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	var err error
	switch j.Settings.Format {
	case model.FormatSVG:
		err = writeFile(path, func(f *os.File) error { return WriteSVG(f, j) })
	case model.FormatPNG:
		err = writeFile(path, func(f *os.File) error { return WritePNG(f, j, DefaultPNGResolution) })
	case model.FormatPDF:
		err = WritePDF(path, j)
	case model.FormatDXF:
		err = WriteDXF(path, j)
	default:
		return model.NewConfigError("format", string(j.Settings.Format))
	}
	if err != nil {
		return err
	}
	logging.Logger().Info("drawing written", "path", path, "format", j.Settings.Format, "parts", len(j.Footprints))
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func samePoint(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
