package export

import (
	"fmt"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// aciColors maps roles to AutoCAD color indices so cutter software that
// reads layer colors sees the same convention as the SVG output.
var aciColors = map[model.ColorRole]color.ColorNumber{
	model.RoleOuterCut:    1, // red
	model.RoleInnerCut:    5, // blue
	model.RoleAnnotations: 7, // black/white
	model.RoleEtching:     3, // green
	model.RoleEtchingDeep: 4, // cyan
}

// unknownLayer collects paths whose color matches no role.
const unknownLayer = "other"

// WriteDXF writes the drawing in device millimeters with one layer per
// color role. Curves are flattened to polylines.
func WriteDXF(path string, j Job) error {
	if _, err := newFrame(j.Drawing); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	for _, r := range model.Roles() {
		if _, err := d.AddLayer(r.String(), aciColors[r], dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", r, err)
		}
	}
	if _, err := d.AddLayer(unknownLayer, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", unknownLayer, err)
	}

	layerOf := func(c model.Color) string {
		if r, ok := j.Colors.RoleOf(c); ok {
			return r.String()
		}
		return unknownLayer
	}

	for _, part := range j.Drawing.Parts {
		for _, p := range part.Paths {
			if err := d.ChangeLayer(layerOf(p.Color)); err != nil {
				return err
			}
			if err := writeDXFPath(d, p); err != nil {
				return err
			}
		}
		for _, t := range part.Texts {
			if err := d.ChangeLayer(layerOf(t.Style.Color)); err != nil {
				return err
			}
			if _, err := d.Text(t.Content, t.Pos.X, t.Pos.Y, 0, t.Style.Size); err != nil {
				return fmt.Errorf("failed to add text %q: %w", t.Content, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func writeDXFPath(d *drawing.Drawing, p canvas.Path) error {
	for _, line := range p.Flatten(flattenTolerance) {
		closed := len(line) > 2 && samePoint(line[0], line[len(line)-1])
		if closed {
			line = line[:len(line)-1]
		}
		if len(line) == 2 {
			if _, err := d.Line(line[0].X, line[0].Y, 0, line[1].X, line[1].Y, 0); err != nil {
				return fmt.Errorf("failed to add line: %w", err)
			}
			continue
		}
		vs := make([][]float64, len(line))
		for i, v := range line {
			vs[i] = []float64{v.X, v.Y}
		}
		if _, err := d.LwPolyline(closed, vs...); err != nil {
			return fmt.Errorf("failed to add polyline: %w", err)
		}
	}
	if p.Filled {
		logging.Logger().Debug("dxf: filled path written as outline")
	}
	return nil
}
