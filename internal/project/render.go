package project

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/edges"
	"github.com/piwi3910/BoxCut/internal/export"
	"github.com/piwi3910/BoxCut/internal/fill"
	"github.com/piwi3910/BoxCut/internal/geom"
	"github.com/piwi3910/BoxCut/internal/importer"
	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/internal/panel"
	"github.com/piwi3910/BoxCut/internal/turtle"
)

type renderer struct {
	t     *turtle.Turtle
	reg   *edges.Registry
	fill  fill.Options
	holes model.HexHolesSettings
	dir   string
}

// Render draws every panel of job followed by the reference rectangle and
// returns the result ready for export.
func Render(job Job) (export.Job, error) {
	s := job.Settings
	if err := job.Validate(); err != nil {
		return export.Job{}, err
	}
	colors, err := model.ColorSchemeByName(job.Theme)
	if err != nil {
		return export.Job{}, err
	}

	fingers := model.NewFingerJointSettings(s.Thickness)
	if err := fingers.Apply(job.Finger); err != nil {
		return export.Job{}, err
	}
	if err := fingers.Validate(); err != nil {
		return export.Job{}, err
	}
	fs := model.NewFillSettings(s.Thickness)
	if err := fs.Apply(job.Fill); err != nil {
		return export.Job{}, err
	}
	if err := fs.Validate(); err != nil {
		return export.Job{}, err
	}
	hs := model.NewHexHolesSettings(s.Thickness)
	if err := hs.Apply(job.HexHoles); err != nil {
		return export.Job{}, err
	}

	ctx := canvas.NewContext()
	t := turtle.New(ctx, s, colors)
	reg, err := edges.DefaultRegistry(t, fingers)
	if err != nil {
		return export.Job{}, err
	}
	r := &renderer{t: t, reg: reg, fill: fill.OptionsFrom(fs), holes: hs, dir: job.Dir}
	if job.Seed != 0 {
		r.fill.Rand = rand.New(rand.NewSource(job.Seed))
	}

	for i, p := range job.Panels {
		if err := r.panel(p); err != nil {
			return export.Job{}, fmt.Errorf("panel %d (%s): %w", i+1, p.Kind, err)
		}
	}
	if err := t.Reference("up"); err != nil {
		return export.Job{}, err
	}

	d := ctx.Drawing()
	logging.Logger().Info("job rendered", "name", job.Name, "parts", len(d.Parts), "paths", d.PathCount())
	return export.Job{
		Title:      job.Name,
		Drawing:    d,
		Footprints: t.Footprints(),
		Settings:   s,
		Colors:     colors,
	}, nil
}

func (r *renderer) panel(p PanelSpec) error {
	if p.Kind == KindRegion {
		return r.regions(p)
	}
	draw := func(move string) error {
		return r.one(p, move)
	}
	if p.Count == 1 {
		return draw(p.Move)
	}
	return panel.PartsMatrix(r.t, p.Count, p.Columns, p.Move, draw)
}

func (r *renderer) fillOptions(p PanelSpec) *fill.Options {
	if !p.Fill {
		return nil
	}
	o := r.fill
	return &o
}

func (r *renderer) one(p PanelSpec, move string) error {
	switch p.Kind {
	case KindRect:
		opts := panel.WallOptions{Move: move, Label: p.Label, Fill: r.fillOptions(p)}
		if p.Holes > 0 {
			opts.Holes = &panel.HexHoles{Margin: p.Holes, Settings: r.holes}
		}
		return panel.RectangularWall(r.t, r.reg, p.Width, p.Height, p.Edges, opts)
	case KindPolygon:
		borders := make([]turtle.Elem, len(p.Borders))
		for i, v := range p.Borders {
			borders[i] = turtle.Elem{Value: v}
		}
		return panel.PolygonWall(r.t, r.reg, borders, p.Edges, panel.PolygonOptions{
			Close: p.Close,
			Move:  move,
			Label: p.Label,
		})
	case KindRegular:
		return panel.RegularPolygonWall(r.t, r.reg, p.Corners, p.Radius, p.Height, p.Side, p.Edges, panel.PolygonOptions{
			Hole:  p.Hole,
			Move:  move,
			Label: p.Label,
		})
	}
	return model.NewConfigError("panel kind", p.Kind)
}

// ImportRegions reads the closed outlines of a DXF, CSV or XLSX file. Row
// and shape errors fail the import; warnings are logged.
func ImportRegions(path string) ([]importer.Region, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		res = importer.ImportDXF(path)
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	default:
		return nil, &model.ConfigError{Kind: "region file", Value: path, Reason: "expected .dxf, .csv or .xlsx"}
	}
	for _, w := range res.Warnings {
		logging.Logger().Warn("region import", "file", path, "warning", w)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s: %w", path, errors.New(strings.Join(res.Errors, "; ")))
	}
	if len(res.Regions) == 0 {
		return nil, fmt.Errorf("failed to import %s: no regions", path)
	}
	return res.Regions, nil
}

// regions places every outline of the region file as a straight-edged
// wall filled with the job's fill pattern.
func (r *renderer) regions(p PanelSpec) error {
	path := p.Region
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}
	regions, err := ImportRegions(path)
	if err != nil {
		return err
	}
	for _, reg := range regions {
		label := p.Label
		if label == "" {
			label = reg.Name
		}
		for i := 0; i < p.Count; i++ {
			if err := r.region(reg, label, p.Move); err != nil {
				return fmt.Errorf("region %q: %w", reg.Name, err)
			}
		}
	}
	return nil
}

// region cuts the outline of reg as a straight-edged wall, cuts its holes
// and fills the material between them.
func (r *renderer) region(reg importer.Region, label, move string) error {
	borders, local, toLocal := regionBorders(reg.Outline)
	if len(borders) == 0 {
		return &model.ConfigError{Kind: "region", Value: label, Reason: "no area"}
	}
	holes := make([]model.Outline, len(reg.Holes))
	for i, h := range reg.Holes {
		holes[i] = h.Map(toLocal)
	}
	o := r.fill
	return panel.PolygonWall(r.t, r.reg, borders, "e", panel.PolygonOptions{
		KeepCorners: true,
		Move:        move,
		Label:       label,
		Callback: func(i int) error {
			if i != 0 {
				return nil
			}
			// callback 0 sits on the start vertex, inside the kerf
			for _, h := range holes {
				r.t.PolygonHole(geom.FromOutline(h))
			}
			res, err := fill.FillRegion(r.t, local, holes, o)
			if err != nil {
				return err
			}
			logging.Logger().Debug("region cut", "label", label, "holes", len(holes), "fill_holes", len(res.Holes), "fill_bars", len(res.Bars))
			return nil
		},
	})
}

// regionBorders turns a closed outline into the border list of a polygon
// wall, counter-clockwise and starting at the edge closest to horizontal.
// local is the outline in the frame of that first edge and toLocal maps
// drawing coordinates into that frame.
func regionBorders(o model.Outline) ([]turtle.Elem, model.Outline, func(model.Point2D) model.Point2D) {
	o = o.Unclosed()
	n := len(o)
	if n < 3 || o.Area() < 1e-9 {
		return nil, nil, nil
	}
	if geom.FromOutline(o).SignedArea() < 0 {
		rev := make(model.Outline, n)
		for i, p := range o {
			rev[n-1-i] = p
		}
		o = rev
	}

	heading := func(i int) float64 {
		a, b := o[i], o[(i+1)%n]
		return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	}
	start := 0
	for i := 1; i < n; i++ {
		if math.Abs(heading(i)) < math.Abs(heading(start)) {
			start = i
		}
	}
	o = append(append(model.Outline{}, o[start:]...), o[:start]...)

	var borders []turtle.Elem
	for i := 0; i < n; i++ {
		a, b := o[i], o[(i+1)%n]
		turn := heading((i+1)%n) - heading(i)
		borders = append(borders,
			turtle.Elem{Value: math.Hypot(b.X-a.X, b.Y-a.Y)},
			turtle.Elem{Value: panel.NormalizeTurn(turn)},
		)
	}

	rad := -heading(0) * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	origin := o[0]
	toLocal := func(p model.Point2D) model.Point2D {
		dx, dy := p.X-origin.X, p.Y-origin.Y
		return model.Point2D{X: dx*cos - dy*sin, Y: dx*sin + dy*cos}
	}
	return borders, o.Map(toLocal), toLocal
}
