package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	partsSheet    = "Parts"
	settingsSheet = "Settings"
)

var reportHeaders = []string{"ID", "Label", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Area (mm²)", "Move"}

// WriteReport writes an XLSX workbook listing every placed part and the
// session settings.
func WriteReport(path string, j Job) error {
	if len(j.Footprints) == 0 {
		return errors.New("no parts placed to report")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), partsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range reportHeaders {
		if err := setCell(f, partsSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
	if err := f.SetCellStyle(partsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, fp := range j.Footprints {
		row := []interface{}{fp.ID, fp.Label, fp.X, fp.Y, fp.Width, fp.Height, fp.Area(), fp.Directive}
		for k, v := range row {
			if err := setCell(f, partsSheet, k+1, i+2, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(partsSheet, "B", "B", 24); err != nil {
		return err
	}

	if _, err := f.NewSheet(settingsSheet); err != nil {
		return err
	}
	settings := [][]interface{}{
		{"Thickness (mm)", j.Settings.Thickness},
		{"Burn (mm)", j.Settings.Burn},
		{"Tabs (mm)", j.Settings.Tabs},
		{"Spacing (mm)", j.Settings.Spacing()},
		{"Format", string(j.Settings.Format)},
	}
	for i, kv := range settings {
		for k, v := range kv {
			if err := setCell(f, settingsSheet, k+1, i+1, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(settingsSheet, "A", "A", 18); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, v)
}

// ReportRows reads the part rows back from a report written by WriteReport.
func ReportRows(path string) ([]model.Footprint, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open report: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(partsSheet)
	if err != nil {
		return nil, err
	}
	var out []model.Footprint
	for _, r := range rows[min(1, len(rows)):] {
		if len(r) < 6 {
			continue
		}
		var fp model.Footprint
		fp.ID, fp.Label = r[0], r[1]
		if _, err := fmt.Sscan(r[2], &fp.X); err != nil {
			return nil, fmt.Errorf("row %q: %w", r[0], err)
		}
		if _, err := fmt.Sscan(r[3], &fp.Y); err != nil {
			return nil, fmt.Errorf("row %q: %w", r[0], err)
		}
		if _, err := fmt.Sscan(r[4], &fp.Width); err != nil {
			return nil, fmt.Errorf("row %q: %w", r[0], err)
		}
		if _, err := fmt.Sscan(r[5], &fp.Height); err != nil {
			return nil, fmt.Errorf("row %q: %w", r[0], err)
		}
		if len(r) > 7 {
			fp.Directive = r[7]
		}
		out = append(out, fp)
	}
	return out, nil
}
