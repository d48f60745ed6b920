package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "region,x,y\na,0,0\na,10,0\n", ','},
		{"semicolon", "region;x;y\na;0;0\na;10;0\n", ';'},
		{"tab", "region\tx\ty\na\t0\t0\na\t10\t0\n", '\t'},
		{"pipe", "region|x|y\na|0|0\na|10|0\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Region", "X", "Y"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping != (ColumnMapping{Region: 0, X: 1, Y: 2}) {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_ReorderedAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"y (mm)", " Shape ", "x_mm"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping != (ColumnMapping{Region: 1, X: 2, Y: 0}) {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"hole", "10", "20"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping != (ColumnMapping{Region: 0, X: 1, Y: 2}) {
		t.Errorf("unexpected positional mapping %+v", mapping)
	}

	mapping, _ = DetectColumns([]string{"10", "20"})
	if mapping != (ColumnMapping{Region: -1, X: 0, Y: 1}) {
		t.Errorf("unexpected two column mapping %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_TwoRegions(t *testing.T) {
	csv := "region,x,y\n" +
		"left,0,0\nleft,40,0\nleft,40,30\nleft,0,30\n" +
		"right,50,0\nright,90,0\nright,70,30\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if result.Regions[0].Name != "left" || len(result.Regions[0].Outline) != 4 {
		t.Errorf("unexpected first region %+v", result.Regions[0])
	}
	if got := result.Regions[0].Outline.Area(); got != 1200 {
		t.Errorf("expected area 1200, got %f", got)
	}
	if result.Regions[1].Name != "right" || len(result.Regions[1].Outline) != 3 {
		t.Errorf("unexpected second region %+v", result.Regions[1])
	}
	if !result.OK() {
		t.Error("expected OK result")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	csv := "a,0,0\na,10,0\na,10,10\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 1 || result.Regions[0].Name != "a" {
		t.Fatalf("unexpected regions %+v", result.Regions)
	}
	for _, w := range result.Warnings {
		if strings.Contains(w, "header") {
			t.Errorf("unexpected header warning: %s", w)
		}
	}
}

func TestImportCSVFromReader_BlankLinesSeparateUnnamedRegions(t *testing.T) {
	// encoding/csv skips blank lines; a row of empty fields separates regions
	csv := "0,0\n10,0\n10,10\n,\n20,0\n30,0\n30,10\n20,10\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(result.Regions))
	}
	if result.Regions[0].Name != "Region 1" || result.Regions[1].Name != "Region 2" {
		t.Errorf("unexpected names %q %q", result.Regions[0].Name, result.Regions[1].Name)
	}
}

func TestImportCSVFromReader_DropsClosingPoint(t *testing.T) {
	csv := "x,y\n0,0\n10,0\n10,10\n0,0\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d (%v)", len(result.Regions), result.Errors)
	}
	if n := len(result.Regions[0].Outline); n != 3 {
		t.Errorf("expected the repeated start point to be dropped, got %d points", n)
	}
}

func TestImportCSVFromReader_InvalidValues(t *testing.T) {
	csv := "region,x,y\na,0,0\na,abc,0\na,10,\na,10,0\na,10,10\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Invalid x 'abc'") || !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("unexpected error %q", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "Missing y") {
		t.Errorf("unexpected error %q", result.Errors[1])
	}
	// the remaining rows still form a triangle
	if len(result.Regions) != 1 || len(result.Regions[0].Outline) != 3 {
		t.Errorf("unexpected regions %+v", result.Regions)
	}
	if result.OK() {
		t.Error("result with errors must not be OK")
	}
}

func TestImportCSVFromReader_TooFewPoints(t *testing.T) {
	csv := "region,x,y\nline,0,0\nline,10,0\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Regions) != 0 {
		t.Errorf("expected no regions, got %d", len(result.Regions))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], `"line" has 2 points`) {
		t.Errorf("unexpected errors %v", result.Errors)
	}
}

func TestImportCSVFromReader_ZeroArea(t *testing.T) {
	csv := "0,0\n5,0\n10,0\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Regions) != 0 {
		t.Errorf("expected collinear points to be skipped")
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "zero area") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zero area warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("region,x\na,1\n"), ',')
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Y") {
		t.Errorf("expected missing Y error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

// ─── ImportCSV File Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.csv")
	data := "Shape;X;Y\nhole;0,5;0\nhole;10;0\nhole;10;10\nhole;0;10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	// "0,5" is not a number with a dot decimal separator
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/regions.csv")
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Cannot open file") {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"X", "Y", "Name"},
		{0, 0, "plate"},
		{60.5, 0, "plate"},
		{60.5, 40, "plate"},
		{0, 40, "plate"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(result.Regions))
	}
	r := result.Regions[0]
	if r.Name != "plate" {
		t.Errorf("expected name plate, got %q", r.Name)
	}
	if r.Outline[1] != (model.Point2D{X: 60.5, Y: 0}) {
		t.Errorf("unexpected point %+v", r.Outline[1])
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportExcel_EmptySheet(t *testing.T) {
	path := createTestExcel(t, nil)
	result := ImportExcel(path)
	if len(result.Errors) == 0 {
		t.Error("expected error for empty sheet")
	}
}
