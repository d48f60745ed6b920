// Package importer reads fill regions from CSV and Excel point lists and
// from the closed shapes of DXF drawings. It supports automatic delimiter
// detection, flexible column mapping and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/BoxCut/internal/logging"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Region is one named closed outline, ready to be filled. Holes lie inside
// Outline and are cut out of the part; point lists never have any.
type Region struct {
	Name    string
	Outline model.Outline
	Holes   []model.Outline
}

// ImportResult holds the results of an import operation. Errors make the
// affected rows or shapes unusable; warnings do not.
type ImportResult struct {
	Regions  []Region
	Errors   []string
	Warnings []string
}

// OK reports whether at least one region was read and nothing failed.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Regions) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Region int
	X      int
	Y      int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"region": {"region", "name", "shape", "outline", "polygon", "label", "id"},
	"x":      {"x", "x (mm)", "x_mm", "px"},
	"y":      {"y", "y (mm)", "y_mm", "py"},
}

// minRegionPoints is the smallest point count that encloses an area.
const minRegionPoints = 3

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It returns the mapping and true if a header was detected, or the
// positional mapping region, x, y and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Region: -1, X: -1, Y: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "region":
					if mapping.Region == -1 {
						mapping.Region = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				}
			}
		}
	}

	if !isHeader {
		if len(row) == 2 {
			return ColumnMapping{Region: -1, X: 0, Y: 1}, false
		}
		return ColumnMapping{Region: 0, X: 1, Y: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts the region name and point of one row.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (string, model.Point2D, string) {
	name := getCell(row, mapping.Region)

	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return "", model.Point2D{}, fmt.Sprintf("%s: Missing x value", rowLabel)
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return "", model.Point2D{}, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr)
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return "", model.Point2D{}, fmt.Sprintf("%s: Missing y value", rowLabel)
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return "", model.Point2D{}, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr)
	}

	return name, model.Point2D{X: x, Y: y}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports regions from a CSV point list.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports regions from a CSV reader with a specific
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports regions from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Consecutive rows with the same region name form one outline. Rows without
// a name continue the current region.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], mapping.X), 64); err != nil {
		// an unrecognized header; keep the positional mapping
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	var cur *Region
	flush := func() {
		if cur == nil {
			return
		}
		outline := cur.Outline.Unclosed()
		if len(outline) < minRegionPoints {
			result.Errors = append(result.Errors, fmt.Sprintf("Region %q has %d points, need at least %d", cur.Name, len(outline), minRegionPoints))
		} else if outline.Area() < 1e-9 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped region %q with zero area", cur.Name))
		} else {
			result.Regions = append(result.Regions, Region{Name: cur.Name, Outline: outline})
		}
		cur = nil
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			flush()
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		name, p, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if cur != nil && name != "" && name != cur.Name {
			flush()
		}
		if cur == nil {
			if name == "" {
				name = fmt.Sprintf("Region %d", len(result.Regions)+1)
			}
			cur = &Region{Name: name}
		}
		cur.Outline = append(cur.Outline, p)
	}
	flush()

	logging.Logger().Info("regions imported", "regions", len(result.Regions), "errors", len(result.Errors))
	return result
}
