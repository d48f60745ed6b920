package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/model"
)

// Summary page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
)

// ptPerMM converts font sizes given in mm to PDF points.
const ptPerMM = 72 / 25.4

// WritePDF writes the drawing at 1:1 scale on a page sized to fit it,
// followed by a summary page listing every placed part.
func WritePDF(path string, j Job) error {
	fr, err := newFrame(j.Drawing)
	if err != nil {
		return err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: fr.width(), Ht: fr.height()},
	})
	pdf.SetAutoPageBreak(false, 0)
	if j.Title != "" {
		pdf.SetTitle(j.Title, true)
	}
	pdf.SetCreator("BoxCut", true)

	pdf.AddPage()
	for _, part := range j.Drawing.Parts {
		for _, p := range part.Paths {
			renderPDFPath(pdf, fr, p)
		}
		for _, t := range part.Texts {
			renderPDFText(pdf, fr, t)
		}
	}

	if len(j.Footprints) > 0 {
		pdf.AddPageFormat("L", fpdf.SizeType{Wd: pageWidth, Ht: pageHeight})
		renderSummaryPage(pdf, j)
	}

	return pdf.OutputFileAndClose(path)
}

func renderPDFPath(pdf *fpdf.Fpdf, fr frame, p canvas.Path) {
	r, g, b := p.Color.RGB8()
	pdf.SetDrawColor(r, g, b)
	pdf.SetFillColor(r, g, b)
	pdf.SetLineWidth(p.Width)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	for _, s := range p.Segments {
		switch s.Op {
		case canvas.OpMove:
			v := fr.page(s.Pts[0])
			pdf.MoveTo(v.X, v.Y)
		case canvas.OpLine:
			v := fr.page(s.Pts[0])
			pdf.LineTo(v.X, v.Y)
		case canvas.OpCurve:
			c0, c1, v := fr.page(s.Pts[0]), fr.page(s.Pts[1]), fr.page(s.Pts[2])
			pdf.CurveBezierCubicTo(c0.X, c0.Y, c1.X, c1.Y, v.X, v.Y)
		case canvas.OpClose:
			pdf.ClosePath()
		}
	}
	if p.Filled {
		pdf.DrawPath("F")
	} else {
		pdf.DrawPath("D")
	}
}

func renderPDFText(pdf *fpdf.Fpdf, fr frame, t canvas.Text) {
	r, g, b := t.Style.Color.RGB8()
	pdf.SetTextColor(r, g, b)
	pdf.SetFont("Helvetica", "", t.Style.Size*ptPerMM)

	pos := fr.page(t.Pos)
	x := pos.X
	switch t.Style.Align {
	case canvas.AlignCenter:
		x -= pdf.GetStringWidth(t.Content) / 2
	case canvas.AlignRight:
		x -= pdf.GetStringWidth(t.Content)
	}

	pdf.TransformBegin()
	// fpdf rotates counter-clockwise for positive angles
	pdf.TransformRotate(-textAngle(t.Angle), pos.X, pos.Y)
	if t.Mirrored {
		pdf.TransformMirrorHorizontal(pos.X)
	}
	pdf.Text(x, pos.Y, t.Content)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the part table and the session settings.
func renderSummaryPage(pdf *fpdf.Fpdf, j Job) {
	// Title
	title := "Part Summary"
	if j.Title != "" {
		title = j.Title + ": " + title
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	var area float64
	for _, fp := range j.Footprints {
		area += fp.Area()
	}
	minX, minY, maxX, maxY := footprintExtent(j.Footprints)

	summaryItems := []struct {
		label string
		value string
	}{
		{"Parts", fmt.Sprintf("%d", len(j.Footprints))},
		{"Reserved Area", fmt.Sprintf("%.0f mm²", area)},
		{"Sheet Extent", fmt.Sprintf("%.1f x %.1f mm", maxX-minX, maxY-minY)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Table header
	colWidths := []float64{15, 25, 70, 45, 45, 30, 37}
	headers := []string{"#", "ID", "Label", "Position", "Size", "Move", "Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	// Table rows
	pdf.SetFont("Helvetica", "", 9)
	for i, fp := range j.Footprints {
		if y > pageHeight-marginBottom-20 {
			pdf.AddPageFormat("L", fpdf.SizeType{Wd: pageWidth, Ht: pageHeight})
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fp.ID,
			fp.Label,
			fmt.Sprintf("%.1f, %.1f", fp.X, fp.Y),
			fmt.Sprintf("%.1f x %.1f mm", fp.Width, fp.Height),
			fp.Directive,
			fmt.Sprintf("%.0f mm²", fp.Area()),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for k, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[k], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[k]
		}
		y += 6
	}

	// Settings
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Settings", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Thickness", fmt.Sprintf("%.2f mm", j.Settings.Thickness)},
		{"Burn", fmt.Sprintf("%.2f mm", j.Settings.Burn)},
		{"Tabs", fmt.Sprintf("%.2f mm", j.Settings.Tabs)},
		{"Spacing", fmt.Sprintf("%.2f mm", j.Settings.Spacing())},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoxCut", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// footprintExtent returns the box covering all footprints.
func footprintExtent(fps []model.Footprint) (minX, minY, maxX, maxY float64) {
	if len(fps) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, fp := range fps {
		minX = math.Min(minX, fp.X)
		minY = math.Min(minY, fp.Y)
		maxX = math.Max(maxX, fp.X+fp.Width)
		maxY = math.Max(maxY, fp.Y+fp.Height)
	}
	return minX, minY, maxX, maxY
}
