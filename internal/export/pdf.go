// Package export writes boards and resolution results to PDF reports, QR
// placement cards and DXF drawings.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/KickaEttan/internal/model"
)

// ErrNothingToExport is returned when the input has nothing to draw.
var ErrNothingToExport = errors.New("nothing to export")

// rgb represents a fill or stroke color.
type rgb struct {
	R, G, B int
}

// teamColors mirrors the stone colors used by the game client.
var teamColors = map[model.Team]rgb{
	model.TeamRed:    {R: 220, G: 53, B: 69},
	model.TeamYellow: {R: 255, G: 205, B: 0},
}

// ringColors fills the house from the 12 ft ring in to the button.
var ringColors = []rgb{
	{R: 33, G: 99, B: 196},   // 12 ft
	{R: 255, G: 255, B: 255}, // 8 ft
	{R: 204, G: 40, B: 40},   // 4 ft
	{R: 255, G: 255, B: 255}, // button
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a report for a scenario: a sheet diagram showing the
// board, ban zones and where each drop ended up, followed by a table of drop
// outcomes.
func ExportPDF(path string, sc model.Scenario, results []model.DropResult, sheet model.Sheet) error {
	if len(sc.Board.Red)+len(sc.Board.Yellow) == 0 && len(results) == 0 {
		return fmt.Errorf("scenario %q: %w", sc.Name, ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderSheetPage(pdf, sc, results, sheet)

	pdf.AddPage()
	renderSummaryPage(pdf, sc, results)

	return pdf.OutputFileAndClose(path)
}

// sheetCanvas maps sheet coordinates (cm) onto the page (mm).
type sheetCanvas struct {
	scale, offsetX, offsetY float64
}

func (c sheetCanvas) point(x, y float64) (float64, float64) {
	return c.offsetX + x*c.scale, c.offsetY + y*c.scale
}

// renderSheetPage draws the sheet diagram on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, sc model.Scenario, results []model.DropResult, sheet model.Sheet) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, sc.Name, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Stones: %d placed | Drops: %d | Sheet: %.0f x %.0f cm",
		sc.Board.PlacedCount(), len(results), sheet.Width, sheet.ViewBottomY())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/sheet.Width, drawHeight/sheet.ViewBottomY())

	canvasW := sheet.Width * scale
	canvasH := sheet.ViewBottomY() * scale
	c := sheetCanvas{
		scale:   scale,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
	}

	// Ice
	pdf.SetFillColor(240, 248, 255)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(c.offsetX, c.offsetY, canvasW, canvasH, "FD")

	drawHouse(pdf, c, sheet)
	drawSheetLines(pdf, c, sheet)

	for _, team := range model.Teams {
		for _, z := range sc.BanZones.For(team) {
			drawBanZone(pdf, c, z, team)
		}
	}
	for _, team := range model.Teams {
		for _, s := range sc.Board.Stones(team) {
			if s.Placed {
				drawStone(pdf, c, sheet, s.X, s.Y, team)
			}
		}
	}
	for i, r := range results {
		drawDrop(pdf, c, sheet, i+1, r)
	}

	drawLegend(pdf, c.offsetY+canvasH+5)
}

func drawHouse(pdf *fpdf.Fpdf, c sheetCanvas, sheet model.Sheet) {
	cx, cy := c.point(sheet.CenterX(), sheet.TeeY())
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.2)
	for i, r := range sheet.RingRadii() {
		col := ringColors[i%len(ringColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Circle(cx, cy, r*c.scale, "FD")
	}
}

func drawSheetLines(pdf *fpdf.Fpdf, c sheetCanvas, sheet model.Sheet) {
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)

	for _, y := range []float64{sheet.HogLineY(), sheet.TeeY(), sheet.BackLineY()} {
		x1, py := c.point(0, y)
		x2, _ := c.point(sheet.Width, y)
		pdf.Line(x1, py, x2, py)
	}

	x, y1 := c.point(sheet.CenterX(), 0)
	_, y2 := c.point(sheet.CenterX(), sheet.ViewBottomY())
	pdf.SetLineWidth(0.15)
	pdf.Line(x, y1, x, y2)
}

func drawBanZone(pdf *fpdf.Fpdf, c sheetCanvas, z model.BanZone, team model.Team) {
	x, y := c.point(z.X, z.Y)
	r := z.Radius * c.scale

	col := teamColors[team]
	pdf.SetAlpha(0.25, "Normal")
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Circle(x, y, r, "F")
	pdf.SetAlpha(1, "Normal")

	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	pdf.Circle(x, y, r, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(180, 0, 0)
	label := "BAN"
	w := pdf.GetStringWidth(label)
	pdf.SetXY(x-w/2, y-2)
	pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawStone(pdf *fpdf.Fpdf, c sheetCanvas, sheet model.Sheet, sx, sy float64, team model.Team) {
	x, y := c.point(sx, sy)
	col := teamColors[team]
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.SetDrawColor(40, 40, 40)
	pdf.SetLineWidth(0.3)
	pdf.Circle(x, y, sheet.StoneRadius*c.scale, "FD")
}

// drawDrop marks the drop point and joins it to where the stone came to rest.
// Rejected drops get a cross instead.
func drawDrop(pdf *fpdf.Fpdf, c sheetCanvas, sheet model.Sheet, n int, r model.DropResult) {
	dx, dy := c.point(r.Drop.X, r.Drop.Y)

	pdf.SetFont("Helvetica", "B", 6)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(dx+1, dy-4)
	pdf.CellFormat(6, 3, fmt.Sprintf("%d", n), "", 0, "L", false, 0, "")

	if r.Resolution.ResetToBar {
		const arm = 1.5
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.4)
		pdf.Line(dx-arm, dy-arm, dx+arm, dy+arm)
		pdf.Line(dx-arm, dy+arm, dx+arm, dy-arm)
		return
	}

	rx, ry := c.point(r.Resolution.X, r.Resolution.Y)
	drawStone(pdf, c, sheet, r.Resolution.X, r.Resolution.Y, r.Drop.Team)

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{0.8, 0.6}, 0)
	pdf.Line(dx, dy, rx, ry)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.Circle(dx, dy, 0.5, "F")
}

func drawLegend(pdf *fpdf.Fpdf, y float64) {
	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft

	for _, team := range model.Teams {
		col := teamColors[team]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Circle(x+1.5, y+2, 1.5, "F")
		pdf.SetXY(x+4, y)
		pdf.CellFormat(20, 4, string(team), "", 0, "L", false, 0, "")
		x += 24
	}

	pdf.SetDrawColor(200, 0, 0)
	pdf.Line(x, y+0.5, x+3, y+3.5)
	pdf.Line(x, y+3.5, x+3, y+0.5)
	pdf.SetXY(x+4, y)
	pdf.CellFormat(30, 4, "returned to bar", "", 0, "L", false, 0, "")
}

// renderSummaryPage lists every drop with its outcome.
func renderSummaryPage(pdf *fpdf.Fpdf, sc model.Scenario, results []model.DropResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placement Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	placed, rejected := countOutcomes(results)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Scenario", sc.Name},
		{"Scenario ID", sc.ID},
		{"Drops", fmt.Sprintf("%d", len(results))},
		{"Placed", fmt.Sprintf("%d", placed)},
		{"Returned to bar", fmt.Sprintf("%d", rejected)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(results) == 0 {
		return
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Drops", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{10, 20, 15, 35, 35, 45, 20}
	headers := []string{"#", "Team", "Stone", "Dropped", "Resolved", "Outcome", "Rounds"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range results {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}

		resolved := fmt.Sprintf("%.1f, %.1f", r.Resolution.X, r.Resolution.Y)
		if r.Resolution.ResetToBar {
			resolved = "-"
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			string(r.Drop.Team),
			fmt.Sprintf("%d", r.Drop.StoneID),
			fmt.Sprintf("%.1f, %.1f", r.Drop.X, r.Drop.Y),
			resolved,
			string(r.Resolution.Outcome),
			fmt.Sprintf("%d", r.Resolution.Rounds),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by KickaEttan", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// countOutcomes returns how many drops were placed and how many rejected.
func countOutcomes(results []model.DropResult) (placed, rejected int) {
	for _, r := range results {
		if r.Resolution.ResetToBar {
			rejected++
		} else {
			placed++
		}
	}
	return placed, rejected
}
