package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/KickaEttan/internal/measure"
	"github.com/piwi3910/KickaEttan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each placement card's QR code.
type LabelInfo struct {
	Team             model.Team   `json:"team"`
	StoneID          int          `json:"stone"`
	X                float64      `json:"x_cm"`
	Y                float64      `json:"y_cm"`
	Zone             measure.Zone `json:"zone"`
	DistanceToCenter float64      `json:"distance_to_center_cm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded placement cards, one per placed
// stone. Each card shows the team, stone number, position and zone, and the
// QR code carries the same data as JSON so a position can be restored by
// scanning it.
func ExportLabels(path string, board model.Board, sheet model.Sheet) error {
	labels := CollectLabelInfos(board, sheet)
	if len(labels) == 0 {
		return fmt.Errorf("no placed stones to generate labels for: %w", ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %s stone %d: %w", label.Team, label.StoneID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.Team, info.StoneID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Team swatch and title
	col := teamColors[info.Team]
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Circle(textX+1.5, y+labelPadding+2.25, 1.5, "F")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+4, y+labelPadding)
	pdf.CellFormat(textW-4, 4.5, fmt.Sprintf("%s stone %d", info.Team, info.StoneID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("(%.1f, %.1f) cm", info.X, info.Y), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%s, %.1f cm from tee", info.Zone, info.DistanceToCenter), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos returns one label per placed stone, red team first.
func CollectLabelInfos(board model.Board, sheet model.Sheet) []LabelInfo {
	var labels []LabelInfo
	for _, team := range model.Teams {
		for _, s := range board.Stones(team) {
			if !s.Placed {
				continue
			}
			c := measure.Classify(sheet, s.X, s.Y)
			labels = append(labels, LabelInfo{
				Team:             team,
				StoneID:          s.ID,
				X:                s.X,
				Y:                s.Y,
				Zone:             c.Zone,
				DistanceToCenter: c.DistanceToCenter,
			})
		}
	}
	return labels
}
