package export

import (
	"fmt"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// DXF layer names. Team layers are read back by the DXF importer.
const (
	LayerSheet = "sheet"
	LayerHouse = "house"
)

// ExportDXF writes the sheet outline and lines, the house rings, and each
// team's placed stones and ban zone to a DXF drawing. Coordinates are sheet
// centimetres with Y growing towards the back line.
func ExportDXF(path string, board model.Board, zones model.TeamZones, sheet model.Sheet) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerSheet, color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add sheet layer: %w", err)
	}
	bottom := sheet.ViewBottomY()
	lines := [][4]float64{
		{0, 0, 0, bottom},
		{sheet.Width, 0, sheet.Width, bottom},
		{sheet.CenterX(), 0, sheet.CenterX(), bottom},
		{0, sheet.HogLineY(), sheet.Width, sheet.HogLineY()},
		{0, sheet.TeeY(), sheet.Width, sheet.TeeY()},
		{0, sheet.BackLineY(), sheet.Width, sheet.BackLineY()},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return fmt.Errorf("failed to draw sheet line: %w", err)
		}
	}

	if _, err := d.AddLayer(LayerHouse, color.Blue, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add house layer: %w", err)
	}
	for _, r := range sheet.RingRadii() {
		if _, err := d.Circle(sheet.CenterX(), sheet.TeeY(), 0, r); err != nil {
			return fmt.Errorf("failed to draw ring: %w", err)
		}
	}

	layerColors := map[model.Team]color.ColorNumber{
		model.TeamRed:    color.Red,
		model.TeamYellow: color.Yellow,
	}
	for _, team := range model.Teams {
		if _, err := d.AddLayer(string(team), layerColors[team], table.LT_CONTINUOUS, true); err != nil {
			return fmt.Errorf("failed to add %s layer: %w", team, err)
		}
		for _, s := range board.Stones(team) {
			if !s.Placed {
				continue
			}
			if _, err := d.Circle(s.X, s.Y, 0, sheet.StoneRadius); err != nil {
				return fmt.Errorf("failed to draw %s stone %d: %w", team, s.ID, err)
			}
		}
		for _, z := range zones.For(team) {
			if _, err := d.Circle(z.X, z.Y, 0, z.Radius); err != nil {
				return fmt.Errorf("failed to draw %s ban zone: %w", team, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF file: %w", err)
	}
	return nil
}
