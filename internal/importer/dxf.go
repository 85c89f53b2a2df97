package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// StoneRadiusTolerance is how far a CIRCLE radius may stray from the sheet's
// stone radius and still be read as a stone.
const StoneRadiusTolerance = 0.5

// ImportDXF reads a board from a DXF drawing. Only CIRCLE entities on a layer
// named after a team count: a circle the size of a stone becomes a placed
// stone, a larger one becomes that team's ban zone. Everything else (sheet
// lines, house rings, other layers) is ignored.
func ImportDXF(path string, sheet model.Sheet) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	ids := map[model.Team]int{}
	for _, ent := range entities {
		c, ok := ent.(*entity.Circle)
		if !ok {
			continue
		}

		team, ok := layerTeam(c)
		if !ok {
			continue
		}
		if len(c.Center) < 2 {
			result.Warnings = append(result.Warnings, "Skipped CIRCLE without a centre")
			continue
		}
		x, y, r := c.Center[0], c.Center[1], c.Radius

		switch {
		case math.Abs(r-sheet.StoneRadius) <= StoneRadiusTolerance:
			result.Board.Add(team, model.Stone{ID: ids[team], X: x, Y: y, Placed: true})
			ids[team]++

		case r > sheet.StoneRadius:
			zone := &model.BanZone{X: x, Y: y, Radius: r}
			if team == model.TeamYellow {
				if result.BanZones.Yellow != nil {
					result.Warnings = append(result.Warnings, "Ignored extra yellow ban zone")
					continue
				}
				result.BanZones.Yellow = zone
			} else {
				if result.BanZones.Red != nil {
					result.Warnings = append(result.Warnings, "Ignored extra red ban zone")
					continue
				}
				result.BanZones.Red = zone
			}

		default:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped %s circle of radius %.2f (smaller than a stone)", team, r))
		}
	}

	if result.StoneCount() == 0 && result.BanZones.Red == nil && result.BanZones.Yellow == nil {
		result.Errors = append(result.Errors, "No stones or ban zones found on red or yellow layers")
	}

	return result
}

// layerTeam maps an entity's layer name to a team.
func layerTeam(c *entity.Circle) (model.Team, bool) {
	layer := c.Layer()
	if layer == nil {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(layer.Name())) {
	case string(model.TeamRed):
		return model.TeamRed, true
	case string(model.TeamYellow):
		return model.TeamYellow, true
	default:
		return "", false
	}
}
