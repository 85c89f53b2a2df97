package engine

import (
	"math"

	"github.com/piwi3910/KickaEttan/internal/model"
)

// Separate pushes the point at (x, y) off every placed stone (other than
// selfID) it overlaps, leaving it exactly touching. Stones are visited once,
// in order; a later push may move the point back onto an earlier stone, which
// the resolver's outer loop takes care of. collided reports whether any push
// happened.
func Separate(x, y float64, stones []model.Stone, selfID int, stoneRadius float64) (float64, float64, bool) {
	minDist := 2 * stoneRadius
	collided := false

	for _, other := range stones {
		if other.ID == selfID || !other.Placed {
			continue
		}

		dx := x - other.X
		dy := y - other.Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d >= minDist {
			continue
		}

		collided = true
		nx, ny := direction(dx, dy, d)
		x = other.X + nx*minDist
		y = other.Y + ny*minDist
	}

	return x, y, collided
}
