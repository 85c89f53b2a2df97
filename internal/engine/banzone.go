package engine

import (
	"math"

	"github.com/piwi3910/KickaEttan/internal/model"
)

// Fallback push direction for coincident centres: straight towards the hog
// line. The client uses the same vector, so previews and the authoritative
// check agree.
const (
	degenerateX = 0.0
	degenerateY = -1.0
)

// BanOverlaps reports whether a stone of the given radius at (x, y) touches
// or intersects the zone. A nil zone never overlaps.
func BanOverlaps(x, y, stoneRadius float64, zone *model.BanZone) bool {
	if zone == nil {
		return false
	}
	return distance(x, y, zone.X, zone.Y) < stoneRadius+zone.Radius
}

// InsideBan reports whether no part of the stone lies outside the zone.
// Such a stone cannot be pushed out in any meaningful direction.
func InsideBan(x, y, stoneRadius float64, zone *model.BanZone) bool {
	if zone == nil {
		return false
	}
	return distance(x, y, zone.X, zone.Y)+stoneRadius <= zone.Radius
}

// PushOutOfBan moves an overlapping stone outward along the line from the
// zone centre so that it just touches the zone edge. A stone that does not
// overlap is returned unchanged.
func PushOutOfBan(x, y, stoneRadius float64, zone model.BanZone) (float64, float64) {
	dx := x - zone.X
	dy := y - zone.Y
	d := math.Sqrt(dx*dx + dy*dy)

	reach := zone.Radius + stoneRadius
	if d >= reach {
		return x, y
	}

	nx, ny := direction(dx, dy, d)
	return zone.X + nx*reach, zone.Y + ny*reach
}

// BanAdjustment is the outcome of AdjustForBan.
type BanAdjustment struct {
	Pushed     bool    `json:"pushed"`
	ResetToBar bool    `json:"reset_to_bar"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// AdjustForBan applies one zone to one stone without considering other
// stones: a stone fully inside is reset, an overlapping stone is pushed out
// and reset if that lands it out of bounds, anything else stays put.
func AdjustForBan(b Boundaries, x, y, stoneRadius float64, zone *model.BanZone) BanAdjustment {
	if zone == nil {
		return BanAdjustment{X: x, Y: y}
	}
	if InsideBan(x, y, stoneRadius, zone) {
		return BanAdjustment{ResetToBar: true, X: x, Y: y}
	}
	if BanOverlaps(x, y, stoneRadius, zone) {
		px, py := PushOutOfBan(x, y, stoneRadius, *zone)
		if !b.IsWithinBounds(px, py) {
			return BanAdjustment{ResetToBar: true, X: x, Y: y}
		}
		return BanAdjustment{Pushed: true, X: px, Y: py}
	}
	return BanAdjustment{X: x, Y: y}
}

// containingZone returns the first zone that fully contains the stone.
func containingZone(x, y, stoneRadius float64, zones []model.BanZone) (model.BanZone, bool) {
	for i := range zones {
		if InsideBan(x, y, stoneRadius, &zones[i]) {
			return zones[i], true
		}
	}
	return model.BanZone{}, false
}

// deepestOverlap returns the overlapped zone the stone penetrates furthest.
// Ties go to the earlier zone.
func deepestOverlap(x, y, stoneRadius float64, zones []model.BanZone) (model.BanZone, bool) {
	var (
		best  model.BanZone
		found bool
		depth float64
	)
	for i := range zones {
		z := zones[i]
		gap := distance(x, y, z.X, z.Y) - (stoneRadius + z.Radius)
		if gap >= 0 {
			continue
		}
		if !found || gap < depth {
			best, depth, found = z, gap, true
		}
	}
	return best, found
}

// distance matches the client's arithmetic (sqrt of the sum of squares) so
// both sides see the same tangency decisions.
func distance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// direction returns the unit vector (dx, dy)/d, or the fixed fallback when
// d is zero.
func direction(dx, dy, d float64) (float64, float64) {
	if d == 0 {
		return degenerateX, degenerateY
	}
	return dx / d, dy / d
}
