// Package measure reports where a stone sits relative to the house and the
// sheet lines, and how far it is from its neighbours.
package measure

import (
	"math"

	"github.com/piwi3910/KickaEttan/internal/model"
)

// Zone is the region of the sheet a stone rests in.
type Zone string

const (
	ZoneHouse     Zone = "house"      // Touching or inside the 12 ft ring
	ZoneNearHouse Zone = "near-house" // Within the near-house threshold of the 12 ft ring
	ZoneGuard     Zone = "guard"
)

// Classification describes a stone position relative to the house.
type Classification struct {
	Zone             Zone    `json:"zone" yaml:"zone"`
	DistanceToCenter float64 `json:"distance_to_center" yaml:"distance_to_center"`
	DistanceToHouse  float64 `json:"distance_to_house" yaml:"distance_to_house"` // Stone edge to 12 ft ring, negative inside
	TouchingHouse    bool    `json:"touching_house" yaml:"touching_house"`
}

// RingDistance describes the ring edge nearest to a stone.
type RingDistance struct {
	RingRadius     float64 `json:"ring_radius" yaml:"ring_radius"`
	DistanceToEdge float64 `json:"distance_to_edge" yaml:"distance_to_edge"` // Negative when the stone covers the ring line
	Overlapping    bool    `json:"overlapping" yaml:"overlapping"`
	OverlapPercent int     `json:"overlap_percent" yaml:"overlap_percent"`
}

// DistanceToCenter returns the distance from (x, y) to the centre of the house.
func DistanceToCenter(sheet model.Sheet, x, y float64) float64 {
	dx := x - sheet.CenterX()
	dy := y - sheet.TeeY()
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceToHouse returns the gap between the stone edge and the 12 ft ring:
// zero when touching, negative when inside.
func DistanceToHouse(sheet model.Sheet, x, y float64) float64 {
	return DistanceToCenter(sheet, x, y) - sheet.StoneRadius - sheet.HouseRadius12
}

// IsTouchingHouse reports whether any part of the stone reaches the house.
func IsTouchingHouse(sheet model.Sheet, x, y float64) bool {
	return DistanceToCenter(sheet, x, y) <= sheet.HouseRadius12+sheet.StoneRadius
}

// Classify places a stone in the house, near the house or in the guard zone.
func Classify(sheet model.Sheet, x, y float64) Classification {
	d := DistanceToCenter(sheet, x, y)
	touching := IsTouchingHouse(sheet, x, y)

	zone := ZoneGuard
	switch {
	case touching:
		zone = ZoneHouse
	case d <= sheet.HouseRadius12+sheet.StoneRadius+sheet.NearHouseThreshold:
		zone = ZoneNearHouse
	}

	return Classification{
		Zone:             zone,
		DistanceToCenter: d,
		DistanceToHouse:  DistanceToHouse(sheet, x, y),
		TouchingHouse:    touching,
	}
}

// ClosestRing finds the ring line nearest to the stone edge. A stone within
// reach of the button counts as overlapping it, scored by how close to the
// centre it is.
func ClosestRing(sheet model.Sheet, x, y float64) RingDistance {
	d := DistanceToCenter(sheet, x, y)

	best := RingDistance{DistanceToEdge: math.Inf(1)}
	for _, r := range sheet.RingRadii() {
		gap := math.Abs(d-r) - sheet.StoneRadius
		if math.Abs(gap) < math.Abs(best.DistanceToEdge) {
			best.DistanceToEdge = gap
			best.RingRadius = r
		}
	}

	buttonReach := sheet.ButtonRadius + sheet.StoneRadius
	onButton := best.RingRadius == sheet.ButtonRadius && d <= buttonReach
	best.Overlapping = best.DistanceToEdge < 0 || onButton

	switch {
	case onButton:
		best.OverlapPercent = percent(1 - d/buttonReach)
	case best.DistanceToEdge < 0:
		best.OverlapPercent = percent(-best.DistanceToEdge / sheet.StoneRadius)
	}

	return best
}

// LineOffset is the gap between a stone and a straight sheet line.
type LineOffset struct {
	Delta       float64 `json:"delta" yaml:"delta"`             // Signed centre offset from the line
	Distance    float64 `json:"distance" yaml:"distance"`       // Stone edge to line, or centre offset while overlapping
	Overlapping bool    `json:"overlapping" yaml:"overlapping"` // The stone covers the line
}

func lineOffset(delta, radius float64) LineOffset {
	abs := math.Abs(delta)
	if abs < radius {
		return LineOffset{Delta: delta, Distance: abs, Overlapping: true}
	}
	return LineOffset{Delta: delta, Distance: abs - radius}
}

// CenterLineOffset measures a stone against the centre line. Delta is
// negative left of the line.
func CenterLineOffset(sheet model.Sheet, x float64) LineOffset {
	return lineOffset(x-sheet.CenterX(), sheet.StoneRadius)
}

// TLineOffset measures a stone against the tee line. Delta is negative
// above the line.
func TLineOffset(sheet model.Sheet, y float64) LineOffset {
	return lineOffset(y-sheet.TeeY(), sheet.StoneRadius)
}

// GuardDistance returns the gap between the top of the stone and the hog
// line.
func GuardDistance(sheet model.Sheet, y float64) float64 {
	return y - sheet.HogLineY() - sheet.StoneRadius
}

// NearestStone finds the placed stone closest to p and returns its index in
// stones with the edge-to-edge gap. ok is false when no stone is placed.
func NearestStone(sheet model.Sheet, p model.Point2D, stones []model.Stone) (index int, gap float64, ok bool) {
	index, gap = -1, math.Inf(1)
	for i, s := range stones {
		if !s.Placed {
			continue
		}
		if g := StoneDistance(sheet, p, s.Position()); g < gap {
			index, gap = i, g
		}
	}
	return index, gap, index >= 0
}

// StoneDistance returns the edge-to-edge gap between two stones, negative
// when they overlap.
func StoneDistance(sheet model.Sheet, a, b model.Point2D) float64 {
	return a.Distance(b) - 2*sheet.StoneRadius
}

func percent(fraction float64) int {
	p := math.Round(fraction * 100)
	return int(math.Max(0, math.Min(100, p)))
}
