package engine

import (
	"math"

	"github.com/piwi3910/KickaEttan/internal/model"
)

// Violation messages reported by Validate, one per side of the legal region.
const (
	ViolationLeft    = "Stone placement violates left sideline boundary"
	ViolationRight   = "Stone placement violates right sideline boundary"
	ViolationHogLine = "Stone placement violates hog line boundary (too far up)"
	ViolationBack    = "Stone placement violates back line boundary (too far down)"
)

// Boundaries is the region a stone centre may occupy. The whole stone must be
// past the hog line; at the back line the centre may reach one radius past
// the line, so the stone can touch but not fully cross it.
type Boundaries struct {
	MinX      float64 `json:"min_x"`
	MaxX      float64 `json:"max_x"`
	MinY      float64 `json:"min_y"`
	MaxY      float64 `json:"max_y"`
	HogLineY  float64 `json:"hog_line_y"`
	BackLineY float64 `json:"back_line_y"`
}

// NewBoundaries derives the legal region from the sheet geometry.
func NewBoundaries(sheet model.Sheet) Boundaries {
	hogLineY := sheet.HogLineY()
	backLineY := sheet.BackLineY()
	// The hog line has width; the stone must clear its far edge.
	hogLineEdge := hogLineY + sheet.HogLineWidth/2

	return Boundaries{
		MinX:      sheet.StoneRadius,
		MaxX:      sheet.Width - sheet.StoneRadius,
		MinY:      hogLineEdge + sheet.StoneRadius,
		MaxY:      backLineY + sheet.StoneRadius,
		HogLineY:  hogLineY,
		BackLineY: backLineY,
	}
}

// Clamp moves (x, y) to the nearest point of the legal region.
func (b Boundaries) Clamp(x, y float64) (float64, float64) {
	return clamp(x, b.MinX, b.MaxX), clamp(y, b.MinY, b.MaxY)
}

// IsWithinBounds reports whether (x, y) needs no clamping.
func (b Boundaries) IsWithinBounds(x, y float64) bool {
	cx, cy := b.Clamp(x, y)
	return cx == x && cy == y
}

// Validation is the result of checking a placement against the boundaries.
type Validation struct {
	Valid      bool     `json:"valid"`
	ClampedX   float64  `json:"clamped_x"`
	ClampedY   float64  `json:"clamped_y"`
	Violations []string `json:"violations"`
}

// Validate checks (x, y) against each side of the legal region and returns
// the clamped position along with every side that was violated.
func (b Boundaries) Validate(x, y float64) Validation {
	violations := []string{}

	if x < b.MinX {
		violations = append(violations, ViolationLeft)
	}
	if x > b.MaxX {
		violations = append(violations, ViolationRight)
	}
	if y < b.MinY {
		violations = append(violations, ViolationHogLine)
	}
	if y > b.MaxY {
		violations = append(violations, ViolationBack)
	}

	cx, cy := b.Clamp(x, y)
	return Validation{
		Valid:      len(violations) == 0,
		ClampedX:   cx,
		ClampedY:   cy,
		Violations: violations,
	}
}

// ClampBanZone keeps a ban circle entirely between the sidelines, past the
// hog line and in front of the back line. A radius that is not a positive
// number is replaced by defaultRadius.
func ClampBanZone(sheet model.Sheet, zone model.BanZone, defaultRadius float64) model.BanZone {
	r := zone.Radius
	if math.IsNaN(r) || r <= 0 {
		r = defaultRadius
	}

	hogLineEdge := sheet.HogLineY() + sheet.HogLineWidth/2
	backLineY := sheet.BackLineY()

	return model.BanZone{
		X:      clamp(zone.X, r, sheet.Width-r),
		Y:      clamp(zone.Y, hogLineEdge+r, backLineY-r),
		Radius: r,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
