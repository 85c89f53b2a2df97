package model

import "math"

// Team identifies which side a stone belongs to. It only groups stones for
// display and ban zone assignment; the engine never enforces turn rules.
type Team string

const (
	TeamRed    Team = "red"
	TeamYellow Team = "yellow"
)

// Teams lists the teams in settle order.
var Teams = []Team{TeamRed, TeamYellow}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamYellow {
		return TeamRed
	}
	return TeamYellow
}

// OpponentIDOffset is added to opponent stone ids when both teams' stones are
// merged into one collidable set, so ids stay unique.
const OpponentIDOffset = 100

// Point2D represents a 2D coordinate in cm.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Stone is a game stone. X and Y are meaningless while Placed is false.
type Stone struct {
	ID     int     `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Placed bool    `json:"placed" yaml:"placed"`
	Team   Team    `json:"team,omitempty" yaml:"team,omitempty"`
}

// Position returns the stone centre.
func (s Stone) Position() Point2D {
	return Point2D{X: s.X, Y: s.Y}
}

// Valid reports whether the stone coordinates are usable numbers.
func (s Stone) Valid() bool {
	return isFinite(s.X) && isFinite(s.Y)
}

// BanZone is a circular region no stone may rest on.
type BanZone struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Center returns the zone centre.
func (z BanZone) Center() Point2D {
	return Point2D{X: z.X, Y: z.Y}
}

// Valid reports whether the zone has finite coordinates and a positive radius.
func (z BanZone) Valid() bool {
	return isFinite(z.X) && isFinite(z.Y) && isFinite(z.Radius) && z.Radius > 0
}

// Board holds both teams' stones.
type Board struct {
	Red    []Stone `json:"red" yaml:"red"`
	Yellow []Stone `json:"yellow" yaml:"yellow"`
}

// Stones returns the stones of one team.
func (b Board) Stones(team Team) []Stone {
	if team == TeamYellow {
		return b.Yellow
	}
	return b.Red
}

// Add appends a stone to the given team, stamping the team on the stone.
func (b *Board) Add(team Team, s Stone) {
	s.Team = team
	if team == TeamYellow {
		b.Yellow = append(b.Yellow, s)
		return
	}
	b.Red = append(b.Red, s)
}

// Set replaces the team's stone with the same ID, or appends it when the
// team has no such stone.
func (b *Board) Set(team Team, s Stone) {
	s.Team = team
	stones := b.Red
	if team == TeamYellow {
		stones = b.Yellow
	}
	for i := range stones {
		if stones[i].ID == s.ID {
			stones[i] = s
			return
		}
	}
	b.Add(team, s)
}

// Clone returns a board that shares no stone slices with b.
func (b Board) Clone() Board {
	return Board{
		Red:    append([]Stone(nil), b.Red...),
		Yellow: append([]Stone(nil), b.Yellow...),
	}
}

// PlacedCount returns the number of placed stones across both teams.
func (b Board) PlacedCount() int {
	n := 0
	for _, team := range Teams {
		for _, s := range b.Stones(team) {
			if s.Placed {
				n++
			}
		}
	}
	return n
}

// TeamZones holds the ban zone applied to each team's stones. A nil entry
// means that team has no zone.
type TeamZones struct {
	Red    *BanZone `json:"red,omitempty" yaml:"red,omitempty"`
	Yellow *BanZone `json:"yellow,omitempty" yaml:"yellow,omitempty"`
}

// For returns the zones restricting the given team as a slice of zero or one.
func (tz TeamZones) For(team Team) []BanZone {
	z := tz.Red
	if team == TeamYellow {
		z = tz.Yellow
	}
	if z == nil {
		return nil
	}
	return []BanZone{*z}
}

// Collidable merges the caller's stones with the opponent's into one set for
// resolution. Opponent stones are renumbered by OpponentIDOffset so they
// never share an id with the caller's. Stones on the bar stay unplaced and
// are ignored by the resolver.
func Collidable(own, opponent []Stone) []Stone {
	all := make([]Stone, 0, len(own)+len(opponent))
	all = append(all, own...)
	for i, s := range opponent {
		s.ID = OpponentIDOffset + i
		all = append(all, s)
	}
	return all
}

// Outcome names how a resolution ended.
type Outcome string

const (
	OutcomePlaced      Outcome = "placed"      // Settled at a valid position
	OutcomeInsideBan   Outcome = "inside-ban"  // Fully contained in a ban zone
	OutcomeOscillation Outcome = "oscillation" // Constraints kept undoing each other
	OutcomeUnsettled   Outcome = "unsettled"   // Budget ran out on an invalid position
)

// Resolution is the verdict for one dropped stone. When ResetToBar is set the
// coordinates are advisory and the stone must go back to the bar.
type Resolution struct {
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	ResetToBar bool    `json:"reset_to_bar" yaml:"reset_to_bar"`
	Outcome    Outcome `json:"outcome" yaml:"outcome"`
	Rounds     int     `json:"rounds" yaml:"rounds"`
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
