package model

import "github.com/google/uuid"

// Drop is a stone released by a player at a raw point.
type Drop struct {
	StoneID int     `json:"stone_id" yaml:"stone_id"`
	Team    Team    `json:"team" yaml:"team"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
}

// DropResult pairs a drop with the verdict it received.
type DropResult struct {
	Drop       Drop       `json:"drop" yaml:"drop"`
	Resolution Resolution `json:"resolution" yaml:"resolution"`
}

// Scenario is a named board with ban zones and a list of drops to resolve
// against it.
type Scenario struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Board       Board     `json:"board" yaml:"board"`
	BanZones    TeamZones `json:"banned_zones" yaml:"banned_zones"`
	Drops       []Drop    `json:"drops,omitempty" yaml:"drops,omitempty"`
}

func NewScenario(name string) Scenario {
	return Scenario{
		ID:   uuid.New().String()[:8],
		Name: name,
	}
}

// BuiltinScenarios returns the stock collision scenarios.
func BuiltinScenarios() []Scenario {
	headOn := NewScenario("Head-on Collision")
	headOn.Description = "Two stones directly overlapping in the center"
	headOn.Board.Add(TeamRed, Stone{ID: 0, X: 237, Y: 640, Placed: true})
	headOn.Board.Add(TeamYellow, Stone{ID: 0, X: 245, Y: 640, Placed: true})

	banRing := NewScenario("Push Into Ban Ring")
	banRing.Description = "Stone collision that pushes into ban zone"
	banRing.Board.Add(TeamRed, Stone{ID: 0, X: 200, Y: 640, Placed: true})
	banRing.Board.Add(TeamYellow, Stone{ID: 0, X: 215, Y: 640, Placed: true})
	banRing.BanZones.Red = &BanZone{X: 170, Y: 640, Radius: 50}

	multi := NewScenario("Multiple Collisions")
	multi.Description = "Chain reaction of stone collisions"
	for i, x := range []float64{220, 250, 280} {
		multi.Board.Add(TeamRed, Stone{ID: i, X: x, Y: 640, Placed: true})
	}
	for i, x := range []float64{235, 265} {
		multi.Board.Add(TeamYellow, Stone{ID: i, X: x, Y: 640, Placed: true})
	}

	cascade := NewScenario("Ban Ring Bounce")
	cascade.Description = "Ban zone push-out lands on a stone that pushes back into the zone"
	cascade.Board.Add(TeamRed, Stone{ID: 0, X: 225.5, Y: 640, Placed: true})
	cascade.BanZones.Red = &BanZone{X: 300, Y: 640, Radius: 50}
	cascade.Drops = []Drop{{StoneID: 1, Team: TeamRed, X: 260, Y: 640}}

	return []Scenario{headOn, banRing, multi, cascade}
}

// GetScenario returns a built-in scenario by name.
func GetScenario(name string) (Scenario, bool) {
	for _, s := range BuiltinScenarios() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
