package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollidableOffsetsOpponentIDs(t *testing.T) {
	own := []Stone{
		{ID: 0, X: 100, Y: 100, Placed: true},
		{ID: 1, Placed: false},
	}
	opponent := []Stone{
		{ID: 0, X: 200, Y: 200, Placed: true},
		{ID: 1, X: 0, Y: 0, Placed: false},
	}

	all := Collidable(own, opponent)

	require.Len(t, all, 4)
	assert.Equal(t, 0, all[0].ID)
	assert.False(t, all[1].Placed, "own stones keep their placed flag")
	assert.Equal(t, OpponentIDOffset, all[2].ID)
	assert.Equal(t, OpponentIDOffset+1, all[3].ID)
	assert.True(t, all[2].Placed)
	assert.False(t, all[3].Placed, "opponent stones on the bar stay unplaced")
	assert.Equal(t, 0, opponent[0].ID, "input slice must not be modified")
}

func TestTeamZonesFor(t *testing.T) {
	tz := TeamZones{Red: &BanZone{X: 1, Y: 2, Radius: 3}}

	assert.Equal(t, []BanZone{{X: 1, Y: 2, Radius: 3}}, tz.For(TeamRed))
	assert.Nil(t, tz.For(TeamYellow))
}

func TestBoardAddStampsTeam(t *testing.T) {
	var b Board
	b.Add(TeamYellow, Stone{ID: 4, Placed: true})
	b.Add(TeamRed, Stone{ID: 5})

	require.Len(t, b.Yellow, 1)
	require.Len(t, b.Red, 1)
	assert.Equal(t, TeamYellow, b.Yellow[0].Team)
	assert.Equal(t, TeamRed, b.Red[0].Team)
	assert.Equal(t, 1, b.PlacedCount())
}

func TestBanZoneValid(t *testing.T) {
	assert.True(t, BanZone{X: 10, Y: 10, Radius: 50}.Valid())
	assert.False(t, BanZone{X: 10, Y: 10, Radius: 0}.Valid())
	assert.False(t, BanZone{X: 10, Y: 10, Radius: -5}.Valid())
	assert.False(t, BanZone{X: math.NaN(), Y: 10, Radius: 5}.Valid())
}

func TestStoneValid(t *testing.T) {
	assert.True(t, Stone{X: 1, Y: 2}.Valid())
	assert.False(t, Stone{X: math.Inf(1), Y: 2}.Valid())
	assert.False(t, Stone{X: 1, Y: math.NaN()}.Valid())
}

func TestPointDistance(t *testing.T) {
	d := Point2D{X: 0, Y: 0}.Distance(Point2D{X: 3, Y: 4})
	assert.InDelta(t, 5.0, d, 1e-12)
}

func TestDefaultSheetLines(t *testing.T) {
	s := DefaultSheet()

	assert.Equal(t, 0.0, s.HogLineY())
	assert.Equal(t, 823.0, s.BackLineY())
	assert.Equal(t, 640.0, s.TeeY())
	assert.Equal(t, 237.5, s.CenterX())
	assert.Equal(t, 852.0, s.ViewBottomY())
	assert.Equal(t, []float64{183, 122, 61, 15}, s.RingRadii())
}

func TestBuiltinScenarios(t *testing.T) {
	scenarios := BuiltinScenarios()
	require.Len(t, scenarios, 4)

	ids := map[string]bool{}
	for _, s := range scenarios {
		assert.NotEmpty(t, s.Name)
		assert.Len(t, s.ID, 8)
		assert.False(t, ids[s.ID], "scenario ids must be unique")
		ids[s.ID] = true
	}

	banRing, ok := GetScenario("Push Into Ban Ring")
	require.True(t, ok)
	require.NotNil(t, banRing.BanZones.Red)
	assert.Equal(t, 50.0, banRing.BanZones.Red.Radius)
	assert.Equal(t, TeamYellow, banRing.Board.Yellow[0].Team)

	_, ok = GetScenario("missing")
	assert.False(t, ok)
}

func TestTeamOpponent(t *testing.T) {
	assert.Equal(t, TeamYellow, TeamRed.Opponent())
	assert.Equal(t, TeamRed, TeamYellow.Opponent())
}

func TestBoardSet(t *testing.T) {
	var b Board
	b.Set(TeamRed, Stone{ID: 2, X: 10, Y: 20, Placed: true})
	b.Set(TeamRed, Stone{ID: 2, X: 30, Y: 40, Placed: false})
	b.Set(TeamYellow, Stone{ID: 2, X: 50, Y: 60, Placed: true})

	require.Len(t, b.Red, 1)
	assert.Equal(t, Stone{ID: 2, X: 30, Y: 40, Team: TeamRed}, b.Red[0])
	require.Len(t, b.Yellow, 1)
	assert.Equal(t, TeamYellow, b.Yellow[0].Team)
}

func TestBoardClone(t *testing.T) {
	var b Board
	b.Add(TeamRed, Stone{ID: 0, X: 1, Y: 1, Placed: true})

	c := b.Clone()
	c.Red[0].X = 99

	assert.Equal(t, 1.0, b.Red[0].X)
}
