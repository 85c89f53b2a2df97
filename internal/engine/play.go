package engine

import "github.com/piwi3910/KickaEttan/internal/model"

// Play replays the scenario's drops in order. Each drop is resolved against
// the dropping team's stones plus the opponent's, under the dropping team's
// ban zone, and the board is updated before the next drop. The scenario
// itself is not modified.
func (r *Resolver) Play(sc model.Scenario) ([]model.DropResult, model.Board) {
	board := sc.Board.Clone()
	results := make([]model.DropResult, 0, len(sc.Drops))

	for _, d := range sc.Drops {
		stones := model.Collidable(board.Stones(d.Team), board.Stones(d.Team.Opponent()))
		res := r.Resolve(d.StoneID, d.X, d.Y, stones, sc.BanZones.For(d.Team))

		stone := model.Stone{ID: d.StoneID, X: res.X, Y: res.Y, Placed: !res.ResetToBar}
		if res.ResetToBar {
			stone.X, stone.Y = 0, 0
		}
		board.Set(d.Team, stone)

		results = append(results, model.DropResult{Drop: d, Resolution: res})
	}

	return results, board
}
