package engine

import "github.com/piwi3910/KickaEttan/internal/model"

// Settle resolves every placed stone on the board, red first then yellow,
// against the stones that have already settled. Each stone only answers to
// its own team's ban zone. Stones that cannot be placed come back with
// Placed cleared; unplaced stones pass through untouched.
func (r *Resolver) Settle(board model.Board, zones model.TeamZones) model.Board {
	var (
		out     model.Board
		settled []model.Stone
	)

	for _, team := range model.Teams {
		teamZones := zones.For(team)
		for _, s := range board.Stones(team) {
			if !s.Placed {
				out.Add(team, s)
				continue
			}

			res := r.Resolve(-1, s.X, s.Y, settled, teamZones)
			if res.ResetToBar {
				s.Placed = false
				out.Add(team, s)
				continue
			}

			s.X, s.Y = res.X, res.Y
			out.Add(team, s)
			settled = append(settled, model.Stone{
				ID:     len(settled),
				X:      s.X,
				Y:      s.Y,
				Placed: true,
				Team:   team,
			})
		}
	}

	return out
}
