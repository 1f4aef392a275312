package generator

import (
	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/pathfinder"
)

// replay plays res.Solution on a copy of the board. It returns the number
// of tiles left and false if some pair was not a legal match at its turn.
func replay(res *Result) (int, bool) {
	switch {
	case res.Flat != nil:
		g := res.Flat.Grid.Clone()
		for _, p := range res.Solution {
			if pathfinder.FindPath(g, p.A, p.B) == nil {
				return g.Remaining(), false
			}
			g.Tiles[p.A].Design = board.NoDesign
			g.Tiles[p.B].Design = board.NoDesign
		}
		return g.Remaining(), true
	case res.Layered != nil:
		b := res.Layered.Clone()
		for _, p := range res.Solution {
			if !pathfinder.CanMatch(b, p.A, p.B) {
				return b.Remaining(), false
			}
			b.Tiles[p.A].Design = board.NoDesign
			b.Tiles[p.B].Design = board.NoDesign
		}
		return b.Remaining(), true
	}
	return 0, false
}
