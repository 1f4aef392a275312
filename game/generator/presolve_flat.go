package generator

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/pathfinder"
	"github.com/wricardo/tile-match-game/game/rng"
)

// presolveFlat pairs tiles by repeatedly removing two edge tiles joined by
// a legal path, so playing the pairs in the same order clears the board.
// Designs are written to b; the pairs are returned in clearing order
// together with the number of tiles that could not be paired.
func presolveFlat(b *board.FlatBoard, slots []int, queue []int, src *rng.Source) ([]board.Pair, int) {
	// work mirrors b with a placeholder design on every tile not yet paired.
	work := b.Grid.Clone()
	for _, id := range slots {
		work.Tiles[id].Design = 0
	}

	var rot board.FaceRotation
	solution := make([]board.Pair, 0, len(queue))
	stuck := mapset.New[int]()
	remaining := len(slots)

	for remaining >= 2 && len(solution) < len(queue) {
		frontier := edgeTiles(work)
		candidates := make([]int, 0, len(frontier))
		for _, id := range frontier {
			if !stuck.Has(id) {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) == 0 {
			break
		}

		from := rng.Pick(src, candidates)
		hits := pathfinder.Reachable(work, from, frontier)
		if len(hits) == 0 {
			stuck.Put(from)
			continue
		}
		to := choosePartner(src, work, from, hits)

		da, db := rot.PairFaces(queue[len(solution)])
		b.Tiles[from].Design = da
		b.Tiles[to].Design = db
		work.Tiles[from].Design = board.NoDesign
		work.Tiles[to].Design = board.NoDesign
		remaining -= 2
		solution = append(solution, board.NewPair(from, to))

		// A removal can open paths for tiles that were stuck so far.
		if stuck.Size() > 0 {
			stuck = mapset.New[int]()
		}
	}

	var left []int
	for _, id := range slots {
		if work.Occupied(id) {
			left = append(left, id)
		}
	}
	reportLeftovers(left, len(solution) < len(queue))
	return solution, len(left)
}

// edgeTiles lists, in id order, the occupied tiles next to an empty cell.
// Only these can be the end of a path.
func edgeTiles(g *board.Grid) []int {
	var out []int
	for id, t := range g.Tiles {
		if !t.Occupied() {
			continue
		}
		x, y := id%g.Cols, id/g.Cols
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := x+d[0], y+d[1]
			if g.Contains(nx, ny) && !g.Occupied(g.ID(nx, ny)) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// choosePartner prefers partners that need a turning path over ones a
// single straight line reaches.
func choosePartner(src *rng.Source, g *board.Grid, from int, hits []pathfinder.Hit) int {
	straight := mapset.New[int]()
	for _, id := range pathfinder.StraightNeighbors(g, from) {
		straight.Put(id)
	}

	var turning []int
	for _, h := range hits {
		if !straight.Has(h.Target) {
			turning = append(turning, h.Target)
		}
	}
	if len(turning) > 0 {
		return rng.Pick(src, turning)
	}
	return rng.Pick(src, hits).Target
}
