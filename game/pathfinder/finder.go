package pathfinder

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/tile-match-game/game/board"
)

// FindPath returns the simplest legal path joining tiles a and b, or nil
// when they cannot be matched: either id is empty or out of range, the
// designs do not match, or every route needs more than two corners.
func FindPath(g *board.Grid, a, b int) *Path {
	if a == b || !g.Valid(a) || !g.Valid(b) {
		return nil
	}
	if !board.Matches(g.Tiles[a].Design, g.Tiles[b].Design) {
		return nil
	}

	targets := mapset.New[int]()
	targets.Put(b)
	w := newWalker(g, a, targets, true)
	w.run()
	return w.shortest()
}

// FindAllMatches lists every pair of tiles that can currently be matched,
// ordered by (A, B). An empty result means the round is over.
func FindAllMatches(g *board.Grid) []board.Pair {
	var pairs []board.Pair
	for src := range g.Tiles {
		if !g.Occupied(src) {
			continue
		}
		key := board.MatchKey(g.Tiles[src].Design)
		targets := mapset.New[int]()
		for t := src + 1; t < len(g.Tiles); t++ {
			if g.Occupied(t) && board.MatchKey(g.Tiles[t].Design) == key {
				targets.Put(t)
			}
		}
		if targets.Size() == 0 {
			continue
		}

		w := newWalker(g, src, targets, false)
		w.run()
		for _, h := range w.hits {
			pairs = append(pairs, board.NewPair(src, h.Target))
		}
	}
	sortPairs(pairs)
	return pairs
}

// Reachable finds every tile in targets that src can reach with a legal
// path, ignoring designs. Hits are ordered by target id.
func Reachable(g *board.Grid, src int, targets []int) []Hit {
	set := mapset.New[int]()
	for _, t := range targets {
		if t != src && g.Valid(t) {
			set.Put(t)
		}
	}
	w := newWalker(g, src, set, false)
	w.run()
	sort.Slice(w.hits, func(i, j int) bool { return w.hits[i].Target < w.hits[j].Target })
	return w.hits
}

// StraightNeighbors returns the first occupied tile in each direction
// from src, i.e. the tiles a one-segment path can reach.
func StraightNeighbors(g *board.Grid, src int) []int {
	var out []int
	sx, sy := src%g.Cols, src/g.Cols
	for _, d := range directions {
		dx, dy := d.delta()
		for x, y := sx+dx, sy+dy; g.Contains(x, y); x, y = x+dx, y+dy {
			if id := g.ID(x, y); g.Occupied(id) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func sortPairs(pairs []board.Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
