package generator

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/rng"
)

// layeredState tracks, per tile index, the still-present tiles covering
// it and touching it on each side.
type layeredState struct {
	present mapset.Set[int]
	over    []mapset.Set[int]
	left    []mapset.Set[int]
	right   []mapset.Set[int]
}

func newLayeredState(b *board.LayeredBoard) *layeredState {
	n := len(b.Tiles)
	s := &layeredState{
		present: mapset.New[int](),
		over:    make([]mapset.Set[int], n),
		left:    make([]mapset.Set[int], n),
		right:   make([]mapset.Set[int], n),
	}
	fill := func(ids []int) mapset.Set[int] {
		set := mapset.New[int]()
		for _, id := range ids {
			set.Put(id)
		}
		return set
	}
	for i := 0; i < n; i++ {
		s.present.Put(i)
		s.over[i] = fill(b.Over[i])
		s.left[i] = fill(b.Left[i])
		s.right[i] = fill(b.Right[i])
	}
	return s
}

func (s *layeredState) free(id int) bool {
	return s.present.Has(id) && s.over[id].Size() == 0 && (s.left[id].Size() == 0 || s.right[id].Size() == 0)
}

func (s *layeredState) remove(id int) {
	s.present.Remove(id)
	for i := range s.over {
		s.over[i].Remove(id)
		s.left[i].Remove(id)
		s.right[i].Remove(id)
	}
}

// presolveLayered pairs two free tiles at a time and removes them, which
// can only free more tiles. Designs are written to b.
func presolveLayered(b *board.LayeredBoard, queue []int, src *rng.Source) ([]board.Pair, int) {
	state := newLayeredState(b)
	var rot board.FaceRotation
	solution := make([]board.Pair, 0, len(queue))

	for len(solution) < len(queue) {
		var candidates []int
		for id := range b.Tiles {
			if state.free(id) {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) < 2 {
			break
		}

		i := src.Intn(len(candidates))
		x := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)
		y := rng.Pick(src, candidates)

		dx, dy := rot.PairFaces(queue[len(solution)])
		b.Tiles[x].Design = dx
		b.Tiles[y].Design = dy
		state.remove(x)
		state.remove(y)
		solution = append(solution, board.NewPair(x, y))
	}

	var left []int
	state.present.Each(func(id int) {
		left = append(left, id)
	})
	reportLeftovers(left, len(solution) < len(queue))
	return solution, len(left)
}
