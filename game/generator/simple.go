package generator

import (
	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/rng"
)

// dealSimple writes pairs from queue onto consecutive slots and then
// shuffles the designs across the slots. An odd trailing slot stays
// empty; the number of such slots is returned.
func dealSimple(tiles []board.Tile, slots []int, queue []int, src *rng.Source) int {
	var rot board.FaceRotation
	designs := make([]int, 0, len(slots))
	for _, family := range queue {
		a, b := rot.PairFaces(family)
		designs = append(designs, a, b)
	}

	src.Shuffle(len(designs), func(i, j int) { designs[i], designs[j] = designs[j], designs[i] })
	for i, d := range designs {
		tiles[slots[i]].Design = d
	}
	return len(slots) - len(designs)
}
