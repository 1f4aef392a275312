package pathfinder

import "github.com/wricardo/tile-match-game/game/board"

// IsFree reports whether a traditional tile can be picked up: nothing
// covers it and at least one of its sides is open.
func IsFree(b *board.LayeredBoard, id int) bool {
	if !b.Valid(id) || !b.Occupied(id) {
		return false
	}
	if anyOccupied(b, b.Over[id]) {
		return false
	}
	return !anyOccupied(b, b.Left[id]) || !anyOccupied(b, b.Right[id])
}

func anyOccupied(b *board.LayeredBoard, ids []int) bool {
	for _, id := range ids {
		if b.Occupied(id) {
			return true
		}
	}
	return false
}

// CanMatch reports whether two traditional tiles form a legal match.
func CanMatch(b *board.LayeredBoard, x, y int) bool {
	if x == y || !IsFree(b, x) || !IsFree(b, y) {
		return false
	}
	return board.Matches(b.Tiles[x].Design, b.Tiles[y].Design)
}

// FindAllLayeredMatches lists every legal pair on a traditional board,
// ordered by (A, B).
func FindAllLayeredMatches(b *board.LayeredBoard) []board.Pair {
	byKey := make(map[int][]int)
	for id := range b.Tiles {
		if IsFree(b, id) {
			key := board.MatchKey(b.Tiles[id].Design)
			byKey[key] = append(byKey[key], id)
		}
	}

	var pairs []board.Pair
	for _, ids := range byKey {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pairs = append(pairs, board.NewPair(ids[i], ids[j]))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}
