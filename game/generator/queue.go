package generator

import (
	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/rng"
)

// designQueue returns the family of each of the board's pairs. Families
// are dealt from a shuffled deck so boards too small for the whole
// alphabet get a random subset, and the distribution policy decides how
// many pairs each dealt family receives.
func designQueue(src *rng.Source, pairs int, opts Options) []int {
	families := board.RegularDesigns
	if opts.IncludeWildcards {
		families = board.FamilyCount
	}

	var deck []int
	deal := func() int {
		if len(deck) == 0 {
			deck = make([]int, families)
			for i := range deck {
				deck[i] = i
			}
			src.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		}
		f := deck[0]
		deck = deck[1:]
		return f
	}

	queue := make([]int, 0, pairs)
	for len(queue) < pairs {
		var family, n int
		switch opts.Distribution {
		case board.AlwaysSinglePairs:
			family, n = deal(), 1
		case board.MixedPairs:
			family, n = deal(), 1+src.Intn(2)
		case board.RandomPairs:
			family, n = src.Intn(families), 1
		case board.ClusteredPairs:
			family, n = deal(), board.PairsPerFamily*(1+src.Intn(2))
		default:
			family, n = deal(), board.PairsPerFamily
		}
		if !opts.AllowSinglePairs && n%2 == 1 {
			n++
		}
		for i := 0; i < n && len(queue) < pairs; i++ {
			queue = append(queue, family)
		}
	}

	src.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return queue
}
