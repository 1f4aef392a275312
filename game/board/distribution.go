package board

import (
	"fmt"
	"strings"
)

// Distribution controls how often a design repeats on a board.
type Distribution string

const (
	// AlwaysBothPairs deals every chosen design as a full quad.
	AlwaysBothPairs Distribution = "always_both_pairs"
	// AlwaysSinglePairs deals one pair per design, maximising variety.
	AlwaysSinglePairs Distribution = "always_single_pairs"
	// MixedPairs deals one or two pairs per design at random.
	MixedPairs Distribution = "mixed_pairs"
	// RandomPairs draws the design of every pair independently.
	RandomPairs Distribution = "random_pairs"
	// ClusteredPairs deals two or four pairs per design, so few designs
	// fill the board.
	ClusteredPairs Distribution = "clustered_pairs"
)

// DefaultDistribution is used when none is configured.
const DefaultDistribution = AlwaysBothPairs

// Distributions lists every policy in display order.
var Distributions = []Distribution{
	AlwaysBothPairs,
	AlwaysSinglePairs,
	MixedPairs,
	RandomPairs,
	ClusteredPairs,
}

// ParseDistribution accepts a policy name in any case; an empty name
// yields DefaultDistribution.
func ParseDistribution(name string) (Distribution, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultDistribution, nil
	}
	for _, d := range Distributions {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown distribution %q", name)
}
