package board

import "github.com/wricardo/tile-match-game/game/layout"

// Variant selects the rule set a board is played under.
type Variant string

const (
	Flat    Variant = "two_corner"
	Layered Variant = "traditional"
)

// LayoutVariant maps a board variant onto its layout code identifier.
func (v Variant) LayoutVariant() layout.Variant {
	if v == Layered {
		return layout.VariantLayered
	}
	return layout.VariantFlat
}

// VariantOf maps a layout code identifier back onto a board variant.
func VariantOf(v layout.Variant) Variant {
	if v == layout.VariantLayered {
		return Layered
	}
	return Flat
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool {
	return v == Flat || v == Layered
}

// NoDesign marks an empty tile.
const NoDesign = -1

// Tile is one board position. ID never changes; Design is cleared to
// NoDesign when the tile is matched away.
type Tile struct {
	ID     int  `json:"id"`
	Design int  `json:"design"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Z      int  `json:"z,omitempty"`
	HalfX  bool `json:"half_x,omitempty"`
	HalfY  bool `json:"half_y,omitempty"`
}

// Occupied reports whether the tile still holds a design.
func (t Tile) Occupied() bool {
	return t.Design != NoDesign
}

// Pair is an unordered pair of tile ids, stored with A < B.
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewPair orders a and b.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}
