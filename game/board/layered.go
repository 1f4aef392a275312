package board

import "github.com/wricardo/tile-match-game/game/layout"

// LayeredBoard is a traditional board. Tiles live in an arena indexed by
// id; Over, Left and Right hold, per tile, the ids of the tiles that cover
// it and that touch it on each side. These relations depend only on
// geometry and are fixed at construction.
type LayeredBoard struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"`

	Over  [][]int `json:"-"`
	Left  [][]int `json:"-"`
	Right [][]int `json:"-"`
}

// NewLayeredBoard builds an empty board for a layout. Tile ids follow
// layout.Layered.Positions order.
func NewLayeredBoard(shape *layout.Layered) *LayeredBoard {
	positions := shape.Positions()
	b := &LayeredBoard{
		Width:  shape.Width,
		Height: shape.Height,
		Tiles:  make([]Tile, len(positions)),
	}
	for i, p := range positions {
		b.Tiles[i] = Tile{ID: i, Design: NoDesign, X: p.X, Y: p.Y, Z: p.Z, HalfX: p.HalfX, HalfY: p.HalfY}
	}
	b.link()
	return b
}

// Tile extents in half-cell units.
func span(cell int, half bool) int {
	if half {
		return 2*cell + 1
	}
	return 2 * cell
}

func overlaps(a, b int) bool {
	d := a - b
	return d > -2 && d < 2
}

func (b *LayeredBoard) link() {
	n := len(b.Tiles)
	b.Over = make([][]int, n)
	b.Left = make([][]int, n)
	b.Right = make([][]int, n)

	for i := range b.Tiles {
		ti := &b.Tiles[i]
		ix, iy := span(ti.X, ti.HalfX), span(ti.Y, ti.HalfY)
		for j := range b.Tiles {
			if i == j {
				continue
			}
			tj := &b.Tiles[j]
			jx, jy := span(tj.X, tj.HalfX), span(tj.Y, tj.HalfY)
			switch {
			case tj.Z > ti.Z && overlaps(ix, jx) && overlaps(iy, jy):
				b.Over[i] = append(b.Over[i], j)
			case tj.Z == ti.Z && jx == ix-2 && overlaps(iy, jy):
				b.Left[i] = append(b.Left[i], j)
			case tj.Z == ti.Z && jx == ix+2 && overlaps(iy, jy):
				b.Right[i] = append(b.Right[i], j)
			}
		}
	}
}

// Relink recomputes Over, Left and Right, e.g. after JSON decoding.
func (b *LayeredBoard) Relink() {
	b.link()
}

// Valid reports whether id addresses a tile.
func (b *LayeredBoard) Valid(id int) bool {
	return id >= 0 && id < len(b.Tiles)
}

// Occupied reports whether the tile is still on the board.
func (b *LayeredBoard) Occupied(id int) bool {
	return b.Tiles[id].Occupied()
}

// Remaining counts occupied tiles.
func (b *LayeredBoard) Remaining() int {
	n := 0
	for _, t := range b.Tiles {
		if t.Occupied() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy. Relations are shared since they never change.
func (b *LayeredBoard) Clone() *LayeredBoard {
	c := *b
	c.Tiles = append([]Tile(nil), b.Tiles...)
	return &c
}

// Stack returns the ids of the tiles at cell (x, y), bottom first.
func (b *LayeredBoard) Stack(x, y int) []int {
	var ids []int
	for _, t := range b.Tiles {
		if t.X == x && t.Y == y {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
