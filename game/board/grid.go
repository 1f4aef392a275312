package board

import "github.com/wricardo/tile-match-game/game/layout"

// Grid is a rectangle of tiles addressed row-major by id.
type Grid struct {
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Tiles []Tile `json:"tiles"`
}

// NewGrid builds a borderless grid from row-major designs.
func NewGrid(cols, rows int, designs []int) *Grid {
	g := &Grid{Cols: cols, Rows: rows, Tiles: make([]Tile, cols*rows)}
	for i := range g.Tiles {
		g.Tiles[i] = Tile{ID: i, Design: NoDesign, X: i % cols, Y: i / cols}
		if i < len(designs) {
			g.Tiles[i].Design = designs[i]
		}
	}
	return g
}

// ID returns the id of the cell at (x, y).
func (g *Grid) ID(x, y int) int {
	return y*g.Cols + x
}

// Contains reports whether (x, y) lies inside the grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Cols && y < g.Rows
}

// Valid reports whether id addresses a cell of the grid.
func (g *Grid) Valid(id int) bool {
	return id >= 0 && id < len(g.Tiles)
}

// Occupied reports whether the cell holds a tile.
func (g *Grid) Occupied(id int) bool {
	return g.Tiles[id].Occupied()
}

// Remaining counts occupied tiles.
func (g *Grid) Remaining() int {
	n := 0
	for _, t := range g.Tiles {
		if t.Occupied() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := *g
	c.Tiles = append([]Tile(nil), g.Tiles...)
	return &c
}

// FlatBoard is a two-corner board: the layout surrounded by a one-cell
// empty border so paths can run around the outside.
type FlatBoard struct {
	Grid
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewFlatBoard builds an empty bordered board for a layout and returns
// the ids of its slots in row-major order.
func NewFlatBoard(shape *layout.Flat) (*FlatBoard, []int) {
	b := &FlatBoard{
		Grid:   *NewGrid(shape.Width+2, shape.Height+2, nil),
		Width:  shape.Width,
		Height: shape.Height,
	}
	slots := make([]int, 0, shape.Count())
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			if shape.At(x, y) {
				slots = append(slots, b.ID(x+1, y+1))
			}
		}
	}
	return b, slots
}

// Clone returns a deep copy.
func (b *FlatBoard) Clone() *FlatBoard {
	return &FlatBoard{Grid: *b.Grid.Clone(), Width: b.Width, Height: b.Height}
}

// Shape returns the layout of the board's current tiles.
func (b *FlatBoard) Shape() *layout.Flat {
	f := layout.NewFlat(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			f.Set(x, y, b.Occupied(b.ID(x+1, y+1)))
		}
	}
	return f
}
