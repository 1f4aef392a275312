package board

import (
	"testing"

	"github.com/wricardo/tile-match-game/game/layout"
)

func TestMatchKey(t *testing.T) {
	tests := []struct {
		design int
		want   int
	}{
		{0, 0},
		{33, 33},
		{FlowerBase, FlowerFamily},
		{FlowerBase + 3, FlowerFamily},
		{SeasonBase, SeasonFamily},
		{SeasonBase + 3, SeasonFamily},
	}
	for _, tt := range tests {
		if got := MatchKey(tt.design); got != tt.want {
			t.Errorf("MatchKey(%d) = %d, want %d", tt.design, got, tt.want)
		}
	}

	if !Matches(FlowerBase, FlowerBase+2) {
		t.Error("flower faces should match each other")
	}
	if Matches(FlowerBase, SeasonBase) {
		t.Error("flowers should not match seasons")
	}
	if Matches(NoDesign, NoDesign) {
		t.Error("empty tiles never match")
	}
}

func TestFaceRotation(t *testing.T) {
	var r FaceRotation
	seen := make(map[int]int)
	for i := 0; i < 4; i++ {
		a, b := r.PairFaces(FlowerFamily)
		seen[a]++
		seen[b]++
	}
	for face := FlowerBase; face < FlowerBase+FamilySize; face++ {
		if seen[face] != 2 {
			t.Errorf("face %d dealt %d times, want 2", face, seen[face])
		}
	}

	a, b := r.PairFaces(7)
	if a != 7 || b != 7 {
		t.Errorf("regular family faces = %d, %d", a, b)
	}
}

func TestParseDistribution(t *testing.T) {
	d, err := ParseDistribution("")
	if err != nil || d != DefaultDistribution {
		t.Errorf("ParseDistribution(\"\") = %q, %v", d, err)
	}
	d, err = ParseDistribution(" Clustered_Pairs ")
	if err != nil || d != ClusteredPairs {
		t.Errorf("ParseDistribution(Clustered_Pairs) = %q, %v", d, err)
	}
	if _, err := ParseDistribution("quads"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestNewFlatBoardBorder(t *testing.T) {
	shape := layout.FullFlat(3, 2)
	b, slots := NewFlatBoard(shape)

	if b.Cols != 5 || b.Rows != 4 || len(b.Tiles) != 20 {
		t.Fatalf("grid %dx%d with %d tiles", b.Cols, b.Rows, len(b.Tiles))
	}
	want := []int{6, 7, 8, 11, 12, 13}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v, want %v", slots, want)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slots = %v, want %v", slots, want)
			break
		}
	}
	for _, tile := range b.Tiles {
		if tile.Occupied() {
			t.Errorf("tile %d occupied before generation", tile.ID)
		}
	}
}

func TestFlatBoardShape(t *testing.T) {
	shape := layout.NewFlat(3, 1)
	shape.Set(0, 0, true)
	shape.Set(2, 0, true)
	b, slots := NewFlatBoard(shape)
	for _, id := range slots {
		b.Tiles[id].Design = 1
	}

	got := b.Shape()
	for i := range shape.Cells {
		if got.Cells[i] != shape.Cells[i] {
			t.Errorf("Shape() = %v, want %v", got.Cells, shape.Cells)
		}
	}
}

func TestLayeredRelations(t *testing.T) {
	// Three tiles in a row on layer 0 and one centred over the first two.
	shape := layout.NewLayered(3, 1)
	shape.Fill(0, 0, 2, 0, 0)
	shape.Place(0, 0, 1, true, false)
	b := NewLayeredBoard(shape)

	if len(b.Tiles) != 4 {
		t.Fatalf("got %d tiles", len(b.Tiles))
	}
	// Positions order: cell 0 bottom, cell 0 top, cell 1, cell 2.
	bottomLeft, top, middle, right := 0, 1, 2, 3

	if len(b.Over[bottomLeft]) != 1 || b.Over[bottomLeft][0] != top {
		t.Errorf("Over[left] = %v, want [%d]", b.Over[bottomLeft], top)
	}
	if len(b.Over[middle]) != 1 || b.Over[middle][0] != top {
		t.Errorf("Over[middle] = %v, want [%d]", b.Over[middle], top)
	}
	if len(b.Over[right]) != 0 {
		t.Errorf("Over[right] = %v, want none", b.Over[right])
	}
	if len(b.Left[middle]) != 1 || b.Left[middle][0] != bottomLeft {
		t.Errorf("Left[middle] = %v", b.Left[middle])
	}
	if len(b.Right[middle]) != 1 || b.Right[middle][0] != right {
		t.Errorf("Right[middle] = %v", b.Right[middle])
	}
	if len(b.Left[top])+len(b.Right[top]) != 0 {
		t.Errorf("top tile has side neighbours: %v %v", b.Left[top], b.Right[top])
	}
}
