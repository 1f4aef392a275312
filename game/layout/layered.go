package layout

import (
	"fmt"
	"math/bits"
)

// MaxLayers is the tallest stack a layered code can describe.
const MaxLayers = 6

const (
	sextetLen = 6
	layerMask = 1<<MaxLayers - 1
)

// Stack is the content of one layered grid cell. Bit z of Layers is set
// when layer z holds a tile; HalfX and HalfY flag the tiles on those
// layers that are shifted half a cell right or down.
type Stack struct {
	Layers uint8 `json:"layers"`
	HalfX  uint8 `json:"half_x,omitempty"`
	HalfY  uint8 `json:"half_y,omitempty"`
}

// Height returns the number of tiles in the stack.
func (s Stack) Height() int {
	return bits.OnesCount8(s.Layers)
}

func (s Stack) valid() bool {
	return s.Layers&^layerMask == 0 && s.HalfX&^s.Layers == 0 && s.HalfY&^s.Layers == 0
}

// Position is a single tile slot in a layered shape.
type Position struct {
	X, Y, Z      int
	HalfX, HalfY bool
}

// Layered is the occupancy of a traditional board.
type Layered struct {
	Width  int
	Height int
	Stacks []Stack
}

// NewLayered returns an empty width x height shape.
func NewLayered(width, height int) *Layered {
	return &Layered{Width: width, Height: height, Stacks: make([]Stack, width*height)}
}

// Place puts a tile at (x, y) on layer z.
func (l *Layered) Place(x, y, z int, halfX, halfY bool) {
	s := &l.Stacks[y*l.Width+x]
	bit := uint8(1) << uint(z)
	s.Layers |= bit
	if halfX {
		s.HalfX |= bit
	}
	if halfY {
		s.HalfY |= bit
	}
}

// Fill places a tile on layer z for every cell in the inclusive rectangle.
func (l *Layered) Fill(x0, y0, x1, y1, z int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			l.Place(x, y, z, false, false)
		}
	}
}

// Count returns the number of tiles in the shape.
func (l *Layered) Count() int {
	n := 0
	for _, s := range l.Stacks {
		n += s.Height()
	}
	return n
}

// Positions lists every tile slot, row-major by cell and bottom-up within
// a cell.
func (l *Layered) Positions() []Position {
	out := make([]Position, 0, l.Count())
	for i, s := range l.Stacks {
		for z := 0; z < MaxLayers; z++ {
			bit := uint8(1) << uint(z)
			if s.Layers&bit == 0 {
				continue
			}
			out = append(out, Position{
				X:     i % l.Width,
				Y:     i / l.Width,
				Z:     z,
				HalfX: s.HalfX&bit != 0,
				HalfY: s.HalfY&bit != 0,
			})
		}
	}
	return out
}

func sextet(run int, s Stack) string {
	word := uint64(run)<<18 | uint64(s.Layers)<<12 | uint64(s.HalfX)<<6 | uint64(s.HalfY)
	return fixed(word, sextetLen)
}

var layeredLiterals = literalTable{
	{sextet(0, Stack{Layers: 0x01}), 'A'},
	{sextet(0, Stack{Layers: 0x03}), 'B'},
	{sextet(0, Stack{Layers: 0x07}), 'C'},
	{sextet(0, Stack{Layers: 0x0f}), 'D'},
	{sextet(1, Stack{Layers: 0x01}), 'F'},
	{"0000", 'G'},
	{"00", 'H'},
}

// EncodeLayered renders l as a traditional layout code.
func EncodeLayered(l *Layered) (string, error) {
	if err := ValidateDimensions(l.Width, l.Height); err != nil {
		return "", err
	}
	if len(l.Stacks) != l.Width*l.Height {
		return "", fmt.Errorf("%w: %d stacks for a %dx%d shape", ErrInvalidFormat, len(l.Stacks), l.Width, l.Height)
	}

	raw := make([]byte, 0, sextetLen*len(l.Stacks))
	run := 0
	for i, s := range l.Stacks {
		if !s.valid() {
			return "", fmt.Errorf("%w: cell %d has half-step flags outside its stack", ErrInvalidFormat, i)
		}
		if s.Layers == 0 {
			run++
			continue
		}
		raw = append(raw, sextet(run, s)...)
		run = 0
	}
	payload := compressRuns(layeredLiterals.compress(string(raw)))
	return seal(VariantLayered, l.Width, l.Height, payload), nil
}

// DecodeLayered parses a traditional layout code.
func DecodeLayered(code string) (*Layered, error) {
	h, payload, err := openVariant(code, VariantLayered)
	if err != nil {
		return nil, err
	}

	cells := h.Width * h.Height
	limit := sextetLen * cells
	expanded, err := expandRuns(payload, maxRunPasses, limit)
	if err != nil {
		return nil, err
	}
	raw, err := layeredLiterals.expand(expanded, limit)
	if err != nil {
		return nil, err
	}
	if len(raw)%sextetLen != 0 {
		return nil, fmt.Errorf("%w: payload length %d is not a multiple of %d", ErrInvalidFormat, len(raw), sextetLen)
	}

	l := NewLayered(h.Width, h.Height)
	pos := 0
	for i := 0; i < len(raw); i += sextetLen {
		word, _ := parseFixed(raw[i : i+sextetLen])
		run := int(word >> 18)
		s := Stack{
			Layers: uint8(word >> 12 & 0x3f),
			HalfX:  uint8(word >> 6 & 0x3f),
			HalfY:  uint8(word & 0x3f),
		}
		pos += run
		if pos >= cells {
			return nil, fmt.Errorf("%w: stack beyond %dx%d grid", ErrInvalidFormat, h.Width, h.Height)
		}
		if s.Layers == 0 || !s.valid() {
			return nil, fmt.Errorf("%w: malformed stack at cell %d", ErrInvalidFormat, pos)
		}
		l.Stacks[pos] = s
		pos++
	}
	return l, nil
}
