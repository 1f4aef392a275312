package layout

import "fmt"

// Flat is the occupancy of a two-corner board, border excluded.
type Flat struct {
	Width  int
	Height int
	Cells  []bool
}

// NewFlat returns an empty width x height shape.
func NewFlat(width, height int) *Flat {
	return &Flat{Width: width, Height: height, Cells: make([]bool, width*height)}
}

// FullFlat returns a completely filled rectangle.
func FullFlat(width, height int) *Flat {
	f := NewFlat(width, height)
	for i := range f.Cells {
		f.Cells[i] = true
	}
	return f
}

func (f *Flat) At(x, y int) bool {
	return f.Cells[y*f.Width+x]
}

func (f *Flat) Set(x, y int, occupied bool) {
	f.Cells[y*f.Width+x] = occupied
}

// Count returns the number of occupied cells.
func (f *Flat) Count() int {
	n := 0
	for _, c := range f.Cells {
		if c {
			n++
		}
	}
	return n
}

func rowDigits(width int) int {
	return (width + 5) / 5
}

func fullRow(width int) string {
	return fixed(uint64(1)<<uint(width+1)-1, rowDigits(width))
}

var flatLiterals = literalTable{
	{fullRow(17), 'V'},
	{fullRow(15), 'T'},
	{fullRow(19), 'S'},
	{fullRow(12), 'R'},
	{"vv", 'Q'},
	{"00", 'P'},
}

// EncodeFlat renders f as a two-corner layout code.
func EncodeFlat(f *Flat) (string, error) {
	if err := ValidateDimensions(f.Width, f.Height); err != nil {
		return "", err
	}
	if len(f.Cells) != f.Width*f.Height {
		return "", fmt.Errorf("%w: %d cells for a %dx%d shape", ErrInvalidFormat, len(f.Cells), f.Width, f.Height)
	}

	n := rowDigits(f.Width)
	raw := make([]byte, 0, n*f.Height)
	for y := 0; y < f.Height; y++ {
		word := uint64(1) << uint(f.Width)
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				word |= 1 << uint(x)
			}
		}
		raw = appendFixed(raw, word, n)
	}
	return seal(VariantFlat, f.Width, f.Height, flatLiterals.compress(string(raw))), nil
}

// DecodeFlat parses a two-corner layout code.
func DecodeFlat(code string) (*Flat, error) {
	h, payload, err := openVariant(code, VariantFlat)
	if err != nil {
		return nil, err
	}

	n := rowDigits(h.Width)
	raw, err := flatLiterals.expand(payload, n*h.Height)
	if err != nil {
		return nil, err
	}
	if len(raw) != n*h.Height {
		return nil, fmt.Errorf("%w: payload holds %d digits, want %d", ErrInvalidFormat, len(raw), n*h.Height)
	}

	f := NewFlat(h.Width, h.Height)
	for y := 0; y < h.Height; y++ {
		word, _ := parseFixed(raw[y*n : (y+1)*n])
		if word>>uint(h.Width) != 1 {
			return nil, fmt.Errorf("%w: row %d overflows width %d", ErrInvalidFormat, y, h.Width)
		}
		for x := 0; x < h.Width; x++ {
			f.Set(x, y, word&(1<<uint(x)) != 0)
		}
	}
	return f, nil
}
