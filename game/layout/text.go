package layout

import (
	"fmt"
	"strings"
)

// Text rows are a human-editable form of a shape: one string per row.
// Two-corner rows use '#' for a tile and '.' for a gap. Layered rows hold
// the stack height of each cell as a digit, '.' meaning empty; stacks
// read this way are contiguous from layer 0 and never shifted.
const (
	tileChar  = '#'
	emptyChar = '.'
)

// Rows renders the shape as text rows.
func (f *Flat) Rows() []string {
	rows := make([]string, f.Height)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				b.WriteByte(tileChar)
			} else {
				b.WriteByte(emptyChar)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// Rows renders the stack heights of the shape. Half-cell offsets are not
// shown.
func (l *Layered) Rows() []string {
	rows := make([]string, l.Height)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < l.Width; x++ {
			h := l.Stacks[y*l.Width+x].Height()
			if h == 0 {
				b.WriteByte(emptyChar)
			} else {
				b.WriteByte(byte('0' + h))
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func rowsSize(rows []string) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return 0, 0, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidFormat, i+1, len(row), width)
		}
	}
	if err := ValidateDimensions(width, len(rows)); err != nil {
		return 0, 0, err
	}
	return width, len(rows), nil
}

// ParseFlatRows reads two-corner text rows.
func ParseFlatRows(rows []string) (*Flat, error) {
	width, height, err := rowsSize(rows)
	if err != nil {
		return nil, err
	}
	f := NewFlat(width, height)
	for y, row := range rows {
		for x := 0; x < width; x++ {
			switch row[x] {
			case tileChar:
				f.Set(x, y, true)
			case emptyChar:
			default:
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidFormat, row[x], y+1, x+1)
			}
		}
	}
	return f, nil
}

// ParseLayeredRows reads layered text rows.
func ParseLayeredRows(rows []string) (*Layered, error) {
	width, height, err := rowsSize(rows)
	if err != nil {
		return nil, err
	}
	l := NewLayered(width, height)
	for y, row := range rows {
		for x := 0; x < width; x++ {
			c := row[x]
			switch {
			case c == emptyChar:
			case c >= '1' && c <= '0'+MaxLayers:
				for z := 0; z < int(c-'0'); z++ {
					l.Place(x, y, z, false, false)
				}
			default:
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidFormat, c, y+1, x+1)
			}
		}
	}
	return l, nil
}
