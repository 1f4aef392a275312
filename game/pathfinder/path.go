package pathfinder

import "fmt"

// Direction is one of the four cardinal directions a segment runs in.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directions = [...]Direction{Up, Right, Down, Left}

var directionNames = [...]string{"up", "right", "down", "left"}

func (d Direction) String() string {
	if d < Up || d > Left {
		return "unknown"
	}
	return directionNames[d]
}

// MarshalText renders the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if name == string(text) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

func (d Direction) delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	default:
		return -1, 0
	}
}

// Horizontal reports whether d runs along a row.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

func (d Direction) perpendicular() [2]Direction {
	if d.Horizontal() {
		return [2]Direction{Up, Down}
	}
	return [2]Direction{Left, Right}
}

// Segment is a straight run of cells. The first cell is the source tile
// or a turning point, the last the target tile or a turning point.
type Segment struct {
	Dir   Direction `json:"dir"`
	Cells []int     `json:"cells"`
}

// Path connects two tiles with at most three segments.
type Path struct {
	From     int       `json:"from"`
	To       int       `json:"to"`
	Segments []Segment `json:"segments"`
}

// Len returns the number of segments.
func (p *Path) Len() int {
	return len(p.Segments)
}

// Corners returns the number of direction changes.
func (p *Path) Corners() int {
	if len(p.Segments) == 0 {
		return 0
	}
	return len(p.Segments) - 1
}

// Cells returns every cell on the path once, from source to target.
func (p *Path) Cells() []int {
	var out []int
	for i, s := range p.Segments {
		cells := s.Cells
		if i > 0 && len(cells) > 0 {
			cells = cells[1:]
		}
		out = append(out, cells...)
	}
	return out
}

func (p *Path) clone() *Path {
	c := &Path{From: p.From, To: p.To, Segments: make([]Segment, len(p.Segments), len(p.Segments)+1)}
	for i, s := range p.Segments {
		c.Segments[i] = Segment{Dir: s.Dir, Cells: append([]int(nil), s.Cells...)}
	}
	return c
}
