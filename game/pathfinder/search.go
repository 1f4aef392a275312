package pathfinder

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/tile-match-game/game/board"
)

// MaxSegments is the longest legal path: two corners.
const MaxSegments = 3

// Hit is a target reached during a multi-target search.
type Hit struct {
	Target int
	Path   *Path
}

// walker runs one depth-first search from src over an explicit stack of
// partial paths.
type walker struct {
	grid    *board.Grid
	src     int
	targets mapset.Set[int]

	// single stops at the first path shorter than MaxSegments and keeps
	// at most one MaxSegments candidate. Otherwise every reachable target
	// is collected.
	single bool
	best   *Path
	result *Path
	hits   []Hit

	minX, maxX, minY, maxY int
}

func newWalker(g *board.Grid, src int, targets mapset.Set[int], single bool) *walker {
	w := &walker{grid: g, src: src, targets: targets, single: single}
	w.bounds()
	return w
}

func (w *walker) xy(id int) (int, int) {
	return id % w.grid.Cols, id / w.grid.Cols
}

// bounds derives the coordinate range of the remaining targets.
func (w *walker) bounds() {
	first := true
	w.targets.Each(func(t int) {
		x, y := w.xy(t)
		if first {
			w.minX, w.maxX, w.minY, w.maxY = x, x, y, y
			first = false
			return
		}
		w.minX, w.maxX = min(w.minX, x), max(w.maxX, x)
		w.minY, w.maxY = min(w.minY, y), max(w.maxY, y)
	})
}

// seedable is false only when every target lies straight behind d: no
// path of three segments can start in d and come back onto that line.
func (w *walker) seedable(d Direction) bool {
	sx, sy := w.xy(w.src)
	dx, dy := d.delta()
	useful := false
	w.targets.Each(func(t int) {
		tx, ty := w.xy(t)
		if d.Horizontal() {
			useful = useful || ty != sy || (tx-sx)*dx > 0
		} else {
			useful = useful || tx != sx || (ty-sy)*dy > 0
		}
	})
	return useful
}

// aligned reports whether a final segment leaving (x, y) in d runs
// straight into some target.
func (w *walker) aligned(d Direction, x, y int) bool {
	dx, dy := d.delta()
	ok := false
	w.targets.Each(func(t int) {
		tx, ty := w.xy(t)
		if d.Horizontal() {
			ok = ok || (ty == y && (tx-x)*dx > 0)
		} else {
			ok = ok || (tx == x && (ty-y)*dy > 0)
		}
	})
	return ok
}

// drifted reports whether a second segment has moved past every target,
// after which its last turn can no longer line up with one.
func (w *walker) drifted(d Direction, x, y int) bool {
	switch d {
	case Up:
		return y < w.minY
	case Down:
		return y > w.maxY
	case Left:
		return x < w.minX
	default:
		return x > w.maxX
	}
}

func (w *walker) run() {
	if w.targets.Size() == 0 {
		return
	}

	var stack []*Path
	for _, d := range directions {
		if w.seedable(d) {
			stack = append(stack, &Path{From: w.src, Segments: []Segment{{Dir: d, Cells: []int{w.src}}}})
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.single && w.best != nil && len(p.Segments) == MaxSegments {
			continue
		}

		for {
			seg := &p.Segments[len(p.Segments)-1]
			x, y := w.xy(seg.Cells[len(seg.Cells)-1])
			dx, dy := seg.Dir.delta()
			nx, ny := x+dx, y+dy
			if !w.grid.Contains(nx, ny) {
				break
			}
			next := w.grid.ID(nx, ny)

			if w.targets.Has(next) {
				seg.Cells = append(seg.Cells, next)
				p.To = next
				if w.accept(p) {
					return
				}
				break
			}
			if w.grid.Occupied(next) {
				break
			}

			seg.Cells = append(seg.Cells, next)
			if len(p.Segments) == MaxSegments-1 && w.drifted(seg.Dir, nx, ny) {
				break
			}
			if len(p.Segments) < MaxSegments {
				stack = w.branch(stack, p, next, nx, ny)
			}
		}
	}
}

func (w *walker) branch(stack []*Path, p *Path, at, x, y int) []*Path {
	last := len(p.Segments) == MaxSegments-1
	if last && w.single && w.best != nil {
		return stack
	}
	for _, d := range p.Segments[len(p.Segments)-1].Dir.perpendicular() {
		if last && !w.aligned(d, x, y) {
			continue
		}
		c := p.clone()
		c.Segments = append(c.Segments, Segment{Dir: d, Cells: []int{at}})
		stack = append(stack, c)
	}
	return stack
}

// accept records a path that reached a target and reports whether the
// search is finished.
func (w *walker) accept(p *Path) bool {
	if w.single {
		if len(p.Segments) < MaxSegments {
			w.result = p
			return true
		}
		if w.best == nil {
			w.best = p
		}
		return false
	}

	w.hits = append(w.hits, Hit{Target: p.To, Path: p})
	w.targets.Remove(p.To)
	if w.targets.Size() == 0 {
		return true
	}
	w.bounds()
	return false
}

func (w *walker) shortest() *Path {
	if w.result != nil {
		return w.result
	}
	return w.best
}
