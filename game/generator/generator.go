package generator

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/rng"
)

var (
	// ErrNoBoard is returned when the input cannot produce a playable
	// board. Callers fall back to a default shape of their choosing.
	ErrNoBoard = errors.New("no board")
	// ErrUnreachablePair marks a tile the pre-solve could not pair. It is
	// logged and the tile is left empty; Generate never returns it.
	ErrUnreachablePair = errors.New("tile has no reachable partner")
)

// Options selects the board to build.
type Options struct {
	Variant board.Variant `json:"variant,omitempty"`
	// LayoutCode wins over Width and Height when set.
	LayoutCode string `json:"layout_code,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	// Seed is drawn at random when nil and reported in the Result.
	Seed             *uint32            `json:"seed,omitempty"`
	Distribution     board.Distribution `json:"distribution,omitempty"`
	AllowSinglePairs bool               `json:"allow_single_pairs"`
	IncludeWildcards bool               `json:"include_wildcards"`
	SimpleShuffle    bool               `json:"simple_shuffle"`
}

// Result is a generated board together with what is needed to rebuild it.
type Result struct {
	Variant    board.Variant       `json:"variant"`
	Seed       uint32              `json:"seed"`
	LayoutCode string              `json:"layout_code"`
	Flat       *board.FlatBoard    `json:"flat,omitempty"`
	Layered    *board.LayeredBoard `json:"layered,omitempty"`
	// Solution lists the pairs in an order that clears the board. It is
	// empty for simple shuffles.
	Solution []board.Pair `json:"solution,omitempty"`
	// Dropped counts slots left empty: the odd trailing slot of a simple
	// shuffle or tiles the pre-solve could not pair.
	Dropped int `json:"dropped"`
	Tiles   int `json:"tiles"`
}

// Generate builds a board. The same options and seed always produce the
// same board.
func Generate(opts Options) (*Result, error) {
	variant, err := resolveVariant(opts)
	if err != nil {
		return nil, err
	}
	dist, err := board.ParseDistribution(string(opts.Distribution))
	if err != nil {
		return nil, err
	}
	opts.Variant, opts.Distribution = variant, dist

	seed := rng.Resolve(opts.Seed)
	src := rng.New(seed)
	res := &Result{Variant: variant, Seed: seed}

	if variant == board.Layered {
		err = generateLayered(opts, src, res)
	} else {
		err = generateFlat(opts, src, res)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("variant", string(variant)).
		Uint32("seed", seed).
		Str("layout", res.LayoutCode).
		Int("tiles", res.Tiles).
		Int("dropped", res.Dropped).
		Bool("simple", opts.SimpleShuffle).
		Msg("board generated")
	return res, nil
}

func resolveVariant(opts Options) (board.Variant, error) {
	if opts.Variant != "" && !opts.Variant.Valid() {
		return "", fmt.Errorf("%w: unknown variant %q", ErrNoBoard, opts.Variant)
	}
	if opts.LayoutCode == "" {
		if opts.Variant == "" {
			return board.Flat, nil
		}
		return opts.Variant, nil
	}

	h, err := layout.Inspect(opts.LayoutCode)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoBoard, err)
	}
	v := board.VariantOf(h.Variant)
	if opts.Variant != "" && opts.Variant != v {
		return "", fmt.Errorf("%w: %w: %s code for a %s board", ErrNoBoard, layout.ErrInvalidFormat, h.Variant, opts.Variant)
	}
	return v, nil
}

func flatShape(opts Options) (*layout.Flat, string, error) {
	if opts.LayoutCode != "" {
		shape, err := layout.DecodeFlat(opts.LayoutCode)
		return shape, opts.LayoutCode, err
	}
	if err := layout.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return nil, "", err
	}
	shape := layout.FullFlat(opts.Width, opts.Height)
	code, err := layout.EncodeFlat(shape)
	return shape, code, err
}

func layeredShape(opts Options) (*layout.Layered, string, error) {
	if opts.LayoutCode != "" {
		shape, err := layout.DecodeLayered(opts.LayoutCode)
		return shape, opts.LayoutCode, err
	}
	if err := layout.ValidateDimensions(opts.Width, opts.Height); err != nil {
		return nil, "", err
	}
	shape := layout.NewLayered(opts.Width, opts.Height)
	shape.Fill(0, 0, opts.Width-1, opts.Height-1, 0)
	code, err := layout.EncodeLayered(shape)
	return shape, code, err
}

func generateFlat(opts Options, src *rng.Source, res *Result) error {
	shape, code, err := flatShape(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoBoard, err)
	}
	if shape.Count() < 2 {
		return fmt.Errorf("%w: layout has %d tiles", ErrNoBoard, shape.Count())
	}

	b, slots := board.NewFlatBoard(shape)
	queue := designQueue(src, len(slots)/2, opts)
	if opts.SimpleShuffle {
		res.Dropped = dealSimple(b.Tiles, slots, queue, src)
	} else {
		res.Solution, res.Dropped = presolveFlat(b, slots, queue, src)
	}

	res.LayoutCode = code
	res.Flat = b
	res.Tiles = b.Remaining()
	return nil
}

func generateLayered(opts Options, src *rng.Source, res *Result) error {
	shape, code, err := layeredShape(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoBoard, err)
	}
	if shape.Count() < 2 {
		return fmt.Errorf("%w: layout has %d tiles", ErrNoBoard, shape.Count())
	}

	b := board.NewLayeredBoard(shape)
	slots := make([]int, len(b.Tiles))
	for i := range slots {
		slots[i] = i
	}
	queue := designQueue(src, len(slots)/2, opts)
	if opts.SimpleShuffle {
		res.Dropped = dealSimple(b.Tiles, slots, queue, src)
	} else {
		res.Solution, res.Dropped = presolveLayered(b, queue, src)
	}

	res.LayoutCode = code
	res.Layered = b
	res.Tiles = b.Remaining()
	return nil
}

// reportLeftovers logs the tiles a pre-solved deal left empty. With every
// pair placed the only leftover is the odd tile of an odd layout; anything
// left while pairs were still queued was stranded.
func reportLeftovers(ids []int, stranded bool) {
	for _, id := range ids {
		if stranded {
			log.Warn().Err(ErrUnreachablePair).Int("tile", id).Msg("leaving tile empty")
		} else {
			log.Debug().Int("tile", id).Msg("odd tile left empty")
		}
	}
}

// Solvable replays res.Solution against a copy of the board and reports
// whether every pair was legal at its turn and the board ended empty.
func Solvable(res *Result) bool {
	left, ok := replay(res)
	return ok && left == 0
}
