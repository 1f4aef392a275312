package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/generator"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/pathfinder"
	"github.com/wricardo/tile-match-game/game/rng"
)

// MaxBatchSize caps the boards generated by one GenerateBatch call.
const MaxBatchSize = 256

// ErrInvalidRequest marks malformed tool or batch input.
var ErrInvalidRequest = errors.New("invalid request")

// DecodeLayout parses a layout code of either variant
func (s *gameServiceImpl) DecodeLayout(ctx context.Context, code string) (*LayoutInfo, error) {
	return DescribeLayout(code)
}

// DescribeLayout decodes a code into its text form.
func DescribeLayout(code string) (*LayoutInfo, error) {
	h, err := layout.Inspect(code)
	if err != nil {
		return nil, err
	}
	info := &LayoutInfo{Code: code, Variant: h.Variant, Width: h.Width, Height: h.Height}

	if h.Variant == layout.VariantLayered {
		l, err := layout.DecodeLayered(code)
		if err != nil {
			return nil, err
		}
		info.Tiles, info.Rows = l.Count(), l.Rows()
		return info, nil
	}

	f, err := layout.DecodeFlat(code)
	if err != nil {
		return nil, err
	}
	info.Tiles, info.Rows = f.Count(), f.Rows()
	return info, nil
}

// EncodeLayout builds a code from text rows or a full rectangle
func (s *gameServiceImpl) EncodeLayout(ctx context.Context, req EncodeRequest) (*LayoutInfo, error) {
	code, err := EncodeRows(req)
	if err != nil {
		return nil, err
	}
	return DescribeLayout(code)
}

// EncodeRows encodes the shape described by req.
func EncodeRows(req EncodeRequest) (string, error) {
	if req.Variant != "" && !req.Variant.Valid() {
		return "", fmt.Errorf("%w: unknown variant %q", layout.ErrInvalidFormat, req.Variant)
	}

	if req.Variant == board.Layered {
		var l *layout.Layered
		if len(req.Rows) > 0 {
			var err error
			if l, err = layout.ParseLayeredRows(req.Rows); err != nil {
				return "", err
			}
		} else {
			if err := layout.ValidateDimensions(req.Width, req.Height); err != nil {
				return "", err
			}
			l = layout.NewLayered(req.Width, req.Height)
			l.Fill(0, 0, req.Width-1, req.Height-1, 0)
		}
		return layout.EncodeLayered(l)
	}

	var f *layout.Flat
	if len(req.Rows) > 0 {
		var err error
		if f, err = layout.ParseFlatRows(req.Rows); err != nil {
			return "", err
		}
	} else {
		if err := layout.ValidateDimensions(req.Width, req.Height); err != nil {
			return "", err
		}
		f = layout.FullFlat(req.Width, req.Height)
	}
	return layout.EncodeFlat(f)
}

// GenerateBatch deals one board per seed in parallel and reports how each
// turned out. Generation failures are recorded per result.
func (s *gameServiceImpl) GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	config, err := s.resolveConfig(req.ConfigName)
	if err != nil {
		return nil, err
	}

	seeds := req.Seeds
	if len(seeds) == 0 {
		if req.Count <= 0 {
			return nil, fmt.Errorf("%w: batch needs seeds or a positive count", ErrInvalidRequest)
		}
		seeds = make([]uint32, min(req.Count, MaxBatchSize))
		for i := range seeds {
			seeds[i] = rng.NewSeed()
		}
	}
	if len(seeds) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d boards exceeds limit of %d", ErrInvalidRequest, len(seeds), MaxBatchSize)
	}

	results := make([]*BatchResult, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, seed := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = summarize(generator.Generate(config.Options(&seed)))
			results[i].Seed = seed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &BatchResponse{ConfigName: config.Name, Results: results}
	for _, r := range results {
		if r.Solvable {
			resp.Solvable++
		}
	}
	log.Debug().Str("config", config.Name).Int("boards", len(results)).Int("solvable", resp.Solvable).
		Msg("batch generated")
	return resp, nil
}

func summarize(res *generator.Result, err error) *BatchResult {
	if err != nil {
		return &BatchResult{Error: err.Error()}
	}
	out := &BatchResult{
		LayoutCode: res.LayoutCode,
		Tiles:      res.Tiles,
		Dropped:    res.Dropped,
		Solvable:   generator.Solvable(res),
	}
	if res.Layered != nil {
		out.Matches = len(pathfinder.FindAllLayeredMatches(res.Layered))
	} else {
		out.Matches = len(pathfinder.FindAllMatches(&res.Flat.Grid))
	}
	return out
}
