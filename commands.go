package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/config"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/service"
	"github.com/wricardo/tile-match-game/game/session"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Print JSON instead of text"}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLayout(w io.Writer, info *service.LayoutInfo) {
	fmt.Fprintf(w, "Code:    %s\nVariant: %s\nSize:    %dx%d\nTiles:   %d\n\n", info.Code, info.Variant, info.Width, info.Height, info.Tiles)
	for _, row := range info.Rows {
		fmt.Fprintln(w, row)
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Print the text rows of a layout code",
		ArgsUsage: "CODE",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			code := cmd.Args().First()
			if code == "" {
				return fmt.Errorf("a layout code is required")
			}
			info, err := service.DescribeLayout(code)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return writeJSON(cmd.Root().Writer, info)
			}
			printLayout(cmd.Root().Writer, info)
			return nil
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode text rows (arguments or stdin) or a full rectangle into a layout code",
		ArgsUsage: "[ROW...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Value: string(board.Flat), Usage: "two_corner or traditional"},
			&cli.IntFlag{Name: "width", Usage: "Width of a full rectangle when no rows are given"},
			&cli.IntFlag{Name: "height", Usage: "Height of a full rectangle when no rows are given"},
			&cli.BoolFlag{Name: "stdin", Usage: "Read rows from stdin"},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			rows := cmd.Args().Slice()
			if cmd.Bool("stdin") {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				rows = strings.Fields(string(data))
			}
			code, err := service.EncodeRows(service.EncodeRequest{
				Variant: board.Variant(cmd.String("variant")),
				Rows:    rows,
				Width:   cmd.Int("width"),
				Height:  cmd.Int("height"),
			})
			if err != nil {
				return err
			}
			info, err := service.DescribeLayout(code)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return writeJSON(cmd.Root().Writer, info)
			}
			printLayout(cmd.Root().Writer, info)
			return nil
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Deal boards from a preset and report which are solvable",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Preset id (default preset when empty)"},
			&cli.IntSliceFlag{Name: "seed", Aliases: []string{"s"}, Usage: "Seed to deal (repeatable)"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "Random seeds to deal when no seed is given"},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			seeds, err := toSeeds(cmd.IntSlice("seed"))
			if err != nil {
				return err
			}

			svc := service.NewGameService(session.NewManager(), configs)
			resp, err := svc.GenerateBatch(ctx, service.BatchRequest{
				ConfigName: cmd.String("config"),
				Seeds:      seeds,
				Count:      cmd.Int("count"),
			})
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(w, resp)
			}
			fmt.Fprintf(w, "%s: %d/%d solvable\n", resp.ConfigName, resp.Solvable, len(resp.Results))
			for _, r := range resp.Results {
				if r.Error != "" {
					fmt.Fprintf(w, "  seed %-10d error: %s\n", r.Seed, r.Error)
					continue
				}
				fmt.Fprintf(w, "  seed %-10d tiles %-4d dropped %-3d open %-3d solvable %v\n",
					r.Seed, r.Tiles, r.Dropped, r.Matches, r.Solvable)
			}
			return nil
		},
	}
}

func toSeeds(values []int) ([]uint32, error) {
	seeds := make([]uint32, 0, len(values))
	for _, v := range values {
		if v < 0 || int64(v) > int64(^uint32(0)) {
			return nil, fmt.Errorf("seed %d out of range", v)
		}
		seeds = append(seeds, uint32(v))
	}
	return seeds, nil
}

func autoplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play a dealt board by always taking the first hint, shuffling when stuck",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Preset id (default preset when empty)"},
			&cli.IntFlag{Name: "seed", Aliases: []string{"s"}, Usage: "Seed to deal (random when unset)"},
			&cli.IntFlag{Name: "max-shuffles", Value: 3, Usage: "Shuffles allowed before giving up"},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			configs, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			cfg := configs.GetDefault()
			if name := cmd.String("config"); name != "" {
				if cfg, err = configs.LoadConfig(name); err != nil {
					return err
				}
			}

			var seed *uint32
			if cmd.IsSet("seed") {
				s, err := toSeeds([]int{cmd.Int("seed")})
				if err != nil {
					return err
				}
				seed = &s[0]
			}

			result, err := autoplay(ctx, cfg, seed, cmd.Int("max-shuffles"))
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(w, result)
			}
			fmt.Fprintf(w, "%s seed %d: %s after %d matches and %d shuffles, %d/%d tiles left\n",
				result.Config, result.Seed, result.Status, result.Matches, result.Shuffles, result.Remaining, result.TotalTiles)
			return nil
		},
	}
}

// AutoplayResult summarizes one automatic round.
type AutoplayResult struct {
	Config     string        `json:"config"`
	Seed       uint32        `json:"seed"`
	Status     engine.Status `json:"status"`
	Matches    int           `json:"matches"`
	Shuffles   int           `json:"shuffles"`
	Remaining  int           `json:"remaining"`
	TotalTiles int           `json:"total_tiles"`
	Steps      []engine.Step `json:"steps"`
}

// autoplay takes the first hint until the board is cleared. A stuck board
// is shuffled up to maxShuffles times.
func autoplay(ctx context.Context, cfg *engine.GameConfig, seed *uint32, maxShuffles int) (*AutoplayResult, error) {
	e, err := engine.NewEngine(cfg, seed)
	if err != nil {
		return nil, err
	}

	matches := 0
	for !e.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hint, ok := e.Hint()
		if !ok {
			if e.GetState().Shuffles >= maxShuffles {
				break
			}
			if err := e.Shuffle(); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := e.Match(hint.Pair.A, hint.Pair.B); err != nil {
			return nil, fmt.Errorf("hinted pair %d-%d rejected: %w", hint.Pair.A, hint.Pair.B, err)
		}
		matches++
	}

	state := e.GetState()
	log.Debug().Str("config", cfg.Name).Uint32("seed", e.Seed()).Str("status", string(state.Status)).
		Int("matches", matches).Int("shuffles", state.Shuffles).Msg("autoplay finished")
	return &AutoplayResult{
		Config:     cfg.Name,
		Seed:       e.Seed(),
		Status:     state.Status,
		Matches:    matches,
		Shuffles:   state.Shuffles,
		Remaining:  state.Remaining,
		TotalTiles: state.TotalTiles,
		Steps:      state.Steps,
	}, nil
}
