package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/generator"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/pathfinder"
	"github.com/wricardo/tile-match-game/game/rng"
)

var (
	ErrTileNotFound   = errors.New("tile not found")
	ErrTileEmpty      = errors.New("tile already cleared")
	ErrSameTile       = errors.New("a tile cannot match itself")
	ErrDesignMismatch = errors.New("designs do not match")
	ErrNoPath         = errors.New("no path with two corners or fewer")
	ErrTileBlocked    = errors.New("tile is not free")
	ErrGameOver       = errors.New("game is over")
)

// shuffleStride spreads the per-shuffle seeds of one round.
const shuffleStride uint32 = 0x9e3779b9

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	Replay(steps []Step) error
	IsGameOver() bool
	IsVictory() bool
	Seed() uint32

	// Play
	Match(a, b int) (*pathfinder.Path, error)
	Hint() (*Hint, bool)
	AvailableMatches() []board.Pair
	Shuffle() error

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMatchHistory() []MatchHistoryEntry
	GetLastMatch() *MatchHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config *GameConfig
	// dealt is the board as generated; every reset starts from a copy.
	dealt *generator.Result
	state *GameState
}

// NewEngine deals a board for config. A nil seed draws a random one, which
// is then reported by Seed. A layout that cannot produce a board falls back
// to the default layout of the same variant.
func NewEngine(config *GameConfig, seed *uint32) (*GameEngine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	dealt, err := deal(config, rng.Resolve(seed))
	if err != nil {
		return nil, err
	}

	e := &GameEngine{config: config, dealt: dealt}
	e.state = e.freshState()
	e.state.MatchHistory = []MatchHistoryEntry{}
	e.refresh(e.message(func(m Messages) string { return m.Welcome }))
	return e, nil
}

func deal(config *GameConfig, seed uint32) (*generator.Result, error) {
	opts := config.Options(&seed)
	res, err := generator.Generate(opts)
	if !errors.Is(err, generator.ErrNoBoard) {
		return res, err
	}

	variant := config.Variant
	if variant == "" && config.LayoutCode != "" {
		if h, herr := layout.Inspect(config.LayoutCode); herr == nil {
			variant = board.VariantOf(h.Variant)
		}
	}
	if variant == "" {
		variant = board.Flat
	}
	log.Warn().Err(err).Str("config", config.Name).Str("variant", string(variant)).
		Msg("layout produced no board, using default layout")

	opts.Variant = variant
	opts.LayoutCode = layout.DefaultCode(variant.LayoutVariant())
	opts.Width, opts.Height = 0, 0
	return generator.Generate(opts)
}

func (e *GameEngine) freshState() *GameState {
	st := &GameState{
		ConfigName: e.config.Name,
		Variant:    e.dealt.Variant,
		Seed:       e.dealt.Seed,
		LayoutCode: e.dealt.LayoutCode,
		TotalTiles: e.dealt.Tiles,
		Steps:      []Step{},
	}
	if e.dealt.Flat != nil {
		st.Flat = e.dealt.Flat.Clone()
	}
	if e.dealt.Layered != nil {
		st.Layered = e.dealt.Layered.Clone()
	}
	return st
}

func (e *GameEngine) message(get func(Messages) string) string {
	return e.config.Messages.orDefault(get)
}

// refresh recomputes the derived fields of the state after a change.
func (e *GameEngine) refresh(msg string) {
	st := e.state
	st.Remaining = e.remaining()
	st.AvailableMatches = len(e.AvailableMatches())
	st.Message = msg

	switch {
	case st.Remaining == 0:
		st.Status = StatusVictory
		st.Victory, st.GameOver = true, true
		st.Message = e.message(func(m Messages) string { return m.Victory })
	case st.AvailableMatches == 0:
		st.Status = StatusStuck
		st.Message = e.message(func(m Messages) string { return m.Stuck })
	default:
		st.Status = StatusPlaying
	}
}

func (e *GameEngine) tiles() []board.Tile {
	if e.state.Layered != nil {
		return e.state.Layered.Tiles
	}
	return e.state.Flat.Tiles
}

func (e *GameEngine) remaining() int {
	n := 0
	for _, t := range e.tiles() {
		if t.Occupied() {
			n++
		}
	}
	return n
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Seed returns the seed the board was dealt from.
func (e *GameEngine) Seed() uint32 {
	return e.dealt.Seed
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsVictory returns whether the board has been cleared
func (e *GameEngine) IsVictory() bool {
	return e.state.Victory
}

// Reset restores the board as dealt. History and totals are cumulative and
// survive the reset.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.MatchHistory
	prevTotal := e.state.TotalMatches

	e.state = e.freshState()
	e.state.MatchHistory = prevHistory
	e.state.TotalMatches = prevTotal
	e.refresh(e.message(func(m Messages) string { return m.Welcome }))
	return e.state
}

// Match removes tiles a and b if they form a legal match. On two-corner
// boards the connecting path is returned.
func (e *GameEngine) Match(a, b int) (*pathfinder.Path, error) {
	entry := MatchHistoryEntry{Action: string(StepMatch), A: a, B: b, Design: board.NoDesign}
	tiles := e.tiles()
	if a >= 0 && a < len(tiles) {
		entry.Design = tiles[a].Design
	}

	path, err := e.match(a, b)
	entry.Path = path
	entry.Success = err == nil
	if err != nil {
		entry.Error = err.Error()
		entry.Remaining = e.state.Remaining
		e.record(entry)
		e.state.Message = e.failureMessage(err)
		return nil, err
	}

	e.state.Steps = append(e.state.Steps, Step{Kind: StepMatch, A: a, B: b})
	e.state.TotalMatches++
	e.refresh(fmt.Sprintf(e.message(func(m Messages) string { return m.Matched }), e.remaining()))
	entry.Remaining = e.state.Remaining
	e.record(entry)

	log.Debug().Int("a", a).Int("b", b).Int("remaining", e.state.Remaining).Msg("tiles matched")
	return path, nil
}

func (e *GameEngine) match(a, b int) (*pathfinder.Path, error) {
	if e.state.Victory {
		return nil, ErrGameOver
	}
	tiles := e.tiles()
	for _, id := range [2]int{a, b} {
		if id < 0 || id >= len(tiles) {
			return nil, fmt.Errorf("%w: %d", ErrTileNotFound, id)
		}
	}
	if a == b {
		return nil, fmt.Errorf("%w: %d", ErrSameTile, a)
	}
	for _, id := range [2]int{a, b} {
		if !tiles[id].Occupied() {
			return nil, fmt.Errorf("%w: %d", ErrTileEmpty, id)
		}
	}
	if !board.Matches(tiles[a].Design, tiles[b].Design) {
		return nil, fmt.Errorf("%w: %d and %d", ErrDesignMismatch, tiles[a].Design, tiles[b].Design)
	}

	var path *pathfinder.Path
	if lb := e.state.Layered; lb != nil {
		for _, id := range [2]int{a, b} {
			if !pathfinder.IsFree(lb, id) {
				return nil, fmt.Errorf("%w: %d", ErrTileBlocked, id)
			}
		}
	} else {
		path = pathfinder.FindPath(&e.state.Flat.Grid, a, b)
		if path == nil {
			return nil, fmt.Errorf("%w: %d to %d", ErrNoPath, a, b)
		}
	}

	tiles[a].Design = board.NoDesign
	tiles[b].Design = board.NoDesign
	return path, nil
}

func (e *GameEngine) failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoPath):
		return e.message(func(m Messages) string { return m.NoPath })
	case errors.Is(err, ErrDesignMismatch):
		return e.message(func(m Messages) string { return m.Mismatch })
	case errors.Is(err, ErrTileBlocked):
		return e.message(func(m Messages) string { return m.Blocked })
	case errors.Is(err, ErrGameOver):
		return e.state.Message
	}
	return err.Error()
}

func (e *GameEngine) record(entry MatchHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = len(e.state.MatchHistory) + 1
	e.state.MatchHistory = append(e.state.MatchHistory, entry)
}

// AvailableMatches lists every legal pair on the current board.
func (e *GameEngine) AvailableMatches() []board.Pair {
	if e.state.Layered != nil {
		return pathfinder.FindAllLayeredMatches(e.state.Layered)
	}
	return pathfinder.FindAllMatches(&e.state.Flat.Grid)
}

// Hint returns the lowest-numbered legal pair, or false when stuck.
func (e *GameEngine) Hint() (*Hint, bool) {
	matches := e.AvailableMatches()
	if len(matches) == 0 {
		return nil, false
	}
	h := &Hint{Pair: matches[0]}
	if e.state.Flat != nil {
		h.Path = pathfinder.FindPath(&e.state.Flat.Grid, h.Pair.A, h.Pair.B)
	}
	return h, true
}

// Shuffle re-deals the remaining designs over the remaining tiles. Each
// shuffle of a round draws from its own seed so replays are exact. Up to
// maxShuffleAttempts deals are tried until one leaves a legal match.
func (e *GameEngine) Shuffle() error {
	if e.state.Victory {
		return ErrGameOver
	}

	tiles := e.tiles()
	var ids, designs []int
	for _, t := range tiles {
		if t.Occupied() {
			ids = append(ids, t.ID)
			designs = append(designs, t.Design)
		}
	}

	src := rng.New(e.dealt.Seed + uint32(e.state.Shuffles+1)*shuffleStride)
	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		src.Shuffle(len(designs), func(i, j int) { designs[i], designs[j] = designs[j], designs[i] })
		for i, id := range ids {
			tiles[id].Design = designs[i]
		}
		if len(e.AvailableMatches()) > 0 {
			break
		}
	}

	e.state.Shuffles++
	e.state.Steps = append(e.state.Steps, Step{Kind: StepShuffle})
	e.refresh(e.message(func(m Messages) string { return m.Shuffled }))
	e.record(MatchHistoryEntry{Action: string(StepShuffle), Design: board.NoDesign, Remaining: e.state.Remaining, Success: true})

	log.Debug().Int("shuffles", e.state.Shuffles).Int("available", e.state.AvailableMatches).Msg("tiles shuffled")
	return nil
}

// Replay applies steps in order, e.g. to restore a persisted round on a
// freshly dealt engine.
func (e *GameEngine) Replay(steps []Step) error {
	for i, s := range steps {
		var err error
		switch s.Kind {
		case StepMatch:
			_, err = e.Match(s.A, s.B)
		case StepShuffle:
			err = e.Shuffle()
		default:
			err = fmt.Errorf("unknown step kind %q", s.Kind)
		}
		if err != nil {
			return fmt.Errorf("replay step %d: %w", i, err)
		}
	}
	return nil
}

// GetMatchHistory returns the complete history
func (e *GameEngine) GetMatchHistory() []MatchHistoryEntry {
	return e.state.MatchHistory
}

// GetLastMatch returns the last recorded action, or nil if none
func (e *GameEngine) GetLastMatch() *MatchHistoryEntry {
	if len(e.state.MatchHistory) == 0 {
		return nil
	}
	return &e.state.MatchHistory[len(e.state.MatchHistory)-1]
}

// RestoreHistory replaces the recorded history, e.g. with a persisted one
// after Replay has rebuilt the board.
func (e *GameEngine) RestoreHistory(history []MatchHistoryEntry, totalMatches int) {
	if history == nil {
		history = []MatchHistoryEntry{}
	}
	e.state.MatchHistory = history
	e.state.TotalMatches = totalMatches
}
