package engine

import (
	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/generator"
	"github.com/wricardo/tile-match-game/game/pathfinder"
)

// Status describes where a round stands.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusVictory Status = "victory"
	// StatusStuck means tiles remain but no legal match exists. A shuffle
	// recovers from it.
	StatusStuck Status = "stuck"

	// Validation constants
	MaxHistoryLimit     = 100
	WebSocketBufferSize = 256
	maxShuffleAttempts  = 16
)

// Messages are the player-facing texts of a preset. Empty entries fall
// back to built-in defaults.
type Messages struct {
	Welcome  string `json:"welcome"`
	Matched  string `json:"matched"`
	NoPath   string `json:"no_path"`
	Mismatch string `json:"mismatch"`
	Blocked  string `json:"blocked"`
	Victory  string `json:"victory"`
	Stuck    string `json:"stuck"`
	Shuffled string `json:"shuffled"`
}

// GameConfig is a board preset loaded from JSON.
type GameConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Variant     board.Variant `json:"variant"`
	// LayoutCode wins over Layout, and Layout over Width and Height.
	LayoutCode string `json:"layout_code,omitempty"`
	// Layout draws the board as text rows: '#' or '.' for two-corner
	// boards, '.' or a stack height '1'-'6' for traditional ones.
	Layout           []string           `json:"layout,omitempty"`
	Width            int                `json:"width,omitempty"`
	Height           int                `json:"height,omitempty"`
	Distribution     board.Distribution `json:"distribution,omitempty"`
	AllowSinglePairs bool               `json:"allow_single_pairs"`
	IncludeWildcards bool               `json:"include_wildcards"`
	SimpleShuffle    bool               `json:"simple_shuffle"`
	Messages         Messages           `json:"messages"`
}

// Options converts the preset into generator options for one seed.
func (c *GameConfig) Options(seed *uint32) generator.Options {
	code := c.LayoutCode
	if code == "" && len(c.Layout) > 0 {
		// Bad rows leave code empty and the engine falls back to the default board
		code, _ = c.rowsCode()
	}
	return generator.Options{
		Variant:          c.Variant,
		LayoutCode:       code,
		Width:            c.Width,
		Height:           c.Height,
		Seed:             seed,
		Distribution:     c.Distribution,
		AllowSinglePairs: c.AllowSinglePairs,
		IncludeWildcards: c.IncludeWildcards,
		SimpleShuffle:    c.SimpleShuffle,
	}
}

// StepKind names a state change that can be replayed.
type StepKind string

const (
	StepMatch   StepKind = "match"
	StepShuffle StepKind = "shuffle"
)

// Step is one replayable change. A and B are zero for shuffles.
type Step struct {
	Kind StepKind `json:"kind"`
	A    int      `json:"a"`
	B    int      `json:"b"`
}

// Hint is a match the player can make right now.
type Hint struct {
	Pair board.Pair `json:"pair"`
	// Path is nil on traditional boards.
	Path *pathfinder.Path `json:"path,omitempty"`
}

// GameState is the externally visible state of a round.
type GameState struct {
	ConfigName string              `json:"config_name"`
	Variant    board.Variant       `json:"variant"`
	Seed       uint32              `json:"seed"`
	LayoutCode string              `json:"layout_code"`
	Flat       *board.FlatBoard    `json:"flat,omitempty"`
	Layered    *board.LayeredBoard `json:"layered,omitempty"`

	Status           Status `json:"status"`
	Message          string `json:"message"`
	GameOver         bool   `json:"game_over"`
	Victory          bool   `json:"victory"`
	TotalTiles       int    `json:"total_tiles"`
	Remaining        int    `json:"remaining"`
	AvailableMatches int    `json:"available_matches"`
	Shuffles         int    `json:"shuffles"`

	// Steps is the replay log since the last reset.
	Steps []Step `json:"steps"`

	// MatchHistory is cumulative across resets; TotalMatches counts its
	// successful matches.
	MatchHistory []MatchHistoryEntry `json:"match_history"`
	TotalMatches int                 `json:"total_matches"`
}

// MatchHistoryEntry records one attempted action.
type MatchHistoryEntry struct {
	Action     string           `json:"action"`
	A          int              `json:"a"`
	B          int              `json:"b"`
	Design     int              `json:"design"`
	Path       *pathfinder.Path `json:"path,omitempty"`
	Remaining  int              `json:"remaining"`
	Timestamp  int64            `json:"timestamp"`
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
	MoveNumber int              `json:"move_number"`
}
