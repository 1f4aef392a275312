package service

import (
	"time"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/layout"
	"github.com/wricardo/tile-match-game/game/pathfinder"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           uint32             `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// Reason codes reported by a failed match.
const (
	ReasonTileNotFound   = "tile_not_found"
	ReasonTileEmpty      = "tile_empty"
	ReasonSameTile       = "same_tile"
	ReasonDesignMismatch = "design_mismatch"
	ReasonNoPath         = "no_path"
	ReasonTileBlocked    = "tile_blocked"
	ReasonGameOver       = "game_over"
)

// MatchResult contains the result of a match attempt. Rule violations are
// reported here with Success false rather than as errors.
type MatchResult struct {
	Success    bool              `json:"success"`
	Pair       board.Pair        `json:"pair"`
	Path       *pathfinder.Path  `json:"path,omitempty"`
	ReasonCode string            `json:"reason_code,omitempty"`
	Message    string            `json:"message"`
	GameState  *engine.GameState `json:"game_state"`
	Events     []GameEvent       `json:"events,omitempty"`
}

// HintResult is the suggested next match, if any.
type HintResult struct {
	Available bool          `json:"available"`
	Hint      *engine.Hint  `json:"hint,omitempty"`
	Status    engine.Status `json:"status"`
	Message   string        `json:"message"`
}

// MatchList lists every legal match on the current board.
type MatchList struct {
	Matches []board.Pair  `json:"matches"`
	Count   int           `json:"count"`
	Status  engine.Status `json:"status"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "match", "victory", "stuck", "shuffle", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Tiles     []int     `json:"tiles,omitempty"`
}

// HistoryOptions configures match history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated match history
type HistoryResponse struct {
	Matches      []engine.MatchHistoryEntry `json:"matches"`
	TotalEntries int                        `json:"total_entries"`
	Page         int                        `json:"page"`
	PageSize     int                        `json:"page_size"`
	TotalPages   int                        `json:"total_pages"`
	HasNext      bool                       `json:"has_next"`
	HasPrevious  bool                       `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string             `json:"filename"`
	ConfigID     string             `json:"config_id"` // The identifier to use for session creation
	Name         string             `json:"name"`      // Display name
	Description  string             `json:"description"`
	Variant      board.Variant      `json:"variant"`
	LayoutCode   string             `json:"layout_code,omitempty"`
	Width        int                `json:"width,omitempty"`
	Height       int                `json:"height,omitempty"`
	Distribution board.Distribution `json:"distribution,omitempty"`
}

// LayoutInfo describes a decoded layout code.
type LayoutInfo struct {
	Code    string         `json:"code"`
	Variant layout.Variant `json:"variant"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Tiles   int            `json:"tiles"`
	// Rows is the text form: '#' and '.' for two-corner layouts, stack
	// heights for layered ones.
	Rows []string `json:"rows"`
}

// EncodeRequest builds a layout code from text rows, or from a size for a
// full rectangle when Rows is empty.
type EncodeRequest struct {
	Variant board.Variant `json:"variant"`
	Rows    []string      `json:"rows,omitempty"`
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
}

// BatchRequest generates one board per seed from a preset.
type BatchRequest struct {
	ConfigName string   `json:"config_name"`
	Seeds      []uint32 `json:"seeds,omitempty"`
	// Count draws that many random seeds when Seeds is empty.
	Count int `json:"count,omitempty"`
}

// BatchResult summarises one generated board.
type BatchResult struct {
	Seed       uint32 `json:"seed"`
	LayoutCode string `json:"layout_code"`
	Tiles      int    `json:"tiles"`
	Dropped    int    `json:"dropped"`
	Solvable   bool   `json:"solvable"`
	Matches    int    `json:"available_matches"`
	Error      string `json:"error,omitempty"`
}

// BatchResponse holds the results in request order.
type BatchResponse struct {
	ConfigName string         `json:"config_name"`
	Results    []*BatchResult `json:"results"`
	Solvable   int            `json:"solvable"`
}
