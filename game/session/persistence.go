package session

import (
	"time"

	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON form of a session. Boards are not
// stored: loading deals the board again from Config and Seed and replays
// Steps on it.
type PersistedSessionData struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Config         *engine.GameConfig `json:"config"`
	Seed           uint32             `json:"seed"`
	Steps          []engine.Step      `json:"steps"`
	Shuffles       int                `json:"shuffles"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`

	MatchHistory []engine.MatchHistoryEntry `json:"match_history,omitempty"`
	TotalMatches int                        `json:"total_matches"`
}
