package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/tile-match-game/game/board"
	"github.com/wricardo/tile-match-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) info(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Engine.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// resolveConfig loads a preset by id, or the default for an empty id.
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}
	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, nil
	}
	if !strings.Contains(err.Error(), "configuration not found") {
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	// Provide helpful error message with available options
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr == nil && len(availableConfigs) > 0 {
		var configIDs []string
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
	}
	return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
}

// CreateSession deals a new board from a preset
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *uint32) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Info().Str("session", session.ID).Str("config", config.Name).Uint32("seed", session.Engine.Seed()).
		Msg("session created")

	return s.info(session, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return s.info(session, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// session fetches a session for a mutation and marks it accessed.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) persist(sessionID, action string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Str("action", action).Msg("failed to persist session")
	}
}

// Match tries to remove tiles a and b
func (s *gameServiceImpl) Match(ctx context.Context, sessionID string, a, b int) (*MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	path, matchErr := sess.Engine.Match(a, b)
	state := sess.Engine.GetState()
	result := &MatchResult{
		Success:   matchErr == nil,
		Pair:      board.NewPair(a, b),
		Path:      path,
		Message:   state.Message,
		GameState: state,
	}
	if matchErr != nil {
		result.ReasonCode = reasonCode(matchErr)
		return result, nil
	}

	now := time.Now()
	result.Events = append(result.Events, GameEvent{
		Type:      "match",
		Message:   fmt.Sprintf("Matched tiles %d and %d, %d left", a, b, state.Remaining),
		Timestamp: now,
		Tiles:     []int{a, b},
	})
	switch state.Status {
	case engine.StatusVictory:
		result.Events = append(result.Events, GameEvent{Type: "victory", Message: state.Message, Timestamp: now})
	case engine.StatusStuck:
		result.Events = append(result.Events, GameEvent{Type: "stuck", Message: state.Message, Timestamp: now})
	}

	s.persist(sessionID, "match")
	return result, nil
}

func reasonCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrTileNotFound):
		return ReasonTileNotFound
	case errors.Is(err, engine.ErrTileEmpty):
		return ReasonTileEmpty
	case errors.Is(err, engine.ErrSameTile):
		return ReasonSameTile
	case errors.Is(err, engine.ErrDesignMismatch):
		return ReasonDesignMismatch
	case errors.Is(err, engine.ErrNoPath):
		return ReasonNoPath
	case errors.Is(err, engine.ErrTileBlocked):
		return ReasonTileBlocked
	case errors.Is(err, engine.ErrGameOver):
		return ReasonGameOver
	}
	return "unknown"
}

// Hint suggests a legal match
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	hint, ok := sess.Engine.Hint()
	state := sess.Engine.GetState()
	result := &HintResult{Available: ok, Hint: hint, Status: state.Status}
	if ok {
		result.Message = fmt.Sprintf("Tiles %d and %d can be matched", hint.Pair.A, hint.Pair.B)
	} else {
		result.Message = state.Message
	}
	return result, nil
}

// ListMatches lists every legal match
func (s *gameServiceImpl) ListMatches(ctx context.Context, sessionID string) (*MatchList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	matches := sess.Engine.AvailableMatches()
	if matches == nil {
		matches = []board.Pair{}
	}
	return &MatchList{Matches: matches, Count: len(matches), Status: sess.Engine.GetState().Status}, nil
}

// Shuffle re-deals the remaining tiles
func (s *gameServiceImpl) Shuffle(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.Shuffle(); err != nil {
		return nil, err
	}

	s.persist(sessionID, "shuffle")
	return sess.Engine.GetState(), nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	state := sess.Engine.Reset()

	s.persist(sessionID, "reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMatchHistory returns paginated match history
func (s *gameServiceImpl) GetMatchHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMatchHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > engine.MaxHistoryLimit {
		opts.Limit = engine.MaxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var entries []engine.MatchHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = history[start:end]
	}
	if entries == nil {
		entries = []engine.MatchHistoryEntry{}
	}

	return &HistoryResponse{
		Matches:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
