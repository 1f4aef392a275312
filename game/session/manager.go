package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/tile-match-game/game/engine"
	"github.com/wricardo/tile-match-game/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager keeps dealt rounds in memory, keyed by lower-cased session id,
// and mirrors them to an optional SessionPersistence.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*service.Session
	persistence SessionPersistence
}

// NewManager returns a memory-only store.
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence returns a store that writes every change through
// to persistence and falls back to it on a cache miss.
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// lookup must be called with mu held.
func (m *Manager) lookup(id string) (*service.Session, bool) {
	s, ok := m.sessions[key(id)]
	return s, ok
}

// persist logs instead of failing: the in-memory round stays authoritative.
func (m *Manager) persist(s *service.Session, after string) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(s); err != nil {
		log.Warn().Err(err).Str("session", s.ID).Str("after", after).Msg("failed to persist session")
	}
}

// Create deals a new round. An empty id gets a generated one and a nil
// seed a random one.
func (m *Manager) Create(id string, config *engine.GameConfig, seed *uint32) (*service.Session, error) {
	if id == "" {
		id = uuid.NewString()
	} else if strings.ContainsAny(id, `/\.`) || strings.TrimSpace(id) != id {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.lookup(id); taken {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	s := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = s
	m.persist(s, "create")

	return s, nil
}

// Get returns the session, loading and replaying it from persistence when
// it is not cached.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	s, ok := m.lookup(id)
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}
	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile.
	if s, ok := m.lookup(id); ok {
		return s, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

// List returns every cached session in no particular order.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*service.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Delete drops the session from memory and from persistence.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, cached := m.lookup(id)
	delete(m.sessions, key(id))

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !cached {
		return ErrSessionNotFound
	}
	return nil
}

// Evict drops the session from memory only; its file, if any, is kept.
func (m *Manager) Evict(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(id); !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// EvictIdle drops sessions not touched within maxAge and returns how many
// went. Persisted files stay, so an evicted round can still be reloaded.
func (m *Manager) EvictIdle(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for k, s := range m.sessions {
		if s.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			evicted++
		}
	}
	return evicted
}

func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	s.LastAccessedAt = time.Now()
	m.persist(s, "access")
	return nil
}

// Save writes the cached session through to persistence.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	s, ok := m.lookup(id)
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(s)
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Restore loads every persisted session that is not already cached.
// Files that fail to replay are logged and skipped.
func (m *Manager) Restore() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	restored := 0
	for _, id := range ids {
		if _, ok := m.lookup(id); ok {
			continue
		}
		s, err := m.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("session", id).Msg("skipping unreadable session")
			continue
		}
		m.sessions[key(id)] = s
		restored++
	}

	if restored > 0 {
		log.Info().Int("sessions", restored).Msg("restored persisted sessions")
	}
	return nil
}

// Flush saves every cached session, returning an error that counts the
// failures.
func (m *Manager) Flush() error {
	if m.persistence == nil {
		return nil
	}

	sessions := m.List()
	failed := 0
	for _, s := range sessions {
		if err := m.persistence.Save(s); err != nil {
			log.Warn().Err(err).Str("session", s.ID).Msg("failed to save session")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d of %d sessions", failed, len(sessions))
	}
	return nil
}
