package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns all live sessions. Idle sessions are swept out after the
// configured TTL so an abandoned browser tab cannot pin memory forever.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	maxRecords int
	ttl        time.Duration
	model      string
	logger     *zap.Logger

	sweepTicker *time.Ticker
	done        chan struct{}
}

type ManagerConfig struct {
	DefaultModel string
	MaxRecords   int
	SessionTTL   time.Duration
	Logger       *zap.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.MaxRecords == 0 {
		cfg.MaxRecords = 200
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &Manager{
		sessions:    make(map[string]*Session),
		maxRecords:  cfg.MaxRecords,
		ttl:         cfg.SessionTTL,
		model:       cfg.DefaultModel,
		logger:      cfg.Logger,
		sweepTicker: time.NewTicker(5 * time.Minute),
		done:        make(chan struct{}),
	}

	go m.sweep()

	return m
}

// GetOrCreate resolves id to a live session, creating a fresh one when the
// id is empty or unknown (expired ids fall in the unknown case).
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			s.touch()
			return s
		}
	}

	s := newSession(uuid.NewString(), m.model, m.maxRecords)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("Session created", zap.String("session_id", s.ID))

	return s
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) sweep() {
	for {
		select {
		case <-m.done:
			return
		case <-m.sweepTicker.C:
			cutoff := time.Now().Add(-m.ttl)
			m.mu.Lock()
			for id, s := range m.sessions {
				if s.idleSince().Before(cutoff) {
					delete(m.sessions, id)
					m.logger.Debug("Session expired", zap.String("session_id", id))
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Manager) Stop() {
	m.sweepTicker.Stop()
	close(m.done)
}
