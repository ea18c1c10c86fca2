package chat

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthguard-backend/internal/services"
	"healthguard-backend/internal/transcript"
)

// Session is one conversation: a transcript and the coordinator that owns
// its requests.
type Session struct {
	ID          uuid.UUID
	Coordinator *Coordinator
	CreatedAt   time.Time

	lastActive atomic.Int64
}

func (s *Session) Store() *transcript.Store { return s.Coordinator.Store() }

func (s *Session) touch(at time.Time) { s.lastActive.Store(at.UnixNano()) }

func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

type ManagerConfig struct {
	SeedWelcome bool
	Publisher   Publisher
	Recorder    Recorder
	Clock       func() time.Time
}

// Manager holds the live sessions of this process. Sessions live in memory
// only and are dropped by SweepIdle or Close.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	provider services.ResponseProvider
	logger   *zap.SugaredLogger
	cfg      ManagerConfig
}

func NewManager(provider services.ResponseProvider, logger *zap.SugaredLogger, cfg ManagerConfig) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		provider: provider,
		logger:   logger,
		cfg:      cfg,
	}
}

func (m *Manager) Create() *Session {
	id := uuid.New()
	opts := []Option{WithSessionID(id), WithClock(m.cfg.Clock)}
	if m.cfg.Publisher != nil {
		opts = append(opts, WithPublisher(m.cfg.Publisher))
	}
	if m.cfg.Recorder != nil {
		opts = append(opts, WithRecorder(m.cfg.Recorder))
	}

	now := m.cfg.Clock()
	s := &Session{
		ID:          id,
		Coordinator: NewCoordinator(transcript.NewStore(), m.provider, m.logger, opts...),
		CreatedAt:   now,
	}
	s.touch(now)

	if m.cfg.SeedWelcome {
		if _, err := s.Coordinator.SeedWelcome(); err != nil {
			m.logger.Errorw("Failed to seed welcome message", "session", id, "error", err)
		}
	}

	m.mu.Lock()
	m.sessions[id] = s
	total := len(m.sessions)
	m.mu.Unlock()

	m.logger.Infow("Session created", "session", id, "active", total)
	return s
}

// Get returns the session and marks it active.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.cfg.Clock())
	return s, nil
}

func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.Coordinator.Close()
	m.logger.Infow("Session closed", "session", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle closes sessions with no activity for longer than idleTTL. Busy
// sessions are kept until their request settles.
func (m *Manager) SweepIdle(now time.Time, idleTTL time.Duration) int {
	var expired []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > idleTTL && !s.Coordinator.IsBusy() {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Coordinator.Close()
	}
	if len(expired) > 0 {
		m.logger.Infow("Idle sessions swept", "closed", len(expired), "remaining", m.Len())
	}
	return len(expired)
}

// CloseAll releases every session; used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Coordinator.Close()
	}
}
