package engine

import (
	"sync"

	"route-diary/internal/sensor"
)

// Session bundles one user's engine with the feeds their device pushes
// samples into.
type Session struct {
	UserID string
	Engine *Engine
	Geo    *sensor.GeoFeed
	Motion *sensor.MotionFeed
}

// Manager hands out one independent session per user, creating it on
// first use. Sessions are never shared between users.
type Manager struct {
	mu       sync.Mutex
	build    func(userID string) *Session
	sessions map[string]*Session
}

func NewManager(build func(userID string) *Session) *Manager {
	return &Manager{
		build:    build,
		sessions: map[string]*Session{},
	}
}

// Get returns the user's session, creating it if needed.
func (m *Manager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := m.build(userID)
	m.sessions[userID] = s
	return s
}

// Peek returns the session without creating one.
func (m *Manager) Peek(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// StopAll shuts down every active session, used at server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Engine.StopTracking()
	}
}
