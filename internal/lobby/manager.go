package lobby

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayushmko73/chess-multiplayer-ai/internal/game"
	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
)

// Session is one shared game: every websocket connection that presents the
// same id talks to the same Runner. Callers must hold the session lock for
// the duration of any Runner access; the search requires exclusive use of
// the game while it runs.
type Session struct {
	ID        string
	Runner    *game.Runner
	CreatedAt time.Time
	UpdatedAt time.Time

	Mu sync.Mutex
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) NewSession(logger Logger) (*Session, Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runner := game.NewRunner(game.RunnerOptions{
		Logger: Some(logger),
	})
	err := runner.SetupPosition(StartPos)
	if !IsNil(err) {
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		ID:        id,
		Runner:    &runner,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.sessions[id] = s
	return s, NilError
}

func (m *Manager) Get(id string) (*Session, Error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, Errorf("session not found: %v", id)
	}
	return s, NilError
}

func (m *Manager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.UpdatedAt = time.Now()
	}
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
