// Package session tracks one intake conversation per Telegram user.
package session

import "sync"

// Phase identifies the step of a user's intake conversation.
type Phase string

const (
	// PhaseNoSession indicates the user has no active conversation.
	PhaseNoSession Phase = "no_session"
	// PhaseAwaitingNumbers indicates the bot is waiting for the dezenas.
	PhaseAwaitingNumbers Phase = "awaiting_numbers"
	// PhaseAwaitingName indicates the bot is waiting for the bettor's name.
	PhaseAwaitingName Phase = "awaiting_name"
	// PhaseCompleted indicates the last wager was persisted.
	PhaseCompleted Phase = "completed"
)

// Session stores the conversation phase and the dezenas pending a name.
// PendingNumbers is populated only while the phase is PhaseAwaitingName.
type Session struct {
	Phase          Phase
	PendingNumbers []int
}

// Manager orchestrates per-user sessions.
//
// Turn serializes one user's read-decide-write cycle: callers must hold the
// returned release for the whole turn. Distinct users never block each other.
type Manager interface {
	Get(userID int64) Session
	Set(userID int64, s Session)
	Clear(userID int64)
	Turn(userID int64) (release func())
}

type entry struct {
	turn    sync.Mutex
	session Session
}

type memoryManager struct {
	mu      sync.RWMutex
	entries map[int64]*entry
}

// NewMemoryManager constructs an in-memory, process-scoped Manager.
func NewMemoryManager() Manager {
	return &memoryManager{
		entries: make(map[int64]*entry),
	}
}

// Get returns the session for a user if it exists, otherwise a default
// no-session value.
func (m *memoryManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.entries[userID]; ok {
		return e.session
	}
	return Session{Phase: PhaseNoSession}
}

// Set updates the session for a user, creating an entry if necessary.
func (m *memoryManager) Set(userID int64, s Session) {
	m.entry(userID).session = s
}

// Clear removes the session for a user.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

// Turn acquires the user's turn lock and returns its release.
func (m *memoryManager) Turn(userID int64) func() {
	e := m.entry(userID)
	e.turn.Lock()
	return e.turn.Unlock
}

func (m *memoryManager) entry(userID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok {
		e = &entry{session: Session{Phase: PhaseNoSession}}
		m.entries[userID] = e
	}
	return e
}
