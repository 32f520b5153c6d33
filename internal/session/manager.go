// Package session holds the live per-conversation state store. Sessions
// live in memory for the duration of a match; ended or expired sessions
// are handed to the durable store for logging.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// Manager is the live session store. Turns for one session are fully
// serialized by a per-session lock; different sessions proceed in
// parallel.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*entry
	maxHistory int
}

type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// NewManager creates an empty live store. maxHistory caps the turn
// history per session; older entries are evicted first.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Manager{
		sessions:   make(map[string]*entry),
		maxHistory: maxHistory,
	}
}

// Create starts a new session with default early/even context and
// applies the caller's initial state on top.
func (m *Manager) Create(initial domain.StateUpdate, locale string) *domain.Session {
	now := time.Now()
	session := &domain.Session{
		ID:     uuid.NewString(),
		Locale: locale,
		State: domain.GameState{
			GamePhase: domain.PhaseEarly,
			Status:    domain.StatusEven,
		},
		CreatedAt:  now,
		LastSeenAt: now,
	}
	MergeState(&session.State, initial)

	m.mu.Lock()
	m.sessions[session.ID] = &entry{session: session}
	m.mu.Unlock()
	return session
}

// Get returns the live session, or nil if unknown or already ended.
func (m *Manager) Get(id string) *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	return e.session
}

// WithTurn runs fn under the session's turn lock, guaranteeing that no
// other turn for the same session overlaps it. Returns false when the
// session does not exist.
func (m *Manager) WithTurn(id string, fn func(*domain.Session) error) (bool, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The session may have ended while we waited for the turn lock.
	m.mu.RLock()
	_, live := m.sessions[id]
	m.mu.RUnlock()
	if !live {
		return false, nil
	}

	e.session.LastSeenAt = time.Now()
	return true, fn(e.session)
}

// AppendHistory appends a completed turn, evicting the oldest entries
// past the history cap. Must be called from inside WithTurn.
func (m *Manager) AppendHistory(session *domain.Session, record domain.TurnRecord) {
	session.History = append(session.History, record)
	if len(session.History) > m.maxHistory {
		session.History = session.History[len(session.History)-m.maxHistory:]
	}
}

// StateSnapshot returns an independent copy of the session's state,
// taken under the turn lock so it never observes a half-applied merge.
// Returns false when the session is unknown or already ended.
func (m *Manager) StateSnapshot(id string) (domain.GameState, bool) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return domain.GameState{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State.Clone(), true
}

// End removes the session from the live store and returns it for
// durable logging. Returns nil if the session was never created or
// already ended.
func (m *Manager) End(id string) *domain.Session {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}

	// Wait out a turn that was already past its liveness check, so the
	// caller can read the session without racing the turn's writes.
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Expire removes and returns every session idle longer than ttl. An
// entry whose turn lock is held has a turn in flight, so it is not
// idle; it stays put and gets rechecked on the next sweep.
func (m *Manager) Expire(ttl time.Duration, now time.Time) []*domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []*domain.Session
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.session.Idle(ttl, now) {
			expired = append(expired, e.session)
			delete(m.sessions, id)
		}
		e.mu.Unlock()
	}
	return expired
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
