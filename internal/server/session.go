package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/history"
)

// Session is one live SSH connection.
type Session struct {
	ID         string
	User       *access.UserInfo
	RemoteAddr string
	StartedAt  time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// Duration returns how long the connection has been open.
func (s *Session) Duration() time.Duration {
	return time.Since(s.StartedAt)
}

// IdleTime returns how long since the session last ran a command or
// opened the TUI.
func (s *Session) IdleTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastSeen)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// SessionManager tracks live sessions and mirrors their lifecycle into
// the history store when one is configured.
type SessionManager struct {
	mu      sync.RWMutex
	active  map[string]*Session
	history *history.Store
}

// NewSessionManager creates an empty session manager. historyStore may
// be nil.
func NewSessionManager(historyStore *history.Store) *SessionManager {
	return &SessionManager{
		active:  make(map[string]*Session),
		history: historyStore,
	}
}

// Open registers a session for a newly connected user.
func (sm *SessionManager) Open(user *access.UserInfo, remoteAddr string) *Session {
	now := time.Now()
	session := &Session{
		ID:         uuid.New().String(),
		User:       user,
		RemoteAddr: remoteAddr,
		StartedAt:  now,
		lastSeen:   now,
	}

	sm.mu.Lock()
	sm.active[session.ID] = session
	sm.mu.Unlock()

	if sm.history != nil {
		// best effort; a history write failure must not drop the connection
		_ = sm.history.CreateSession(history.NewSession(session.ID, user, remoteAddr))
	}
	return session
}

// Close drops a session and marks it ended in history.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	delete(sm.active, id)
	sm.mu.Unlock()

	if sm.history != nil {
		sm.history.EndSession(id)
	}
}

// Touch marks a session as recently used.
func (sm *SessionManager) Touch(id string) {
	sm.mu.RLock()
	session := sm.active[id]
	sm.mu.RUnlock()

	if session == nil {
		return
	}
	session.touch()
	if sm.history != nil {
		sm.history.UpdateSessionActivity(id)
	}
}

// Active returns the currently connected sessions.
func (sm *SessionManager) Active() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.active))
	for _, s := range sm.active {
		sessions = append(sessions, s)
	}
	return sessions
}
