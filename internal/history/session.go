// Package history persists sessions and generation runs.
package history

import (
	"strings"
	"time"

	"github.com/johan-st/wordname-tui/internal/access"
	"github.com/johan-st/wordname-tui/internal/lexicon"
)

// Session represents a user session.
type Session struct {
	ID                   string
	UserName             string // Authenticated username or empty
	PublicKeyFingerprint string // SSH key fingerprint or empty
	AnonymousName        string // Generated name for anonymous users
	RemoteAddr           string
	CreatedAt            time.Time
	LastActiveAt         time.Time
	IsActive             bool
}

// RunRecord represents one generation run in the history.
type RunRecord struct {
	ID         int64
	RunID      string // uuid
	SessionID  string
	Languages  string // comma-separated tags
	CaseMode   string
	SuffixMode string
	Requested  int
	Produced   int
	Profanity  int
	Duplicate  int
	NonASCII   int
	Outcome    string // completed, cancelled, exhausted, failed
	Error      string
	DurationMs int64
	CreatedAt  time.Time
}

// Run outcome constants.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

// LanguageTags parses the comma-separated language list back into tags.
func (r *RunRecord) LanguageTags() []lexicon.Tag {
	if r.Languages == "" {
		return nil
	}
	parts := strings.Split(r.Languages, ",")
	tags := make([]lexicon.Tag, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, lexicon.Tag(strings.TrimSpace(p)))
	}
	return tags
}

// UsernameRecord represents one accepted username within a run.
type UsernameRecord struct {
	ID       int64
	RunID    string
	Position int
	Value    string
	Lang     string
	Suffix   string
}

// NewSession creates a new session from user info.
func NewSession(id string, user *access.UserInfo, remoteAddr string) *Session {
	s := &Session{
		ID:           id,
		RemoteAddr:   remoteAddr,
		CreatedAt:    time.Now(),
		LastActiveAt: time.Now(),
		IsActive:     true,
	}

	if user != nil {
		if user.IsAnonymous {
			s.AnonymousName = user.AnonymousName
		} else {
			s.UserName = user.Name
			s.PublicKeyFingerprint = user.PublicKeyFP
		}
	}

	return s
}

// DisplayName returns the display name for the session.
func (s *Session) DisplayName() string {
	if s.UserName != "" {
		return s.UserName
	}
	if s.AnonymousName != "" {
		return s.AnonymousName
	}
	return "unknown"
}

// IsAuthenticated returns true if the session has an authenticated user.
func (s *Session) IsAuthenticated() bool {
	return s.UserName != ""
}

// Touch updates the last active time.
func (s *Session) Touch() {
	s.LastActiveAt = time.Now()
}
