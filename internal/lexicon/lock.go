package lexicon

import (
	"fmt"
	"sync"
	"time"
)

// ImportLockError indicates a concurrent import for the same language.
type ImportLockError struct {
	Lang   Tag
	HeldBy string
	Since  time.Time
}

func (e *ImportLockError) Error() string {
	return fmt.Sprintf("import for language %q is in progress by %s (since %s)",
		e.Lang, e.HeldBy, e.Since.Format(time.Kitchen))
}

// importLockInfo contains information about who holds an import lock.
type importLockInfo struct {
	HeldBy    string
	SessionID string
	Since     time.Time
}

// ImportLock serializes wordlist imports per language. This provides
// clearer error messages than SQLite's built-in locking.
type ImportLock struct {
	locks map[Tag]*importLockInfo
	mu    sync.Mutex
}

// NewImportLock creates a new import lock.
func NewImportLock() *ImportLock {
	return &ImportLock{
		locks: make(map[Tag]*importLockInfo),
	}
}

// TryLock attempts to acquire the import lock for a language.
// Returns nil if successful, or an ImportLockError if already locked.
func (il *ImportLock) TryLock(lang Tag, holder, sessionID string) error {
	il.mu.Lock()
	defer il.mu.Unlock()

	if info, exists := il.locks[lang]; exists {
		// If same session holds the lock, allow re-entry
		if info.SessionID == sessionID {
			return nil
		}
		return &ImportLockError{
			Lang:   lang,
			HeldBy: info.HeldBy,
			Since:  info.Since,
		}
	}

	il.locks[lang] = &importLockInfo{
		HeldBy:    holder,
		SessionID: sessionID,
		Since:     time.Now(),
	}
	return nil
}

// Unlock releases the import lock for a language.
func (il *ImportLock) Unlock(lang Tag, sessionID string) {
	il.mu.Lock()
	defer il.mu.Unlock()

	if info, exists := il.locks[lang]; exists {
		if info.SessionID == sessionID {
			delete(il.locks, lang)
		}
	}
}

// ReleaseAllForSession releases all import locks held by a session.
func (il *ImportLock) ReleaseAllForSession(sessionID string) {
	il.mu.Lock()
	defer il.mu.Unlock()

	for lang, info := range il.locks {
		if info.SessionID == sessionID {
			delete(il.locks, lang)
		}
	}
}

// WithLock executes a function while holding the import lock.
func (il *ImportLock) WithLock(lang Tag, holder, sessionID string, fn func() error) error {
	if err := il.TryLock(lang, holder, sessionID); err != nil {
		return err
	}
	defer il.Unlock(lang, sessionID)

	return fn()
}
