// Package filter rejects usernames that match a profanity denylist.
package filter

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/johan-st/wordname-tui/internal/config"
)

// Filter is a case-insensitive denylist. The built-in word set can be
// extended with words, glob patterns and denylist files from config.
type Filter struct {
	words    map[string]bool
	patterns []string
	mu       sync.RWMutex
}

// New creates a filter seeded with the built-in denylist.
func New() *Filter {
	f := &Filter{
		words: make(map[string]bool, len(builtinDenylist)),
	}
	for _, w := range builtinDenylist {
		f.words[w] = true
	}
	return f
}

// FromConfig creates a filter extended with the configured denylist.
func FromConfig(cfg config.DenylistConfig) *Filter {
	f := New()
	f.Extend(cfg)
	return f
}

// Extend adds configured words, patterns and denylist files.
func (f *Filter) Extend(cfg config.DenylistConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range cfg.Words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			f.words[w] = true
		}
	}

	for _, p := range cfg.Patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			log.Warn("invalid denylist pattern", "pattern", p)
			continue
		}
		f.patterns = append(f.patterns, p)
	}

	for _, path := range cfg.Files {
		if err := f.loadFile(path); err != nil {
			log.Warn("failed to load denylist file", "path", path, "err", err)
		}
	}
}

// loadFile reads one word per line into the denylist. Caller holds the
// write lock.
func (f *Filter) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		f.words[w] = true
	}
	return scanner.Err()
}

// IsClean reports whether the word passes the denylist. Matching is
// case-insensitive and runs before any digit suffix is appended.
func (f *Filter) IsClean(word string) bool {
	w := strings.ToLower(word)

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.words[w] {
		return false
	}
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, w); ok {
			return false
		}
	}
	return true
}

// Size returns the number of exact-match denylist words.
func (f *Filter) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.words)
}
