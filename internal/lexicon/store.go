package lexicon

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// UnavailableError is returned when a language's wordlist has not been
// loaded into the store.
type UnavailableError struct {
	Lang Tag
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("lexicon for language %q (%s) is not loaded", e.Lang, e.Lang.DisplayName())
}

// Store is the SQLite-backed word database. Writes happen only during
// import; sampling is read-only.
type Store struct {
	db     *sql.DB
	path   string
	rng    *rand.Rand
	counts map[Tag]int
	mu     sync.Mutex
}

// Open opens (creating if needed) the lexicon database in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lexicon.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open lexicon database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to lexicon database: %w", err)
	}

	// SQLite doesn't handle concurrent writes well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		path:   dbPath,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		counts: make(map[Tag]int),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate lexicon database: %w", err)
	}

	if err := s.refreshCounts(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to count words: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lang TEXT NOT NULL,
		word TEXT NOT NULL,
		UNIQUE(lang, word)
	);

	CREATE INDEX IF NOT EXISTS idx_words_lang ON words(lang);

	CREATE TABLE IF NOT EXISTS imports (
		lang TEXT PRIMARY KEY,
		source TEXT,
		source_mod_time INTEGER,
		word_count INTEGER,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path to the lexicon database file.
func (s *Store) Path() string {
	return s.path
}

// refreshCounts reloads the per-language word counts. Caller must not
// hold s.mu.
func (s *Store) refreshCounts() error {
	rows, err := s.db.Query(`SELECT lang, COUNT(*) FROM words GROUP BY lang`)
	if err != nil {
		return err
	}
	defer rows.Close()

	counts := make(map[Tag]int)
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return err
		}
		counts[Tag(lang)] = n
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.counts = counts
	s.mu.Unlock()
	return nil
}

// Ready reports whether the language has at least one loaded word.
func (s *Store) Ready(lang Tag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[lang] > 0
}

// Count returns the number of loaded words for a language.
func (s *Store) Count(lang Tag) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[lang]
}

// TotalWords returns the number of loaded words across all languages.
func (s *Store) TotalWords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Languages returns the tags that currently have loaded words, in the
// supported-language listing order.
func (s *Store) Languages() []Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tags []Tag
	for _, t := range tagOrder {
		if s.counts[t] > 0 {
			tags = append(tags, t)
		}
	}
	return tags
}

// Sample returns a random word for the language. Repeated calls may
// return the same word; deduplication is the caller's concern.
func (s *Store) Sample(lang Tag) (Entry, error) {
	s.mu.Lock()
	n := s.counts[lang]
	var offset int
	if n > 0 {
		offset = s.rng.Intn(n)
	}
	s.mu.Unlock()

	if n == 0 {
		return Entry{}, &UnavailableError{Lang: lang}
	}

	var word string
	err := s.db.QueryRow(
		`SELECT word FROM words WHERE lang = ? LIMIT 1 OFFSET ?`,
		string(lang), offset,
	).Scan(&word)
	if err == sql.ErrNoRows {
		// Count drifted from the table (mid-import); treat as unloaded.
		return Entry{}, &UnavailableError{Lang: lang}
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to sample %q word: %w", lang, err)
	}

	return Entry{Lang: lang, Word: word}, nil
}

// ImportWords replaces the stored wordlist for a language. The source
// path and its modification time are recorded so unchanged wordlists
// can be skipped on the next startup.
func (s *Store) ImportWords(lang Tag, words []string, source string, sourceModTime int64) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM words WHERE lang = ?`, string(lang)); err != nil {
		return 0, fmt.Errorf("failed to clear %q words: %w", lang, err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO words (lang, word) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, w := range words {
		res, err := stmt.Exec(string(lang), w)
		if err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	_, err = tx.Exec(`
		INSERT INTO imports (lang, source, source_mod_time, word_count, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(lang) DO UPDATE SET
			source = excluded.source,
			source_mod_time = excluded.source_mod_time,
			word_count = excluded.word_count,
			imported_at = excluded.imported_at
	`, string(lang), source, sourceModTime, inserted, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	s.mu.Lock()
	s.counts[lang] = inserted
	s.mu.Unlock()

	return inserted, nil
}

// NeedsImport reports whether the stored wordlist for lang is missing
// or older than the given source modification time.
func (s *Store) NeedsImport(lang Tag, source string, sourceModTime int64) bool {
	var storedSource string
	var storedMod int64
	err := s.db.QueryRow(
		`SELECT source, source_mod_time FROM imports WHERE lang = ?`,
		string(lang),
	).Scan(&storedSource, &storedMod)
	if err != nil {
		return true
	}
	return storedSource != source || storedMod < sourceModTime
}
