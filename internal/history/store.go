package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/johan-st/wordname-tui/internal/generate"
	_ "modernc.org/sqlite"
)

// Store manages the history database.
type Store struct {
	db            *sql.DB
	nameGenerator *NameGenerator
}

// NewStore creates a new history store.
func NewStore(dataDir string) (*Store, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{
		db:            db,
		nameGenerator: NewNameGenerator(),
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return store, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_name TEXT,
		public_key_fingerprint TEXT,
		anonymous_name TEXT,
		remote_addr TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_active_at DATETIME,
		is_active INTEGER DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_name ON sessions(user_name);
	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_is_active ON sessions(is_active);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT UNIQUE,
		session_id TEXT REFERENCES sessions(id),
		languages TEXT,
		case_mode TEXT,
		suffix_mode TEXT,
		requested INTEGER,
		produced INTEGER,
		rejected_profanity INTEGER DEFAULT 0,
		rejected_duplicate INTEGER DEFAULT 0,
		rejected_non_ascii INTEGER DEFAULT 0,
		outcome TEXT,
		error TEXT,
		duration_ms INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_session_id ON runs(session_id);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);

	CREATE TABLE IF NOT EXISTS usernames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT REFERENCES runs(run_id),
		position INTEGER,
		value TEXT,
		lang TEXT,
		suffix TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_usernames_run_id ON usernames(run_id);
	CREATE INDEX IF NOT EXISTS idx_usernames_value ON usernames(value);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// GenerateAnonymousName generates a new anonymous name.
func (s *Store) GenerateAnonymousName() string {
	return s.nameGenerator.Generate()
}

// CreateSession creates a new session record.
func (s *Store) CreateSession(session *Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_name, public_key_fingerprint, anonymous_name, remote_addr, created_at, last_active_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, nullString(session.UserName), nullString(session.PublicKeyFingerprint),
		nullString(session.AnonymousName), session.RemoteAddr, session.CreatedAt, session.LastActiveAt, session.IsActive)

	return err
}

// UpdateSessionActivity updates the last active time for a session.
func (s *Store) UpdateSessionActivity(sessionID string) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET last_active_at = ? WHERE id = ?
	`, time.Now(), sessionID)
	return err
}

// EndSession marks a session as inactive.
func (s *Store) EndSession(sessionID string) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET is_active = 0, last_active_at = ? WHERE id = ?
	`, time.Now(), sessionID)
	return err
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(sessionID string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, user_name, public_key_fingerprint, anonymous_name, remote_addr, created_at, last_active_at, is_active
		FROM sessions WHERE id = ?
	`, sessionID)

	var session Session
	var userName, pkFP, anonName sql.NullString
	var isActive int

	err := row.Scan(&session.ID, &userName, &pkFP, &anonName, &session.RemoteAddr,
		&session.CreatedAt, &session.LastActiveAt, &isActive)
	if err != nil {
		return nil, err
	}

	session.UserName = userName.String
	session.PublicKeyFingerprint = pkFP.String
	session.AnonymousName = anonName.String
	session.IsActive = isActive == 1

	return &session, nil
}

// ListSessions lists sessions with optional filters.
func (s *Store) ListSessions(activeOnly bool, limit int) ([]*Session, error) {
	query := `
		SELECT id, user_name, public_key_fingerprint, anonymous_name, remote_addr, created_at, last_active_at, is_active
		FROM sessions
	`
	args := make([]any, 0)

	if activeOnly {
		query += " WHERE is_active = 1"
	}

	query += " ORDER BY last_active_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var session Session
		var userName, pkFP, anonName sql.NullString
		var isActive int

		err := rows.Scan(&session.ID, &userName, &pkFP, &anonName, &session.RemoteAddr,
			&session.CreatedAt, &session.LastActiveAt, &isActive)
		if err != nil {
			return nil, err
		}

		session.UserName = userName.String
		session.PublicKeyFingerprint = pkFP.String
		session.AnonymousName = anonName.String
		session.IsActive = isActive == 1

		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// RecordRun records a completed generation run with its accepted
// usernames.
func (s *Store) RecordRun(record *RunRecord, usernames []generate.Username) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, session_id, languages, case_mode, suffix_mode, requested, produced,
			rejected_profanity, rejected_duplicate, rejected_non_ascii, outcome, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.RunID, nullString(record.SessionID), record.Languages, record.CaseMode, record.SuffixMode,
		record.Requested, record.Produced, record.Profanity, record.Duplicate, record.NonASCII,
		record.Outcome, nullString(record.Error), record.DurationMs, record.CreatedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO usernames (run_id, position, value, lang, suffix)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range usernames {
		if _, err := stmt.Exec(record.RunID, i, u.Value, string(u.Lang), u.Suffix); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// NewRunRecord builds a RunRecord from a request and its result.
func NewRunRecord(runID, sessionID string, req generate.Request, result *generate.Result, runErr error, duration time.Duration) *RunRecord {
	langs := make([]string, len(req.Languages))
	for i, l := range req.Languages {
		langs[i] = string(l)
	}

	record := &RunRecord{
		RunID:      runID,
		SessionID:  sessionID,
		Languages:  strings.Join(langs, ","),
		CaseMode:   req.Case.String(),
		SuffixMode: req.Suffix.String(),
		Requested:  req.Count,
		Produced:   len(result.Usernames),
		Profanity:  result.Profanity,
		Duplicate:  result.Duplicate,
		NonASCII:   result.NonASCII,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}

	switch {
	case result.State == generate.StateCancelled:
		record.Outcome = OutcomeCancelled
	case runErr == nil:
		record.Outcome = OutcomeCompleted
	default:
		record.Error = runErr.Error()
		if _, ok := runErr.(*generate.ExhaustedError); ok {
			record.Outcome = OutcomeExhausted
		} else {
			record.Outcome = OutcomeFailed
		}
	}

	return record
}

// ListRuns lists generation runs with optional filters.
func (s *Store) ListRuns(sessionID string, since time.Time, limit int) ([]*RunRecord, error) {
	query := `
		SELECT id, run_id, session_id, languages, case_mode, suffix_mode, requested, produced,
			rejected_profanity, rejected_duplicate, rejected_non_ascii, outcome, error, duration_ms, created_at
		FROM runs WHERE 1=1
	`
	args := make([]any, 0)

	if sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	if !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// SessionRunStats returns how many runs a session has made and how
// many usernames those runs produced in total.
func (s *Store) SessionRunStats(sessionID string) (runs, produced int, err error) {
	row := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(produced), 0) FROM runs WHERE session_id = ?`,
		sessionID)
	if err := row.Scan(&runs, &produced); err != nil {
		return 0, 0, err
	}
	return runs, produced, nil
}

// ListRunsForUser lists generation runs for a specific user.
func (s *Store) ListRunsForUser(userName string, limit int) ([]*RunRecord, error) {
	query := `
		SELECT r.id, r.run_id, r.session_id, r.languages, r.case_mode, r.suffix_mode, r.requested, r.produced,
			r.rejected_profanity, r.rejected_duplicate, r.rejected_non_ascii, r.outcome, r.error, r.duration_ms, r.created_at
		FROM runs r
		JOIN sessions s ON r.session_id = s.id
		WHERE s.user_name = ?
		ORDER BY r.created_at DESC
	`
	args := []any{userName}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]*RunRecord, error) {
	var records []*RunRecord
	for rows.Next() {
		var record RunRecord
		var sessionID, errStr sql.NullString

		err := rows.Scan(&record.ID, &record.RunID, &sessionID, &record.Languages,
			&record.CaseMode, &record.SuffixMode, &record.Requested, &record.Produced,
			&record.Profanity, &record.Duplicate, &record.NonASCII,
			&record.Outcome, &errStr, &record.DurationMs, &record.CreatedAt)
		if err != nil {
			return nil, err
		}

		record.SessionID = sessionID.String
		record.Error = errStr.String
		records = append(records, &record)
	}

	return records, rows.Err()
}

// GetRunUsernames returns the accepted usernames of a run in
// acceptance order.
func (s *Store) GetRunUsernames(runID string) ([]*UsernameRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, position, value, lang, suffix
		FROM usernames WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*UsernameRecord
	for rows.Next() {
		var record UsernameRecord
		var suffix sql.NullString

		err := rows.Scan(&record.ID, &record.RunID, &record.Position,
			&record.Value, &record.Lang, &suffix)
		if err != nil {
			return nil, err
		}

		record.Suffix = suffix.String
		records = append(records, &record)
	}

	return records, rows.Err()
}

// nullString converts an empty string to sql.NullString.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
