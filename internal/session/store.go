// Package session holds everything scoped to one browsing session: the
// cached pipeline artifacts (raw status feed, built catalog, last drop
// search result) and the in-memory wishlist selection.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/meur/reliquary/internal/models"
)

// Slot column names. Each session row carries one JSON blob per slot.
const (
	slotRawStatus  = "raw_status"
	slotCatalog    = "catalog"
	slotDropResult = "drop_result"
)

// Store keeps per-session cache slots in SQLite. Rows expire after the
// configured TTL so nothing outlives a browsing session. Writes are
// best-effort: a failed write is logged and swallowed, never surfaced,
// because the cache is a performance optimization and callers must
// tolerate it staying empty.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// New opens (or creates) the session database at dbPath.
func New(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, ttl: ttl}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			raw_status TEXT,
			catalog TEXT,
			drop_result TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Touch creates the session row if needed and extends its expiry.
func (s *Store) Touch(sessionID string) {
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, expires_at) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET expires_at = excluded.expires_at
	`, sessionID, time.Now().UTC().Add(s.ttl))
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Session touch failed")
	}
}

// RawStatus returns the session's cached status feed, or ok=false on a
// miss. A corrupt stored value reads as a miss.
func (s *Store) RawStatus(sessionID string) ([]models.RawStatusRecord, bool) {
	payload, ok := s.getSlot(sessionID, slotRawStatus)
	if !ok {
		return nil, false
	}
	var records []models.RawStatusRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false
	}
	return records, true
}

// SetRawStatus caches the session's raw status feed.
func (s *Store) SetRawStatus(sessionID string, records []models.RawStatusRecord) {
	s.setSlot(sessionID, slotRawStatus, records)
}

// Catalog returns the session's cached catalog, or ok=false on a miss.
func (s *Store) Catalog(sessionID string) ([]models.Set, bool) {
	payload, ok := s.getSlot(sessionID, slotCatalog)
	if !ok {
		return nil, false
	}
	var sets []models.Set
	if err := json.Unmarshal(payload, &sets); err != nil {
		return nil, false
	}
	return sets, true
}

// SetCatalog caches the session's built catalog.
func (s *Store) SetCatalog(sessionID string, sets []models.Set) {
	s.setSlot(sessionID, slotCatalog, sets)
}

// DropResult returns the session's last drop search result verbatim, or
// ok=false when no search has succeeded yet.
func (s *Store) DropResult(sessionID string) (models.DropSearchResult, bool) {
	payload, ok := s.getSlot(sessionID, slotDropResult)
	if !ok {
		return nil, false
	}
	if !json.Valid(payload) {
		return nil, false
	}
	return models.DropSearchResult(payload), true
}

// SetDropResult overwrites the session's drop search result. At most one
// result is live per session.
func (s *Store) SetDropResult(sessionID string, result models.DropSearchResult) {
	s.setSlot(sessionID, slotDropResult, result)
}

// Sweep deletes expired sessions and returns their ids so in-memory
// state keyed by session id can be released too.
func (s *Store) Sweep() []string {
	now := time.Now().UTC()

	rows, err := s.db.Query(`SELECT id FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		log.Warn().Err(err).Msg("Session sweep query failed")
		return nil
	}
	defer rows.Close()

	var expired []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		expired = append(expired, id)
	}

	if len(expired) > 0 {
		if _, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now); err != nil {
			log.Warn().Err(err).Msg("Session sweep delete failed")
		}
	}
	return expired
}

func (s *Store) getSlot(sessionID, slot string) ([]byte, bool) {
	var payload sql.NullString
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = ? AND expires_at > ?`, slot)
	err := s.db.QueryRow(query, sessionID, time.Now().UTC()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		// a read failure is indistinguishable from a miss to callers
		return nil, false
	}
	if !payload.Valid || payload.String == "" {
		return nil, false
	}
	return []byte(payload.String), true
}

func (s *Store) setSlot(sessionID, slot string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("slot", slot).Msg("Cache encode failed")
		return
	}
	query := fmt.Sprintf(`
		INSERT INTO sessions (id, %[1]s, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET %[1]s = excluded.%[1]s, expires_at = excluded.expires_at
	`, slot)
	if _, err := s.db.Exec(query, sessionID, string(payload), time.Now().UTC().Add(s.ttl)); err != nil {
		log.Warn().Err(err).Str("slot", slot).Str("session", sessionID).Msg("Cache write failed")
	}
}
