// Package store persists a log of spoken utterances.
//
// The log is write-mostly observability data: what was said, under which
// affect, with which styles, and what warnings came up. The synthesis path
// never reads it back — memory waves stay ephemeral by contract and any
// long-term memory belongs to an external store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Utterance is one logged synthesis.
type Utterance struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Emotion     string    `json:"emotion"`
	Intensity   float64   `json:"intensity"`
	Styles      []string  `json:"styles"`
	ChunkCount  int       `json:"chunk_count"`
	SampleCount int       `json:"sample_count"`
	Warnings    []string  `json:"warnings,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SQLiteStore implements the utterance log on SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS utterances (
		id           TEXT PRIMARY KEY,
		text         TEXT NOT NULL,
		emotion      TEXT NOT NULL DEFAULT 'neutral',
		intensity    REAL NOT NULL DEFAULT 0,
		styles       TEXT,
		chunk_count  INTEGER NOT NULL DEFAULT 0,
		sample_count INTEGER NOT NULL DEFAULT 0,
		warnings     TEXT,
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_utterances_created ON utterances(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_utterances_emotion ON utterances(emotion);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Log records one spoken utterance and returns its assigned ID.
func (s *SQLiteStore) Log(u Utterance) (string, error) {
	if u.ID == "" {
		u.ID = s.newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	styles, err := json.Marshal(u.Styles)
	if err != nil {
		return "", fmt.Errorf("marshal styles: %w", err)
	}
	warnings, err := json.Marshal(u.Warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO utterances (id, text, emotion, intensity, styles, chunk_count, sample_count, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Text, u.Emotion, u.Intensity, string(styles), u.ChunkCount, u.SampleCount, string(warnings),
		u.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert utterance: %w", err)
	}
	return u.ID, nil
}

// Recent returns the most recent utterances, newest first.
func (s *SQLiteStore) Recent(limit int) ([]Utterance, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, text, emotion, intensity, styles, chunk_count, sample_count, warnings, created_at
		FROM utterances ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query utterances: %w", err)
	}
	defer rows.Close()

	var out []Utterance
	for rows.Next() {
		var (
			u                Utterance
			styles, warnings string
			created          string
		)
		if err := rows.Scan(&u.ID, &u.Text, &u.Emotion, &u.Intensity, &styles, &u.ChunkCount, &u.SampleCount, &warnings, &created); err != nil {
			return nil, fmt.Errorf("scan utterance: %w", err)
		}
		_ = json.Unmarshal([]byte(styles), &u.Styles)
		_ = json.Unmarshal([]byte(warnings), &u.Warnings)
		u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, u)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
