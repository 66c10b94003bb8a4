// Package sqlite implements the post-history store on an embedded SQLite
// database kept next to the config file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.HistoryStore = (*Store)(nil)

// Store records successfully posted messages.
type Store struct {
	db   *sql.DB
	path string
}

// schema is applied on every open; the single table makes a migration
// ladder unnecessary for now.
const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id            TEXT PRIMARY KEY,
	account       TEXT NOT NULL,
	text          TEXT NOT NULL,
	in_reply_to   TEXT NOT NULL DEFAULT '',
	response_text TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
`

// NewStore opens (creating if needed) the history database in dataDir.
// If dataDir is empty, defaults to ~/.plover.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".plover")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Record stores one posted message.
func (s *Store) Record(ctx context.Context, rec domain.PostRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, account, text, in_reply_to, response_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Account, rec.Text, rec.InReplyTo, rec.ResponseText, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting post record: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. A non-positive limit
// defaults to 20.
func (s *Store) List(ctx context.Context, limit int) ([]domain.PostRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account, text, in_reply_to, response_text, created_at
		FROM posts ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying post history: %w", err)
	}
	defer rows.Close()

	var records []domain.PostRecord
	for rows.Next() {
		var rec domain.PostRecord
		if err := rows.Scan(&rec.ID, &rec.Account, &rec.Text, &rec.InReplyTo, &rec.ResponseText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning post record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}
