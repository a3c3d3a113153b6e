// Package sqlite durably stores queued bookmark mutations in a local SQLite
// database. The key column is the primary key, so enqueueing a second
// mutation for the same endpoint replaces the first: the queue never holds
// contradictory entries for one session.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/confware/schedsync/internal/domain"
	"github.com/confware/schedsync/internal/ports"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS queued_mutations (
	key       TEXT PRIMARY KEY,
	method    TEXT NOT NULL,
	queued_at TIMESTAMP NOT NULL
);
`

type Store struct {
	db *sql.DB
}

var _ ports.MutationQueue = (*Store)(nil)

// Open creates or opens the queue database at path. WAL mode allows reads
// during writes; the pool is limited to a single connection because SQLite
// allows one writer at a time.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open queue database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect queue database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply queue schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Enqueue upserts the mutation by key, last write wins.
func (s *Store) Enqueue(ctx context.Context, m domain.QueuedMutation) error {
	if !m.Method.Valid() {
		return fmt.Errorf("enqueue %q: invalid method %q", m.Key, m.Method)
	}

	queuedAt := m.QueuedAt
	if queuedAt.IsZero() {
		queuedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queued_mutations (key, method, queued_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			method = excluded.method,
			queued_at = excluded.queued_at
	`, m.Key, string(m.Method), queuedAt.UTC())
	if err != nil {
		return fmt.Errorf("enqueue %q: %w", m.Key, err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) ([]domain.QueuedMutation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, method, queued_at FROM queued_mutations`)
	if err != nil {
		return nil, fmt.Errorf("enumerate queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mutations []domain.QueuedMutation
	for rows.Next() {
		var m domain.QueuedMutation
		var method string
		if err := rows.Scan(&m.Key, &method, &m.QueuedAt); err != nil {
			return nil, fmt.Errorf("scan queue row: %w", err)
		}
		m.Method = domain.MutationMethod(method)
		mutations = append(mutations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("enumerate queue: %w", err)
	}
	return mutations, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM queued_mutations WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete queue entry %q: %w", key, err)
	}
	return nil
}

func (s *Store) Drop(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM queued_mutations`); err != nil {
		return fmt.Errorf("drop queue: %w", err)
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}
