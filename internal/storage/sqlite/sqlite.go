// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Each collection is kept as a single row holding the whole JSON document,
// so the semantics match the file backend: every write replaces the full
// collection and the last writer wins.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/records-api/internal/storage"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path and creates the collections table
// if it does not already exist.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// Read fetches the document stored for name.
func (s *SQLite) Read(ctx context.Context, name string) ([]byte, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT document FROM collections WHERE name = ? LIMIT 1",
	)
	if err != nil {
		return nil, fmt.Errorf("Read: prepare: %w", err)
	}
	defer stmt.Close()

	var doc string
	err = stmt.QueryRowContext(ctx, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("Read: scan: %w", err)
	}

	return []byte(doc), nil
}

// Write upserts the whole document for name.
func (s *SQLite) Write(ctx context.Context, name string, doc []byte) error {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO collections (name, document, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			document   = excluded.document,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("Write: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, name, string(doc)); err != nil {
		return fmt.Errorf("Write: exec: %w", err)
	}

	return nil
}
