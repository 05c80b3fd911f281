// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an append-only SQLite history of downloaded forms.
// The history is informational: the download path never reads it.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/irs-forms/pkg/types"
)

// timeLayout is fixed width so fetched_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating its parent directory
// and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			form TEXT NOT NULL,
			year INTEGER NOT NULL,
			link TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_form ON downloads(form)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends entries in a single transaction.
func (s *Store) Record(ctx context.Context, entries []types.DownloadEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO downloads (form, year, link, path, bytes, fetched_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Form, e.Year, e.Link, e.Path, e.Bytes, e.FetchedAt.UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("recording %s %d: %w", e.Form, e.Year, err)
		}
	}
	return tx.Commit()
}

// List returns recorded downloads, newest first, then by form and year.
// A non-empty form restricts the result to that form (case-insensitive).
func (s *Store) List(ctx context.Context, form string) ([]types.DownloadEntry, error) {
	query := `SELECT form, year, link, path, bytes, fetched_at FROM downloads`
	var args []any
	if form != "" {
		query += ` WHERE form = ?`
		args = append(args, strings.ToLower(strings.TrimSpace(form)))
	}
	query += ` ORDER BY fetched_at DESC, form, year`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var out []types.DownloadEntry
	for rows.Next() {
		var e types.DownloadEntry
		var fetched string
		if err := rows.Scan(&e.Form, &e.Year, &e.Link, &e.Path, &e.Bytes, &fetched); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		if t, err := time.Parse(timeLayout, fetched); err == nil {
			e.FetchedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
