// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed candidate records to SQLite, keyed by
// source link.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/talent-radar/pkg/types"
)

// DefaultPath is used when StoreConfig.Path is empty.
const DefaultPath = "data/candidates.db"

// Store manages the candidates database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at cfg.Path and ensures the schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_link TEXT NOT NULL UNIQUE,
			captured_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			parsed_content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_captured_at ON candidates(captured_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveSummary holds counts from one Save call.
type SaveSummary struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Total returns the number of records processed.
func (s SaveSummary) Total() int {
	return s.Inserted + s.Updated + s.Skipped
}

// Save upserts records on their source link in one transaction. Records
// without a source link cannot be keyed and are skipped.
func (s *Store) Save(ctx context.Context, records []types.CandidateRecord) (SaveSummary, error) {
	var summary SaveSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UnixMilli()
	for _, r := range records {
		if r.SourceLink == "" {
			summary.Skipped++
			continue
		}
		content, err := json.Marshal(r)
		if err != nil {
			return SaveSummary{}, fmt.Errorf("encoding %s: %w", r.SourceLink, err)
		}

		var id int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM candidates WHERE source_link = ?`, r.SourceLink).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO candidates (source_link, captured_at, created_at, parsed_content) VALUES (?, ?, ?, ?)`,
				r.SourceLink, r.CapturedAt.UnixMilli(), now, string(content),
			); err != nil {
				return SaveSummary{}, fmt.Errorf("inserting %s: %w", r.SourceLink, err)
			}
			summary.Inserted++
		case err != nil:
			return SaveSummary{}, fmt.Errorf("looking up %s: %w", r.SourceLink, err)
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE candidates SET captured_at = ?, parsed_content = ? WHERE id = ?`,
				r.CapturedAt.UnixMilli(), string(content), id,
			); err != nil {
				return SaveSummary{}, fmt.Errorf("updating %s: %w", r.SourceLink, err)
			}
			summary.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return SaveSummary{}, fmt.Errorf("committing: %w", err)
	}
	return summary, nil
}

// Recent returns up to limit stored records, most recently captured first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.CandidateRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT parsed_content FROM candidates ORDER BY captured_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	records := []types.CandidateRecord{}
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		var r types.CandidateRecord
		if err := json.Unmarshal([]byte(content), &r); err != nil {
			return nil, fmt.Errorf("decoding candidate: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting candidates: %w", err)
	}
	return n, nil
}
