// Package audit keeps a local ledger of document exports in SQLite. Legal
// workflows want a record of what was generated, when, and with which
// warnings; the ledger is append-only and survives across runs.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed recorder.
var ErrClosed = errors.New("audit: recorder is closed")

// DefaultPath is used when no ledger path is configured.
const DefaultPath = "legalpdf-audit.db"

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at       TEXT    NOT NULL,
	input_path       TEXT    NOT NULL,
	output_path      TEXT    NOT NULL,
	document_type    TEXT    NOT NULL,
	page_count       INTEGER NOT NULL,
	signature_blocks INTEGER NOT NULL,
	warnings         TEXT    NOT NULL,
	duration_ms      INTEGER NOT NULL
);`

// Entry is one export record.
type Entry struct {
	CreatedAt       time.Time
	InputPath       string
	OutputPath      string
	DocumentType    string
	PageCount       int
	SignatureBlocks int
	Warnings        []string
	Duration        time.Duration
}

// Recorder appends export entries to a SQLite ledger.
type Recorder struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Recorder, error) {
	if path == "" {
		path = DefaultPath
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: opening ledger %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: creating schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record appends one entry. A zero CreatedAt is stamped with the current
// UTC time.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.db == nil {
		return ErrClosed
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exports
			(created_at, input_path, output_path, document_type,
			 page_count, signature_blocks, warnings, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.InputPath,
		e.OutputPath,
		e.DocumentType,
		e.PageCount,
		e.SignatureBlocks,
		strings.Join(e.Warnings, "\n"),
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("audit: recording export: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, ErrClosed
	}
	if limit < 1 {
		limit = 1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at, input_path, output_path, document_type,
			page_count, signature_blocks, warnings, duration_ms
		 FROM exports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt, warnings string
		var durationMS int64
		if err := rows.Scan(&createdAt, &e.InputPath, &e.OutputPath, &e.DocumentType,
			&e.PageCount, &e.SignatureBlocks, &warnings, &durationMS); err != nil {
			return nil, fmt.Errorf("audit: scanning entry: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		if warnings != "" {
			e.Warnings = strings.Split(warnings, "\n")
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: reading ledger: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}
