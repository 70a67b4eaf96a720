// Package history records check runs in a SQLite database so results can be
// compared over time.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
)

//go:embed schema.sql
var schemaSQL string

// Store is a run history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded unit check.
type Run struct {
	Session     string
	Unit        string
	Path        string
	StartedAt   time.Time
	Files       int
	Duration    time.Duration
	Errors      int
	Warnings    int
	Diagnostics []diag.Diagnostic
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: connect %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// schemaVersion is the user_version the embedded schema corresponds to.
const schemaVersion = 1

func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("history: read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("history: database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if version == schemaVersion {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("history: set schema version: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a run and its diagnostics in one transaction. Recording the
// same session twice is a no-op.
func (s *Store) Record(ctx context.Context, run Run) error {
	errs, warns := run.Errors, run.Warnings
	if errs == 0 && warns == 0 {
		errs, warns = countSeverities(run.Diagnostics)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", run.Session, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (session, unit, path, started_at, files, duration_ms, errors, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session) DO NOTHING
	`, run.Session, run.Unit, run.Path, run.StartedAt.UnixMilli(), run.Files, run.Duration.Milliseconds(), errs, warns)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", run.Session, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	for i, d := range run.Diagnostics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (session, seq, code, severity, path, line, col, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.Session, i, int(d.Code), string(d.Severity), d.Path, d.Span.Start.Line, d.Span.Start.Column, d.Message)
		if err != nil {
			return fmt.Errorf("history: record diagnostic %d of %s: %w", i, run.Session, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: record %s: %w", run.Session, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, without diagnostics.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, unit, path, started_at, files, duration_ms, errors, warnings
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run       Run
			startedMS int64
			durMS     int64
		)
		if err := rows.Scan(&run.Session, &run.Unit, &run.Path, &startedMS, &run.Files, &durMS, &run.Errors, &run.Warnings); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedMS).UTC()
		run.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	return out, nil
}

// Diagnostics returns the diagnostics recorded for session, in the order
// they were reported. Only the primary position is kept.
func (s *Store) Diagnostics(ctx context.Context, session string) ([]diag.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, severity, path, line, col, message
		FROM diagnostics
		WHERE session = ?
		ORDER BY seq
	`, session)
	if err != nil {
		return nil, fmt.Errorf("history: diagnostics of %s: %w", session, err)
	}
	defer rows.Close()

	var out []diag.Diagnostic
	for rows.Next() {
		var (
			d        diag.Diagnostic
			code     int
			severity string
			pos      ast.Position
		)
		if err := rows.Scan(&code, &severity, &d.Path, &pos.Line, &pos.Column, &d.Message); err != nil {
			return nil, fmt.Errorf("history: scan diagnostic: %w", err)
		}
		d.Code = diag.Code(code)
		d.Severity = diag.Severity(severity)
		d.Span = ast.Span{Start: pos, End: pos}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: diagnostics of %s: %w", session, err)
	}
	return out, nil
}

// CodeCounts totals recorded diagnostics per code across all runs.
func (s *Store) CodeCounts(ctx context.Context) (map[diag.Code]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, COUNT(*) FROM diagnostics GROUP BY code`)
	if err != nil {
		return nil, fmt.Errorf("history: count codes: %w", err)
	}
	defer rows.Close()
	out := map[diag.Code]int{}
	for rows.Next() {
		var code, n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("history: scan count: %w", err)
		}
		out[diag.Code(code)] = n
	}
	return out, rows.Err()
}

func countSeverities(diags []diag.Diagnostic) (errs, warns int) {
	for _, d := range diags {
		switch d.Severity {
		case diag.SeverityError:
			errs++
		case diag.SeverityWarning:
			warns++
		}
	}
	return errs, warns
}
