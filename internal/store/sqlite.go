// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     store
// Description: SQLite implementation of the run history
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/mIDE/internal/lexer"
	mideerror "github.com/msto63/mIDE/pkg/core/error"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRunStore implements RunStore using SQLite
type SQLiteRunStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteRunConfig holds configuration for the SQLite store
type SQLiteRunConfig struct {
	Path string
}

// DefaultRunConfig returns the default configuration
func DefaultRunConfig() SQLiteRunConfig {
	return SQLiteRunConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteRunStore opens (and if needed creates) the history database
func NewSQLiteRunStore(cfg SQLiteRunConfig) (*SQLiteRunStore, error) {
	if cfg.Path == "" {
		return nil, mideerror.New("database path is required").
			WithCode(mideerror.CodeInvalidInput).
			WithOperation("store.open")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, mideerror.Wrap(err, "failed to create database directory").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", cfg.Path)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to open database").
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("path", cfg.Path)
	}

	store := &SQLiteRunStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, mideerror.Wrap(err, "failed to initialize schema").
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("path", cfg.Path)
	}

	return store, nil
}

func (s *SQLiteRunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		tokens TEXT NOT NULL DEFAULT '',
		token_count INTEGER NOT NULL DEFAULT 0,
		lexical_errors TEXT NOT NULL DEFAULT '[]',
		syntax_errors TEXT NOT NULL DEFAULT '[]',
		error_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save stores a run. A nil id is replaced by a fresh one and a zero
// CreatedAt by the current time.
func (s *SQLiteRunStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run == nil {
		return mideerror.New("run is required").WithCode(mideerror.CodeInvalidInput)
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	lexErrs, err := json.Marshal(nonNilLexical(run))
	if err != nil {
		return mideerror.Wrap(err, "failed to encode lexical errors").WithCode(mideerror.CodeInternal)
	}
	syntaxErrs, err := json.Marshal(nonNilSyntax(run))
	if err != nil {
		return mideerror.Wrap(err, "failed to encode syntax errors").WithCode(mideerror.CodeInternal)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, source, tokens, token_count, lexical_errors, syntax_errors, error_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID.String(), run.Name, run.Source, run.Tokens, run.TokenCount,
		string(lexErrs), string(syntaxErrs), run.ErrorCount(), run.CreatedAt)
	if err != nil {
		return mideerror.Wrap(err, "failed to save run").
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("id", run.ID.String())
	}
	return nil
}

// Get retrieves a run by id
func (s *SQLiteRunStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source, tokens, token_count, lexical_errors, syntax_errors, created_at
		FROM runs WHERE id = ?
	`, id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mideerror.Newf("run not found: %s", id).
			WithCode(mideerror.CodeNotFound).
			WithDetail("id", id.String())
	}
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to get run").
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("id", id.String())
	}
	return run, nil
}

// List returns runs, newest first
func (s *SQLiteRunStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source, tokens, token_count, lexical_errors, syntax_errors, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to list runs").WithCode(mideerror.CodeDatabaseError)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, mideerror.Wrap(err, "failed to scan run").WithCode(mideerror.CodeDatabaseError)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, mideerror.Wrap(err, "failed to list runs").WithCode(mideerror.CodeDatabaseError)
	}

	return runs, nil
}

// Delete removes a run
func (s *SQLiteRunStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id.String())
	if err != nil {
		return mideerror.Wrap(err, "failed to delete run").
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("id", id.String())
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return mideerror.Newf("run not found: %s", id).
			WithCode(mideerror.CodeNotFound).
			WithDetail("id", id.String())
	}
	return nil
}

// Statistics returns store statistics
func (s *SQLiteRunStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var totalRuns int64
	var totalTokens, totalErrors, failedRuns sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(token_count), SUM(error_count),
		       SUM(CASE WHEN error_count > 0 THEN 1 ELSE 0 END)
		FROM runs
	`).Scan(&totalRuns, &totalTokens, &totalErrors, &failedRuns)
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to compute statistics").WithCode(mideerror.CodeDatabaseError)
	}

	stats["total_runs"] = totalRuns
	stats["runs_with_errors"] = failedRuns.Int64
	stats["total_tokens"] = totalTokens.Int64
	stats["total_errors"] = totalErrors.Int64
	if totalRuns > 0 {
		stats["avg_tokens_per_run"] = float64(totalTokens.Int64) / float64(totalRuns)
	}

	return stats, nil
}

// Close closes the database
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		id         string
		lexErrs    string
		syntaxErrs string
	)
	if err := row.Scan(&id, &run.Name, &run.Source, &run.Tokens, &run.TokenCount,
		&lexErrs, &syntaxErrs, &run.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	run.ID = parsed

	if err := json.Unmarshal([]byte(lexErrs), &run.LexicalErrors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(syntaxErrs), &run.SyntaxErrors); err != nil {
		return nil, err
	}
	return &run, nil
}

// nonNilLexical keeps empty diagnostics encoded as [] rather than null
func nonNilLexical(run *Run) []lexer.LexicalError {
	if run.LexicalErrors == nil {
		return []lexer.LexicalError{}
	}
	return run.LexicalErrors
}

func nonNilSyntax(run *Run) []string {
	if run.SyntaxErrors == nil {
		return []string{}
	}
	return run.SyntaxErrors
}
