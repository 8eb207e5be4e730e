// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     store
// Description: Persistent history of analysis runs
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/mIDE/internal/frontend"
	"github.com/msto63/mIDE/internal/lexer"
)

// DefaultListLimit is used when List is called with a non-positive limit
const DefaultListLimit = 50

// Run is one stored analysis
type Run struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Source        string               `json:"source"`
	Tokens        string               `json:"tokens"` // token dump, one token per line
	TokenCount    int                  `json:"token_count"`
	LexicalErrors []lexer.LexicalError `json:"lexical_errors"`
	SyntaxErrors  []string             `json:"syntax_errors"`
	CreatedAt     time.Time            `json:"created_at"`
}

// NewRun builds a run with a fresh id from an analysis result
func NewRun(name, source string, result *frontend.Result) *Run {
	var dump strings.Builder
	// strings.Builder never fails
	_ = lexer.WriteDump(&dump, result.Tokens)

	return &Run{
		ID:            uuid.New(),
		Name:          name,
		Source:        source,
		Tokens:        dump.String(),
		TokenCount:    len(result.Tokens),
		LexicalErrors: result.LexicalErrors,
		SyntaxErrors:  result.SyntaxErrors,
	}
}

// ErrorCount returns the number of stored diagnostics
func (r *Run) ErrorCount() int {
	return len(r.LexicalErrors) + len(r.SyntaxErrors)
}

// RunStore defines the interface for run persistence
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit, offset int) ([]*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Utility
	Statistics(ctx context.Context) (map[string]interface{}, error)
	Close() error
}
