// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     store
// Description: In-memory run history for tests and --save without a database
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
)

// MemoryRunStore is an in-memory implementation of RunStore
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*Run
	seq  map[uuid.UUID]int // insertion order, breaks CreatedAt ties
	next int
}

// NewMemoryRunStore creates an empty in-memory store
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[uuid.UUID]*Run),
		seq:  make(map[uuid.UUID]int),
	}
}

// Save stores a copy of run
func (s *MemoryRunStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run == nil {
		return mideerror.New("run is required").WithCode(mideerror.CodeInvalidInput)
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if _, exists := s.runs[run.ID]; exists {
		return mideerror.Newf("run already exists: %s", run.ID).
			WithCode(mideerror.CodeDatabaseError).
			WithDetail("id", run.ID.String())
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	stored := *run
	s.runs[run.ID] = &stored
	s.seq[run.ID] = s.next
	s.next++
	return nil
}

// Get retrieves a run by id
func (s *MemoryRunStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, mideerror.Newf("run not found: %s", id).
			WithCode(mideerror.CodeNotFound).
			WithDetail("id", id.String())
	}
	out := *run
	return &out, nil
}

// List returns runs, newest first
func (s *MemoryRunStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	all := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		out := *run
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return s.seq[all[i].ID] > s.seq[all[j].ID]
	})

	if offset >= len(all) {
		return []*Run{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Delete removes a run
func (s *MemoryRunStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return mideerror.Newf("run not found: %s", id).
			WithCode(mideerror.CodeNotFound).
			WithDetail("id", id.String())
	}
	delete(s.runs, id)
	delete(s.seq, id)
	return nil
}

// Statistics returns store statistics
func (s *MemoryRunStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totalTokens, totalErrors, failedRuns int64
	for _, run := range s.runs {
		totalTokens += int64(run.TokenCount)
		totalErrors += int64(run.ErrorCount())
		if run.ErrorCount() > 0 {
			failedRuns++
		}
	}

	totalRuns := int64(len(s.runs))
	stats := map[string]interface{}{
		"total_runs":       totalRuns,
		"runs_with_errors": failedRuns,
		"total_tokens":     totalTokens,
		"total_errors":     totalErrors,
	}
	if totalRuns > 0 {
		stats["avg_tokens_per_run"] = float64(totalTokens) / float64(totalRuns)
	}
	return stats, nil
}

// Close is a no-op
func (s *MemoryRunStore) Close() error {
	return nil
}
