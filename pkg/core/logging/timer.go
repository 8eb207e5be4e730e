// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     logging
// Description: Performance timer that logs operation durations
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import "time"

// Timer measures the duration of an operation and logs it on Stop
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer, logs the elapsed time and returns it.
// Subsequent calls return 0 and log nothing.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true

	elapsed := t.Elapsed()
	t.fields["operation"] = t.operation
	t.logger.log(t.level, "operation completed", nil, elapsed, t.fields)
	return elapsed
}
