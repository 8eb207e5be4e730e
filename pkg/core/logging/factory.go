// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Name is attached to every entry
	Name string

	// Level (debug, info, warn, error)
	Level string

	// Format ("json", "text" or "console"; default: json)
	Format string

	// Output defaults to stderr so stdout stays free for results
	Output io.Writer

	// AdditionalOutputs receive a copy of every entry
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "info",
		Format: "text",
	}
}

// NewLogger creates a logger from cfg. Invalid level or format values fall
// back to info and json.
func NewLogger(cfg LoggerConfig) *Logger {
	level, _ := ParseLevel(cfg.Level)
	format, _ := ParseFormat(cfg.Format)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		output = io.MultiWriter(append([]io.Writer{output}, cfg.AdditionalOutputs...)...)
	}

	return New().
		WithOutput(output).
		WithLevel(level).
		WithFormat(format).
		WithName(cfg.Name)
}

// NewSimpleLogger creates a text logger at info level
func NewSimpleLogger(name string) *Logger {
	return NewLogger(DefaultLoggerConfig(name))
}
