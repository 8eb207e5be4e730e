// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     logging
// Description: Log levels and their parsing
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import (
	"fmt"
	"strings"
)

// Level represents the importance level of a log message
type Level int

const (
	// LevelDebug provides detailed information for debugging purposes
	LevelDebug Level = iota

	// LevelInfo represents general informational messages
	LevelInfo

	// LevelWarn indicates potentially harmful situations
	LevelWarn

	// LevelError represents error conditions that need attention
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ShortString returns the three-letter form used by the text formatter
func (l Level) ShortString() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

// ShouldLog reports whether a message at l passes a logger set to minimum
func (l Level) ShouldLog(minimum Level) bool {
	return l >= minimum
}

// ParseLevel converts a string into a level
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}
