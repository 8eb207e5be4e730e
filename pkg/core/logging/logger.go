// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     logging
// Description: Structured logger with immutable contextual clones
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"
	"time"
)

// Logger represents a structured logger with contextual information
type Logger struct {
	level         Level
	formatter     Formatter
	output        io.Writer
	name          string
	contextFields Fields

	mutex *sync.Mutex // shared by clones writing to the same output
}

// New creates a logger writing JSON at info level to stderr
func New() *Logger {
	return &Logger{
		level:         LevelInfo,
		formatter:     GetFormatter(FormatJSON),
		output:        os.Stderr,
		contextFields: make(Fields),
		mutex:         &sync.Mutex{},
	}
}

// WithLevel returns a copy with the given minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithFormat returns a copy using the given format
func (l *Logger) WithFormat(format Format) *Logger {
	clone := l.clone()
	clone.formatter = GetFormatter(format)
	return clone
}

// WithOutput returns a copy writing to output
func (l *Logger) WithOutput(output io.Writer) *Logger {
	clone := l.clone()
	clone.output = output
	clone.mutex = &sync.Mutex{}
	return clone
}

// WithName returns a copy with the given logger name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField returns a copy that adds key to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithFields returns a copy that adds fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	clone := l.clone()
	for k, v := range fields {
		clone.contextFields[k] = v
	}
	return clone
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, 0, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, 0, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, 0, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, 0, fields...)
}

// ErrorWithErr logs an error together with an error value
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, 0, fields...)
}

// WarnWithErr logs a warning together with an error value
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, 0, fields...)
}

// StartTimer creates and starts a new performance timer
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return l.level
}

func (l *Logger) log(level Level, message string, err error, duration time.Duration, fields ...Fields) {
	if !level.ShouldLog(l.level) {
		return
	}

	entry := &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Logger:    l.name,
		Fields:    make(Fields, len(l.contextFields)),
		Error:     err,
		Duration:  duration,
	}
	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, set := range fields {
		for k, v := range set {
			entry.Fields[k] = v
		}
	}

	formatted, formatErr := l.formatter.Format(entry)
	if formatErr != nil {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.output.Write(formatted)
}

// clone creates a copy of the logger for immutable operations
func (l *Logger) clone() *Logger {
	clone := &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		contextFields: make(Fields, len(l.contextFields)),
		mutex:         l.mutex,
	}
	for k, v := range l.contextFields {
		clone.contextFields[k] = v
	}
	return clone
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	return New().WithOutput(io.Discard).WithLevel(LevelError + 1)
}
