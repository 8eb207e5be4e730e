// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     logging
// Description: Log entries and output formats (JSON, text, console)
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Fields carries structured key/value context
type Fields map[string]interface{}

// Entry is a single log record
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	Fields    Fields
	Error     error
	Duration  time.Duration
}

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs one JSON object per line
	FormatJSON Format = iota

	// FormatText outputs human-readable text
	FormatText

	// FormatConsole outputs text with a colored level tag
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("invalid log format %q", format)
	}
}

// Formatter defines the interface for log formatters
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return &TextFormatter{TimestampFormat: "15:04:05"}
	case FormatConsole:
		return &ConsoleFormatter{TextFormatter: TextFormatter{TimestampFormat: "15:04:05"}}
	default:
		return &JSONFormatter{TimestampFormat: time.RFC3339}
	}
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+5)

	for k, v := range entry.Fields {
		data[k] = v
	}

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}
	if entry.Duration > 0 {
		data["duration_ms"] = float64(entry.Duration.Nanoseconds()) / 1000000
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	return []byte(strings.Join(f.parts(entry, entry.Level.ShortString()), " ") + "\n"), nil
}

func (f *TextFormatter) parts(entry *Entry, levelTag string) []string {
	var parts []string

	if !f.DisableTimestamp {
		parts = append(parts, entry.Timestamp.Format(f.TimestampFormat))
	}
	parts = append(parts, "["+levelTag+"]")
	if entry.Logger != "" {
		parts = append(parts, "{"+entry.Logger+"}")
	}
	parts = append(parts, entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		parts = append(parts, "["+strings.Join(fieldParts, " ")+"]")
	}
	if entry.Error != nil {
		parts = append(parts, fmt.Sprintf("error=%q", entry.Error.Error()))
	}
	if entry.Duration > 0 {
		parts = append(parts, "duration="+entry.Duration.String())
	}
	return parts
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
}

// ConsoleFormatter formats log entries for terminals with a colored level tag
type ConsoleFormatter struct {
	TextFormatter
}

// Format formats a log entry for console output
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	tag := entry.Level.ShortString()
	if style, ok := levelStyles[entry.Level]; ok {
		tag = style.Render(tag)
	}
	return []byte(strings.Join(f.parts(entry, tag), " ") + "\n"), nil
}
