// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     version
// Description: Central version management for the mIDE components
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants for the mIDE components
const (
	// Platform version
	Platform = "0.3.0"

	// Component versions
	Lexer     = "0.2.0"
	Parser    = "0.2.0"
	Server    = "0.1.0"
	Inspector = "0.1.0"
)

// Build information, set via -ldflags at build time
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "lexer":
		return Lexer
	case "parser":
		return Parser
	case "server":
		return Server
	case "inspector":
		return Inspector
	default:
		return Platform
	}
}

// String returns the full version line
func String() string {
	return fmt.Sprintf("mide %s (commit %s, built %s)", Platform, GitCommit, BuildDate)
}
