// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     inspector
// Description: Message types for async operations in the inspector
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package inspector

import (
	"time"

	"github.com/msto63/mIDE/internal/frontend"
)

// fileLoadedMsg is sent when the file was read and analyzed
type fileLoadedMsg struct {
	source string
	result *frontend.Result
	at     time.Time
	err    error
}

// fileChangedMsg is sent by the watcher for every write to the file
type fileChangedMsg struct{}

// watchErrMsg carries an error from the file watcher
type watchErrMsg struct {
	err error
}

// reloadMsg fires after the debounce delay; only the latest one reloads
type reloadMsg struct {
	seq int
}
