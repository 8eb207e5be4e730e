// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     inspector
// Description: File watcher that turns writes into Bubble Tea messages
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package inspector

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
)

// Watcher reports changes to a single file. It watches the parent
// directory so editors that save by rename are noticed as well.
type Watcher struct {
	fs   *fsnotify.Watcher
	path string
}

// NewWatcher starts watching path
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to resolve path").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mideerror.Wrap(err, "failed to create file watcher").WithCode(mideerror.CodeIOError)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, mideerror.Wrap(err, "failed to watch directory").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", filepath.Dir(abs))
	}

	return &Watcher{fs: fsw, path: abs}, nil
}

// Wait returns a command that blocks until the file changes
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if w.relevant(event) {
					return fileChangedMsg{}
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
