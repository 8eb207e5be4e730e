// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: Shared input handling and run persistence for the commands
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/msto63/mIDE/internal/frontend"
	"github.com/msto63/mIDE/internal/store"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

// sourceInput is a program text together with its display name
type sourceInput struct {
	name   string
	source string
}

// readInput reads the file named by the first argument, or standard input
// when there is none or it is "-"
func readInput(cmd *cobra.Command, args []string) (*sourceInput, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, mideerror.Wrap(err, "Standardeingabe nicht lesbar").WithCode(mideerror.CodeIOError)
		}
		return &sourceInput{name: stdinName, source: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, mideerror.Wrap(err, "Datei nicht lesbar").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", args[0])
	}
	return &sourceInput{name: args[0], source: string(data)}, nil
}

// analyzeInput runs the front-end and stores the run when --save is set
func analyzeInput(cmd *cobra.Command, in *sourceInput) (*frontend.Result, error) {
	result := frontend.NewAnalyzer(logger).Analyze(in.source)

	if saveRun {
		run := store.NewRun(in.name, in.source, result)
		if err := withStore(func(s store.RunStore) error {
			return s.Save(cmd.Context(), run)
		}); err != nil {
			return nil, err
		}
		logger.Info("run saved", midelog.Fields{"id": run.ID.String(), "name": in.name})
		fmt.Fprintf(cmd.ErrOrStderr(), "Gespeichert als %s\n", run.ID)
	}
	return result, nil
}

// withStore opens the history database for the duration of fn
func withStore(fn func(s store.RunStore) error) error {
	s, err := store.NewSQLiteRunStore(store.SQLiteRunConfig{Path: appConfig.Store.Path})
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
