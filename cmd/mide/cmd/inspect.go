// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive inspector TUI
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/msto63/mIDE/internal/tui/inspector"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
	"github.com/spf13/cobra"
)

var inspectWatch bool

var inspectCmd = &cobra.Command{
	Use:     "inspect <datei>",
	Aliases: []string{"tui"},
	Short:   "Startet den interaktiven Inspector",
	Long: `Zeigt eine Datei im Terminal mit vier Ansichten: farbiger Quelltext,
Tokens, Syntaxbaum und Fehler. Mit --watch wird die Datei bei jeder
Änderung neu analysiert.

Tastenkuerzel:
  1-4 / Tab   Ansicht wechseln
  r           Neu laden
  g / G       Zum Anfang / Ende springen
  PgUp/PgDn   Scrollen
  q / Ctrl+C  Beenden`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectWatch, "watch", "w", false, "Datei überwachen und bei Änderung neu analysieren")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := inspector.DefaultConfig()
	cfg.Path = args[0]
	cfg.Watch = inspectWatch || appConfig.Inspector.Watch
	cfg.Debounce = appConfig.Inspector.Debounce.Duration
	// The alternate screen owns the terminal, so the inspector logs nothing.
	cfg.Logger = midelog.Discard()

	return inspector.Run(cfg)
}
