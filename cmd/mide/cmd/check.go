// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command reporting diagnostics only
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [datei]",
	Short: "Prüft ein Programm auf Fehler",
	Long: `Meldet alle lexikalischen und syntaktischen Fehler eines Programms.
Der Exit-Code ist 1, sobald mindestens ein Fehler gefunden wurde.

Beispiele:
  mide check programm.mide
  mide check --save programm.mide`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	result, err := analyzeInput(cmd, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printDiagnostics(out, result)

	if result.HasErrors() {
		fmt.Fprintf(out, "%s: %d Fehler (%s)\n", in.name, result.ErrorCount(), result.Summary())
		return errDiagnostics
	}
	fmt.Fprintf(out, "%s: OK (%s)\n", in.name, result.Summary())
	return nil
}
