// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command printing colored source or highlight spans
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/mIDE/internal/highlight"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	highlightSpans      bool
	highlightForceColor bool
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [datei]",
	Short: "Gibt den Quelltext farbig aus",
	Long: `Färbt den Quelltext nach Token-Kategorie ein. Lexikalische Fehler
werden rot unterstrichen.

Mit --spans werden statt des Textes die Farbbereiche als JSON
ausgegeben (Zeile, Spalte, Länge, Kategorie, Farbe).

Beispiele:
  mide highlight programm.mide
  mide highlight --color programm.mide | less -R
  mide highlight --spans programm.mide`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.Flags().BoolVar(&highlightSpans, "spans", false, "Farbbereiche als JSON ausgeben")
	highlightCmd.Flags().BoolVar(&highlightForceColor, "color", false, "Farben auch ohne Terminal ausgeben")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	result, err := analyzeInput(cmd, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if highlightSpans {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(highlight.Spans(result.Tokens))
	}

	if highlightForceColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	fmt.Fprint(out, highlight.Render(in.source, result.Tokens, result.LexicalErrors))
	if len(in.source) > 0 && in.source[len(in.source)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}
