// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command printing the token list
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/msto63/mIDE/internal/lexer"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	"github.com/spf13/cobra"
)

var lexDump string

var lexCmd = &cobra.Command{
	Use:   "lex [datei]",
	Short: "Zerlegt ein Programm in Tokens",
	Long: `Gibt die Tokens eines Programms mit Kategorie, Lexem, Zeile und
Spalte aus, gefolgt von den lexikalischen Fehlern.

Mit --dump wird zusätzlich ein Token-Dump geschrieben, eine Zeile pro
Token im Format "KATEGORIE lexem zeile spalte".

Beispiele:
  mide lex programm.mide
  mide lex --dump tokens.txt programm.mide
  echo "main { }" | mide lex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVar(&lexDump, "dump", "", "Token-Dump in diese Datei schreiben (default: output.token_file)")
}

func runLex(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	result, err := analyzeInput(cmd, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tok := range result.Tokens {
		fmt.Fprintln(out, tok)
	}
	for _, e := range result.LexicalErrors {
		fmt.Fprintln(out, e)
	}

	dump := lexDump
	if dump == "" {
		dump = appConfig.Output.TokenFile
	}
	if dump != "" {
		if err := writeDump(dump, result.Tokens); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Token-Dump geschrieben: %s\n", dump)
	}
	return nil
}

func writeDump(path string, tokens []lexer.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return mideerror.Wrap(err, "Token-Dump nicht schreibbar").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", path)
	}
	if err := lexer.WriteDump(f, tokens); err != nil {
		f.Close()
		return mideerror.Wrap(err, "Token-Dump nicht schreibbar").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", path)
	}
	return f.Close()
}
