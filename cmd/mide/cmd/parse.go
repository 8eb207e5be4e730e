// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command printing the syntax tree
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/frontend"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	"github.com/spf13/cobra"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [datei]",
	Short: "Gibt den Syntaxbaum aus",
	Long: `Parst ein Programm und gibt den Syntaxbaum aus. Diagnosen
erscheinen auf der Standardfehlerausgabe, damit JSON und YAML
weiterverarbeitet werden können.

Formate:
  text  - eingerückter Baum mit Operatornamen und Positionen
  json  - JSON-Dokument
  yaml  - YAML-Dokument

Beispiele:
  mide parse programm.mide
  mide parse --format json programm.mide | jq .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Ausgabeformat: text, json, yaml (default: output.ast_format)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format := parseFormat
	if format == "" {
		format = appConfig.Output.ASTFormat
	}
	printTree, err := treePrinter(format)
	if err != nil {
		return err
	}

	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	result, err := analyzeInput(cmd, in)
	if err != nil {
		return err
	}

	if err := printTree(cmd.OutOrStdout(), result.Tree); err != nil {
		return mideerror.Wrap(err, "Ausgabe fehlgeschlagen").WithCode(mideerror.CodeIOError)
	}
	printDiagnostics(cmd.ErrOrStderr(), result)
	return nil
}

func treePrinter(format string) (func(io.Writer, *ast.Node) error, error) {
	switch format {
	case "text":
		return ast.Fprint, nil
	case "json":
		return ast.FprintJSON, nil
	case "yaml":
		return ast.FprintYAML, nil
	default:
		return nil, mideerror.Newf("unbekanntes Format: %s", format).
			WithCode(mideerror.CodeInvalidInput).
			WithDetail("format", format)
	}
}

// printDiagnostics writes lexical errors first, then syntax errors
func printDiagnostics(w io.Writer, result *frontend.Result) {
	for _, e := range result.LexicalErrors {
		fmt.Fprintln(w, e)
	}
	for _, e := range result.SyntaxErrors {
		fmt.Fprintln(w, "error:", e)
	}
}
