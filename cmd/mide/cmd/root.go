// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: Root command, configuration and logger setup
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/msto63/mIDE/pkg/core/config"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	saveRun bool

	appConfig *config.Config
	logger    *midelog.Logger
)

// errDiagnostics makes the process exit with status 1 after the
// diagnostics have already been printed
var errDiagnostics = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "mide",
	Short: "mIDE - Front-end für eine kleine Lehrsprache",
	Long: `mIDE zerlegt Programme der Lehrsprache in Tokens, baut daraus
einen Syntaxbaum und meldet lexikalische und syntaktische Fehler.

Befehle:
  lex        - Tokens ausgeben (optional als Token-Dump)
  parse      - Syntaxbaum ausgeben (text, json, yaml)
  check      - Nur Diagnosen, Exit-Code 1 bei Fehlern
  highlight  - Quelltext farbig ausgeben
  inspect    - Interaktiver Inspector im Terminal
  serve      - WebSocket-Endpunkt für Editoren
  history    - Gespeicherte Analysen verwalten

Ohne Datei oder mit "-" wird von der Standardeingabe gelesen.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errDiagnostics) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $MIDE_CONFIG oder ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().BoolVar(&saveRun, "save", false, "Analyse in der Historie speichern")
}

// setup loads the configuration and creates the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := appConfig.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger = midelog.NewLogger(midelog.LoggerConfig{
		Name:   "mide",
		Level:  level,
		Format: appConfig.General.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	midelog.SetDefault(logger)

	logger.Debug("configuration loaded", midelog.Fields{
		"command": cmd.Name(),
		"store":   appConfig.Store.Path,
	})
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Fehler: %v\n", err)
}
