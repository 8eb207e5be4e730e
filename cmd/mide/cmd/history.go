// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI commands for the stored analysis history
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/msto63/mIDE/internal/store"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	"github.com/spf13/cobra"
)

var (
	historyLimit      int
	historyOffset     int
	historyShowSource bool
	historyShowTokens bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Verwaltet gespeicherte Analysen",
	Long: `Analysen, die mit --save oder über den WebSocket-Endpunkt gespeichert
wurden, liegen in einer SQLite-Datenbank (store.path).

Beispiele:
  mide history list
  mide history show 0f8e...
  mide history delete 0f8e...
  mide history stats`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet gespeicherte Analysen, neueste zuerst",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Zeigt eine gespeicherte Analyse",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Löscht eine gespeicherte Analyse",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryDelete,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Zeigt Statistiken der Historie",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyStatsCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximale Anzahl")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "Anzahl zu überspringender Einträge")
	historyShowCmd.Flags().BoolVar(&historyShowSource, "source", false, "Quelltext ausgeben")
	historyShowCmd.Flags().BoolVar(&historyShowTokens, "tokens", false, "Token-Dump ausgeben")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withStore(func(s store.RunStore) error {
		runs, err := s.List(cmd.Context(), historyLimit, historyOffset)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Keine gespeicherten Analysen.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tZEITPUNKT\tNAME\tTOKENS\tFEHLER")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				displayName(run.Name), run.TokenCount, run.ErrorCount())
		}
		return w.Flush()
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	return withStore(func(s store.RunStore) error {
		run, err := s.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", run.ID)
		fmt.Fprintf(out, "Name:      %s\n", displayName(run.Name))
		fmt.Fprintf(out, "Zeitpunkt: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Tokens:    %d\n", run.TokenCount)
		fmt.Fprintf(out, "Fehler:    %d\n", run.ErrorCount())
		for _, e := range run.LexicalErrors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		for _, e := range run.SyntaxErrors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}

		if historyShowSource {
			fmt.Fprintf(out, "\nQuelltext:\n%s\n", strings.TrimRight(run.Source, "\n"))
		}
		if historyShowTokens {
			fmt.Fprintf(out, "\nToken-Dump:\n%s", run.Tokens)
		}
		return nil
	})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	return withStore(func(s store.RunStore) error {
		if err := s.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Gelöscht: %s\n", id)
		return nil
	})
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	return withStore(func(s store.RunStore) error {
		stats, err := s.Statistics(cmd.Context())
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%v\n", k, stats[k])
		}
		return w.Flush()
	})
}

func parseRunID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, mideerror.Wrap(err, "ungültige ID").
			WithCode(mideerror.CodeInvalidInput).
			WithDetail("id", s)
	}
	return id, nil
}

func displayName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}
