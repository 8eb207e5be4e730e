// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cmd
// Description: CLI command running the live analysis server
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/msto63/mIDE/internal/server"
	"github.com/msto63/mIDE/internal/store"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den WebSocket-Endpunkt für Editoren",
	Long: `Startet einen HTTP-Server mit zwei Endpunkten:

  GET /healthz  - Health-Report als JSON
  GET /ws       - WebSocket, analysiert jeden gesendeten Puffer

Nachrichten:
  {"type":"analyze","payload":{"source":"main { }"}}  -> result
  {"type":"ping"}                                     -> pong

Mit "save": true im Payload wird die Analyse in der Historie gespeichert.

Beispiele:
  mide serve
  mide serve --addr 0.0.0.0:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Adresse host:port (default: server.host/server.port)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Historie nicht öffnen")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.ConfigFrom(appConfig.Server)
	if serveAddr != "" {
		host, port, err := splitAddr(serveAddr)
		if err != nil {
			return err
		}
		cfg.Host, cfg.Port = host, port
	}

	opts := server.Options{Logger: logger}
	if !serveNoHistory {
		runs, err := store.NewSQLiteRunStore(store.SQLiteRunConfig{Path: appConfig.Store.Path})
		if err != nil {
			logger.WarnWithErr("history unavailable, serving without it", err)
		} else {
			defer runs.Close()
			opts.Store = runs
		}
	}

	srv := server.New(cfg, opts)
	if err := srv.StartAsync(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mIDE-Server läuft auf ws://%s/ws (Ctrl+C zum Beenden)\n", srv.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, mideerror.Wrap(err, "ungültige Adresse").
			WithCode(mideerror.CodeInvalidInput).
			WithDetail("addr", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, mideerror.Newf("ungültiger Port: %s", portStr).
			WithCode(mideerror.CodeInvalidInput).
			WithDetail("addr", addr)
	}
	return host, port, nil
}
