// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     server
// Description: HTTP server hosting the live analysis endpoint
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/msto63/mIDE/internal/frontend"
	"github.com/msto63/mIDE/internal/store"
	"github.com/msto63/mIDE/pkg/core/cache"
	"github.com/msto63/mIDE/pkg/core/config"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	"github.com/msto63/mIDE/pkg/core/health"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
	"github.com/msto63/mIDE/pkg/core/version"
)

// probeSource is analyzed by the health check; it must stay error free
const probeSource = "main { int i; i = 0; do i++; until (i >= 3); cout << i; }"

// Server is the live analysis server
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	results    *cache.Cache[*frontend.Result]
	health     *health.Registry
	logger     *midelog.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string

	// Results of unchanged buffers are served from a cache; zero disables it
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8470,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Version:      version.Server,
		CacheSize:    256,
		CacheTTL:     10 * time.Minute,
	}
}

// ConfigFrom converts the [server] section of the application configuration
func ConfigFrom(cfg config.ServerConfig) Config {
	c := DefaultConfig()
	if cfg.Host != "" {
		c.Host = cfg.Host
	}
	if cfg.Port != 0 {
		c.Port = cfg.Port
	}
	if cfg.ReadTimeout.Duration > 0 {
		c.ReadTimeout = cfg.ReadTimeout.Duration
	}
	if cfg.WriteTimeout.Duration > 0 {
		c.WriteTimeout = cfg.WriteTimeout.Duration
	}
	c.CacheSize = cfg.CacheSize
	if cfg.CacheTTL.Duration > 0 {
		c.CacheTTL = cfg.CacheTTL.Duration
	}
	return c
}

// Options holds the collaborators of a server
type Options struct {
	Logger *midelog.Logger
	Store  store.RunStore // optional run history
}

// New creates a new server
func New(cfg Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = midelog.GetDefault()
	}
	logger = logger.WithField("component", "server")

	analyzer := frontend.NewAnalyzer(logger)

	healthRegistry := health.NewRegistry("mide", cfg.Version)
	healthRegistry.Register(health.FuncCheck("analyzer", func(ctx context.Context) error {
		if result := analyzer.Analyze(probeSource); result.HasErrors() {
			return fmt.Errorf("probe program reported %d errors", result.ErrorCount())
		}
		return nil
	}))
	if opts.Store != nil {
		healthRegistry.Register(health.FuncCheck("store", func(ctx context.Context) error {
			_, err := opts.Store.Statistics(ctx)
			return err
		}))
	}

	s := &Server{
		health: healthRegistry,
		logger: logger,
		config: cfg,
	}

	if cfg.CacheSize > 0 {
		s.results = cache.New[*frontend.Result](cache.Config{
			MaxItems:        cfg.CacheSize,
			TTL:             cfg.CacheTTL,
			CleanupInterval: time.Minute,
		})
		healthRegistry.RegisterFunc("cache", func(ctx context.Context) health.CheckResult {
			hits, misses, rate := s.results.Stats()
			return health.CheckResult{
				Status: health.StatusHealthy,
				Details: map[string]interface{}{
					"size":     s.results.Size(),
					"hits":     hits,
					"misses":   misses,
					"hit_rate": rate,
				},
			}
		})
	}

	ws := NewWebSocketHandler(analyzer, opts.Store, logger)
	ws.results = s.results

	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	report := s.health.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.WarnWithErr("Failed to write health report", err)
	}
}

// loggingMiddleware adds request logging. WebSocket sessions log on their
// own and are only logged here once they end.
func loggingMiddleware(logger *midelog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", midelog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture the status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack is required by the WebSocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Start listens on the configured address and serves until Stop is called
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}
	return s.serve()
}

// StartAsync starts the server in the background. The listener is bound
// before it returns, so Address reports the actual port.
func (s *Server) StartAsync() error {
	if err := s.listen(); err != nil {
		return err
	}
	go func() {
		if err := s.serve(); err != nil {
			s.logger.ErrorWithErr("HTTP server error", err)
		}
	}()
	return nil
}

func (s *Server) listen() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mideerror.Wrap(err, "failed to listen").
			WithCode(mideerror.CodeIOError).
			WithDetail("address", s.httpServer.Addr)
	}
	s.listener = listener
	s.logger.Info("Starting analysis server", midelog.Fields{
		"address": listener.Addr().String(),
		"version": s.config.Version,
	})
	return nil
}

func (s *Server) serve() error {
	if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping analysis server")
	if s.results != nil {
		s.results.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// Address returns the bound address once listening, the configured one before
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
