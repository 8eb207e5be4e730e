// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     server
// Description: WebSocket endpoint that re-analyzes editor buffers
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/frontend"
	"github.com/msto63/mIDE/internal/highlight"
	"github.com/msto63/mIDE/internal/lexer"
	"github.com/msto63/mIDE/internal/store"
	"github.com/msto63/mIDE/pkg/core/cache"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
)

// Message types
const (
	TypeAnalyze = "analyze"
	TypePing    = "ping"
	TypeResult  = "result"
	TypePong    = "pong"
	TypeError   = "error"
)

// Error codes sent in error payloads
const (
	CodeInvalidMessage = "invalid_message"
	CodeInvalidPayload = "invalid_payload"
	CodeUnknownType    = "unknown_type"
	CodeSourceTooLarge = "source_too_large"
	CodeStoreFailed    = "store_failed"
)

const (
	readTimeout = 120 * time.Second
	// MaxSourceSize bounds the source text of one analyze request
	MaxSourceSize = 1 << 20
)

// WebSocket upgrader with permissive settings for local editor plugins
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage represents an incoming WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "analyze", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// AnalyzePayload is the payload of an analyze request
type AnalyzePayload struct {
	Source string `json:"source"`
	Name   string `json:"name,omitempty"`
	Save   bool   `json:"save,omitempty"` // store the run in the history
}

// WSResponse represents an outgoing WebSocket message
type WSResponse struct {
	Type    string      `json:"type"`              // "result", "pong", "error"
	Payload interface{} `json:"payload,omitempty"` // Response-specific payload
}

// ResultPayload carries the complete analysis of one buffer
type ResultPayload struct {
	Tokens        []lexer.Token        `json:"tokens"`
	LexicalErrors []lexer.LexicalError `json:"lexical_errors"`
	SyntaxErrors  []string             `json:"syntax_errors"`
	Spans         []highlight.Span     `json:"spans"`
	AST           *ast.Document        `json:"ast"`
	Summary       string               `json:"summary"`
	DurationMS    float64              `json:"duration_ms"`
	Cached        bool                 `json:"cached"`
	RunID         string               `json:"run_id,omitempty"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves analysis sessions over WebSocket
type WebSocketHandler struct {
	analyzer *frontend.Analyzer
	results  *cache.Cache[*frontend.Result] // optional
	store    store.RunStore
	logger   *midelog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler. runs may be nil, in
// which case save requests are rejected.
func NewWebSocketHandler(analyzer *frontend.Analyzer, runs store.RunStore, logger *midelog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = midelog.GetDefault()
	}
	return &WebSocketHandler{
		analyzer: analyzer,
		store:    runs,
		logger:   logger.WithField("component", "websocket"),
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection serves one connection until the peer goes away. Messages
// are answered in order on the reading goroutine, so writes never overlap.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	session := h.logger.WithFields(midelog.Fields{
		"session": uuid.NewString(),
		"remote":  conn.RemoteAddr().String(),
	})
	session.Info("WebSocket connection established")

	conn.SetReadLimit(MaxSourceSize + 4096)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				session.WarnWithErr("WebSocket read error", err)
			} else {
				session.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, session, CodeInvalidMessage, "Invalid message: "+err.Error())
			continue
		}

		switch msg.Type {
		case TypePing:
			h.sendResponse(conn, session, WSResponse{Type: TypePong})

		case TypeAnalyze:
			var payload AnalyzePayload
			if len(msg.Payload) == 0 {
				h.sendError(conn, session, CodeInvalidPayload, "Analyze payload required")
				continue
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, session, CodeInvalidPayload, "Invalid analyze payload")
				continue
			}
			h.handleAnalyze(ctx, conn, session, payload)

		default:
			h.sendError(conn, session, CodeUnknownType, "Unknown message type: "+msg.Type)
		}
	}
}

func (h *WebSocketHandler) handleAnalyze(ctx context.Context, conn *websocket.Conn, session *midelog.Logger, payload AnalyzePayload) {
	if len(payload.Source) > MaxSourceSize {
		h.sendError(conn, session, CodeSourceTooLarge, "Source exceeds the maximum size")
		return
	}

	result, cached := h.analyze(payload.Source)
	response := NewResultPayload(result)
	response.Cached = cached

	if payload.Save {
		if h.store == nil {
			h.sendError(conn, session, CodeStoreFailed, "History is not enabled")
			return
		}
		run := store.NewRun(payload.Name, payload.Source, result)
		if err := h.store.Save(ctx, run); err != nil {
			session.ErrorWithErr("Failed to save run", err)
			h.sendError(conn, session, CodeStoreFailed, "Failed to save run")
			return
		}
		response.RunID = run.ID.String()
	}

	session.Debug("buffer analyzed", midelog.Fields{
		"bytes":  len(payload.Source),
		"errors": result.ErrorCount(),
		"cached": cached,
	})
	h.sendResponse(conn, session, WSResponse{Type: TypeResult, Payload: response})
}

// analyze reports whether the result came from the cache
func (h *WebSocketHandler) analyze(source string) (*frontend.Result, bool) {
	if h.results == nil {
		return h.analyzer.Analyze(source), false
	}
	return h.results.GetOrCompute(cache.SourceKey(source), func() *frontend.Result {
		return h.analyzer.Analyze(source)
	})
}

// NewResultPayload converts an analysis result to its wire form
func NewResultPayload(result *frontend.Result) *ResultPayload {
	payload := &ResultPayload{
		Tokens:        result.Tokens,
		LexicalErrors: result.LexicalErrors,
		SyntaxErrors:  result.SyntaxErrors,
		Spans:         highlight.Spans(result.Tokens),
		AST:           ast.ToDocument(result.Tree),
		Summary:       result.Summary(),
		DurationMS:    float64(result.Duration.Microseconds()) / 1000,
	}
	// Encode empty lists as [] for clients that do not expect null.
	if payload.Tokens == nil {
		payload.Tokens = []lexer.Token{}
	}
	if payload.LexicalErrors == nil {
		payload.LexicalErrors = []lexer.LexicalError{}
	}
	if payload.SyntaxErrors == nil {
		payload.SyntaxErrors = []string{}
	}
	return payload
}

func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, session *midelog.Logger, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		session.ErrorWithErr("WebSocket send error", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, session *midelog.Logger, code, message string) {
	h.sendResponse(conn, session, WSResponse{
		Type: TypeError,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
