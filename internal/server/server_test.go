package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/msto63/mIDE/internal/store"
	"github.com/msto63/mIDE/pkg/core/config"
	"github.com/msto63/mIDE/pkg/core/health"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
)

// response mirrors WSResponse with a decodable payload
type response struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, runs store.RunStore) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, DefaultConfig(), runs)
}

func newTestServerWith(t *testing.T, cfg Config, runs store.RunStore) *httptest.Server {
	t.Helper()
	srv := New(cfg, Options{Logger: midelog.Discard(), Store: runs})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		if srv.results != nil {
			srv.results.Close()
		}
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, request string) response {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return resp
}

func TestWebSocket_Analyze(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))

	resp := roundTrip(t, conn, `{"type":"analyze","payload":{"source":"main { int x; x = 1 + 2; }"}}`)
	if resp.Type != TypeResult {
		t.Fatalf("Type = %q, payload %s", resp.Type, resp.Payload)
	}

	var payload ResultPayload
	if err := json.Unmarshal(resp.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Tokens) != 12 {
		t.Errorf("len(Tokens) = %d, want 12", len(payload.Tokens))
	}
	if len(payload.LexicalErrors) != 0 || len(payload.SyntaxErrors) != 0 {
		t.Errorf("unexpected diagnostics: %v %v", payload.LexicalErrors, payload.SyntaxErrors)
	}
	if len(payload.Spans) != len(payload.Tokens) {
		t.Errorf("len(Spans) = %d", len(payload.Spans))
	}
	if payload.AST == nil || payload.AST.Kind != "Program" {
		t.Fatalf("AST = %+v", payload.AST)
	}
	if payload.RunID != "" {
		t.Errorf("RunID = %q without save", payload.RunID)
	}
}

func TestWebSocket_AnalyzeReportsDiagnostics(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))

	resp := roundTrip(t, conn, `{"type":"analyze","payload":{"source":"main { x = 1. }"}}`)
	var payload ResultPayload
	if err := json.Unmarshal(resp.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.LexicalErrors) != 1 || payload.LexicalErrors[0].Lexeme != "1." {
		t.Errorf("LexicalErrors = %v", payload.LexicalErrors)
	}
	if len(payload.SyntaxErrors) != 2 {
		t.Errorf("SyntaxErrors = %v", payload.SyntaxErrors)
	}
}

func TestWebSocket_EmptySourceEncodesLists(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))

	resp := roundTrip(t, conn, `{"type":"analyze","payload":{"source":""}}`)
	for _, field := range []string{`"tokens":[]`, `"lexical_errors":[]`, `"syntax_errors":[]`, `"spans":[]`} {
		if !strings.Contains(string(resp.Payload), field) {
			t.Errorf("payload %s lacks %s", resp.Payload, field)
		}
	}
}

func TestWebSocket_Errors(t *testing.T) {
	tests := []struct {
		name    string
		request string
		want    string
	}{
		{"not json", `hello`, CodeInvalidMessage},
		{"unknown type", `{"type":"compile"}`, CodeUnknownType},
		{"missing payload", `{"type":"analyze"}`, CodeInvalidPayload},
		{"wrong payload", `{"type":"analyze","payload":{"source":42}}`, CodeInvalidPayload},
		{"save without store", `{"type":"analyze","payload":{"source":"main { }","save":true}}`, CodeStoreFailed},
	}

	conn := dial(t, newTestServer(t, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := roundTrip(t, conn, tt.request)
			if resp.Type != TypeError {
				t.Fatalf("Type = %q, want error", resp.Type)
			}
			var payload WSErrorPayload
			if err := json.Unmarshal(resp.Payload, &payload); err != nil {
				t.Fatal(err)
			}
			if payload.Code != tt.want {
				t.Errorf("Code = %q, want %q", payload.Code, tt.want)
			}
		})
	}

	// The connection survives bad requests.
	if resp := roundTrip(t, conn, `{"type":"ping"}`); resp.Type != TypePong {
		t.Errorf("Type = %q, want pong", resp.Type)
	}
}

func TestWebSocket_Save(t *testing.T) {
	runs := store.NewMemoryRunStore()
	conn := dial(t, newTestServer(t, runs))

	resp := roundTrip(t, conn, `{"type":"analyze","payload":{"source":"main { }","name":"buffer","save":true}}`)
	var payload ResultPayload
	if err := json.Unmarshal(resp.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	id, err := uuid.Parse(payload.RunID)
	if err != nil {
		t.Fatalf("RunID = %q: %v", payload.RunID, err)
	}

	run, err := runs.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Name != "buffer" || run.TokenCount != 3 {
		t.Errorf("stored run = %+v", run)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryRunStore())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Status != health.StatusHealthy || len(report.Checks) != 3 {
		t.Fatalf("report = %+v", report)
	}
	for i, name := range []string{"analyzer", "cache", "store"} {
		if report.Checks[i].Name != name {
			t.Errorf("Checks[%d] = %q, want %q", i, report.Checks[i].Name, name)
		}
	}
}

func TestWebSocket_CachedResult(t *testing.T) {
	conn := dial(t, newTestServer(t, nil))
	request := `{"type":"analyze","payload":{"source":"main { int x; }"}}`

	for i, want := range []bool{false, true} {
		var payload ResultPayload
		if err := json.Unmarshal(roundTrip(t, conn, request).Payload, &payload); err != nil {
			t.Fatal(err)
		}
		if payload.Cached != want {
			t.Errorf("request %d: Cached = %v, want %v", i, payload.Cached, want)
		}
		if len(payload.Tokens) != 6 {
			t.Errorf("request %d: len(Tokens) = %d, want 6", i, len(payload.Tokens))
		}
	}
}

func TestWebSocket_CacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	conn := dial(t, newTestServerWith(t, cfg, nil))
	request := `{"type":"analyze","payload":{"source":"main { }"}}`

	for i := 0; i < 2; i++ {
		var payload ResultPayload
		if err := json.Unmarshal(roundTrip(t, conn, request).Payload, &payload); err != nil {
			t.Fatal(err)
		}
		if payload.Cached {
			t.Errorf("request %d served from disabled cache", i)
		}
	}
}

func TestHealthz_Unhealthy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	srv := New(cfg, Options{Logger: midelog.Discard()})
	srv.HealthRegistry().Register(health.FuncCheck("disk", func(ctx context.Context) error {
		return errors.New("read-only file system")
	}))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST Code = %d, want 405", rec.Code)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default().Server
	cfg.Port = 9000
	cfg.ReadTimeout = config.Duration{Duration: 5 * time.Second}
	cfg.CacheSize = 8

	got := ConfigFrom(cfg)
	if got.Port != 9000 || got.ReadTimeout != 5*time.Second {
		t.Errorf("ConfigFrom() = %+v", got)
	}
	if got.CacheSize != 8 || got.CacheTTL != 10*time.Minute {
		t.Errorf("Cache = %d / %v", got.CacheSize, got.CacheTTL)
	}
	if got.Host != "127.0.0.1" {
		t.Errorf("Host = %q", got.Host)
	}
}

func TestServer_StartAsyncAndStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	srv := New(cfg, Options{Logger: midelog.Discard()})

	if err := srv.StartAsync(); err != nil {
		t.Fatalf("StartAsync() error = %v", err)
	}
	if strings.HasSuffix(srv.Address(), ":0") {
		t.Errorf("Address() = %q, want bound port", srv.Address())
	}

	resp, err := http.Get("http://" + srv.Address() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
