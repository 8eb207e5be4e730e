package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/highlight"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
)

// cli runs the command tree against a private configuration
type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	content := "[general]\nlog_level = \"warn\"\n\n[store]\npath = \"" +
		filepath.ToSlash(filepath.Join(dir, "history.db")) + "\"\n"
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return &cli{t: t, dir: dir, config: config}
}

func (c *cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()

	cfgFile, verbose, saveRun = "", false, false
	lexDump, parseFormat = "", ""
	highlightSpans, highlightForceColor = false, false
	historyLimit, historyOffset = 20, 0
	historyShowSource, historyShowTokens = false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", c.config}, args...))

	err := Execute()
	return stdout.String(), stderr.String(), err
}

func (c *cli) file(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		c.t.Fatal(err)
	}
	return path
}

func TestLex(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("main { x = 1. }", "lex")
	if err != nil {
		t.Fatalf("lex error = %v", err)
	}
	for _, want := range []string{
		"Token(RESERVED, 'main', line=1, col=1)",
		"Token(ASSIGNMENT, '=', line=1, col=10)",
		"error: invalid decimal number '1.' at line 1, column 12",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestLex_Dump(t *testing.T) {
	c := newCLI(t)
	src := c.file("demo.mide", "main { }")
	dump := filepath.Join(c.dir, "tokens.txt")

	_, stderr, err := c.run("", "lex", "--dump", dump, src)
	if err != nil {
		t.Fatalf("lex error = %v", err)
	}
	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "RESERVED main 1 1\nSYMBOL { 1 6\nSYMBOL } 1 8\n" {
		t.Errorf("dump = %q", data)
	}
	if !strings.Contains(stderr, "Token-Dump geschrieben") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestParse_Formats(t *testing.T) {
	c := newCLI(t)
	src := c.file("demo.mide", "main { int a; a = 5 + 3; }")

	text, _, err := c.run("", "parse", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "BinaryOp PLUS (+)") {
		t.Errorf("text output:\n%s", text)
	}

	out, _, err := c.run("", "parse", "--format", "json", src)
	if err != nil {
		t.Fatal(err)
	}
	var doc ast.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Kind != "Program" {
		t.Errorf("Kind = %q", doc.Kind)
	}

	out, _, err = c.run("", "parse", "-f", "yaml", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "kind: Program") {
		t.Errorf("yaml output:\n%s", out)
	}
}

func TestParse_DiagnosticsOnStderr(t *testing.T) {
	c := newCLI(t)

	out, stderr, err := c.run("main { while x end", "parse", "--format", "json", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("stdout is not JSON:\n%s", out)
	}
	if !strings.Contains(stderr, "error: expected '}'") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("main { }", "parse", "--format", "xml")
	if !mideerror.HasCode(err, mideerror.CodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	if !strings.HasPrefix(stderr, "Fehler: ") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
		want    []string
	}{
		{
			name:   "clean program",
			source: "main { int i; i++; }",
			want:   []string{"<stdin>: OK (9 tokens, 0 lexical errors, 0 syntax errors"},
		},
		{
			name:    "broken program",
			source:  "main { x = 1. }",
			wantErr: true,
			want: []string{
				"error: invalid decimal number '1.'",
				"error: expected expression",
				"<stdin>: 3 Fehler",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			out, stderr, err := c.run(tt.source, "check")

			if tt.wantErr != (err != nil) {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errDiagnostics) {
				t.Errorf("error = %v, want errDiagnostics", err)
			}
			if stderr != "" {
				t.Errorf("diagnostics must not be reported as a failure: %q", stderr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestCheck_MissingFile(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "check", filepath.Join(c.dir, "missing.mide"))
	if !mideerror.HasCode(err, mideerror.CodeIOError) {
		t.Errorf("error = %v, want IO_ERROR", err)
	}
}

func TestHighlight(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("x <= 10;", "highlight", "--spans")
	if err != nil {
		t.Fatal(err)
	}
	var spans []highlight.Span
	if err := json.Unmarshal([]byte(out), &spans); err != nil {
		t.Fatal(err)
	}
	if len(spans) != 4 || spans[1].Length != 2 || spans[1].Category != "REL_LOG_OP" {
		t.Errorf("spans = %+v", spans)
	}

	out, _, err = c.run("x <= 10;", "highlight")
	if err != nil {
		t.Fatal(err)
	}
	plain := regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(out, "")
	if plain != "x <= 10;\n" {
		t.Errorf("highlight = %q", plain)
	}
}

var savedID = regexp.MustCompile(`Gespeichert als ([0-9a-f-]{36})`)

func TestHistory(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("", "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Keine gespeicherten Analysen.") {
		t.Errorf("empty list = %q", out)
	}

	_, stderr, err := c.run("main { x = 1. }", "check", "--save")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("check error = %v", err)
	}
	m := savedID.FindStringSubmatch(stderr)
	if m == nil {
		t.Fatalf("no id in %q", stderr)
	}
	id := m[1]

	out, _, err = c.run("", "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "<stdin>") {
		t.Errorf("list = %q", out)
	}

	out, _, err = c.run("", "history", "show", "--tokens", "--source", id)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Fehler:    3", "RESERVED main 1 1", "main { x = 1. }", "error: expected expression"} {
		if !strings.Contains(out, want) {
			t.Errorf("show lacks %q:\n%s", want, out)
		}
	}

	out, _, err = c.run("", "history", "stats")
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`total_runs\s+1`).MatchString(out) {
		t.Errorf("stats = %q", out)
	}

	if _, _, err := c.run("", "history", "delete", id); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if _, _, err := c.run("", "history", "show", id); !mideerror.HasCode(err, mideerror.CodeNotFound) {
		t.Errorf("show after delete error = %v, want NOT_FOUND", err)
	}
	if _, _, err := c.run("", "history", "show", "not-an-id"); !mideerror.HasCode(err, mideerror.CodeInvalidInput) {
		t.Errorf("show with bad id error = %v, want INVALID_INPUT", err)
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out, _, err := c.run("", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "mIDE v") || !strings.Contains(out, "parser") {
		t.Errorf("version = %q", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	c := newCLI(t)
	c.config = c.file("bad.toml", "[server]\nport = 70000\n")

	_, _, err := c.run("", "version")
	if !mideerror.HasCode(err, mideerror.CodeConfigError) {
		t.Errorf("error = %v, want CONFIG_ERROR", err)
	}
}

func TestSplitAddr(t *testing.T) {
	tests := []struct {
		addr    string
		host    string
		port    int
		wantErr bool
	}{
		{"127.0.0.1:8470", "127.0.0.1", 8470, false},
		{":9000", "", 9000, false},
		{"[::1]:80", "::1", 80, false},
		{"localhost", "", 0, true},
		{"localhost:http", "", 0, true},
		{"localhost:70000", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, err := splitAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (host != tt.host || port != tt.port) {
				t.Errorf("splitAddr() = %q, %d", host, port)
			}
		})
	}
}
