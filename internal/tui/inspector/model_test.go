package inspector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.mide")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// loaded returns a sized model that has analyzed path
func loaded(t *testing.T, path string) Model {
	t.Helper()
	m := New(Config{Path: path, Debounce: time.Millisecond}, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	next, _ = m.Update(m.loadFile())
	return next.(Model)
}

func key(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestModel_LoadFile(t *testing.T) {
	m := loaded(t, writeFile(t, "main { int x; x = 1; }"))

	if m.loading {
		t.Error("loading must end after fileLoadedMsg")
	}
	if m.err != nil {
		t.Fatalf("err = %v", m.err)
	}
	if len(m.result.Tokens) != 10 {
		t.Errorf("tokens = %d, want 10", len(m.result.Tokens))
	}

	view := ansi.Strip(m.View())
	for _, want := range []string{Logo, "1 Quelltext", "main { int x; x = 1; }", "10 tokens, 0 lexical errors"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() lacks %q:\n%s", want, view)
		}
	}
}

func TestModel_MissingFile(t *testing.T) {
	m := loaded(t, filepath.Join(t.TempDir(), "missing.mide"))

	if !mideerror.HasCode(m.err, mideerror.CodeIOError) {
		t.Fatalf("err = %v, want IO_ERROR", m.err)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Fehler:") {
		t.Error("status bar must show the error")
	}
}

func TestModel_Tabs(t *testing.T) {
	m := loaded(t, writeFile(t, "main { x = 1. }"))

	tests := []struct {
		name string
		msg  tea.KeyMsg
		tab  Tab
		want string
	}{
		{"tokens", key("2"), TabTokens, "IDENTIFIER"},
		{"ast", key("3"), TabAST, "Assignment"},
		{"errors", key("4"), TabErrors, "invalid decimal number '1.'"},
		{"wrap to source", tea.KeyMsg{Type: tea.KeyTab}, TabSource, "main { x = 1. }"},
		{"back to errors", tea.KeyMsg{Type: tea.KeyShiftTab}, TabErrors, "expected expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := m.Update(tt.msg)
			m = next.(Model)
			if m.tab != tt.tab {
				t.Fatalf("tab = %v, want %v", m.tab, tt.tab)
			}
			if content := ansi.Strip(m.content()); !strings.Contains(content, tt.want) {
				t.Errorf("content lacks %q:\n%s", tt.want, content)
			}
		})
	}

	if !strings.Contains(ansi.Strip(m.renderTabBar()), "4 Fehler (3)") {
		t.Errorf("tab bar = %q", ansi.Strip(m.renderTabBar()))
	}
}

func TestModel_NoErrors(t *testing.T) {
	m := loaded(t, writeFile(t, "main { }"))
	if got := ansi.Strip(renderErrors(m.result)); got != "Keine Fehler" {
		t.Errorf("renderErrors() = %q", got)
	}
}

func TestModel_DebouncedReload(t *testing.T) {
	path := writeFile(t, "main { }")
	m := loaded(t, path)

	// Two quick changes: only the latest reload request is honored.
	next, _ := m.Update(fileChangedMsg{})
	m = next.(Model)
	next, _ = m.Update(fileChangedMsg{})
	m = next.(Model)

	next, cmd := m.Update(reloadMsg{seq: 1})
	m = next.(Model)
	if m.loading {
		t.Error("stale reloadMsg must be ignored")
	}

	if err := os.WriteFile(path, []byte("main { int y; }"), 0644); err != nil {
		t.Fatal(err)
	}
	next, cmd = m.Update(reloadMsg{seq: 2})
	m = next.(Model)
	if !m.loading || cmd == nil {
		t.Fatal("current reloadMsg must start loading")
	}

	next, _ = m.Update(m.loadFile())
	m = next.(Model)
	if m.source != "main { int y; }" || m.reloads != 2 {
		t.Errorf("source = %q, reloads = %d", m.source, m.reloads)
	}
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t, writeFile(t, "main { }"))
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q must return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q must quit")
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := New(DefaultConfig(), nil)
	if m.View() != "Lade Inspector..." {
		t.Errorf("View() = %q", m.View())
	}
}

func TestTab_String(t *testing.T) {
	if TabAST.String() != "AST" || Tab(9).String() != "?" {
		t.Errorf("String() = %q, %q", TabAST, Tab(9))
	}
}

func TestWatcher(t *testing.T) {
	path := writeFile(t, "main { }")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Wait()() }()

	// Changes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("main { int x; }"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-msgs:
		if _, ok := msg.(fileChangedMsg); !ok {
			t.Errorf("Wait() = %#v, want fileChangedMsg", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
