// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     inspector
// Description: Main Bubbletea model for the mIDE inspector
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package inspector

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/mIDE/internal/ast"
	"github.com/msto63/mIDE/internal/frontend"
	"github.com/msto63/mIDE/internal/highlight"
	mideerror "github.com/msto63/mIDE/pkg/core/error"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
	"github.com/msto63/mIDE/pkg/core/version"
)

// Tab identifies one result pane
type Tab int

const (
	TabSource Tab = iota
	TabTokens
	TabAST
	TabErrors
)

var tabNames = []string{"Quelltext", "Tokens", "AST", "Fehler"}

// String returns the tab title
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "?"
	}
	return tabNames[t]
}

// Config holds inspector configuration
type Config struct {
	Path     string
	Watch    bool
	Debounce time.Duration
	Logger   *midelog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Debounce: 150 * time.Millisecond,
	}
}

// Model is the main Bubbletea model for the inspector
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	loading bool
	tab     Tab
	err     error

	// Components
	viewport viewport.Model
	spinner  spinner.Model
	analyzer *frontend.Analyzer
	watcher  *Watcher

	// Analysis state
	source   string
	result   *frontend.Result
	loadedAt time.Time
	reloads  int
	seq      int

	// Configuration
	path     string
	debounce time.Duration
	logger   *midelog.Logger
}

// New creates a new inspector model. watcher may be nil.
func New(cfg Config, watcher *Watcher) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = midelog.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		loading:  true,
		spinner:  sp,
		analyzer: frontend.NewAnalyzer(logger),
		watcher:  watcher,
		path:     cfg.Path,
		debounce: cfg.Debounce,
		logger:   logger.WithField("component", "inspector"),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadFile}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 5 // Title panel + tab bar
		footerHeight := 4 // Status bar + help + content border
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case fileLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.source = msg.source
			m.result = msg.result
			m.loadedAt = msg.at
			m.reloads++
			m.logger.Debug("file analyzed", midelog.Fields{
				"path":    m.path,
				"summary": msg.result.Summary(),
			})
		}
		m.updateViewportContent()

	case fileChangedMsg:
		m.seq++
		seq := m.seq
		cmds = append(cmds, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return reloadMsg{seq: seq}
		}))
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.Wait())
		}

	case reloadMsg:
		if msg.seq == m.seq {
			m.loading = true
			cmds = append(cmds, m.loadFile, m.spinner.Tick)
		}

	case watchErrMsg:
		m.err = msg.err
		m.logger.WarnWithErr("file watcher error", msg.err)
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.Wait())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab:
		return m.selectTab((m.tab + 1) % Tab(len(tabNames))), nil

	case tea.KeyShiftTab:
		return m.selectTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))), nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "1", "2", "3", "4":
			return m.selectTab(Tab(msg.Runes[0] - '1')), nil
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadFile, m.spinner.Tick)
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil

	case tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil
	}

	return m, nil
}

func (m Model) selectTab(tab Tab) Model {
	m.tab = tab
	m.updateViewportContent()
	m.viewport.GotoTop()
	return m
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade Inspector..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(ContentPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		PathStyle.Render(m.path),
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderTabBar() string {
	tabs := make([]string, len(tabNames))
	for i := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, Tab(i))
		if Tab(i) == TabErrors && m.result != nil && m.result.HasErrors() {
			label = fmt.Sprintf("%s (%d)", label, m.result.ErrorCount())
		}
		if Tab(i) == m.tab {
			tabs[i] = ActiveTabStyle.Render(label)
		} else {
			tabs[i] = InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.err != nil:
		left = StatusErrorStyle.Render("Fehler: " + m.err.Error())
	case m.result == nil:
		left = HelpDescStyle.Render("Keine Analyse")
	case m.result.HasErrors():
		left = StatusErrorStyle.Render(m.result.Summary())
	default:
		left = StatusOKStyle.Render(m.result.Summary())
	}

	var right string
	switch {
	case m.loading:
		right = m.spinner.View() + " Analysiere..."
	case m.watcher != nil:
		right = StatusWatchStyle.Render(fmt.Sprintf("Überwacht, %d. Analyse %s", m.reloads, m.loadedAt.Format("15:04:05")))
	default:
		right = HelpDescStyle.Render("v" + version.Platform)
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 2 {
		padding = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1-4/Tab", "Ansicht"),
		RenderKeyHint("r", "Neu laden"),
		RenderKeyHint("g/G", "Anfang/Ende"),
		RenderKeyHint("q", "Beenden"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
}

// content renders the active tab
func (m Model) content() string {
	if m.err != nil && m.result == nil {
		return ErrorLineStyle.Render(m.err.Error())
	}
	if m.result == nil {
		return ""
	}

	switch m.tab {
	case TabTokens:
		return renderTokens(m.result)
	case TabAST:
		return renderAST(m.result)
	case TabErrors:
		return renderErrors(m.result)
	default:
		return renderSource(m.source, m.result)
	}
}

func renderSource(source string, result *frontend.Result) string {
	colored := highlight.Render(source, result.Tokens, result.LexicalErrors)
	lines := strings.Split(colored, "\n")
	width := len(fmt.Sprint(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(LineNumberStyle.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderTokens(result *frontend.Result) string {
	var b strings.Builder
	for _, tok := range result.Tokens {
		style := lipgloss.NewStyle().Foreground(highlight.ColorFor(tok.Category))
		b.WriteString(PositionStyle.Render(fmt.Sprintf("%4d:%-4d", tok.Line, tok.Column)))
		b.WriteString(fmt.Sprintf(" %-14s ", tok.Category))
		b.WriteString(style.Render(tok.Lexeme))
		b.WriteString("\n")
	}
	return b.String()
}

func renderAST(result *frontend.Result) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = ast.Fprint(&b, result.Tree)
	return b.String()
}

func renderErrors(result *frontend.Result) string {
	if !result.HasErrors() {
		return NoErrorsStyle.Render("Keine Fehler")
	}

	var b strings.Builder
	for _, e := range result.LexicalErrors {
		b.WriteString(ErrorLineStyle.Render(e.String()))
		b.WriteString("\n")
	}
	for _, e := range result.SyntaxErrors {
		b.WriteString(ErrorLineStyle.Render(e))
		b.WriteString("\n")
	}
	return b.String()
}

// loadFile reads and analyzes the file
func (m Model) loadFile() tea.Msg {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fileLoadedMsg{err: mideerror.Wrap(err, "failed to read file").
			WithCode(mideerror.CodeIOError).
			WithDetail("path", m.path)}
	}
	source := string(data)
	return fileLoadedMsg{
		source: source,
		result: m.analyzer.Analyze(source),
		at:     time.Now(),
	}
}

// Run starts the inspector TUI
func Run(cfg Config) error {
	var watcher *Watcher
	if cfg.Watch {
		w, err := NewWatcher(cfg.Path)
		if err != nil {
			return err
		}
		defer w.Close()
		watcher = w
	}

	p := tea.NewProgram(New(cfg, watcher), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
