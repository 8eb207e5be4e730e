// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     highlight
// Description: Token category colors, editor spans and ANSI rendering
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/mIDE/internal/lexer"
)

// Category colors
var (
	ColorInteger    = lipgloss.Color("#FFA500")
	ColorDecimal    = lipgloss.Color("#FF8C00")
	ColorIdentifier = lipgloss.Color("#A9A9A9")
	ColorComment    = lipgloss.Color("#006400")
	ColorReserved   = lipgloss.Color("#0000FF")
	ColorArithmetic = lipgloss.Color("#FF0000")
	ColorRelLog     = lipgloss.Color("#800080")
	ColorSymbol     = lipgloss.Color("#FFFFFF")
	ColorDefault    = lipgloss.Color("#000000")

	ColorError = lipgloss.Color("#EF4444")
)

// ColorFor maps a token category to its display color
func ColorFor(category lexer.TokenCategory) lipgloss.Color {
	switch category {
	case lexer.TokenInteger:
		return ColorInteger
	case lexer.TokenDecimal:
		return ColorDecimal
	case lexer.TokenIdentifier:
		return ColorIdentifier
	case lexer.TokenComment:
		return ColorComment
	case lexer.TokenReserved:
		return ColorReserved
	case lexer.TokenArithmeticOp:
		return ColorArithmetic
	case lexer.TokenRelLogOp:
		return ColorRelLog
	case lexer.TokenSymbol, lexer.TokenAssignment:
		return ColorSymbol
	default:
		return ColorDefault
	}
}

// Span is a colored single-line range of source text. Columns and lengths
// are counted in characters.
type Span struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Length   int    `json:"length"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Spans converts tokens into single-line spans; multi-line comments are
// split at their line breaks.
func Spans(tokens []lexer.Token) []Span {
	spans := make([]Span, 0, len(tokens))
	for _, tok := range tokens {
		color := string(ColorFor(tok.Category))
		line, column := tok.Line, tok.Column
		for i, part := range strings.Split(tok.Lexeme, "\n") {
			if i > 0 {
				line++
				column = 1
			}
			length := len([]rune(part))
			if length == 0 {
				continue
			}
			spans = append(spans, Span{
				Line:     line,
				Column:   column,
				Length:   length,
				Category: tok.Category.String(),
				Color:    color,
			})
		}
	}
	return spans
}

// mark classifies one character of the source
type mark struct {
	set      bool
	invalid  bool
	category lexer.TokenCategory
}

// Render returns source with ANSI colors applied per token. Characters
// reported in lexical errors are underlined in the error color.
func Render(source string, tokens []lexer.Token, errs []lexer.LexicalError) string {
	lines := strings.Split(source, "\n")
	grid := make([][]rune, len(lines))
	marks := make([][]mark, len(lines))
	for i, l := range lines {
		grid[i] = []rune(l)
		marks[i] = make([]mark, len(grid[i]))
	}

	apply := func(lexeme string, line, column int, m mark) {
		l, c := line-1, column-1
		for _, r := range lexeme {
			if r == '\n' {
				l++
				c = 0
				continue
			}
			if l < 0 || l >= len(marks) || c < 0 || c >= len(marks[l]) {
				return
			}
			marks[l][c] = m
			c++
		}
	}
	for _, tok := range tokens {
		apply(tok.Lexeme, tok.Line, tok.Column, mark{set: true, category: tok.Category})
	}
	for _, e := range errs {
		apply(e.Lexeme, e.Line, e.Column, mark{set: true, invalid: true})
	}

	var sb strings.Builder
	for i := range grid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		renderLine(&sb, grid[i], marks[i])
	}
	return sb.String()
}

func renderLine(sb *strings.Builder, text []rune, marks []mark) {
	start := 0
	for start < len(text) {
		end := start + 1
		for end < len(text) && marks[end] == marks[start] {
			end++
		}
		sb.WriteString(styleFor(marks[start]).Render(string(text[start:end])))
		start = end
	}
}

func styleFor(m mark) lipgloss.Style {
	style := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	switch {
	case m.invalid:
		return style.Foreground(ColorError).Underline(true)
	case m.set:
		return style.Foreground(ColorFor(m.category))
	default:
		return style
	}
}
