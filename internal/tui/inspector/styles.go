// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     inspector
// Description: Styles for the inspector TUI
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package inspector

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Padding(0, 1)
)

// Content styles
var (
	ContentPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed).
				Padding(0, 1)

	LineNumberStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	PositionStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	NoErrorsStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StatusWatchStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Logo
const Logo = "mIDE Inspector"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}
