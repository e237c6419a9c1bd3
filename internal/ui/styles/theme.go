// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds every style the shell renders with.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// ==========================================================================
	// PROMPT STYLES
	// ==========================================================================

	PromptBracket lipgloss.Style
	PromptLogin   lipgloss.Style
	PromptDir     lipgloss.Style
	PromptSymbol  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	HistoryEntry lipgloss.Style
	ListingLine  lipgloss.Style
	MatchText    lipgloss.Style
	ErrorText    lipgloss.Style
	HelpText     lipgloss.Style
	Cursor       lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	StatusKey      lipgloss.Style
	StatusValue    lipgloss.Style
	StatusSep      lipgloss.Style
	StatusScrolled lipgloss.Style
	StatusRunning  lipgloss.Style
}

// NewTheme detects the terminal's color profile from stdout. With color
// false every style renders plain text.
func NewTheme(color bool) *Theme {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
	return NewThemeWithProfile(os.Stdout, profile, termenv.HasDarkBackground())
}

// NewThemeWithProfile builds a theme for an explicit profile.
func NewThemeWithProfile(w io.Writer, profile termenv.Profile, isDark bool) *Theme {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	s := t.renderer.NewStyle
	// Ascii still emits SGR attributes, so plain mode drops them too.
	bold := t.HasColor()

	t.PromptBracket = s().Foreground(Magenta)
	t.PromptLogin = s().Foreground(Green)
	t.PromptDir = s().Foreground(Yellow)
	t.PromptSymbol = s().Foreground(Blue).Bold(bold)

	t.HistoryEntry = s().Foreground(Cyan)
	t.ListingLine = s().Foreground(Magenta)
	t.MatchText = s().Foreground(Yellow).Bold(bold)
	t.ErrorText = s().Foreground(Red)
	t.HelpText = s()
	t.Cursor = s().Reverse(bold)

	t.StatusBar = s().Background(SurfaceDim).Foreground(TextPrimary)
	t.StatusKey = s().Background(SurfaceDim).Foreground(TextMuted)
	t.StatusValue = s().Background(SurfaceDim).Foreground(TextPrimary)
	t.StatusSep = s().Background(SurfaceDim).Foreground(Overlay)
	t.StatusScrolled = s().Background(SurfaceDim).Foreground(Amber).Bold(bold)
	t.StatusRunning = s().Background(SurfaceDim).Foreground(Emerald).Bold(bold)
}

// WithColor returns a theme for the same terminal with color switched on or
// off. It never queries the terminal, so it is safe while the UI runs.
func (t *Theme) WithColor(color bool) *Theme {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
	if profile == t.ColorProfile {
		return t
	}
	return NewThemeWithProfile(os.Stdout, profile, t.IsDark)
}

// Renderer returns the theme's Lip Gloss renderer.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// HasColor reports whether styles emit escape sequences.
func (t *Theme) HasColor() bool {
	return t.ColorProfile != termenv.Ascii
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// Prompt renders "[login:cwd] $ ".
func (t *Theme) Prompt(login, cwd, symbol string) string {
	return t.PromptBracket.Render("[") +
		renderLines(t.PromptLogin, login) +
		t.PromptBracket.Render(":") +
		renderLines(t.PromptDir, cwd) +
		t.PromptBracket.Render("]") +
		" " + renderLines(t.PromptSymbol, symbol) + " "
}

// CursorCell renders the input cursor.
func (t *Theme) CursorCell() string {
	if !t.HasColor() {
		return "_"
	}
	return t.Cursor.Render(" ")
}

// History colors a recalled history entry.
func (t *Theme) History(s string) string {
	return renderLines(t.HistoryEntry, s)
}

// Error colors an error line.
func (t *Theme) Error(s string) string {
	return renderLines(t.ErrorText, s)
}

// Match emphasizes a grep match.
func (t *Theme) Match(s string) string {
	return renderLines(t.MatchText, s)
}

// Listing colors a history listing line.
func (t *Theme) Listing(s string) string {
	return renderLines(t.ListingLine, s)
}

// Help colors plain help text.
func (t *Theme) Help(s string) string {
	return renderLines(t.HelpText, s)
}

// renderLines styles each line on its own. Lip Gloss pads multi-line blocks
// to a common width, which would leave trailing spaces in the transcript.
func renderLines(style lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
