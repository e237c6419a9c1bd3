// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigsh/internal/util"
)

const statusSep = " │ "

// View renders the model.
func (m Model) View() string {
	if m.state == StateQuitting {
		return ""
	}
	if !m.statusBar {
		return m.viewport.View()
	}
	return m.viewport.View() + "\n" + m.renderStatusBar()
}

// =============================================================================
// PROMPT ROW
// =============================================================================

// prompt renders "[login:cwd] $ ".
func (m *Model) prompt() string {
	return m.theme.Prompt(m.login, m.displayCwd(), m.promptSymbol)
}

// renderLine colors the recalled part of the line in the history color and
// leaves typed text plain.
func (m *Model) renderLine() string {
	if m.recalled == 0 {
		return string(m.line)
	}
	return m.theme.History(string(m.line[:m.recalled])) + string(m.line[m.recalled:])
}

// liveLine is what follows the transcript's open line: the prompt and the
// line being edited while idle, nothing while a command runs.
func (m *Model) liveLine(cursor bool) string {
	if m.state != StateReady {
		return ""
	}
	tail := " "
	if cursor {
		tail = m.theme.CursorCell()
	}
	return m.prompt() + m.renderLine() + tail
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	t := m.theme
	sep := t.StatusSep.Render(statusSep)

	items := []string{
		t.StatusKey.Render(" rigsh"),
		t.StatusValue.Render(m.login + ":" + util.TruncateLeft(m.displayCwd(), m.width/3)),
		t.StatusKey.Render("hist ") + t.StatusValue.Render(fmt.Sprintf("%d/%d", m.history.Len(), m.history.Capacity())),
	}
	if !m.atBottom() {
		items = append(items, t.StatusScrolled.Render("-- scrolled --"))
	}
	if m.running != "" {
		items = append(items, t.StatusRunning.Render("running: "+m.running))
	}

	bar := strings.Join(items, sep)
	if w := lipgloss.Width(bar); w < m.width {
		bar += t.StatusBar.Render(strings.Repeat(" ", m.width-w))
	} else if w > m.width {
		bar = t.StatusBar.Render(util.TruncateWidth(m.statusPlain(), m.width))
	}
	return bar
}

// statusPlain is the status text without styling, used when it has to be
// cut to fit.
func (m Model) statusPlain() string {
	items := []string{
		" rigsh",
		m.login + ":" + m.displayCwd(),
		fmt.Sprintf("hist %d/%d", m.history.Len(), m.history.Capacity()),
	}
	if !m.atBottom() {
		items = append(items, "-- scrolled --")
	}
	if m.running != "" {
		items = append(items, "running: "+m.running)
	}
	return strings.Join(items, statusSep)
}
