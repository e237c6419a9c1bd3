// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Interrupt) {
		return m.shutdown("interrupt")
	}

	// No input is acted on while a command executes.
	if m.state != StateReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Complete):
		m.complete()
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		m.completer.Reset()
		if line, ok := m.browser.Up(); ok {
			m.recall(line)
		}
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.completer.Reset()
		if line, ok := m.browser.Down(); ok {
			m.recall(line)
		}
		m.refresh(true)
		return m, nil
	}

	// Every key past this point ends completion and history browsing.
	m.completer.Reset()
	m.browser.Reset()

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Backspace):
		if n := len(m.line); n > 0 {
			m.line = m.line[:n-1]
			if m.recalled > len(m.line) {
				m.recalled = len(m.line)
			}
		}
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.visibleRows())
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.visibleRows())
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.insert(msg.Runes)
		m.refresh(true)
	}
	return m, nil
}

// insert types runes at the end of the line. Control characters, including
// newlines from a paste, are dropped.
func (m *Model) insert(runes []rune) {
	for _, r := range runes {
		if r < 0x20 || r == 0x7f {
			continue
		}
		m.line = append(m.line, r)
	}
}

// recall replaces the line with a history entry, or clears it.
func (m *Model) recall(line string) {
	m.line = []rune(line)
	m.recalled = len(m.line)
}

// complete handles one Tab press.
func (m *Model) complete() {
	found, ok, err := m.completer.Next(string(m.line))
	if err != nil {
		m.completer.Reset()
		m.transcript.WriteString(m.prompt() + string(m.line) + "\n")
		m.printError(err.Error())
		return
	}
	if ok {
		m.line = []rune(found)
		m.recalled = 0
	}
}

// submit handles Enter: the line is echoed into the transcript, pushed to
// history and dispatched in the background.
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := string(m.line)
	m.transcript.WriteString(m.prompt() + m.renderLine() + "\n")
	m.line = nil
	m.recalled = 0

	line := strings.TrimRight(raw, " ")
	if line == "" {
		m.refresh(true)
		return m, nil
	}
	m.history.Push(line)

	name, _, _ := strings.Cut(line, " ")
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = name
	m.state = StateRunning
	m.refresh(true)

	return m, tea.Batch(m.runCmd(ctx, line), m.relay.Wait())
}

// runCmd dispatches line off the update loop. Its result travels through
// the relay behind the command's output, so the command itself returns no
// message.
func (m Model) runCmd(ctx context.Context, line string) tea.Cmd {
	dispatcher, session, relay := m.dispatcher, m.session, m.relay
	return func() tea.Msg {
		outcome, err := dispatcher.Dispatch(ctx, session, line)
		relay.Finish(CommandDoneMsg{Line: line, Outcome: outcome, Err: err})
		return nil
	}
}
