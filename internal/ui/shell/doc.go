// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package shell provides the full-screen shell UI.

The Model is a Bubble Tea model that owns the terminal: a scrollable
transcript of everything printed, a live prompt row with the line being
edited, and an optional status bar.

# Event Flow

	KeyMsg (printable)   -> append to the line
	KeyMsg (backspace)   -> drop the last rune
	KeyMsg (up/down)     -> browse history
	KeyMsg (tab)         -> path completion
	KeyMsg (enter)       -> push history, dispatch in a tea.Cmd
	MouseMsg (wheel)     -> scroll the transcript
	WindowSizeMsg        -> relayout, jump to the bottom
	InterruptMsg/ctrl+c  -> shutdown

While a command runs the model is in StateRunning and ignores every key
except the interrupt. Command output reaches the model through a Relay: the
command goroutine writes chunks into it and the model drains them one
OutputMsg at a time, so the transcript is only ever touched by the update
loop.
*/
package shell
