// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import "strings"

// DefaultScrollStep is the number of rows one wheel tick moves.
const DefaultScrollStep = 3

// =============================================================================
// SCROLL ARITHMETIC
// =============================================================================

// maxScroll returns the largest top-row offset for total rows shown through
// a window of visible rows: the offset at which the last row sits on the
// bottom line of the window.
func maxScroll(total, visible int) int {
	lastRow := total - 1
	if m := lastRow - visible + 1; m > 0 {
		return m
	}
	return 0
}

// clampScroll keeps offset inside [0, maxScroll(total, visible)].
func clampScroll(offset, total, visible int) int {
	if offset < 0 {
		return 0
	}
	if m := maxScroll(total, visible); offset > m {
		return m
	}
	return offset
}

// =============================================================================
// MODEL SCROLLING
// =============================================================================

// visibleRows is the transcript window height.
func (m *Model) visibleRows() int {
	h := m.height
	if m.statusBar {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// atBottom reports whether the window is scrolled all the way down.
func (m *Model) atBottom() bool {
	return m.scroll >= maxScroll(len(m.rows), m.visibleRows())
}

// scrollBy moves the window by delta rows, clamped.
func (m *Model) scrollBy(delta int) {
	m.scroll += delta
	m.refresh(false)
}

// refresh rebuilds the rows from the transcript and the live line and hands
// them to the viewport. When follow is set the window jumps to the bottom;
// otherwise the current offset is re-clamped. The cursor is drawn only while
// the live row is in view and the shell is waiting for input.
func (m *Model) refresh(follow bool) {
	m.rows = m.transcript.Rows(m.liveLine(true))
	if follow {
		m.scroll = maxScroll(len(m.rows), m.visibleRows())
	} else {
		m.scroll = clampScroll(m.scroll, len(m.rows), m.visibleRows())
	}

	m.cursorVisible = m.state == StateReady && m.atBottom()
	if !m.cursorVisible {
		m.rows = m.transcript.Rows(m.liveLine(false))
	}
	m.viewport.SetContent(strings.Join(m.rows, "\n"))
	m.viewport.SetYOffset(m.scroll)
}
