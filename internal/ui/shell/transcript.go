// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"

	"github.com/muesli/reflow/wrap"
)

// DefaultMaxLines is the scrollback kept when no limit is configured.
const DefaultMaxLines = 1000

// Transcript is the append-only text of the session.
//
// Output arrives in arbitrary chunks. Complete lines are committed; a
// trailing piece without a newline stays open until more output arrives.
// Committed lines are hard-wrapped to the terminal width once and cached.
type Transcript struct {
	lines   []string
	wrapped [][]string
	partial strings.Builder

	width    int
	maxLines int
}

// NewTranscript creates a transcript keeping at most maxLines lines.
func NewTranscript(maxLines int) *Transcript {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Transcript{maxLines: maxLines}
}

// Write appends output. It never fails.
func (t *Transcript) Write(p []byte) (int, error) {
	t.WriteString(string(p))
	return len(p), nil
}

// WriteString appends output.
func (t *Transcript) WriteString(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			t.partial.WriteString(s)
			break
		}
		t.partial.WriteString(s[:i])
		t.commit(t.partial.String())
		t.partial.Reset()
		s = s[i+1:]
	}
	t.trim()
}

// Partial returns the unterminated tail of the output.
func (t *Transcript) Partial() string {
	return t.partial.String()
}

// Len returns the number of committed lines.
func (t *Transcript) Len() int {
	return len(t.lines)
}

// Lines returns a copy of the committed lines.
func (t *Transcript) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Clear erases everything.
func (t *Transcript) Clear() {
	t.lines = nil
	t.wrapped = nil
	t.partial.Reset()
}

// SetWidth rewraps the transcript for a new terminal width.
func (t *Transcript) SetWidth(width int) {
	if width == t.width {
		return
	}
	t.width = width
	for i, line := range t.lines {
		t.wrapped[i] = wrapLine(line, width)
	}
}

// SetMaxLines changes the scrollback limit.
func (t *Transcript) SetMaxLines(n int) {
	if n <= 0 {
		n = DefaultMaxLines
	}
	t.maxLines = n
	t.trim()
}

// Rows returns the screen rows of the transcript followed by live, the
// text that continues the open partial line (normally the prompt and the
// line being edited). The live row is always last.
func (t *Transcript) Rows(live string) []string {
	n := 0
	for _, w := range t.wrapped {
		n += len(w)
	}
	rows := make([]string, 0, n+1)
	for _, w := range t.wrapped {
		rows = append(rows, w...)
	}
	return append(rows, wrapLine(t.partial.String()+live, t.width)...)
}

func (t *Transcript) commit(line string) {
	t.lines = append(t.lines, line)
	t.wrapped = append(t.wrapped, wrapLine(line, t.width))
}

func (t *Transcript) trim() {
	if over := len(t.lines) - t.maxLines; over > 0 {
		t.lines = append(t.lines[:0:0], t.lines[over:]...)
		t.wrapped = append(t.wrapped[:0:0], t.wrapped[over:]...)
	}
}

// wrapLine hard-wraps one line. Escape sequences do not count towards the
// width. A line always yields at least one row.
func wrapLine(line string, width int) []string {
	if width <= 0 || line == "" {
		return []string{line}
	}
	line = strings.ReplaceAll(line, "\t", "    ")
	return strings.Split(wrap.String(line, width), "\n")
}
