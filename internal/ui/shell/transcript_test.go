// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_ChunkedWrites(t *testing.T) {
	tr := NewTranscript(0)

	tr.WriteString("hel")
	tr.WriteString("lo\nwor")
	assert.Equal(t, []string{"hello"}, tr.Lines())
	assert.Equal(t, "wor", tr.Partial())

	tr.WriteString("ld\r\n\n")
	assert.Equal(t, []string{"hello", "world", ""}, tr.Lines())
	assert.Empty(t, tr.Partial())
}

func TestTranscript_RowsEndWithLiveRow(t *testing.T) {
	tr := NewTranscript(0)
	tr.WriteString("one\ntwo\nabc")

	rows := tr.Rows("$ ")
	assert.Equal(t, []string{"one", "two", "abc$ "}, rows)

	tr.Clear()
	assert.Equal(t, []string{"$ "}, tr.Rows("$ "))
}

func TestTranscript_Wrap(t *testing.T) {
	tr := NewTranscript(0)
	tr.SetWidth(4)
	tr.WriteString("abcdefghij\n")

	assert.Equal(t, []string{"abcd", "efgh", "ij", ""}, tr.Rows(""))

	tr.SetWidth(5)
	assert.Equal(t, []string{"abcde", "fghij", ""}, tr.Rows(""))
}

func TestTranscript_WrapIgnoresEscapes(t *testing.T) {
	tr := NewTranscript(0)
	tr.SetWidth(3)
	tr.WriteString("\x1b[33mabc\x1b[0m\n")

	rows := tr.Rows("")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "abc")
}

func TestTranscript_Cap(t *testing.T) {
	tr := NewTranscript(3)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(tr, "line %d\n", i)
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, tr.Lines())

	tr.SetMaxLines(1)
	assert.Equal(t, []string{"line 4"}, tr.Lines())
	assert.Equal(t, 1, tr.Len())
}

func TestTranscript_LargeWrite(t *testing.T) {
	tr := NewTranscript(DefaultMaxLines)
	tr.WriteString(strings.Repeat("x\n", DefaultMaxLines*2))
	assert.Equal(t, DefaultMaxLines, tr.Len())
}
