// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brackets(s string) string { return "[" + s + "]" }

func TestGrep_Search(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	writeFile(t, path, "Foo bar\nnothing here\nfoo and foo\n", 0644)

	tests := []struct {
		name       string
		pattern    string
		ignoreCase bool
		want       string
		matched    int
	}{
		{
			name:    "case sensitive",
			pattern: "foo",
			want:    "[foo] and [foo]\n\n",
			matched: 1,
		},
		{
			name:       "case insensitive",
			pattern:    "foo",
			ignoreCase: true,
			want:       "[Foo] bar\n[foo] and [foo]\n\n",
			matched:    2,
		},
		{
			name:    "extended syntax",
			pattern: "(bar|here)$",
			want:    "Foo [bar]\nnothing [here]\n\n",
			matched: 2,
		},
		{
			name:    "no match",
			pattern: "zzz",
			want:    "\n",
		},
		{
			name:    "empty matches are not lines",
			pattern: "x*",
			want:    "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			g := &Grep{IgnoreCase: tt.ignoreCase, Highlight: brackets, Out: &out}
			stats, err := g.Search(context.Background(), tt.pattern, path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, tt.matched, stats.Matched)
			assert.Equal(t, 3, stats.Lines)
		})
	}
}

func TestGrep_LastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "alpha\nbeta", 0644)

	var out bytes.Buffer
	g := &Grep{Out: &out}
	_, err := g.Search(context.Background(), "beta", path)
	require.NoError(t, err)
	assert.Equal(t, "beta\n", out.String())
}

func TestGrep_MissingFile(t *testing.T) {
	var out bytes.Buffer
	g := &Grep{Out: &out}
	_, err := g.Search(context.Background(), "x", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuchFile))
	assert.Empty(t, out.String())
}

func TestGrep_InvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "text\n", 0644)

	var out bytes.Buffer
	g := &Grep{Out: &out}
	_, err := g.Search(context.Background(), "(unclosed", path)

	var pe *PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "(unclosed", pe.Pattern)
	assert.Empty(t, out.String())
}

func TestGrep_CapsMatchesPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "aaaaaaaaaaaa\n", 0644)

	var out bytes.Buffer
	g := &Grep{Highlight: brackets, Out: &out}
	_, err := g.Search(context.Background(), "a", path)
	require.NoError(t, err)
	assert.Equal(t, "[a][a][a][a][a][a][a][a][a][a]aa\n\n", out.String())
}
