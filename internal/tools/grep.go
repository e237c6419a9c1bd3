// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// MaxMatchesPerLine caps how many spans of one line are emphasized.
const MaxMatchesPerLine = 10

// =============================================================================
// GREP
// =============================================================================

// Grep prints the lines of one file that match a pattern.
type Grep struct {
	// IgnoreCase makes the pattern case insensitive (-i)
	IgnoreCase bool

	// Highlight decorates a matched span; spans are written as-is when nil
	Highlight func(string) string

	// Out receives matching lines
	Out io.Writer
}

// GrepStats summarizes a search.
type GrepStats struct {
	Lines   int
	Matched int
}

// Compile builds the regular expression for pattern. Patterns use RE2
// syntax, which covers POSIX extended expressions.
func (g *Grep) Compile(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if g.IgnoreCase && !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Search writes every line of path that matches pattern to Out, with each
// match passed through Highlight, followed by a final newline.
// Non-matching lines are not printed.
func (g *Grep) Search(ctx context.Context, pattern, path string) (GrepStats, error) {
	var stats GrepStats

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, &PathError{Op: "grep", Path: path, Err: ErrNoSuchFile}
		}
		return stats, &PathError{Op: "grep", Path: path, Err: err}
	}
	defer file.Close()

	re, err := g.Compile(pattern)
	if err != nil {
		return stats, err
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, readErr := reader.ReadString('\n')
		if line != "" {
			stats.Lines++
			if out, ok := g.render(re, line); ok {
				stats.Matched++
				if _, err := io.WriteString(g.Out, out); err != nil {
					return stats, err
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return stats, &PathError{Op: "grep", Path: path, Err: readErr}
		}
	}

	_, err = io.WriteString(g.Out, "\n")
	return stats, err
}

// render returns line with its matches emphasized. ok is false when the line
// has no non-empty match.
func (g *Grep) render(re *regexp.Regexp, line string) (string, bool) {
	locs := re.FindAllStringIndex(line, MaxMatchesPerLine)
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		b.WriteString(line[prev:loc[0]])
		b.WriteString(g.highlight(line[loc[0]:loc[1]]))
		prev = loc[1]
	}
	if prev == 0 {
		return "", false
	}
	b.WriteString(line[prev:])
	return b.String(), true
}

func (g *Grep) highlight(s string) string {
	if g.Highlight == nil {
		return s
	}
	return g.Highlight(s)
}
