// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/rigsh/internal/tools"
)

var (
	// ErrHomeUnset is returned by "cd ~" when $HOME is empty.
	ErrHomeUnset = errors.New("HOME is not set")

	// ErrNoPreviousDir is returned by "cd -" before any cd.
	ErrNoPreviousDir = errors.New("no previous directory")
)

// =============================================================================
// NAVIGATION
// =============================================================================

func handleCd(ctx context.Context, s *Session, args Args) (Action, error) {
	return ActionNone, s.ChangeDir(args.Values[0])
}

// ChangeDir moves the process to target. "~" and "~/..." resolve against
// $HOME and "-" returns to the directory of the previous call. The
// previous directory is recorded before the move, even when it fails.
func (s *Session) ChangeDir(target string) error {
	switch {
	case target == "~" || strings.HasPrefix(target, "~/"):
		home := s.getenv("HOME")
		if home == "" {
			return &tools.PathError{Op: "cd", Path: target, Err: ErrHomeUnset}
		}
		target = filepath.Join(home, strings.TrimPrefix(target, "~"))
	case target == "-":
		if s.PreviousDir == "" {
			return &tools.PathError{Op: "cd", Path: target, Err: ErrNoPreviousDir}
		}
		target = s.PreviousDir
	}

	// A deleted working directory must not trap the user.
	if cwd, err := os.Getwd(); err == nil {
		s.PreviousDir = cwd
	}

	if err := os.Chdir(target); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return &tools.PathError{Op: "cd", Path: target, Err: err}
	}
	return nil
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func handleExit(ctx context.Context, s *Session, args Args) (Action, error) {
	return ActionExit, nil
}

func handleClear(ctx context.Context, s *Session, args Args) (Action, error) {
	return ActionClear, nil
}

func handleHistory(ctx context.Context, s *Session, args Args) (Action, error) {
	if s.History == nil {
		return ActionNone, nil
	}
	for i, entry := range s.History.List() {
		fmt.Fprintln(s.Out, s.style().Listing(fmt.Sprintf("#%d %s", i+1, entry)))
	}
	return ActionNone, nil
}

func handleEcho(ctx context.Context, s *Session, args Args) (Action, error) {
	var b strings.Builder
	for _, v := range args.Values {
		b.WriteString(v)
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	_, err := fmt.Fprint(s.Out, b.String())
	return ActionNone, err
}

// =============================================================================
// FILE COMMANDS
// =============================================================================

func handleCp(ctx context.Context, s *Session, args Args) (Action, error) {
	c := &tools.Copier{
		Recursive: args.Has("-R"),
		Overwrite: args.Has("-O"),
		Out:       s.Out,
	}
	stats, err := c.Copy(ctx, args.Values[0], args.Values[1])
	if err != nil {
		return ActionNone, err
	}
	log.Printf("CP | copied=%d skipped=%d failed=%d", stats.Copied, stats.Skipped, stats.Failed)
	if stats.Skipped > 0 {
		fmt.Fprintf(s.Out, "cp: %d existing %s skipped (use -O to overwrite)\n", stats.Skipped, plural(stats.Skipped, "file", "files"))
	}
	if stats.Failed > 0 {
		fmt.Fprintf(s.Out, "cp: %d %s failed\n", stats.Failed, plural(stats.Failed, "entry", "entries"))
	}
	return ActionNone, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func handleGrep(ctx context.Context, s *Session, args Args) (Action, error) {
	g := &tools.Grep{
		IgnoreCase: args.Has("-i"),
		Highlight:  s.style().Match,
		Out:        s.Out,
	}
	stats, err := g.Search(ctx, args.Values[0], args.Values[1])
	if err != nil {
		return ActionNone, err
	}
	log.Printf("GREP | lines=%d matched=%d", stats.Lines, stats.Matched)
	return ActionNone, nil
}
