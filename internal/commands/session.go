// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"io"
	"os"

	"github.com/jeranaias/rigsh/internal/history"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Runner starts an external program and relays its output to out, blocking
// until the program closes its output.
type Runner interface {
	Run(ctx context.Context, name string, args []string, out io.Writer) error
}

// Styler decorates built-in output. Implementations may only add terminal
// escape sequences around the text.
type Styler interface {
	// Match emphasizes a grep match
	Match(s string) string
	// Listing colors a history listing line
	Listing(s string) string
	// Help colors the plain help text
	Help(s string) string
}

// PlainStyler returns text untouched.
type PlainStyler struct{}

func (PlainStyler) Match(s string) string   { return s }
func (PlainStyler) Listing(s string) string { return s }
func (PlainStyler) Help(s string) string    { return s }

// =============================================================================
// SESSION
// =============================================================================

// Session carries the shell state that built-in handlers read and mutate.
// One Session lives for the whole run of the shell.
//
// All optional fields may be left nil.
type Session struct {
	// Out receives all command output
	Out io.Writer

	// History is the session's command ring
	History *history.Store

	// Style decorates output (optional)
	Style Styler

	// RenderMarkdown turns the help markdown into terminal text (optional)
	RenderMarkdown func(md string) string

	// Getenv looks up environment variables; os.Getenv when nil
	Getenv func(key string) string

	// PreviousDir is the directory the last cd started from
	PreviousDir string
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, store *history.Store) *Session {
	return &Session{
		Out:     out,
		History: store,
		Style:   PlainStyler{},
		Getenv:  os.Getenv,
	}
}

func (s *Session) style() Styler {
	if s.Style == nil {
		return PlainStyler{}
	}
	return s.Style
}

func (s *Session) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}
