// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// =============================================================================
// INVOCATION
// =============================================================================

// Invocation is one tokenized command line.
type Invocation struct {
	// Name is the first field with quotes removed
	Name string

	// Args are the space-separated arguments with quotes removed
	Args []string
}

// =============================================================================
// TOKENIZER
// =============================================================================

// Tokenize splits a submitted line into a command name and its arguments.
//
// The line is split on spaces. Single and double quotes each toggle a
// quoted run: inside either run spaces are kept, a quote of the other kind
// is literal, and the toggling quote characters are dropped. Every space
// separates, so "a  b" yields an empty argument between a and b. There is no
// escape character. The first field is the name; a line with one field has
// no arguments.
//
// A line ending inside a quoted run returns a *ParseError, wherever the run
// was opened.
func Tokenize(line string) (Invocation, error) {
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool
	fields := make([]string, 0, strings.Count(line, " ")+1)

	for _, char := range line {
		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote

		case char == ' ' && !inSingleQuote && !inDoubleQuote:
			fields = append(fields, current.String())
			current.Reset()

		default:
			current.WriteRune(char)
		}
	}

	if inSingleQuote {
		return Invocation{}, &ParseError{Quote: '\''}
	}
	if inDoubleQuote {
		return Invocation{}, &ParseError{Quote: '"'}
	}
	fields = append(fields, current.String())

	inv := Invocation{Name: fields[0]}
	if len(fields) > 1 {
		inv.Args = fields[1:]
	}
	return inv, nil
}

// =============================================================================
// PARSE ERROR
// =============================================================================

// ParseError reports a line that ended inside a quoted run.
type ParseError struct {
	// Quote is the quote character left open: '\'' or '"'
	Quote rune
}

func (e *ParseError) Error() string {
	return "missing closing " + string(e.Quote) + " at end of command"
}

// QuoteKind names the open quote for logs.
func (e *ParseError) QuoteKind() string {
	if e.Quote == '"' {
		return "double"
	}
	return "single"
}
