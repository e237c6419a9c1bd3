// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// PATH COMPLETER
// =============================================================================

// PathCompleter completes the line from file names on every Tab press.
//
// A line starting with "./" completes against the working directory; any
// other line completes a program name from the directories in $PATH, with
// matches counted across directories. Candidates come in raw directory
// order, unsorted. The first Tab of a run records the line as the prefix;
// each further Tab rescans and takes the next match. When matches run out
// the line is left as it is.
type PathCompleter struct {
	// Getenv looks up PATH; os.Getenv when nil
	Getenv func(key string) string

	// ListDir returns a directory's entry names in listing order;
	// raw readdir order when nil
	ListDir func(dir string) ([]string, error)

	prefix  string
	attempt int
	active  bool
}

// CompletionError reports a directory that could not be listed.
type CompletionError struct {
	Dir string
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Dir, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// NewPathCompleter creates a completer reading the real environment.
func NewPathCompleter() *PathCompleter {
	return &PathCompleter{}
}

// Active reports whether a completion run is in progress.
func (p *PathCompleter) Active() bool {
	return p.active
}

// Prefix returns the line captured by the first Tab of the current run.
func (p *PathCompleter) Prefix() string {
	return p.prefix
}

// Attempt returns the zero-based index of the match the last Tab asked for.
func (p *PathCompleter) Attempt() int {
	return p.attempt
}

// Reset ends the current run. Call it on every key other than Tab.
func (p *PathCompleter) Reset() {
	p.prefix = ""
	p.attempt = 0
	p.active = false
}

// Next handles one Tab press on line. It returns the replacement line and
// true when a match exists for this press.
func (p *PathCompleter) Next(line string) (string, bool, error) {
	if !p.active {
		p.prefix = line
		p.attempt = 0
		p.active = true
	} else {
		p.attempt++
	}

	var found string
	i := 0
	err := p.scan(p.prefix, func(candidate string) bool {
		if i == p.attempt {
			found = candidate
			return false
		}
		i++
		return true
	})
	if err != nil {
		return "", false, err
	}
	if found == "" {
		return "", false, nil
	}
	return found, true, nil
}

// Candidates returns every completion for prefix, in scan order.
func (p *PathCompleter) Candidates(prefix string) ([]string, error) {
	var out []string
	err := p.scan(prefix, func(candidate string) bool {
		out = append(out, candidate)
		return true
	})
	return out, err
}

// scan calls fn with each completed line for prefix until fn returns false.
func (p *PathCompleter) scan(prefix string, fn func(string) bool) error {
	if rest, ok := strings.CutPrefix(prefix, "./"); ok {
		names, err := p.listDir(".")
		if err != nil {
			return &CompletionError{Dir: ".", Err: err}
		}
		for _, name := range names {
			if strings.HasPrefix(name, rest) && !fn("./"+name) {
				return nil
			}
		}
		return nil
	}

	for _, dir := range strings.Split(p.getenv("PATH"), ":") {
		if dir == "" {
			continue
		}
		names, err := p.listDir(dir)
		if err != nil {
			continue
		}
		for _, name := range names {
			if strings.HasPrefix(name, prefix) && !fn(name) {
				return nil
			}
		}
	}
	return nil
}

func (p *PathCompleter) getenv(key string) string {
	if p.Getenv == nil {
		return os.Getenv(key)
	}
	return p.Getenv(key)
}

func (p *PathCompleter) listDir(dir string) ([]string, error) {
	if p.ListDir != nil {
		return p.ListDir(dir)
	}
	return readDirNames(dir)
}

// readDirNames lists dir without sorting; os.ReadDir would sort.
func readDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}
