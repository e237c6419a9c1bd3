// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchFile is returned when a source path does not exist.
	ErrNoSuchFile = errors.New("no such file")

	// ErrIsDirectory is returned when a directory is copied without -R.
	ErrIsDirectory = errors.New("is a directory (use -R)")
)

// PathError records a failed file operation on one path.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// PatternError reports a grep pattern that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("grep: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
