// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"log"
	"sync"
)

// =============================================================================
// GLOBAL LOGGER
// =============================================================================

var (
	globalLogger   *Logger
	globalLoggerMu sync.Mutex
)

// Global returns the process-wide logger, a discarding one until Init runs.
func Global() *Logger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = Discard()
	}
	return globalLogger
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(logger *Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = logger
}

// Init opens the log at path and installs it as the global logger. When
// enabled is false a discarding logger is installed and no file is touched.
func Init(path string, enabled bool, maxSize int64) (*Logger, error) {
	if !enabled {
		l := Discard()
		SetGlobal(l)
		return l, nil
	}
	l, err := NewLogger(path, maxSize)
	if err != nil {
		return nil, err
	}
	SetGlobal(l)
	return l, nil
}

// RedirectStdLog sends the standard library logger to l, so log.Printf calls
// made while the UI owns the terminal land in the log file.
func RedirectStdLog(l *Logger) {
	log.SetOutput(l)
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("")
}
