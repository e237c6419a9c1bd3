// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// MaxDetailLength is the longest detail field written before truncation.
const MaxDetailLength = 200

// DefaultMaxFileSize is the size that triggers rotation (10MB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Event types.
const (
	EventStartup      = "STARTUP"
	EventCommand      = "COMMAND"
	EventExecFailed   = "EXEC_FAILED"
	EventParseError   = "PARSE_ERROR"
	EventConfigReload = "CONFIG_RELOAD"
	EventShutdown     = "SHUTDOWN"
)

// =============================================================================
// EVENT
// =============================================================================

// Event is a single log entry.
type Event struct {
	Timestamp time.Time
	Type      string
	SessionID string
	Detail    string
	Success   bool
	Error     string
	Metadata  map[string]string
}

// ToLogLine formats the event as one line.
func (e *Event) ToLogLine() string {
	detail := e.Detail
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+e.Metadata[k])
		}
		if detail != "" {
			detail += " "
		}
		detail += strings.Join(pairs, " ")
	}

	status := "SUCCESS"
	if !e.Success {
		if e.Error != "" {
			status = "ERROR: " + e.Error
		} else {
			status = "FAILURE"
		}
	}

	return fmt.Sprintf("%s | %s | %s | %s | %s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		e.Type,
		e.SessionID,
		detail,
		status,
	)
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger appends events to a file. It is safe for concurrent use.
type Logger struct {
	path      string
	file      *os.File
	mu        sync.Mutex
	enabled   bool
	maxSize   int64
	sessionID string
	redactors []Redactor
}

// NewLogger opens (or creates) the log at path. maxSize <= 0 disables
// rotation.
func NewLogger(path string, maxSize int64) (*Logger, error) {
	if path == "" {
		path = DefaultLogPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		path:      path,
		file:      file,
		enabled:   true,
		maxSize:   maxSize,
		sessionID: uuid.NewString(),
		redactors: defaultRedactors(),
	}, nil
}

// Discard returns a disabled logger that writes nothing.
func Discard() *Logger {
	return &Logger{sessionID: uuid.NewString()}
}

// SessionID identifies this run of the shell in every line.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Log writes one event. Fields are redacted before they reach the file.
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.file == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}
	event.Detail = truncateDetail(l.redactLocked(event.Detail), MaxDetailLength)
	event.Error = l.redactLocked(event.Error)
	if event.Metadata != nil {
		redacted := make(map[string]string, len(event.Metadata))
		for k, v := range event.Metadata {
			redacted[k] = l.redactLocked(v)
		}
		event.Metadata = redacted
	}

	if err := l.checkRotationLocked(); err != nil {
		fmt.Fprintf(os.Stderr, "[rigsh] log rotation failed: %v\n", err)
	}

	if _, err := fmt.Fprintln(l.file, event.ToLogLine()); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// Write lets the logger back the standard library log package. Each call is
// redacted and appended as-is.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || l.file == nil {
		return len(p), nil
	}
	if err := l.checkRotationLocked(); err != nil {
		fmt.Fprintf(os.Stderr, "[rigsh] log rotation failed: %v\n", err)
	}
	if _, err := l.file.WriteString(l.redactLocked(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// =============================================================================
// CONVENIENCE METHODS
// =============================================================================

// LogEvent logs a successful event with optional metadata.
func (l *Logger) LogEvent(eventType, detail string, metadata map[string]string) error {
	return l.Log(Event{
		Type:     eventType,
		Detail:   detail,
		Success:  true,
		Metadata: metadata,
	})
}

// LogStartup records shell startup.
func (l *Logger) LogStartup(metadata map[string]string) error {
	return l.LogEvent(EventStartup, "", metadata)
}

// LogShutdown records shell shutdown.
func (l *Logger) LogShutdown(reason string) error {
	return l.LogEvent(EventShutdown, "", map[string]string{"reason": reason})
}

// LogCommand records a dispatched command. Only the name and argument count
// are kept; arguments may carry secrets or personal paths.
func (l *Logger) LogCommand(name string, argc int, builtin bool, err error) error {
	kind := "external"
	if builtin {
		kind = "builtin"
	}
	event := Event{
		Type:    EventCommand,
		Success: err == nil,
		Metadata: map[string]string{
			"name": name,
			"argc": fmt.Sprintf("%d", argc),
			"kind": kind,
		},
	}
	if err != nil {
		event.Error = err.Error()
	}
	return l.Log(event)
}

// LogParseError records a line the tokenizer rejected.
func (l *Logger) LogParseError(err error) error {
	return l.Log(Event{Type: EventParseError, Error: err.Error()})
}

// LogConfigReload records a live config reload attempt.
func (l *Logger) LogConfigReload(path string, err error) error {
	event := Event{Type: EventConfigReload, Detail: path, Success: err == nil}
	if err != nil {
		event.Error = err.Error()
	}
	return l.Log(event)
}

// =============================================================================
// REDACTION
// =============================================================================

// Redact applies all redactors to input.
func (l *Logger) Redact(input string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.redactLocked(input)
}

func (l *Logger) redactLocked(input string) string {
	result := input
	for _, r := range l.redactors {
		result = r.Redact(result)
	}
	return result
}

// AddRedactor adds a custom redactor.
func (l *Logger) AddRedactor(r Redactor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redactors = append(l.redactors, r)
}

// =============================================================================
// FILE ROTATION
// =============================================================================

// Rotate moves the current file aside with a timestamp suffix and reopens.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rotateLocked()
}

func (l *Logger) rotateLocked() error {
	if l.file == nil {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close log for rotation: %w", err)
	}

	ext := filepath.Ext(l.path)
	base := strings.TrimSuffix(l.path, ext)
	rotatedPath := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405.000000"), ext)

	if err := os.Rename(l.path, rotatedPath); err != nil {
		l.file, _ = os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		return fmt.Errorf("failed to rotate log: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		l.file = nil
		return fmt.Errorf("failed to reopen log after rotation: %w", err)
	}
	l.file = file
	return nil
}

func (l *Logger) checkRotationLocked() error {
	if l.maxSize <= 0 || l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return nil
	}
	if info.Size() >= l.maxSize {
		return l.rotateLocked()
	}
	return nil
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetEnabled turns logging on or off.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// IsEnabled reports whether events are written.
func (l *Logger) IsEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled && l.file != nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the file. Later events are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	syncErr := l.file.Sync()
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return err
	}
	return syncErr
}

// =============================================================================
// HELPERS
// =============================================================================

// DefaultLogPath returns ~/.rigsh/rigsh.log.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rigsh", "rigsh.log")
}

func truncateDetail(detail string, maxLen int) string {
	cleaned := strings.Join(strings.Fields(detail), " ")
	runes := []rune(cleaned)
	if len(runes) <= maxLen {
		return cleaned
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}
