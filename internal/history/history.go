// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps the submitted command lines of one shell session in
// a fixed-capacity ring. Entries live in memory only and are dropped when the
// session ends.
package history

import (
	"strings"
	"sync"
)

// DefaultCapacity is the ring size used when none is configured.
const DefaultCapacity = 10

// =============================================================================
// STORE
// =============================================================================

// Store is a ring of the most recent command lines.
//
// Slots are written in order 0..cap-1 and then wrap. current points at the
// slot holding the newest entry (-1 while empty). full turns true the first
// time the ring wraps and never turns false again.
type Store struct {
	mu      sync.RWMutex
	entries []string
	current int
	full    bool
}

// NewStore creates an empty store. A non-positive capacity falls back to
// DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		entries: make([]string, capacity),
		current: -1,
	}
}

// PhysicalIndex maps a browsing offset (0 = newest) to a slot index in a ring
// of the given capacity whose newest entry sits at head.
func PhysicalIndex(head, offset, capacity int) int {
	i := (head - offset) % capacity
	if i < 0 {
		i += capacity
	}
	return i
}

// Push stores line as the newest entry. Trailing spaces are trimmed and empty
// lines are ignored. Duplicates are kept. Once the ring is full the oldest
// entry is overwritten. Reports whether an entry was stored.
func (s *Store) Push(line string) bool {
	line = strings.TrimRight(line, " ")
	if line == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == len(s.entries)-1 {
		s.current = 0
		s.full = true
	} else {
		s.current++
	}
	s.entries[s.current] = line
	return true
}

// Get returns the entry offset steps back from the newest one. ok is false
// when offset does not name a stored entry.
func (s *Store) Get(offset int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || offset >= s.lenLocked() {
		return "", false
	}
	return s.entries[PhysicalIndex(s.current, offset, len(s.entries))], true
}

// List returns all entries, newest first.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.lenLocked()
	out := make([]string, 0, n)
	for offset := 0; offset < n; offset++ {
		out = append(out, s.entries[PhysicalIndex(s.current, offset, len(s.entries))])
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lenLocked()
}

func (s *Store) lenLocked() int {
	if s.full {
		return len(s.entries)
	}
	return s.current + 1
}

// Capacity returns the ring size.
func (s *Store) Capacity() int {
	return len(s.entries)
}

// CurrentIndex returns the slot of the newest entry, or -1 when empty.
func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsFull reports whether the ring has wrapped at least once.
func (s *Store) IsFull() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.full
}

// Release drops every entry. The store is empty afterwards but keeps its
// capacity.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		s.entries[i] = ""
	}
	s.current = -1
	s.full = false
}
