// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

// NotBrowsing is the offset of a Browser that is not walking the history.
const NotBrowsing = -1

// Browser walks a Store with the Up/Down keys. It holds only the offset;
// entries are always read back from the store.
type Browser struct {
	store  *Store
	offset int
}

// NewBrowser creates a browser over store, positioned at NotBrowsing.
func NewBrowser(store *Store) *Browser {
	return &Browser{store: store, offset: NotBrowsing}
}

// Offset returns the current browsing offset.
func (b *Browser) Offset() int {
	return b.offset
}

// Browsing reports whether an entry is currently recalled.
func (b *Browser) Browsing() bool {
	return b.offset != NotBrowsing
}

// Reset stops browsing.
func (b *Browser) Reset() {
	b.offset = NotBrowsing
}

// Up moves one entry back in time, stopping at the oldest stored entry.
// ok is false when the store is empty and the key should be ignored.
func (b *Browser) Up() (line string, ok bool) {
	n := b.store.Len()
	if n == 0 {
		return "", false
	}
	if b.offset+1 < n {
		b.offset++
	}
	line, _ = b.store.Get(b.offset)
	return line, true
}

// Down moves one entry forward in time. Leaving the newest entry ends
// browsing and yields an empty line. ok is false when the store is empty.
func (b *Browser) Down() (line string, ok bool) {
	if b.store.Len() == 0 {
		return "", false
	}
	if b.offset != NotBrowsing {
		b.offset--
	}
	if b.offset == NotBrowsing {
		return "", true
	}
	line, _ = b.store.Get(b.offset)
	return line, true
}
