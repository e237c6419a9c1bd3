// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicalIndex(t *testing.T) {
	tests := []struct {
		head, offset, capacity int
		want                   int
	}{
		{0, 0, 10, 0},
		{5, 2, 10, 3},
		{0, 1, 10, 9},
		{2, 9, 10, 3},
		{9, 9, 10, 0},
		{0, 0, 1, 0},
	}
	for _, tt := range tests {
		got := PhysicalIndex(tt.head, tt.offset, tt.capacity)
		assert.Equal(t, tt.want, got, "PhysicalIndex(%d, %d, %d)", tt.head, tt.offset, tt.capacity)
	}
}

func TestStore_Empty(t *testing.T) {
	s := NewStore(10)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, -1, s.CurrentIndex())
	assert.False(t, s.IsFull())
	assert.Empty(t, s.List())

	_, ok := s.Get(0)
	assert.False(t, ok)
}

func TestStore_PushTrimsAndSkipsEmpty(t *testing.T) {
	s := NewStore(10)

	assert.False(t, s.Push(""))
	assert.False(t, s.Push("   "))
	assert.True(t, s.Push("ls -l   "))

	got, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, "ls -l", got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_KeepsDuplicates(t *testing.T) {
	s := NewStore(10)
	s.Push("ls")
	s.Push("ls")

	assert.Equal(t, []string{"ls", "ls"}, s.List())
}

func TestStore_WrapEvictsOldest(t *testing.T) {
	s := NewStore(10)
	for i := 1; i <= 10; i++ {
		s.Push(fmt.Sprintf("cmd%d", i))
	}
	assert.False(t, s.IsFull(), "ring has not wrapped after exactly C entries")
	assert.Equal(t, 9, s.CurrentIndex())
	assert.Equal(t, 10, s.Len())

	s.Push("cmd11")
	assert.True(t, s.IsFull())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 10, s.Len())

	list := s.List()
	require.Len(t, list, 10)
	assert.Equal(t, "cmd11", list[0])
	assert.Equal(t, "cmd2", list[9])
	assert.NotContains(t, list, "cmd1")

	for i := 12; i <= 25; i++ {
		s.Push(fmt.Sprintf("cmd%d", i))
	}
	assert.True(t, s.IsFull())
	list = s.List()
	assert.Equal(t, "cmd25", list[0])
	assert.Equal(t, "cmd16", list[9])
}

func TestStore_GetOffsetBounds(t *testing.T) {
	s := NewStore(3)
	s.Push("a")
	s.Push("b")

	tests := []struct {
		offset int
		want   string
		ok     bool
	}{
		{-1, "", false},
		{0, "b", true},
		{1, "a", true},
		{2, "", false},
		{3, "", false},
	}
	for _, tt := range tests {
		got, ok := s.Get(tt.offset)
		assert.Equal(t, tt.ok, ok, "Get(%d) ok", tt.offset)
		assert.Equal(t, tt.want, got, "Get(%d)", tt.offset)
	}
}

func TestStore_Release(t *testing.T) {
	s := NewStore(2)
	s.Push("a")
	s.Push("b")
	s.Push("c")
	require.True(t, s.IsFull())

	s.Release()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsFull())
	assert.Equal(t, 2, s.Capacity())
}

func TestNewStore_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewStore(0).Capacity())
	assert.Equal(t, DefaultCapacity, NewStore(-4).Capacity())
}

// =============================================================================
// BROWSER TESTS
// =============================================================================

func TestBrowser_EmptyStoreIgnoresKeys(t *testing.T) {
	b := NewBrowser(NewStore(10))

	_, ok := b.Up()
	assert.False(t, ok)
	_, ok = b.Down()
	assert.False(t, ok)
	assert.Equal(t, NotBrowsing, b.Offset())
}

func TestBrowser_UpClampsAtOldest(t *testing.T) {
	s := NewStore(10)
	s.Push("first")
	s.Push("second")
	b := NewBrowser(s)

	line, ok := b.Up()
	require.True(t, ok)
	assert.Equal(t, "second", line)

	line, _ = b.Up()
	assert.Equal(t, "first", line)

	line, _ = b.Up()
	assert.Equal(t, "first", line, "Up past the oldest entry stays there")
	assert.Equal(t, 1, b.Offset())
}

func TestBrowser_UpClampsWhenFull(t *testing.T) {
	s := NewStore(3)
	for _, c := range []string{"a", "b", "c", "d"} {
		s.Push(c)
	}
	b := NewBrowser(s)
	for i := 0; i < 10; i++ {
		b.Up()
	}
	assert.Equal(t, 2, b.Offset())
	line, _ := b.Up()
	assert.Equal(t, "b", line)
}

func TestBrowser_DownEndsBrowsing(t *testing.T) {
	s := NewStore(10)
	s.Push("one")
	s.Push("two")
	b := NewBrowser(s)

	b.Up()
	b.Up()
	line, ok := b.Down()
	require.True(t, ok)
	assert.Equal(t, "two", line)

	line, ok = b.Down()
	require.True(t, ok)
	assert.Equal(t, "", line)
	assert.False(t, b.Browsing())

	line, ok = b.Down()
	assert.True(t, ok)
	assert.Equal(t, "", line)
	assert.Equal(t, NotBrowsing, b.Offset())
}

func TestBrowser_Reset(t *testing.T) {
	s := NewStore(10)
	s.Push("x")
	b := NewBrowser(s)
	b.Up()
	require.True(t, b.Browsing())

	b.Reset()
	assert.Equal(t, NotBrowsing, b.Offset())
}
