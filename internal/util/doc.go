// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the rigsh packages.
//
// # Key Functions
//
// Display width:
//   - StringWidth: terminal cell width of a string
//   - TruncateWidth, TruncateLeft: width-aware truncation with ellipsis
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - ExpandHome: resolve a leading "~" against $HOME
package util
