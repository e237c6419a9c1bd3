// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// =============================================================================
// COPIER
// =============================================================================

// Copier copies files and directory trees.
type Copier struct {
	// Recursive descends into directories (-R)
	Recursive bool

	// Overwrite replaces existing destination files (-O). Without it
	// existing files are left alone.
	Overwrite bool

	// Out receives one "src -> dst" line per entry of a tree copy and a line
	// for each entry that fails
	Out io.Writer
}

// CopyStats summarizes a copy.
type CopyStats struct {
	Copied  int
	Skipped int
	Failed  int
}

// Copy copies src to dst. Failures of individual entries inside a tree are
// written to Out and counted; the walk carries on with their siblings. The
// returned error covers only failures that stop the whole copy.
func (c *Copier) Copy(ctx context.Context, src, dst string) (CopyStats, error) {
	var stats CopyStats

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, &PathError{Op: "cp", Path: src, Err: ErrNoSuchFile}
		}
		return stats, &PathError{Op: "cp", Path: src, Err: err}
	}

	if !info.IsDir() {
		copied, err := c.copyFile(src, dst, info.Mode().Perm())
		if err != nil {
			return stats, err
		}
		if copied {
			stats.Copied++
		} else {
			stats.Skipped++
		}
		return stats, nil
	}

	if !c.Recursive {
		return stats, &PathError{Op: "cp", Path: src, Err: ErrIsDirectory}
	}

	if err := ensureDir(dst, info.Mode().Perm()); err != nil {
		return stats, err
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == src {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if walkErr != nil {
			c.report(&PathError{Op: "cp", Path: path, Err: walkErr})
			stats.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		entryInfo, err := d.Info()
		if err != nil {
			c.report(&PathError{Op: "cp", Path: path, Err: err})
			stats.Failed++
			return nil
		}

		if d.IsDir() {
			if err := ensureDir(target, entryInfo.Mode().Perm()); err != nil {
				c.report(err)
				stats.Failed++
				return fs.SkipDir
			}
			c.progress(path, target)
			stats.Copied++
			return nil
		}

		copied, err := c.copyFile(path, target, entryInfo.Mode().Perm())
		if err != nil {
			c.report(err)
			stats.Failed++
			return nil
		}
		if copied {
			stats.Copied++
		} else {
			stats.Skipped++
		}
		c.progress(path, target)
		return nil
	})
	if err != nil {
		return stats, &PathError{Op: "cp", Path: src, Err: err}
	}
	return stats, nil
}

// copyFile copies one regular file, giving dst the source permissions.
// Reports false when dst already exists and Overwrite is off.
func (c *Copier) copyFile(src, dst string, perm fs.FileMode) (bool, error) {
	if _, err := os.Lstat(dst); err == nil && !c.Overwrite {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, &PathError{Op: "cp", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return false, &PathError{Op: "cp", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return false, &PathError{Op: "cp", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return false, &PathError{Op: "cp", Path: dst, Err: err}
	}

	// OpenFile applies the umask; match the source exactly.
	if err := os.Chmod(dst, perm); err != nil {
		return false, &PathError{Op: "cp", Path: dst, Err: err}
	}
	return true, nil
}

// ensureDir creates dir with perm unless a directory already exists there.
func ensureDir(dir string, perm fs.FileMode) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	if err := os.Mkdir(dir, perm); err != nil {
		return &PathError{Op: "cp", Path: dir, Err: fmt.Errorf("cannot create directory: %w", err)}
	}
	return nil
}

func (c *Copier) progress(src, dst string) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s -> %s\n", src, dst)
	}
}

func (c *Copier) report(err error) {
	if c.Out != nil {
		fmt.Fprintln(c.Out, err)
	}
}
