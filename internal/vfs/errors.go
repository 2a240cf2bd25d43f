// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a path expression does not reach any node.
	ErrNotFound = errors.New("no such file or directory")
	// ErrNotADirectory is returned when a directory was required but a file was found.
	ErrNotADirectory = errors.New("not a directory")

	// ErrEmptyPath is returned by Builder.Add for an entry with no segments
	// left once the wrapper segment is dropped.
	ErrEmptyPath = errors.New("entry has no path segments")
	// ErrMissingParent is returned by Builder.Add when an intermediate
	// directory of the entry was never listed by the archive.
	ErrMissingParent = errors.New("parent directory not listed")
	// ErrExists is returned by Builder.Add when a node with the entry's path is
	// already present. The first entry wins.
	ErrExists = errors.New("entry already present")
	// ErrInvalidEntryKind is returned by Builder.Add for an entry whose kind is neither file nor dir.
	ErrInvalidEntryKind = errors.New("invalid entry kind")
)

// EntryError describes why a single archive entry was left out of the tree.
// It wraps one of the Err* sentinels of this package.
type EntryError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("skip entry %q: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel cause.
func (e *EntryError) Unwrap() error { return e.Err }

// PathError records a failed lookup and the path expression that caused it.
type PathError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap returns the sentinel cause.
func (e *PathError) Unwrap() error { return e.Err }
