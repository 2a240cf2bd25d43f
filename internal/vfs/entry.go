// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"fmt"
	"time"
)

const (
	// EntryFile marks an archive entry that describes a regular file.
	EntryFile EntryKind = iota + 1
	// EntryDir marks an archive entry that describes a directory.
	EntryDir
)

type (
	// EntryKind tags an Entry as a file or a directory.
	EntryKind int

	// Entry is one record of an archive's member list.
	Entry struct {
		// Path is the "/"-separated member path. Its first segment is the
		// archive's wrapper directory and is discarded by the builder.
		Path string
		// Kind says whether the entry is a file or a directory.
		Kind EntryKind
		// Content is the file payload. Unused for directories.
		Content []byte
		// Size is the size declared by the archive header.
		Size int64
		// ModTime is the modification time declared by the archive header.
		ModTime time.Time
	}
)

// String returns the lowercase kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryFile:
		return "file"
	case EntryDir:
		return "dir"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// IsValid reports whether k is one of the declared kinds.
func (k EntryKind) IsValid() bool {
	return k == EntryFile || k == EntryDir
}
