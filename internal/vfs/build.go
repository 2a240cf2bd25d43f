// SPDX-License-Identifier: MPL-2.0

package vfs

import "strings"

type (
	// Builder materializes a tree from archive entries fed in archive order.
	//
	// Directories are only created by explicit directory entries. An entry
	// whose intermediate directories were not listed earlier is skipped, as
	// is a second entry for a path that already exists.
	Builder struct {
		root    *Directory
		skipped []*EntryError
	}

	// BuildReport summarizes a finished build.
	BuildReport struct {
		Files       int
		Directories int
		Skipped     []*EntryError
	}
)

// NewBuilder returns a Builder holding an empty root.
func NewBuilder() *Builder {
	return &Builder{root: NewRoot()}
}

// Build materializes a tree from entries and returns its root.
// Malformed entries are skipped; Build never fails.
func Build(entries []Entry) *Directory {
	root, _ := BuildWithReport(entries)
	return root
}

// BuildWithReport is Build that also reports what was created and skipped.
func BuildWithReport(entries []Entry) (*Directory, BuildReport) {
	b := NewBuilder()
	var report BuildReport
	for _, e := range entries {
		switch err := b.Add(e); {
		case err != nil:
			continue
		case e.Kind == EntryFile:
			report.Files++
		default:
			report.Directories++
		}
	}
	report.Skipped = b.Skipped()
	return b.Root(), report
}

// Root returns the root of the tree built so far.
func (b *Builder) Root() *Directory { return b.root }

// Skipped returns the entries that were left out, in the order they were added.
func (b *Builder) Skipped() []*EntryError {
	out := make([]*EntryError, len(b.skipped))
	copy(out, b.skipped)
	return out
}

// Add inserts one entry. A non-nil error is always an *EntryError and means the
// entry was skipped; the tree is unchanged in that case.
func (b *Builder) Add(e Entry) error {
	if err := b.add(e); err != nil {
		ee := &EntryError{Path: e.Path, Err: err}
		b.skipped = append(b.skipped, ee)
		return ee
	}
	return nil
}

func (b *Builder) add(e Entry) error {
	if !e.Kind.IsValid() {
		return ErrInvalidEntryKind
	}

	segments := entrySegments(e.Path)
	if len(segments) == 0 {
		return ErrEmptyPath
	}

	cur := b.root
	last := len(segments) - 1
	for _, seg := range segments[:last] {
		child, ok := cur.Child(seg)
		if !ok {
			return ErrMissingParent
		}
		dir, ok := child.(*Directory)
		if !ok {
			return ErrNotADirectory
		}
		cur = dir
	}

	name := segments[last]
	if _, ok := cur.Child(name); ok {
		return ErrExists
	}

	if e.Kind == EntryFile {
		cur.addFile(name, e.Content, e.Size, e.ModTime)
	} else {
		cur.addDir(name, e.ModTime)
	}
	return nil
}

// entrySegments drops the wrapper segment of an archive member path and
// returns the remaining non-empty segments.
func entrySegments(p string) []string {
	p = strings.TrimLeft(p, "/")
	_, rest, ok := strings.Cut(p, "/")
	if !ok {
		return nil
	}
	return segments(rest)
}

// segments splits p on "/" and drops empty parts.
func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
