// SPDX-License-Identifier: MPL-2.0

package vfs

import "strings"

// Resolve evaluates the path expression p against the cursor and returns the
// node it names. The boolean is false when any segment is missing. Resolve never
// allocates nodes and never changes the tree or the cursor.
func Resolve(cursor *Directory, p string) (Node, bool) {
	switch {
	case p == "/":
		return cursor.Root(), true
	case p == ".":
		return cursor, true
	case p == "..":
		return parentOrSelf(cursor), true
	case strings.HasPrefix(p, "/"):
		return descend(cursor.Root(), p[1:])
	case strings.HasPrefix(p, ".."):
		return descend(parentOrSelf(cursor), p[2:])
	case strings.HasPrefix(p, "."):
		return descend(cursor, p[1:])
	default:
		return descend(cursor, p)
	}
}

// Lookup is Resolve reporting a miss as an error wrapping ErrNotFound.
func Lookup(cursor *Directory, p string) (Node, error) {
	n, ok := Resolve(cursor, p)
	if !ok {
		return nil, &PathError{Path: p, Err: ErrNotFound}
	}
	return n, nil
}

// ResolveDir resolves p and requires the result to be a directory.
// The error wraps ErrNotFound or ErrNotADirectory.
func ResolveDir(cursor *Directory, p string) (*Directory, error) {
	n, err := Lookup(cursor, p)
	if err != nil {
		return nil, err
	}
	dir, ok := n.(*Directory)
	if !ok {
		return nil, &PathError{Path: p, Err: ErrNotADirectory}
	}
	return dir, nil
}

func parentOrSelf(d *Directory) *Directory {
	if d.parent == nil {
		return d
	}
	return d.parent
}

// descend walks the non-empty "/"-separated segments of rest starting at start.
func descend(start *Directory, rest string) (Node, bool) {
	var cur Node = start
	for _, seg := range segments(rest) {
		dir, ok := cur.(*Directory)
		if !ok {
			return nil, false
		}
		if cur, ok = dir.Child(seg); !ok {
			return nil, false
		}
	}
	return cur, true
}
