// SPDX-License-Identifier: MPL-2.0

package vfs

import "errors"

// SkipDir may be returned by a WalkFunc to skip the children of a directory.
// Returned for a file it skips only that file, not its remaining siblings as
// fs.WalkDir does.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every node visited by Walk. depth is 0 for the start node.
type WalkFunc func(n Node, depth int) error

// Walk visits start and everything beneath it depth-first, children in
// archive order. Returning SkipDir from fn for a directory skips its children;
// any other error stops the walk and is returned.
func Walk(start Node, fn WalkFunc) error {
	err := walk(start, 0, fn)
	if errors.Is(err, SkipDir) {
		return nil
	}
	return err
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	dir, ok := n.(*Directory)
	if !ok {
		return nil
	}
	for _, child := range dir.children {
		if err := walk(child, depth+1, fn); err != nil {
			if errors.Is(err, SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}
