// SPDX-License-Identifier: MPL-2.0

// Package vfs implements the read-only virtual filesystem that backs the tarsh shell.
//
// A tree is materialized once from the flat, ordered entry list of an archive
// (see Build) and is never mutated afterwards. Callers hold a cursor, the
// *Directory they consider "current", and query the tree with Resolve using
// shell-style path expressions:
//
//	/            the root
//	.            the cursor
//	..           the cursor's parent (the root stays the root)
//	/a/b         absolute, walked from the root
//	../a, ..a    walked from the cursor's parent
//	./a, .a      walked from the cursor
//	a/b          walked from the cursor
//
// Only the leading token of an expression is interpreted. Inside the walk "."
// and ".." are ordinary child names, and empty segments from repeated slashes
// are skipped.
//
// # Sizes
//
// A File reports the size declared by the archive, which is not necessarily
// len(Content()). A Directory reports the sum of the declared sizes of every
// file beneath it; the sum is accumulated while the tree is built.
//
// # Concurrency
//
// Building is single-threaded. A built tree is immutable, so any number of
// goroutines may resolve against it; the cursor is owned by the caller.
package vfs
