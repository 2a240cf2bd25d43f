// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"slices"
	"strings"
	"time"
)

type (
	// Node is a filesystem object in a built tree: either a *Directory or a *File.
	// The set of implementations is closed.
	Node interface {
		// Name returns the base name. The root's name is empty.
		Name() string
		// Parent returns the owning directory, or nil for the root.
		Parent() *Directory
		// AbsPath returns the "/"-joined names from the root to this node.
		AbsPath() string
		// ModTime returns the modification time recorded in the archive.
		ModTime() time.Time
		// Size returns the declared size of a file, or the aggregate size of a directory.
		Size() int64
		// IsDir reports whether the node is a *Directory.
		IsDir() bool
		// IsFile reports whether the node is a *File.
		IsFile() bool

		node()
	}

	// header is the state shared by both node kinds.
	header struct {
		name    string
		parent  *Directory
		absPath string
		modTime time.Time
	}

	// Directory is a node with ordered children.
	Directory struct {
		header
		size     int64
		children []Node
		index    map[string]Node
	}

	// File is a leaf node carrying the archived payload.
	File struct {
		header
		size      int64
		content   []byte
		extension string
	}
)

var (
	_ Node = (*Directory)(nil)
	_ Node = (*File)(nil)
)

func newHeader(parent *Directory, name string, modTime time.Time) header {
	h := header{name: name, parent: parent, modTime: modTime}
	switch {
	case parent == nil:
		h.absPath = "/"
	case parent.parent == nil:
		h.absPath = "/" + name
	default:
		h.absPath = parent.absPath + "/" + name
	}
	return h
}

// NewRoot returns an empty root directory.
func NewRoot() *Directory {
	return &Directory{
		header: newHeader(nil, "", time.Time{}),
		index:  make(map[string]Node),
	}
}

// Name returns the base name of the node.
func (h *header) Name() string { return h.name }

// Parent returns the owning directory, or nil for the root.
func (h *header) Parent() *Directory { return h.parent }

// AbsPath returns the absolute path of the node.
func (h *header) AbsPath() string { return h.absPath }

// ModTime returns the modification time of the node.
func (h *header) ModTime() time.Time { return h.modTime }

// Size returns the sum of the declared sizes of all files beneath d.
func (d *Directory) Size() int64 { return d.size }

// IsDir always returns true for a Directory.
func (d *Directory) IsDir() bool { return true }

// IsFile always returns false for a Directory.
func (d *Directory) IsFile() bool { return false }

func (d *Directory) node() {}

// IsRoot reports whether d is the root of its tree.
func (d *Directory) IsRoot() bool { return d.parent == nil }

// Root walks the parent links up to the root of the tree.
func (d *Directory) Root() *Directory {
	cur := d
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Children returns the children in archive discovery order.
// The returned slice is a copy; the tree itself cannot be changed through it.
func (d *Directory) Children() []Node {
	return slices.Clone(d.children)
}

// Len returns the number of direct children.
func (d *Directory) Len() int { return len(d.children) }

// Child returns the direct child with the exact given name.
func (d *Directory) Child(name string) (Node, bool) {
	n, ok := d.index[name]
	return n, ok
}

func (d *Directory) attach(n Node) {
	d.children = append(d.children, n)
	d.index[n.Name()] = n
}

func (d *Directory) addDir(name string, modTime time.Time) *Directory {
	child := &Directory{
		header: newHeader(d, name, modTime),
		index:  make(map[string]Node),
	}
	d.attach(child)
	return child
}

func (d *Directory) addFile(name string, content []byte, size int64, modTime time.Time) *File {
	child := &File{
		header:    newHeader(d, name, modTime),
		size:      size,
		content:   content,
		extension: Extension(name),
	}
	d.attach(child)
	for p := d; p != nil; p = p.parent {
		p.size += size
	}
	return child
}

// Size returns the size recorded by the archive.
func (f *File) Size() int64 { return f.size }

// IsDir always returns false for a File.
func (f *File) IsDir() bool { return false }

// IsFile always returns true for a File.
func (f *File) IsFile() bool { return true }

func (f *File) node() {}

// Content returns the archived bytes. Callers must not modify the slice.
func (f *File) Content() []byte { return f.content }

// Extension returns the suffix of the name including the dot (".txt"), or "".
func (f *File) Extension() string { return f.extension }

// Extension returns the final dot-suffix of name. Names without a dot, names
// whose only dot is the leading one (".profile"), and names ending in a dot
// have no extension.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
