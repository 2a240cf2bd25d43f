// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func dirEntry(p string) Entry {
	return Entry{Path: p, Kind: EntryDir, ModTime: testTime}
}

func fileEntry(p, content string, size int64) Entry {
	return Entry{Path: p, Kind: EntryFile, Content: []byte(content), Size: size, ModTime: testTime}
}

// sampleTree builds:
//
//	/
//	├── docs/
//	│   ├── readme.txt (42)
//	│   └── guide/
//	│       └── intro.md (10)
//	├── bin/
//	│   └── tool (7)
//	└── notes.txt (5)
func sampleTree(t *testing.T) *Directory {
	t.Helper()
	return Build([]Entry{
		dirEntry("wrapper"),
		dirEntry("wrapper/docs"),
		fileEntry("wrapper/docs/readme.txt", "hello", 42),
		dirEntry("wrapper/docs/guide"),
		fileEntry("wrapper/docs/guide/intro.md", "# intro\n", 10),
		dirEntry("wrapper/bin"),
		fileEntry("wrapper/bin/tool", "\x7fELF", 7),
		fileEntry("wrapper/notes.txt", "notes", 5),
	})
}

func mustResolve(t *testing.T, cursor *Directory, p string) Node {
	t.Helper()
	n, ok := Resolve(cursor, p)
	if !ok {
		t.Fatalf("Resolve(%q, %q) not found", cursor.AbsPath(), p)
	}
	return n
}

func mustDir(t *testing.T, cursor *Directory, p string) *Directory {
	t.Helper()
	d, err := ResolveDir(cursor, p)
	if err != nil {
		t.Fatalf("ResolveDir(%q, %q) = %v", cursor.AbsPath(), p, err)
	}
	return d
}

func TestNewRoot(t *testing.T) {
	t.Parallel()

	root := NewRoot()
	if root.Name() != "" {
		t.Errorf("Name() = %q, want empty", root.Name())
	}
	if root.AbsPath() != "/" {
		t.Errorf("AbsPath() = %q, want %q", root.AbsPath(), "/")
	}
	if root.Parent() != nil {
		t.Error("root should have no parent")
	}
	if !root.IsRoot() || !root.IsDir() || root.IsFile() {
		t.Error("root should be a root directory")
	}
	if root.Size() != 0 || root.Len() != 0 {
		t.Errorf("empty root: size=%d len=%d", root.Size(), root.Len())
	}
}

func TestBuild_Scenario(t *testing.T) {
	t.Parallel()

	// The wrapper entry itself comes after its content and is dropped.
	root := Build([]Entry{
		dirEntry("wrapper/docs"),
		fileEntry("wrapper/docs/readme.txt", "some text", 42),
		dirEntry("wrapper"),
	})

	docs := mustDir(t, root, "docs")
	if docs.Name() != "docs" {
		t.Errorf("Name() = %q, want %q", docs.Name(), "docs")
	}
	if docs.Size() != 42 {
		t.Errorf("Size() = %d, want 42", docs.Size())
	}
	children := docs.Children()
	if len(children) != 1 || children[0].Name() != "readme.txt" {
		t.Fatalf("children = %v, want [readme.txt]", names(children))
	}
	if root.Len() != 1 {
		t.Errorf("root has %d children, want 1", root.Len())
	}
}

func TestBuild_FileAttributes(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)
	n := mustResolve(t, root, "/docs/readme.txt")
	f, ok := n.(*File)
	if !ok {
		t.Fatalf("node is %T, want *File", n)
	}
	if got := string(f.Content()); got != "hello" {
		t.Errorf("Content() = %q, want %q", got, "hello")
	}
	// Declared size is kept even though the payload is shorter.
	if f.Size() != 42 {
		t.Errorf("Size() = %d, want 42", f.Size())
	}
	if f.Extension() != ".txt" {
		t.Errorf("Extension() = %q, want .txt", f.Extension())
	}
	if !f.ModTime().Equal(testTime) {
		t.Errorf("ModTime() = %v, want %v", f.ModTime(), testTime)
	}
	if f.AbsPath() != "/docs/readme.txt" {
		t.Errorf("AbsPath() = %q", f.AbsPath())
	}
	if f.Parent().AbsPath() != "/docs" {
		t.Errorf("Parent().AbsPath() = %q", f.Parent().AbsPath())
	}
	if !f.IsFile() || f.IsDir() {
		t.Error("file kind predicates are wrong")
	}
}

func TestBuild_ChildrenKeepArchiveOrder(t *testing.T) {
	t.Parallel()

	root := Build([]Entry{
		fileEntry("w/zeta", "", 1),
		fileEntry("w/alpha", "", 1),
		dirEntry("w/mid"),
	})
	got := strings.Join(names(root.Children()), ",")
	if got != "zeta,alpha,mid" {
		t.Errorf("children = %s, want zeta,alpha,mid", got)
	}
}

func TestBuild_Skips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"wrapper only", dirEntry("wrapper"), ErrEmptyPath},
		{"wrapper with slash", dirEntry("wrapper/"), ErrEmptyPath},
		{"empty", fileEntry("", "", 0), ErrEmptyPath},
		{"duplicate file", fileEntry("w/notes.txt", "again", 99), ErrExists},
		{"duplicate dir", dirEntry("w/docs"), ErrExists},
		{"unlisted parent", fileEntry("w/missing/a.txt", "", 3), ErrMissingParent},
		{"file as parent", fileEntry("w/notes.txt/inner", "", 3), ErrNotADirectory},
		{"bad kind", Entry{Path: "w/x"}, ErrInvalidEntryKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewBuilder()
			for _, e := range []Entry{dirEntry("w/docs"), fileEntry("w/notes.txt", "notes", 5)} {
				if err := b.Add(e); err != nil {
					t.Fatalf("Add(%q) = %v", e.Path, err)
				}
			}
			before := b.Root().Size()

			err := b.Add(tt.entry)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Add() = %v, want %v", err, tt.want)
			}
			var ee *EntryError
			if !errors.As(err, &ee) || ee.Path != tt.entry.Path {
				t.Errorf("error should be *EntryError for %q, got %#v", tt.entry.Path, err)
			}
			if b.Root().Size() != before {
				t.Errorf("root size changed from %d to %d", before, b.Root().Size())
			}
			if len(b.Skipped()) != 1 {
				t.Errorf("Skipped() has %d entries, want 1", len(b.Skipped()))
			}
		})
	}
}

func TestBuild_FirstInsertionWins(t *testing.T) {
	t.Parallel()

	root := Build([]Entry{
		fileEntry("w/a.txt", "first", 5),
		fileEntry("w/a.txt", "second", 6),
	})
	f := mustResolve(t, root, "a.txt").(*File)
	if string(f.Content()) != "first" || f.Size() != 5 {
		t.Errorf("got %q/%d, want first/5", f.Content(), f.Size())
	}
	if root.Size() != 5 {
		t.Errorf("root size = %d, want 5", root.Size())
	}
}

func TestBuildWithReport(t *testing.T) {
	t.Parallel()

	_, report := BuildWithReport([]Entry{
		dirEntry("w"),
		dirEntry("w/d"),
		fileEntry("w/d/f", "", 1),
		fileEntry("w/nope/f", "", 1),
	})
	if report.Files != 1 || report.Directories != 1 {
		t.Errorf("report = %+v, want 1 file and 1 directory", report)
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", report.Skipped)
	}
	if !errors.Is(report.Skipped[1], ErrMissingParent) {
		t.Errorf("Skipped[1] = %v, want ErrMissingParent", report.Skipped[1])
	}
}

func TestDirectorySizeIsSumOfFiles(t *testing.T) {
	t.Parallel()

	root := sampleTree(t)
	err := Walk(root, func(n Node, _ int) error {
		dir, ok := n.(*Directory)
		if !ok {
			return nil
		}
		var sum int64
		if err := Walk(dir, func(m Node, _ int) error {
			if m.IsFile() {
				sum += m.Size()
			}
			return nil
		}); err != nil {
			return err
		}
		if dir.Size() != sum {
			t.Errorf("%s: Size() = %d, recomputed %d", dir.AbsPath(), dir.Size(), sum)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() = %v", err)
	}
	if root.Size() != 42+10+7+5 {
		t.Errorf("root size = %d, want 64", root.Size())
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"readme.txt":  ".txt",
		"a.tar.gz":    ".gz",
		"Makefile":    "",
		".profile":    "",
		"trailing.":   "",
		"..":          "",
		".hidden.cfg": ".cfg",
	}
	for name, want := range tests {
		if got := Extension(name); got != want {
			t.Errorf("Extension(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEntryKind_String(t *testing.T) {
	t.Parallel()

	if EntryFile.String() != "file" || EntryDir.String() != "dir" {
		t.Errorf("got %s/%s", EntryFile, EntryDir)
	}
	if got := EntryKind(9).String(); got != "EntryKind(9)" {
		t.Errorf("String() = %q", got)
	}
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
