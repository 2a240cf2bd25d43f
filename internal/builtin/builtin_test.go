// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/invowk/tarsh/internal/testutil"
	"github.com/invowk/tarsh/internal/vfs"
)

var testTime = time.Date(2024, 5, 17, 9, 30, 15, 0, time.UTC)

type testEnv struct {
	*Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv builds:
//
//	/
//	├── docs/
//	│   ├── readme.txt "hello\n"
//	│   └── guide/
//	│       └── intro.md "# Intro"
//	├── bin/
//	│   └── tool
//	└── notes.txt "n1"
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := func(p string) vfs.Entry { return vfs.Entry{Path: p, Kind: vfs.EntryDir, ModTime: testTime} }
	file := func(p, content string) vfs.Entry {
		return vfs.Entry{Path: p, Kind: vfs.EntryFile, Content: []byte(content), Size: int64(len(content)), ModTime: testTime}
	}
	root := vfs.Build([]vfs.Entry{
		dir("sys"),
		dir("sys/docs"),
		file("sys/docs/readme.txt", "hello\n"),
		dir("sys/docs/guide"),
		file("sys/docs/guide/intro.md", "# Intro"),
		dir("sys/bin"),
		file("sys/bin/tool", "\x7fELF\x02"),
		file("sys/notes.txt", "n1"),
	})

	te := &testEnv{Env: NewEnv(root), stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Stdout = te.stdout
	te.Stderr = te.stderr
	te.User = "user"
	te.Host = "localhost"
	te.Clock = testutil.NewFakeClock(testTime)
	return te
}

// run executes cmd with args (command name prepended) and returns its error.
func (te *testEnv) run(t *testing.T, cmd Command, args ...string) error {
	t.Helper()
	te.stdout.Reset()
	te.stderr.Reset()
	return cmd.Run(context.Background(), te.Env, append([]string{cmd.Name()}, args...))
}

func (te *testEnv) cd(t *testing.T, p string) {
	t.Helper()
	dir, err := vfs.ResolveDir(te.Cwd(), p)
	if err != nil {
		t.Fatalf("ResolveDir(%q) = %v", p, err)
	}
	te.Chdir(dir)
}
