// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/tarsh/internal/config"
	"github.com/invowk/tarsh/internal/issue"
	"github.com/invowk/tarsh/internal/testutil"
)

type cliHarness struct {
	app     *App
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	workDir string
	archive string
}

// newCLI returns an App whose config lookup is confined to temporary
// directories, and writes the fixture archive next to them.
func newCLI(t *testing.T, stdin string) *cliHarness {
	t.Helper()

	workDir := t.TempDir()
	h := &cliHarness{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		workDir: workDir,
	}
	h.app = NewApp(Dependencies{
		ConfigOptions: config.LoadOptions{
			WorkDir:       workDir,
			ConfigDirPath: filepath.Join(workDir, "xdg"),
		},
		Clock:  testutil.NewFakeClock(testutil.ArchiveTime),
		Stdin:  strings.NewReader(stdin),
		Stdout: h.stdout,
		Stderr: h.stderr,
	})

	data := testutil.NewTar().
		Dir("system/").
		Dir("system/home/").
		Dir("system/home/user/").
		File("system/home/user/todo.txt", "buy milk\n").
		Dir("system/etc/").
		File("system/etc/hostname", "localhost\n").
		File("system/var/log/boot.log", "ok\n").
		Compress(testutil.Gzip).
		Bytes(t)
	h.archive = filepath.Join(workDir, "system.tar.gz")
	if err := os.WriteFile(h.archive, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return h
}

func (h *cliHarness) execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(t.Context())
}

func TestRun_Lines(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	err := h.execute(t, "run", "--archive", h.archive, "pwd", "cd /home/user", "cat todo.txt", "echo $USER@$HOSTNAME")
	if err != nil {
		t.Fatalf("run error = %v\nstderr: %s", err, h.stderr)
	}

	want := "/\nbuy milk\nuser@localhost\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if code := h.app.ExitCode(); code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
}

func TestRun_ExitStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"exit with code", []string{"exit 3", "pwd"}, 3},
		{"last failing line", []string{"pwd", "cd nowhere"}, 1},
		{"unknown command", []string{"frobnicate"}, 127},
		{"syntax error", []string{`echo "open`}, 2},
		{"no lines", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newCLI(t, "")
			args := append([]string{"run", "--archive", h.archive}, tt.lines...)
			if err := h.execute(t, args...); err != nil {
				t.Fatalf("run error = %v", err)
			}
			if code := h.app.ExitCode(); code != tt.want {
				t.Errorf("ExitCode() = %d, want %d (stderr %q)", code, tt.want, h.stderr)
			}
		})
	}
}

func TestRun_ExitStopsExecution(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	if err := h.execute(t, "run", "--archive", h.archive, "exit 3", "pwd"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("lines after exit were executed: %q", h.stdout)
	}
}

func TestRun_Script(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	script := filepath.Join(h.workDir, "commands.txt")
	testutil.MustWriteFile(t, script, "cd /etc\r\ncat hostname\n")

	if err := h.execute(t, "run", "--archive", h.archive, "--script", script); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if got := h.stdout.String(); got != `"localhost\n"`+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_ScriptFromStdin(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "cd home\nls\n")
	if err := h.execute(t, "run", "--archive", h.archive, "-s", "-"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if got := h.stdout.String(); got != "user\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_ScriptErrors(t *testing.T) {
	t.Parallel()

	t.Run("combined with lines", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		if err := h.execute(t, "run", "--archive", h.archive, "--script", "x", "pwd"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing script", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		err := h.execute(t, "run", "--archive", h.archive, "--script", filepath.Join(h.workDir, "nope"))
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != 1 {
			t.Fatalf("error = %v, want ExitError with code 1", err)
		}
	})
}

func TestRoot_ReadsStdin(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "cd /etc\ncat hostname\nexit 4\n")
	if err := h.execute(t, "--archive", h.archive, "--user", "alice"); err != nil {
		t.Fatalf("root error = %v", err)
	}
	if got := h.stdout.String(); got != `"localhost\n"`+"\n" {
		t.Errorf("stdout = %q", got)
	}
	if code := h.app.ExitCode(); code != 4 {
		t.Errorf("ExitCode() = %d, want 4", code)
	}
}

func TestRoot_RejectsOperands(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	if err := h.execute(t, "--archive", h.archive, "extra"); err == nil {
		t.Fatal("expected an error for an unexpected operand")
	}
}

func TestRoot_ArchiveFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		archive func(t *testing.T, h *cliHarness) string
		want    issue.Id
	}{
		{
			name:    "not configured",
			archive: func(*testing.T, *cliHarness) string { return "" },
			want:    issue.ArchiveNotConfiguredId,
		},
		{
			name:    "missing",
			archive: func(_ *testing.T, h *cliHarness) string { return filepath.Join(h.workDir, "absent.tar") },
			want:    issue.ArchiveNotFoundId,
		},
		{
			name: "corrupt",
			archive: func(t *testing.T, _ *cliHarness) string {
				return testutil.WriteArchive(t, "broken.tar.gz", []byte("\x1f\x8bnot gzip"))
			},
			want: issue.ArchiveCorruptId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newCLI(t, "")
			args := []string{"run", "--no-color", "pwd"}
			if p := tt.archive(t, h); p != "" {
				args = append(args, "--archive", p)
			}

			err := h.execute(t, args...)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("error = %v, want ExitError with code 1", err)
			}
			guidance, ok := issue.GuidanceFor(err)
			if !ok {
				t.Fatalf("error %v carries no guidance", err)
			}
			if guidance.Id() != tt.want {
				t.Errorf("guidance id = %d, want %d", guidance.Id(), tt.want)
			}
			if h.stderr.Len() == 0 {
				t.Error("expected guidance on stderr")
			}
			if h.stdout.Len() != 0 {
				t.Errorf("no command should have run, stdout = %q", h.stdout)
			}
		})
	}
}

func TestRoot_InvalidOverride(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	err := h.execute(t, "run", "--archive", h.archive, "--user", "two words", "pwd")
	guidance, ok := issue.GuidanceFor(err)
	if !ok || guidance.Id() != issue.ConfigInvalidId {
		t.Fatalf("error = %v, want ConfigInvalid guidance", err)
	}
	if !errors.Is(err, config.ErrInvalidUsername) {
		t.Errorf("error %v should wrap ErrInvalidUsername", err)
	}
}

func TestRoot_ActionLog(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	logPath := filepath.Join(h.workDir, "actions.csv")
	err := h.execute(t, "run", "--archive", h.archive, "--user", "alice", "--log-file", logPath,
		"pwd", "cd home", "nosuch", "echo a b")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read action log: %v", err)
	}
	want := "2024-05-17 09:30:15;alice;pwd;NoArgs\n" +
		"2024-05-17 09:30:15;alice;cd;home\n" +
		"2024-05-17 09:30:15;alice;echo;a b\n"
	if got := string(data); got != want {
		t.Errorf("action log = %q, want %q", got, want)
	}
}

func TestRoot_ActionLogUnavailable(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	logPath := filepath.Join(h.workDir, "missing-dir", "actions.csv")
	err := h.execute(t, "run", "--archive", h.archive, "--log-file", logPath, "pwd")
	guidance, ok := issue.GuidanceFor(err)
	if !ok || guidance.Id() != issue.ActionLogUnavailableId {
		t.Fatalf("error = %v, want ActionLogUnavailable guidance", err)
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	testutil.MustWriteFile(t, filepath.Join(h.workDir, "config.yaml"),
		"username: bob\nhostname: vault\nsystem_directory: "+h.archive+"\n")

	if err := h.execute(t, "run", "echo $USER@$HOSTNAME"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if got := h.stdout.String(); got != "bob@vault\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestArchiveCommand(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	if err := h.execute(t, "archive", h.archive); err != nil {
		t.Fatalf("archive error = %v", err)
	}

	out := h.stdout.String()
	for _, want := range []string{
		"Archive: " + h.archive + " (tar+gzip)",
		"KIND",
		"system/home/user/todo.txt",
		"Skipped:",
		"  system/var/log/boot.log: parent directory not listed",
		"directories: 3, files: 2, skipped: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "no path segments") {
		t.Errorf("wrapper member should not be reported as skipped:\n%s", out)
	}
}

func TestArchiveCommand_UsesConfiguredArchive(t *testing.T) {
	t.Parallel()

	h := newCLI(t, "")
	if err := h.execute(t, "archive", "--archive", h.archive); err != nil {
		t.Fatalf("archive error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "system/etc/hostname") {
		t.Errorf("output = %q", h.stdout)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	t.Run("show defaults", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		if err := h.execute(t, "config", "show", "--host", "vault"); err != nil {
			t.Fatalf("config show error = %v", err)
		}
		out := h.stdout.String()
		for _, want := range []string{"Config file: (using defaults)", "username: user", "hostname: vault", "log_file: (not set)"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("path from file", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		cfgPath := filepath.Join(h.workDir, "config.toml")
		testutil.MustWriteFile(t, cfgPath, "username = 'carol'\n")
		if err := h.execute(t, "config", "path"); err != nil {
			t.Fatalf("config path error = %v", err)
		}
		if got := strings.TrimSpace(h.stdout.String()); got != cfgPath {
			t.Errorf("config path = %q, want %q", got, cfgPath)
		}
	})

	t.Run("path without file", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		if err := h.execute(t, "config", "path"); err != nil {
			t.Fatalf("config path error = %v", err)
		}
		want := filepath.Join(h.workDir, "xdg", "config.yaml") + " (not found)\n"
		if got := h.stdout.String(); got != want {
			t.Errorf("config path = %q, want %q", got, want)
		}
	})

	t.Run("dump", func(t *testing.T) {
		t.Parallel()

		h := newCLI(t, "")
		if err := h.execute(t, "config", "dump", "--archive", "sys.tar"); err != nil {
			t.Fatalf("config dump error = %v", err)
		}
		out := h.stdout.String()
		for _, want := range []string{"username", "sys.tar", "[ui]"} {
			if !strings.Contains(out, want) {
				t.Errorf("dump missing %q:\n%s", want, out)
			}
		}
	})
}
