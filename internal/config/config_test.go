// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/tarsh/internal/issue"
	"github.com/invowk/tarsh/internal/testutil"
)

// isolated returns LoadOptions whose working and config directories are
// fresh temp dirs, so the host's config files never leak into a test.
func isolated(t *testing.T) (LoadOptions, string, string) {
	t.Helper()
	work := t.TempDir()
	cfgDir := t.TempDir()
	return LoadOptions{WorkDir: work, ConfigDirPath: cfgDir}, work, cfgDir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Username != "user" {
		t.Errorf("Username = %q, want %q", cfg.Username, "user")
	}
	if cfg.Hostname != "localhost" {
		t.Errorf("Hostname = %q, want %q", cfg.Hostname, "localhost")
	}
	if cfg.SystemDirectory != "" || cfg.LogFile != "" {
		t.Errorf("paths should default to empty, got %q and %q", cfg.SystemDirectory, cfg.LogFile)
	}
	if !cfg.UI.Color || cfg.UI.Verbose {
		t.Errorf("UI = %+v, want color on and verbose off", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	opts, _, _ := isolated(t)
	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Username != "user" || cfg.Hostname != "localhost" {
		t.Errorf("got %s@%s, want user@localhost", cfg.Username, cfg.Hostname)
	}
}

func TestLoad_YAMLInWorkDir(t *testing.T) {
	t.Parallel()

	opts, work, _ := isolated(t)
	path := filepath.Join(work, "config.yaml")
	testutil.MustWriteFile(t, path, `username: alice
hostname: box
system_directory: ./system.tar
log_file: ./actions.csv
ui:
  verbose: true
`)

	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Username != "alice" || cfg.Hostname != "box" {
		t.Errorf("got %s@%s, want alice@box", cfg.Username, cfg.Hostname)
	}
	if cfg.SystemDirectory != "./system.tar" {
		t.Errorf("SystemDirectory = %q", cfg.SystemDirectory)
	}
	if cfg.LogFile != "./actions.csv" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose should be true")
	}
	if !cfg.UI.Color {
		t.Error("UI.Color should keep its default")
	}
}

func TestLoad_TOMLInConfigDir(t *testing.T) {
	t.Parallel()

	opts, _, cfgDir := isolated(t)
	path := filepath.Join(cfgDir, "config.toml")
	testutil.MustWriteFile(t, path, `username = "bob"

[ui]
color = false
`)

	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Username != "bob" {
		t.Errorf("Username = %q, want bob", cfg.Username)
	}
	if cfg.UI.Color {
		t.Error("UI.Color should be false")
	}
}

func TestLoad_WorkDirWinsOverConfigDir(t *testing.T) {
	t.Parallel()

	opts, work, cfgDir := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "username: local\n")
	testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.yaml"), "username: global\n")

	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "local" {
		t.Errorf("Username = %q, want local", cfg.Username)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	opts, work, _ := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "username: ignored\n")
	explicit := filepath.Join(t.TempDir(), "custom.yml")
	testutil.MustWriteFile(t, explicit, "username: chosen\n")
	opts.ConfigFilePath = explicit

	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "chosen" {
		t.Errorf("Username = %q, want chosen", cfg.Username)
	}
	if cfg.Source != explicit {
		t.Errorf("Source = %q, want %q", cfg.Source, explicit)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	opts, _, _ := isolated(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := NewProvider().Load(t.Context(), opts)
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit file")
	}
	g, ok := issue.GuidanceFor(err)
	if !ok || g.Id() != issue.ConfigLoadFailedId {
		t.Errorf("expected ConfigLoadFailed guidance, got %v, %v", g, ok)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	opts, work, _ := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "username: [unterminated\n")

	_, err := NewProvider().Load(t.Context(), opts)
	if err == nil {
		t.Fatal("Load() should fail for malformed YAML")
	}
	if !strings.Contains(err.Error(), "load configuration") {
		t.Errorf("error should name the operation, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	opts, work, _ := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "username: \"two words\"\nhostname: \"bad host\"\n")

	_, err := NewProvider().Load(t.Context(), opts)
	if err == nil {
		t.Fatal("Load() should reject invalid names")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("error should wrap ErrInvalidUsername, got %v", err)
	}
	if !errors.Is(err, ErrInvalidHostname) {
		t.Errorf("error should wrap ErrInvalidHostname, got %v", err)
	}
	g, ok := issue.GuidanceFor(err)
	if !ok || g.Id() != issue.ConfigInvalidId {
		t.Errorf("expected ConfigInvalid guidance, got %v, %v", g, ok)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	opts, work, _ := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(work, "config.yaml"), "username: file\nsystem_directory: ./from-file.tar\n")

	t.Setenv("TARSH_USERNAME", "env")
	t.Setenv("TARSH_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(t.Context(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Username != "env" {
		t.Errorf("Username = %q, want env", cfg.Username)
	}
	if !cfg.UI.Verbose {
		t.Error("TARSH_UI_VERBOSE should enable verbose output")
	}
	if cfg.SystemDirectory != "./from-file.tar" {
		t.Errorf("SystemDirectory = %q, want value from file", cfg.SystemDirectory)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	opts, _, _ := isolated(t)
	_, err := NewProvider().Load(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	switch {
	case strings.HasSuffix(got, filepath.Join("Library", "Application Support", AppName)),
		strings.HasSuffix(got, filepath.Join("Roaming", AppName)),
		strings.HasSuffix(got, filepath.Join(dir, AppName)):
	default:
		t.Errorf("ConfigDir() = %q, want it under %q", got, dir)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

func TestGenerateTOML(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SystemDirectory = "./system.tar"
	cfg.Source = "/somewhere/config.yaml"

	out, err := GenerateTOML(cfg)
	if err != nil {
		t.Fatalf("GenerateTOML() error = %v", err)
	}
	if strings.Contains(out, "/somewhere") {
		t.Error("Source must not be rendered")
	}

	var back Config
	if err := toml.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("generated TOML does not parse: %v\n%s", err, out)
	}
	if back.Username != cfg.Username || back.SystemDirectory != cfg.SystemDirectory || back.UI != cfg.UI {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, *cfg)
	}

	if _, err := GenerateTOML(nil); err == nil {
		t.Error("GenerateTOML(nil) should fail")
	}
}

func TestUsernameHostnameValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		valid bool
	}{
		{"user", true},
		{"a.b-c", true},
		{"", false},
		{"two words", false},
		{"tab\tbed", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if err := Username(tt.value).Validate(); (err == nil) != tt.valid {
				t.Errorf("Username(%q).Validate() = %v, valid=%v", tt.value, err, tt.valid)
			}
			if err := Hostname(tt.value).Validate(); (err == nil) != tt.valid {
				t.Errorf("Hostname(%q).Validate() = %v, valid=%v", tt.value, err, tt.valid)
			}
		})
	}
}
