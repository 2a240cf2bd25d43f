// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invowk/tarsh/internal/issue"
)

const (
	// AppName is the application name used for config directories.
	AppName = "tarsh"
	// ConfigFileName is the base name of the config file, without extension.
	ConfigFileName = "config"
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "TARSH"
	// ConfigDirEnv names the variable that replaces the platform config directory.
	ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"
)

// configFileExts lists the accepted config file extensions in lookup order.
var configFileExts = []string{"yaml", "yml", "toml"}

// ConfigDir returns the tarsh configuration directory.
//
// $TARSH_CONFIG_DIR wins when set. Otherwise,
// on Windows this is %APPDATA%\tarsh, on macOS
// ~/Library/Application Support/tarsh, elsewhere $XDG_CONFIG_HOME/tarsh
// (defaulting to ~/.config/tarsh).
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration using the default lookup rules.
func Load(ctx context.Context) (*Config, error) {
	return NewProvider().Load(ctx, LoadOptions{})
}

// loadWithOptions performs option-driven config loading.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'tarsh config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		found, err := findConfigFile(opts)
		if err != nil {
			return nil, err
		}
		resolvedPath = found
	}

	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		if ext := strings.TrimPrefix(filepath.Ext(resolvedPath), "."); ext == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid YAML or TOML").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigInvalidId).
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// newViper returns a viper instance with defaults and TARSH_* environment
// bindings registered for every key.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("username", defaults.Username.String())
	v.SetDefault("hostname", defaults.Hostname.String())
	v.SetDefault("system_directory", defaults.SystemDirectory)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color", defaults.UI.Color)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// findConfigFile returns the first config file found in the working
// directory or the config directory, or "" when there is none.
func findConfigFile(opts LoadOptions) (string, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if p := firstConfigFile(workDir); p != "" {
		return p, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return firstConfigFile(cfgDir), nil
}

func firstConfigFile(dir string) string {
	for _, ext := range configFileExts {
		p := filepath.Join(dir, ConfigFileName+"."+ext)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// GenerateTOML renders cfg as a TOML document suitable for config.toml.
func GenerateTOML(cfg *Config) (string, error) {
	if cfg == nil {
		return "", errors.New("nil config")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}
