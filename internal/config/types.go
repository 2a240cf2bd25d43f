// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidUsername is returned when a Username value is empty or contains whitespace.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidHostname is returned when a Hostname value is empty or contains whitespace.
	ErrInvalidHostname = errors.New("invalid hostname")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Username is the user name shown in the prompt and written to the action log.
	Username string

	// Hostname is the host name shown in the prompt.
	Hostname string

	// InvalidUsernameError is returned when a Username value is rejected.
	// It wraps ErrInvalidUsername for errors.Is() compatibility.
	InvalidUsernameError struct {
		Value Username
	}

	// InvalidHostnameError is returned when a Hostname value is rejected.
	// It wraps ErrInvalidHostname for errors.Is() compatibility.
	InvalidHostnameError struct {
		Value Hostname
	}

	// InvalidConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Username is shown in the prompt and recorded in the action log.
		Username Username `json:"username" mapstructure:"username" toml:"username"`
		// Hostname is shown in the prompt.
		Hostname Hostname `json:"hostname" mapstructure:"hostname" toml:"hostname"`
		// SystemDirectory is the path of the archive the filesystem is built from.
		SystemDirectory string `json:"system_directory" mapstructure:"system_directory" toml:"system_directory"`
		// LogFile is the path of the CSV action log. Empty disables it.
		LogFile string `json:"log_file" mapstructure:"log_file" toml:"log_file"`
		// UI configures the terminal front end.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`

		// Source is the config file the values were read from, or empty for defaults only.
		Source string `json:"-" mapstructure:"-" toml:"-"`
	}

	// UIConfig configures the terminal front end.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// Color enables styled prompt and error output.
		Color bool `json:"color" mapstructure:"color" toml:"color"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Username: "user",
		Hostname: "localhost",
		UI: UIConfig{
			Color: true,
		},
	}
}

// Validate returns nil if the username is non-empty and free of whitespace.
func (u Username) Validate() error {
	if !validName(string(u)) {
		return &InvalidUsernameError{Value: u}
	}
	return nil
}

// String returns the string representation of the Username.
func (u Username) String() string { return string(u) }

// Validate returns nil if the hostname is non-empty and free of whitespace.
func (h Hostname) Validate() error {
	if !validName(string(h)) {
		return &InvalidHostnameError{Value: h}
	}
	return nil
}

// String returns the string representation of the Hostname.
func (h Hostname) String() string { return string(h) }

// Error implements the error interface for InvalidUsernameError.
func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username %q (must be non-empty without whitespace)", e.Value)
}

// Unwrap returns ErrInvalidUsername for errors.Is() compatibility.
func (e *InvalidUsernameError) Unwrap() error { return ErrInvalidUsername }

// Error implements the error interface for InvalidHostnameError.
func (e *InvalidHostnameError) Error() string {
	return fmt.Sprintf("invalid hostname %q (must be non-empty without whitespace)", e.Value)
}

// Unwrap returns ErrInvalidHostname for errors.Is() compatibility.
func (e *InvalidHostnameError) Unwrap() error { return ErrInvalidHostname }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so that
// errors.Is matches both the sentinel and any field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate returns nil if every field is valid, or an *InvalidConfigError.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Username.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Hostname.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func validName(s string) bool {
	return s != "" && !strings.ContainsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
