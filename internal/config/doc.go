// SPDX-License-Identifier: MPL-2.0

// Package config loads tarsh settings.
//
// Values come, in increasing precedence, from built-in defaults, a YAML or
// TOML config file, and TARSH_* environment variables (TARSH_USERNAME,
// TARSH_SYSTEM_DIRECTORY, TARSH_UI_VERBOSE, ...). Command-line flags are
// applied on top by the cmd package.
//
// The config file is looked up as config.yaml, config.yml or config.toml,
// first in the working directory and then in the platform config directory
// (see ConfigDir). An explicit path given with --config is used exclusively.
package config
