// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the tarsh command line: the interactive shell started
// by the root command and the run, archive and config subcommands.
package cmd
