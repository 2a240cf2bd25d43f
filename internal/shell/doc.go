// SPDX-License-Identifier: MPL-2.0

// Package shell runs tarsh sessions.
//
// A Session owns the cursor over a built vfs tree and dispatches command
// lines to the builtin registry. Lines are split into words with the POSIX
// quoting rules of mvdan.cc/sh, so 'two words' and "$PWD" behave as in a
// real shell. Nothing else of the shell language (pipes, redirections,
// control flow) is interpreted.
//
// Every dispatched builtin is recorded in the action log before it runs.
package shell
