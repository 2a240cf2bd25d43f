// SPDX-License-Identifier: MPL-2.0

// Package builtin provides the commands understood by the tarsh shell.
//
// Every command implements Command and operates on an *Env: the output
// streams, the current directory cursor and the session identity. Commands
// only read the virtual filesystem; the cursor is the single piece of mutable
// state and only cd moves it.
//
// # Arguments
//
// As in a process argv, args[0] is the command name and args[1:] are the
// arguments. Flags are parsed with pflag, so both "-l" and "--long" work and
// "--help" prints the command usage.
//
// # Errors
//
// Failures are returned as typed errors whose messages follow the POSIX shell
// convention:
//
//	cd: docs/readme.txt: Not a directory
//	cat: missing: No such file or directory
//
// Commands that take several operands report each failure on Stderr as they
// go and return a *StatusError once all operands were processed. ExitStatus
// maps any returned error to a shell exit status.
package builtin
