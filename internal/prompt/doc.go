// SPDX-License-Identifier: MPL-2.0

// Package prompt reads command lines for a tarsh session.
//
// Scanner reads newline-terminated lines from any reader and is used when
// stdin is not a terminal. Interactive runs a one-line bubbletea editor per
// call with history navigation:
//
//	up/down   walk the history of submitted lines
//	ctrl+c    clear the current line
//	ctrl+d    end of input when the line is empty
//
// Both return io.EOF once input is exhausted.
package prompt
