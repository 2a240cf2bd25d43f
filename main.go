// SPDX-License-Identifier: MPL-2.0

// tarsh is a command shell over a read-only filesystem loaded from an archive.
package main

import cmd "github.com/invowk/tarsh/cmd/tarsh"

func main() {
	cmd.Execute()
}
