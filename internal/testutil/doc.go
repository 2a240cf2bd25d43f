// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tarsh tests.
//
// FakeClock gives deterministic timestamps for the action log and the cal
// builtin. TarBuilder and ZipBuilder assemble small archives in memory so
// archive and shell tests never depend on fixture files. The Must* helpers
// fail the test immediately on setup errors.
package testutil
