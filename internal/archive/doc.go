// SPDX-License-Identifier: MPL-2.0

// Package archive reads an archive file into the flat entry list consumed by
// vfs.Build.
//
// Plain tar, gzip- and zstd-compressed tar, and zip are recognized by their
// leading magic bytes, never by file extension. Archives are read eagerly: the
// whole file is loaded, every member payload is buffered, and the file handle
// is closed before Load returns.
package archive
