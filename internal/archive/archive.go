// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/invowk/tarsh/internal/vfs"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// FormatTar is an uncompressed tar stream.
	FormatTar Format = iota
	// FormatTarGzip is a gzip-compressed tar stream.
	FormatTarGzip
	// FormatTarZstd is a zstd-compressed tar stream.
	FormatTarZstd
	// FormatZip is a zip archive.
	FormatZip
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	zipMagic  = []byte("PK\x03\x04")
	// An empty zip holds only the end-of-central-directory record.
	zipEmptyMagic = []byte("PK\x05\x06")
)

// ErrCorrupt is wrapped by errors returned for archives that cannot be decoded.
var ErrCorrupt = errors.New("corrupt archive")

// Format identifies the container format of an archive.
type Format int

// String returns a short human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar+gzip"
	case FormatTarZstd:
		return "tar+zstd"
	case FormatZip:
		return "zip"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DetectFormat inspects the leading bytes of an archive.
// Anything that is not gzip, zstd or zip is treated as plain tar.
func DetectFormat(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return FormatTarGzip
	case bytes.HasPrefix(head, zstdMagic):
		return FormatTarZstd
	case bytes.HasPrefix(head, zipMagic), bytes.HasPrefix(head, zipEmptyMagic):
		return FormatZip
	default:
		return FormatTar
	}
}

// Load reads the archive at path and returns its entries in archive order.
// A nil logger discards diagnostics.
func Load(ctx context.Context, path string, logger *log.Logger) ([]vfs.Entry, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	format := DetectFormat(data)
	logger.Debug("reading archive", "path", path, "format", format, "bytes", len(data))

	entries, err := Read(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("archive loaded", "path", path, "entries", len(entries))
	return entries, nil
}

// readFile loads the whole file and closes it before returning.
func readFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return io.ReadAll(f)
}

// Read decodes an in-memory archive of any supported format.
func Read(ctx context.Context, data []byte) ([]vfs.Entry, error) {
	switch DetectFormat(data) {
	case FormatTarGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrCorrupt, err)
		}
		defer zr.Close()
		return readTar(ctx, zr)
	case FormatTarZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		defer zr.Close()
		return readTar(ctx, zr)
	case FormatZip:
		return readZip(ctx, data)
	default:
		return readTar(ctx, bytes.NewReader(data))
	}
}

func readTar(ctx context.Context, r io.Reader) ([]vfs.Entry, error) {
	tr := tar.NewReader(r)
	var entries []vfs.Entry

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: tar: %w", ErrCorrupt, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			entries = append(entries, vfs.Entry{
				Path:    trimName(hdr.Name),
				Kind:    vfs.EntryDir,
				ModTime: hdr.ModTime,
			})
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("%w: tar member %s: %w", ErrCorrupt, hdr.Name, err)
			}
			entries = append(entries, vfs.Entry{
				Path:    trimName(hdr.Name),
				Kind:    vfs.EntryFile,
				Content: content,
				Size:    hdr.Size,
				ModTime: hdr.ModTime,
			})
		default:
			// Links, devices and fifos have no place in the tree.
		}
	}
}

func readZip(ctx context.Context, data []byte) ([]vfs.Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: zip: %w", ErrCorrupt, err)
	}

	entries := make([]vfs.Entry, 0, len(zr.File))
	for _, zf := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if strings.HasSuffix(zf.Name, "/") || zf.FileInfo().IsDir() {
			entries = append(entries, vfs.Entry{
				Path:    trimName(zf.Name),
				Kind:    vfs.EntryDir,
				ModTime: zf.Modified,
			})
			continue
		}
		if !zf.Mode().IsRegular() {
			continue
		}

		content, err := readZipFile(zf)
		if err != nil {
			return nil, fmt.Errorf("%w: zip member %s: %w", ErrCorrupt, zf.Name, err)
		}
		entries = append(entries, vfs.Entry{
			Path:    trimName(zf.Name),
			Kind:    vfs.EntryFile,
			Content: content,
			Size:    int64(zf.UncompressedSize64),
			ModTime: zf.Modified,
		})
	}
	return entries, nil
}

func readZipFile(zf *zip.File) (content []byte, err error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return io.ReadAll(rc)
}

// trimName normalizes a member name: trailing slashes are dropped.
func trimName(name string) string {
	return strings.TrimRight(name, "/")
}
