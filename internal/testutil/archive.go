// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ArchiveTime is the modification time stamped on every fixture member.
var ArchiveTime = time.Date(2024, 5, 17, 9, 30, 15, 0, time.UTC)

type (
	// Compression selects how TarBuilder wraps the tar stream.
	Compression int

	// member is one fixture archive entry.
	member struct {
		name    string
		dir     bool
		content []byte
	}

	// TarBuilder collects members and serializes them as a tar stream.
	TarBuilder struct {
		members     []member
		compression Compression
	}

	// ZipBuilder collects members and serializes them as a zip archive.
	ZipBuilder struct {
		members []member
	}
)

const (
	// NoCompression writes a plain tar stream.
	NoCompression Compression = iota
	// Gzip compresses the tar stream with gzip.
	Gzip
	// Zstd compresses the tar stream with zstd.
	Zstd
)

// NewTar returns an empty TarBuilder.
func NewTar() *TarBuilder { return &TarBuilder{} }

// Dir appends a directory member.
func (b *TarBuilder) Dir(name string) *TarBuilder {
	b.members = append(b.members, member{name: name, dir: true})
	return b
}

// File appends a regular file member.
func (b *TarBuilder) File(name, content string) *TarBuilder {
	b.members = append(b.members, member{name: name, content: []byte(content)})
	return b
}

// Compress selects the compression applied by Bytes.
func (b *TarBuilder) Compress(c Compression) *TarBuilder {
	b.compression = c
	return b
}

// Bytes serializes the archive. The test fails on any encoding error.
func (b *TarBuilder) Bytes(t testing.TB) []byte {
	t.Helper()

	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	for _, m := range b.members {
		hdr := &tar.Header{
			Name:    m.name,
			ModTime: ArchiveTime,
			Mode:    0o644,
		}
		if m.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(m.content))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header %s: %v", m.name, err)
		}
		if _, err := tw.Write(m.content); err != nil {
			t.Fatalf("failed to write tar member %s: %v", m.name, err)
		}
	}
	MustClose(t, tw)

	switch b.compression {
	case Gzip:
		var out bytes.Buffer
		zw := gzip.NewWriter(&out)
		if _, err := zw.Write(raw.Bytes()); err != nil {
			t.Fatalf("failed to gzip archive: %v", err)
		}
		MustClose(t, zw)
		return out.Bytes()
	case Zstd:
		var out bytes.Buffer
		zw, err := zstd.NewWriter(&out)
		if err != nil {
			t.Fatalf("failed to create zstd writer: %v", err)
		}
		if _, err := zw.Write(raw.Bytes()); err != nil {
			t.Fatalf("failed to zstd archive: %v", err)
		}
		MustClose(t, zw)
		return out.Bytes()
	default:
		return raw.Bytes()
	}
}

// NewZip returns an empty ZipBuilder.
func NewZip() *ZipBuilder { return &ZipBuilder{} }

// Dir appends a directory member. A trailing slash is added when missing.
func (b *ZipBuilder) Dir(name string) *ZipBuilder {
	if name == "" || name[len(name)-1] != '/' {
		name += "/"
	}
	b.members = append(b.members, member{name: name, dir: true})
	return b
}

// File appends a regular file member.
func (b *ZipBuilder) File(name, content string) *ZipBuilder {
	b.members = append(b.members, member{name: name, content: []byte(content)})
	return b
}

// Bytes serializes the archive. The test fails on any encoding error.
func (b *ZipBuilder) Bytes(t testing.TB) []byte {
	t.Helper()

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, m := range b.members {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     m.name,
			Method:   zip.Deflate,
			Modified: ArchiveTime,
		})
		if err != nil {
			t.Fatalf("failed to create zip member %s: %v", m.name, err)
		}
		if _, err := w.Write(m.content); err != nil {
			t.Fatalf("failed to write zip member %s: %v", m.name, err)
		}
	}
	MustClose(t, zw)
	return out.Bytes()
}

// WriteArchive writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteArchive(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write archive %s: %v", path, err)
	}
	return path
}
