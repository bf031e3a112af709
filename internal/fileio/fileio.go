// Package fileio moves documents between files and text buffers.
package fileio

import (
	"io"
	"os"

	"github.com/kobzarvs/qmacs/internal/gapbuf"
	"github.com/kobzarvs/qmacs/internal/sysio"
)

// ChunkSize is the read size used when loading a file.
const ChunkSize = 64 << 10

// Open replaces the contents of buf with the file at path. A missing file
// leaves buf empty and reports created; it is written on the first save.
func Open(path string, buf *gapbuf.Buffer) (created bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if sysio.Classify(err) == sysio.NotFound {
			buf.Reset()
			return true, nil
		}
		return false, sysio.Wrap("open", path, err)
	}
	defer f.Close()

	buf.Reset()
	chunk := make([]byte, ChunkSize)
	for {
		n, err := sysio.Read(f, chunk)
		if n > 0 {
			if err := buf.Insert(buf.Len(), chunk[:n]); err != nil {
				return false, sysio.Wrap("load", path, err)
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, sysio.Wrap("read", path, err)
		}
	}
}

// Save writes the document in buf to path in place, creating the file with
// mode 0644 if needed.
func Save(path string, buf *gapbuf.Buffer) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return sysio.Wrap("open", path, err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		return sysio.Wrap("write", path, err)
	}
	if err := f.Close(); err != nil {
		return sysio.Wrap("close", path, err)
	}
	return nil
}
