package editor

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/qmacs/internal/gapbuf"
	"github.com/kobzarvs/qmacs/internal/logger"
	"github.com/kobzarvs/qmacs/internal/mem"
)

// ErrKillFull is returned when the kill slot cannot grow to hold a region.
var ErrKillFull = errors.New("kill slot is full")

// KillSlot holds the most recently killed or copied run of bytes. Its
// storage comes from the same allocator as the text buffer. Each Set
// replaces the previous contents.
type KillSlot struct {
	alloc mem.Allocator
	data  []byte
	n     int
	full  bool
}

// Set copies n bytes at off from buf into the slot. When the slot cannot
// grow, its previous contents are kept.
func (k *KillSlot) Set(buf *gapbuf.Buffer, off, n int) error {
	if n > len(k.data) {
		data, err := k.alloc.Grow(k.data, n)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrKillFull, err)
		}
		k.data = data
		if len(data) < n {
			return fmt.Errorf("%w: need %d bytes, have %d", ErrKillFull, n, len(data))
		}
	}
	k.n = len(buf.Slice(k.data[:0], off, n))
	k.full = true
	return nil
}

// Bytes returns the slot contents, or nil when the slot is empty. The
// result is valid until the next Set.
func (k *KillSlot) Bytes() []byte {
	if !k.full {
		return nil
	}
	return k.data[:k.n]
}

func (k *KillSlot) Full() bool { return k.full }

func (k *KillSlot) Free() error {
	data := k.data
	k.data, k.n, k.full = nil, 0, false
	if data == nil {
		return nil
	}
	return k.alloc.Free(data)
}

func (e *Editor) setMark() {
	e.mark, e.markSet = e.cursor, true
	e.setMessage(msgInfo, "Mark set")
}

// region returns the bounds of the text between mark and cursor.
func (e *Editor) region() (start, end int) {
	return min(e.mark, e.cursor), max(e.mark, e.cursor)
}

// killRegion copies the region into the kill slot and, when remove is set,
// deletes it. The mark is cleared afterwards.
func (e *Editor) killRegion(remove bool) {
	if !e.markSet {
		e.setMessage(msgError, "The mark is not set now, so there is no region")
		return
	}
	start, end := e.region()
	if start == end {
		e.setMessage(msgWarning, "The region is empty")
		return
	}
	if !e.setKill(start, end-start) {
		return
	}
	if remove {
		if !e.remove(start, end-start) {
			return
		}
		e.cursor = start
	} else {
		e.setMessage(msgInfo, "Copied region")
	}
	e.markSet = false
}

// killLine kills to the end of the line, or the newline itself when the
// cursor is already there.
func (e *Editor) killLine() {
	end := e.buf.LineEnd(e.cursor)
	if end == e.cursor {
		if end >= e.buf.Len() {
			e.setMessage(msgWarning, "End of buffer")
			return
		}
		end++
	}
	if e.setKill(e.cursor, end-e.cursor) {
		e.remove(e.cursor, end-e.cursor)
	}
}

func (e *Editor) setKill(off, n int) bool {
	if err := e.kill.Set(e.buf, off, n); err != nil {
		logger.Warn("kill slot growth refused", "bytes", n, "error", err)
		e.setMessage(msgError, "Kill slot is full")
		return false
	}
	if e.clip != nil {
		if err := e.clip.Write(e.kill.Bytes()); err != nil {
			logger.Warn("clipboard write", "error", err)
		}
	}
	return true
}

func (e *Editor) yank() {
	if !e.kill.Full() {
		e.setMessage(msgWarning, "Kill slot is empty")
		return
	}
	e.insert(e.kill.Bytes())
}
