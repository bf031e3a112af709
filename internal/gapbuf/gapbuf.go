// Package gapbuf implements the document store: a single byte region split
// into two runs by a movable gap.
//
// Logical offset i lives at physical offset i when i < gapStart and at
// i + (gapEnd - gapStart) otherwise. Edits move the gap to the edit point, so
// localized edits are cheap and a long jump costs a copy of the bytes the gap
// passes over. Capacity only changes through the buffer's mem.Allocator.
package gapbuf

import (
	"errors"
	"fmt"
	"io"

	"github.com/kobzarvs/qmacs/internal/mem"
	"github.com/kobzarvs/qmacs/internal/sysio"
)

// DefaultCapacity is the initial capacity of an editor buffer.
const DefaultCapacity = 4096

// minGap is the slack left in the gap after a growth.
const minGap = 256

var (
	ErrOutOfCapacity = errors.New("gapbuf: out of capacity")
	ErrRange         = errors.New("gapbuf: offset out of range")
)

type Buffer struct {
	alloc    mem.Allocator
	data     []byte
	gapStart int
	gapEnd   int
}

// New returns an empty buffer with room for capacity bytes.
func New(alloc mem.Allocator, capacity int) (*Buffer, error) {
	if alloc == nil {
		alloc = mem.Heap{}
	}
	if capacity < 0 {
		capacity = 0
	}
	data, err := alloc.Alloc(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfCapacity, err)
	}
	return &Buffer{alloc: alloc, data: data, gapEnd: len(data)}, nil
}

// Len is the logical length of the document.
func (b *Buffer) Len() int { return len(b.data) - (b.gapEnd - b.gapStart) }

// Cap is the size of the backing region.
func (b *Buffer) Cap() int { return len(b.data) }

// Gap reports the physical bounds of the gap.
func (b *Buffer) Gap() (start, end int) { return b.gapStart, b.gapEnd }

// Runs returns the document as the run before the gap and the run after it.
// Both alias the buffer and are valid until the next mutation.
func (b *Buffer) Runs() (before, after []byte) {
	return b.data[:b.gapStart], b.data[b.gapEnd:]
}

// ByteAt returns the byte at logical offset off.
func (b *Buffer) ByteAt(off int) (byte, bool) {
	if off < 0 || off >= b.Len() {
		return 0, false
	}
	if off < b.gapStart {
		return b.data[off], true
	}
	return b.data[off+b.gapEnd-b.gapStart], true
}

// Slice appends the logical bytes [off, off+n) to dst, clamped to the
// document, and returns the extended slice.
func (b *Buffer) Slice(dst []byte, off, n int) []byte {
	if off < 0 {
		n += off
		off = 0
	}
	if end := b.Len(); off+n > end {
		n = end - off
	}
	if n <= 0 {
		return dst
	}
	end := off + n
	if off < b.gapStart {
		stop := min(end, b.gapStart)
		dst = append(dst, b.data[off:stop]...)
		off = stop
	}
	if off < end {
		gap := b.gapEnd - b.gapStart
		dst = append(dst, b.data[off+gap:end+gap]...)
	}
	return dst
}

// Bytes returns a copy of the whole document.
func (b *Buffer) Bytes() []byte {
	return b.Slice(make([]byte, 0, b.Len()), 0, b.Len())
}

// WriteTo writes the document to w, retrying short and interrupted writes.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	a, t := b.Runs()
	for _, run := range [2][]byte{a, t} {
		n, err := sysio.WriteFull(w, run)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Contiguous moves the gap to the end of the document and returns the
// document as one slice aliasing the buffer, valid until the next mutation.
func (b *Buffer) Contiguous() []byte {
	b.moveGap(b.Len())
	return b.data[:b.gapStart]
}

func (b *Buffer) moveGap(off int) {
	switch {
	case off < b.gapStart:
		n := b.gapStart - off
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[off:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	case off > b.gapStart:
		n := off - b.gapStart
		copy(b.data[b.gapStart:], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// reserve makes the gap at least n bytes wide. On failure the document is
// unchanged.
func (b *Buffer) reserve(n int) error {
	if b.gapEnd-b.gapStart >= n {
		return nil
	}
	oldCap := len(b.data)
	want := max(2*oldCap, b.Len()+n+minGap)
	data, err := b.alloc.Grow(b.data, want)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfCapacity, err)
	}
	b.data = data
	b.shiftTail(oldCap)
	if b.gapEnd-b.gapStart < n {
		// The allocator clamped the request below what this insert needs.
		return fmt.Errorf("%w: need %d bytes, have %d", ErrOutOfCapacity, b.Len()+n, len(b.data))
	}
	return nil
}

// shiftTail moves the run after the gap to the end of a region that just
// grew from oldCap bytes.
func (b *Buffer) shiftTail(oldCap int) {
	if len(b.data) == oldCap {
		return
	}
	tail := oldCap - b.gapEnd
	copy(b.data[len(b.data)-tail:], b.data[b.gapEnd:oldCap])
	b.gapEnd = len(b.data) - tail
}

// Insert places p at logical offset off.
func (b *Buffer) Insert(off int, p []byte) error {
	if off < 0 || off > b.Len() {
		return fmt.Errorf("insert at %d of %d: %w", off, b.Len(), ErrRange)
	}
	if len(p) == 0 {
		return nil
	}
	if err := b.reserve(len(p)); err != nil {
		return err
	}
	b.moveGap(off)
	copy(b.data[b.gapStart:], p)
	b.gapStart += len(p)
	return nil
}

// Delete removes n bytes starting at off by widening the gap over them.
func (b *Buffer) Delete(off, n int) error {
	if off < 0 || n < 0 || off+n > b.Len() {
		return fmt.Errorf("delete %d at %d of %d: %w", n, off, b.Len(), ErrRange)
	}
	if n == 0 {
		return nil
	}
	b.moveGap(off)
	b.gapEnd += n
	return nil
}

// Load replaces the document with p.
func (b *Buffer) Load(p []byte) error {
	if len(p) > len(b.data) {
		data, err := b.alloc.Grow(b.data, len(p)+minGap)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfCapacity, err)
		}
		if len(data) < len(p) {
			return fmt.Errorf("%w: need %d bytes, have %d", ErrOutOfCapacity, len(p), len(data))
		}
		b.data = data
	}
	copy(b.data, p)
	b.gapStart = len(p)
	b.gapEnd = len(b.data)
	return nil
}

// Reset empties the document without releasing capacity.
func (b *Buffer) Reset() {
	b.gapStart = 0
	b.gapEnd = len(b.data)
}

// Free returns the backing region to the allocator. The buffer is empty
// and unusable for growth-free edits afterwards.
func (b *Buffer) Free() error {
	data := b.data
	b.data, b.gapStart, b.gapEnd = nil, 0, 0
	return b.alloc.Free(data)
}
