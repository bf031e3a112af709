package gapbuf

import "bytes"

// IndexByte returns the first logical offset >= from holding c, or -1.
func (b *Buffer) IndexByte(from int, c byte) int {
	a, t := b.Runs()
	if from < 0 {
		from = 0
	}
	if from < len(a) {
		if i := bytes.IndexByte(a[from:], c); i >= 0 {
			return from + i
		}
		from = len(a)
	}
	if from-len(a) >= len(t) {
		return -1
	}
	if i := bytes.IndexByte(t[from-len(a):], c); i >= 0 {
		return from + i
	}
	return -1
}

// LastIndexByte returns the last logical offset < before holding c, or -1.
func (b *Buffer) LastIndexByte(before int, c byte) int {
	a, t := b.Runs()
	if before > b.Len() {
		before = b.Len()
	}
	if before > len(a) {
		if i := bytes.LastIndexByte(t[:before-len(a)], c); i >= 0 {
			return len(a) + i
		}
		before = len(a)
	}
	if before <= 0 {
		return -1
	}
	return bytes.LastIndexByte(a[:before], c)
}

// Count returns the number of c bytes in [from, to).
func (b *Buffer) Count(from, to int, c byte) int {
	a, t := b.Runs()
	from = max(from, 0)
	to = min(to, b.Len())
	if from >= to {
		return 0
	}
	n := 0
	sep := []byte{c}
	if from < len(a) {
		n += bytes.Count(a[from:min(to, len(a))], sep)
	}
	if to > len(a) {
		n += bytes.Count(t[max(from, len(a))-len(a):to-len(a)], sep)
	}
	return n
}

// LineStart returns the offset of the first byte of the line holding off.
func (b *Buffer) LineStart(off int) int {
	return b.LastIndexByte(off, '\n') + 1
}

// LineEnd returns the offset of the newline ending the line holding off, or
// Len() on the last line.
func (b *Buffer) LineEnd(off int) int {
	if i := b.IndexByte(off, '\n'); i >= 0 {
		return i
	}
	return b.Len()
}

// LineCount is the number of lines; an empty document has one.
func (b *Buffer) LineCount() int {
	return b.Count(0, b.Len(), '\n') + 1
}

// RowCol returns the zero-based line and byte column of off.
func (b *Buffer) RowCol(off int) (row, col int) {
	off = min(max(off, 0), b.Len())
	return b.Count(0, off, '\n'), off - b.LineStart(off)
}

// LineOffset returns the start offset of line row. Rows past the end map to
// the start of the last line.
func (b *Buffer) LineOffset(row int) int {
	off := 0
	for ; row > 0; row-- {
		i := b.IndexByte(off, '\n')
		if i < 0 {
			break
		}
		off = i + 1
	}
	return off
}
