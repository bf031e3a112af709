package editor

import "github.com/kobzarvs/qmacs/internal/syntax"

// insert places p at the cursor and moves the cursor past it. A mark after
// the cursor moves with its text.
func (e *Editor) insert(p []byte) bool {
	if err := e.buf.Insert(e.cursor, p); err != nil {
		e.fail(err)
		return false
	}
	if inc := e.incremental(); inc != nil {
		start := e.point(e.cursor)
		inc.Edit(syntax.Edit{
			Start:       e.cursor,
			OldEnd:      e.cursor,
			NewEnd:      e.cursor + len(p),
			StartPoint:  start,
			OldEndPoint: start,
			NewEndPoint: e.point(e.cursor + len(p)),
		})
	}
	if e.markSet && e.mark > e.cursor {
		e.mark += len(p)
	}
	e.cursor += len(p)
	e.touch()
	return true
}

func (e *Editor) insertByte(b byte) bool {
	e.one[0] = b
	return e.insert(e.one[:])
}

// remove deletes n bytes at off. The cursor and mark stay attached to the
// text around the hole.
func (e *Editor) remove(off, n int) bool {
	if n <= 0 {
		return true
	}
	inc := e.incremental()
	var edit syntax.Edit
	if inc != nil {
		edit = syntax.Edit{Start: off, OldEnd: off + n, NewEnd: off}
		edit.StartPoint, edit.OldEndPoint = e.point(off), e.point(off+n)
		edit.NewEndPoint = edit.StartPoint
	}
	if err := e.buf.Delete(off, n); err != nil {
		e.fail(err)
		return false
	}
	if inc != nil {
		inc.Edit(edit)
	}
	e.cursor = shift(e.cursor, off, n)
	if e.markSet {
		e.mark = shift(e.mark, off, n)
	}
	e.touch()
	return true
}

func shift(pos, off, n int) int {
	switch {
	case pos >= off+n:
		return pos - n
	case pos > off:
		return off
	}
	return pos
}

// incremental returns the highlighter when it wants to hear about edits.
func (e *Editor) incremental() syntax.Incremental {
	inc, _ := e.hl.(syntax.Incremental)
	return inc
}

func (e *Editor) point(off int) syntax.Point {
	row, col := e.buf.RowCol(off)
	return syntax.Point{Row: row, Col: col}
}

func (e *Editor) touch() {
	e.dirty = true
	e.version++
}

func (e *Editor) backspace() {
	if e.cursor == 0 {
		e.setMessage(msgWarning, "Beginning of buffer")
		return
	}
	e.remove(e.cursor-1, 1)
}

func (e *Editor) deleteChar() {
	if e.cursor >= e.buf.Len() {
		e.setMessage(msgWarning, "End of buffer")
		return
	}
	e.remove(e.cursor, 1)
}

// openLine inserts a newline after the cursor without moving it.
func (e *Editor) openLine() {
	if e.insertByte('\n') {
		e.cursor--
	}
}
