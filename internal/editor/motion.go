package editor

import "github.com/kobzarvs/qmacs/internal/render"

func (e *Editor) forwardChar() {
	if e.cursor < e.buf.Len() {
		e.cursor++
	}
}

func (e *Editor) backwardChar() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *Editor) lineStart() { e.cursor = e.buf.LineStart(e.cursor) }

func (e *Editor) lineEnd() { e.cursor = e.buf.LineEnd(e.cursor) }

// moveLines moves the cursor n lines down (up when negative), aiming for
// the goal column. It returns the number of lines actually moved.
func (e *Editor) moveLines(n int) int {
	if !e.goalValid {
		_, e.goal = e.cursorRowCol()
		e.goalValid = true
	}
	start := e.buf.LineStart(e.cursor)
	moved := 0
	for ; n > 0; n-- {
		end := e.buf.LineEnd(start)
		if end >= e.buf.Len() {
			break
		}
		start = end + 1
		moved++
	}
	for ; n < 0; n++ {
		if start == 0 {
			break
		}
		start = e.buf.LineStart(start - 1)
		moved--
	}
	e.cursor = e.offsetAtColumn(start, e.goal)
	return moved
}

// offsetAtColumn returns the offset on the line starting at start whose
// display column is the largest one not past col.
func (e *Editor) offsetAtColumn(start, col int) int {
	end := e.buf.LineEnd(start)
	e.scratch = e.buf.Slice(e.scratch[:0], start, end-start)
	x := 0
	for i, b := range e.scratch {
		w := render.ByteWidth(b, x, e.opts.TabWidth)
		if x+w > col {
			return start + i
		}
		x += w
	}
	return end
}

func (e *Editor) nextLine() {
	if e.moveLines(1) == 0 {
		e.setMessage(msgWarning, "End of buffer")
	}
}

func (e *Editor) prevLine() {
	if e.moveLines(-1) == 0 {
		e.setMessage(msgWarning, "Beginning of buffer")
	}
}

func (e *Editor) pageLines() int {
	return max(e.view.Rows-1, 1)
}

// pageDown scrolls the view and the cursor together by a screen less one
// line.
func (e *Editor) pageDown() {
	moved := e.moveLines(e.pageLines())
	if moved == 0 {
		e.setMessage(msgWarning, "End of buffer")
		return
	}
	e.view.Top += moved
}

func (e *Editor) pageUp() {
	moved := e.moveLines(-e.pageLines())
	if moved == 0 {
		e.setMessage(msgWarning, "Beginning of buffer")
		return
	}
	e.view.Top = max(e.view.Top+moved, 0)
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// wordForward moves to the end of the next word.
func (e *Editor) wordForward() {
	n := e.buf.Len()
	for e.cursor < n {
		if b, _ := e.buf.ByteAt(e.cursor); isWordByte(b) {
			break
		}
		e.cursor++
	}
	for e.cursor < n {
		if b, _ := e.buf.ByteAt(e.cursor); !isWordByte(b) {
			break
		}
		e.cursor++
	}
}

// wordBackward moves to the start of the previous word.
func (e *Editor) wordBackward() {
	for e.cursor > 0 {
		if b, _ := e.buf.ByteAt(e.cursor - 1); isWordByte(b) {
			break
		}
		e.cursor--
	}
	for e.cursor > 0 {
		if b, _ := e.buf.ByteAt(e.cursor - 1); !isWordByte(b) {
			break
		}
		e.cursor--
	}
}
