package render

import "github.com/mattn/go-runewidth"

// Color is a color class; the Palette maps it to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorComment
	ColorKeyword
	ColorString
	ColorNumber
	ColorDelimiter
	ColorType
	ColorFunction
	ColorConstant
	ColorSelection
	ColorMatch
	ColorStatus
	ColorMessage
	ColorWarning
	ColorError
	ColorPrompt
	numColors
)

// Cell is one screen column. Ch is 0 on the right half of a wide rune.
type Cell struct {
	Ch    rune
	Color Color
}

var blank = Cell{Ch: ' '}

// Frame is a full screen image plus the cursor position.
type Frame struct {
	Rows      int
	Cols      int
	CursorRow int
	CursorCol int
	cells     []Cell
	used      []int
}

// Reset resizes the frame and clears it to blanks, reusing storage.
func (f *Frame) Reset(rows, cols int) {
	rows, cols = max(rows, 0), max(cols, 0)
	n := rows * cols
	if cap(f.cells) < n {
		f.cells = make([]Cell, n)
	}
	f.cells = f.cells[:n]
	for i := range f.cells {
		f.cells[i] = blank
	}
	if cap(f.used) < rows {
		f.used = make([]int, rows)
	}
	f.used = f.used[:rows]
	clear(f.used)
	f.Rows, f.Cols = rows, cols
	f.CursorRow, f.CursorCol = 0, 0
}

// Row returns the cells of row r.
func (f *Frame) Row(r int) []Cell {
	return f.cells[r*f.Cols : (r+1)*f.Cols]
}

// Used is one past the last column drawn on row r.
func (f *Frame) Used(r int) int { return f.used[r] }

func (f *Frame) SetCursor(row, col int) {
	f.CursorRow = min(max(row, 0), max(f.Rows-1, 0))
	f.CursorCol = min(max(col, 0), max(f.Cols-1, 0))
}

func (f *Frame) set(r, c int, cell Cell) {
	f.cells[r*f.Cols+c] = cell
	if c+1 > f.used[r] {
		f.used[r] = c + 1
	}
}

// PutText draws s on row r from column col and returns the column after it.
// Control runes show as '?'. A rune that would cross the right edge stops
// the text.
func (f *Frame) PutText(r, col int, s string, color Color) int {
	for _, ch := range s {
		if ch < 0x20 || ch == 0x7f {
			ch = '?'
		}
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col < 0 || col+w > f.Cols {
			break
		}
		f.set(r, col, Cell{Ch: ch, Color: color})
		if w == 2 {
			f.set(r, col+1, Cell{Color: color})
		}
		col += w
	}
	return col
}

// Fill draws ch from col to the end of row r.
func (f *Frame) Fill(r, col int, ch rune, color Color) {
	for ; col < f.Cols; col++ {
		f.set(r, col, Cell{Ch: ch, Color: color})
	}
}

// DrawLine draws the document bytes of one line on row r, skipping the
// first left display columns. colors[i] is the color of line[i].
func (f *Frame) DrawLine(r int, line []byte, colors []Color, left, tab int) {
	col := 0
	for i, b := range line {
		w := ByteWidth(b, col, tab)
		color := ColorDefault
		if i < len(colors) {
			color = colors[i]
		}
		for k := 0; k < w; k++ {
			x := col + k - left
			if x >= f.Cols {
				return
			}
			if x >= 0 {
				f.set(r, x, Cell{Ch: rune(glyph(b, k)), Color: color})
			}
		}
		col += w
	}
}

// ByteWidth is the number of cells byte b takes when it starts at display
// column col. Tabs run to the next tab stop, control bytes show as ^X and
// bytes above 0x7f as a backslash and three octal digits.
func ByteWidth(b byte, col, tab int) int {
	switch {
	case b == '\t':
		if tab <= 0 {
			tab = 8
		}
		return tab - col%tab
	case b < 0x20 || b == 0x7f:
		return 2
	case b >= 0x80:
		return 4
	}
	return 1
}

// Column returns the display column reached after line[:n].
func Column(line []byte, n, tab int) int {
	col := 0
	for _, b := range line[:min(n, len(line))] {
		col += ByteWidth(b, col, tab)
	}
	return col
}

func glyph(b byte, k int) byte {
	switch {
	case b == '\t':
		return ' '
	case b < 0x20 || b == 0x7f:
		if k == 0 {
			return '^'
		}
		return b ^ 0x40
	case b >= 0x80:
		if k == 0 {
			return '\\'
		}
		return '0' + (b>>(3*(3-k)))&7
	}
	return b
}
