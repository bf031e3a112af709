// Package render draws frames on a terminal using only absolute cursor
// positioning, clear-to-end-of-line and foreground color selection. Each
// frame is diffed against the previous one row by row so only changed spans
// are written.
package render

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qmacs/internal/sysio"
)

// Stats describes the output of one Render call.
type Stats struct {
	Full  bool
	Rows  int
	Bytes int
}

type Renderer struct {
	pal   Palette
	prior Frame
	valid bool
	out   []byte
	fg    tcell.Color
	known bool
}

func NewRenderer(p Palette) *Renderer {
	return &Renderer{pal: p, out: make([]byte, 0, 16<<10)}
}

// Invalidate forces the next Render to redraw every row.
func (r *Renderer) Invalidate() { r.valid = false }

// Render writes what it takes to turn the previously rendered frame into f.
// A size change since the last frame is a full redraw.
func (r *Renderer) Render(w io.Writer, f *Frame) (Stats, error) {
	st := Stats{Full: !r.valid || r.prior.Rows != f.Rows || r.prior.Cols != f.Cols}
	r.out = r.out[:0]
	// Every frame ends with the default foreground; after a full redraw the
	// terminal state is unknown.
	r.fg, r.known = tcell.ColorDefault, !st.Full
	for row := 0; row < f.Rows; row++ {
		if st.Full {
			r.fullRow(f, row)
			st.Rows++
			continue
		}
		if r.diffRow(f, row) {
			st.Rows++
		}
	}
	if !r.known || r.fg != tcell.ColorDefault {
		r.out = appendSGR(r.out, tcell.ColorDefault)
	}
	r.moveTo(f.CursorRow, f.CursorCol)
	n, err := sysio.WriteFull(w, r.out)
	st.Bytes = n
	if err != nil {
		r.valid = false
		return st, err
	}
	r.keep(f)
	return st, nil
}

func (r *Renderer) keep(f *Frame) {
	r.prior.Reset(f.Rows, f.Cols)
	copy(r.prior.cells, f.cells)
	copy(r.prior.used, f.used)
	r.prior.CursorRow, r.prior.CursorCol = f.CursorRow, f.CursorCol
	r.valid = true
}

func (r *Renderer) fullRow(f *Frame, row int) {
	r.moveTo(row, 0)
	r.cells(f.Row(row)[:f.Used(row)])
	if f.Used(row) < f.Cols {
		r.out = append(r.out, "\x1b[K"...)
	}
}

// diffRow writes the span between the first and last changed cells of row
// and clears the tail when the old row was longer.
func (r *Renderer) diffRow(f *Frame, row int) bool {
	prev, cur := r.prior.Row(row), f.Row(row)
	first, last := -1, -1
	for c := range cur {
		if cur[c] != prev[c] {
			if first < 0 {
				first = c
			}
			last = c
		}
	}
	if first < 0 {
		return false
	}
	for first > 0 && cur[first].Ch == 0 {
		first--
	}
	used := f.Used(row)
	r.moveTo(row, first)
	if first < used {
		r.cells(cur[first : min(last+1, used)])
	}
	if last >= used {
		r.out = append(r.out, "\x1b[K"...)
	}
	return true
}

func (r *Renderer) cells(cs []Cell) {
	for _, c := range cs {
		if c.Ch == 0 {
			continue
		}
		r.color(c.Color)
		r.out = utf8.AppendRune(r.out, c.Ch)
	}
}

func (r *Renderer) color(c Color) {
	tc := r.pal[c]
	if r.known && tc == r.fg {
		return
	}
	r.out = appendSGR(r.out, tc)
	r.fg, r.known = tc, true
}

func (r *Renderer) moveTo(row, col int) {
	r.out = append(r.out, "\x1b["...)
	r.out = strconv.AppendInt(r.out, int64(row+1), 10)
	r.out = append(r.out, ';')
	r.out = strconv.AppendInt(r.out, int64(col+1), 10)
	r.out = append(r.out, 'H')
}
