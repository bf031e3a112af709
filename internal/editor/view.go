package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qmacs/internal/render"
	"github.com/kobzarvs/qmacs/internal/syntax"
)

var classColors = [...]render.Color{
	syntax.Plain:     render.ColorDefault,
	syntax.Comment:   render.ColorComment,
	syntax.Keyword:   render.ColorKeyword,
	syntax.String:    render.ColorString,
	syntax.Number:    render.ColorNumber,
	syntax.Delimiter: render.ColorDelimiter,
	syntax.Type:      render.ColorType,
	syntax.Function:  render.ColorFunction,
	syntax.Constant:  render.ColorConstant,
}

var messageColors = [...]render.Color{
	msgInfo:    render.ColorMessage,
	msgWarning: render.ColorWarning,
	msgError:   render.ColorError,
}

// Compose draws the editor state into f, sized to the last Resize.
func (e *Editor) Compose(f *render.Frame) {
	f.Reset(e.rows, e.cols)
	text, bars := render.Layout(e.rows)
	e.view.Rows, e.view.Cols = text, e.cols
	e.scroll()

	first := e.view.Top
	last := min(first+text, e.buf.LineCount()) - 1
	if e.hl != nil && last >= first {
		e.hl.Update(e.buf, e.version, first, last)
	}
	off := e.buf.LineOffset(first)
	for r := 0; first+r <= last; r++ {
		end := e.buf.LineEnd(off)
		e.scratch = e.buf.Slice(e.scratch[:0], off, end-off)
		e.lineColors(first+r, off, e.scratch)
		f.DrawLine(r, e.scratch, e.colors, e.view.Left, e.opts.TabWidth)
		off = end + 1
	}

	row, col := e.cursorRowCol()
	f.SetCursor(row-e.view.Top, col-e.view.Left)
	if !bars {
		return
	}
	e.drawStatus(f, text, row, col)
	e.drawMessage(f, text+1)
}

// lineColors fills e.colors for the line at off. Selection wins over the
// search match, which wins over syntax.
func (e *Editor) lineColors(row, off int, line []byte) {
	e.colors = e.colors[:0]
	for range line {
		e.colors = append(e.colors, render.ColorDefault)
	}
	if e.hl != nil {
		e.spans = e.hl.Line(e.spans[:0], row, line)
		for _, s := range e.spans {
			c := render.ColorDefault
			if int(s.Class) < len(classColors) {
				c = classColors[s.Class]
			}
			for i := max(s.Start, 0); i < min(s.End, len(line)); i++ {
				e.colors[i] = c
			}
		}
	}
	paint := func(start, end int, c render.Color) {
		for i := max(start-off, 0); i < min(end-off, len(line)); i++ {
			e.colors[i] = c
		}
	}
	if start, end, ok := e.matchRange(); ok {
		paint(start, end, render.ColorMatch)
	}
	if e.markSet {
		start, end := e.region()
		paint(start, end, render.ColorSelection)
	}
}

func (e *Editor) drawStatus(f *render.Frame, r, row, col int) {
	name := "[No Name]"
	if e.path != "" {
		name = filepath.Base(e.path)
	}
	if e.dirty {
		name += "*"
	}
	right := fmt.Sprintf("L%d:%d", row+1, col)
	if e.lang != "" {
		right += "  (" + e.lang + ")"
	}
	if e.branch != "" {
		right += "  " + formatGitBranch(e.opts.GitBranchSymbol, e.branch)
	}
	f.Fill(r, 0, ' ', render.ColorStatus)
	f.PutText(r, 0, composeStatusLine(" "+name+" ", right+" ", f.Cols), render.ColorStatus)
}

// drawMessage shows the active prompt or search with the cursor at its end,
// or else the last message.
func (e *Editor) drawMessage(f *render.Frame, r int) {
	var label, answer string
	switch {
	case e.prompt.active:
		label, answer = e.prompt.label, string(e.prompt.input)
	case e.search.active:
		label, answer = e.searchLabel(), string(e.search.query)
	default:
		f.PutText(r, 0, e.msg, messageColors[e.msgKind])
		return
	}
	// Keep the end of a long answer visible.
	room := f.Cols - runewidth.StringWidth(label) - 1
	if w := runewidth.StringWidth(answer); room > 0 && w > room {
		answer = runewidth.TruncateLeft(answer, w-room, "")
	}
	col := f.PutText(r, 0, label, render.ColorPrompt)
	col = f.PutText(r, col, answer, render.ColorDefault)
	f.SetCursor(r, col)
}

// composeStatusLine places left and right at the two ends of a line width
// columns wide, cutting left first and then the start of right.
func composeStatusLine(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	lw, rw := runewidth.StringWidth(left), runewidth.StringWidth(right)
	if lw+rw > width {
		if rw >= width {
			right = runewidth.TruncateLeft(right, rw-width, "")
			rw = runewidth.StringWidth(right)
			left, lw = "", 0
		} else {
			left = runewidth.Truncate(left, width-rw, "")
			lw = runewidth.StringWidth(left)
		}
	}
	return left + strings.Repeat(" ", max(width-lw-rw, 0)) + right
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") || strings.HasSuffix(symbol, " ") {
		return symbol + branch
	}
	return symbol + " " + branch
}
