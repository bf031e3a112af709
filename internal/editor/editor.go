// Package editor holds the editing state of one file and executes decoded
// commands against it.
package editor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kobzarvs/qmacs/internal/config"
	"github.com/kobzarvs/qmacs/internal/fileio"
	"github.com/kobzarvs/qmacs/internal/gapbuf"
	"github.com/kobzarvs/qmacs/internal/gitinfo"
	"github.com/kobzarvs/qmacs/internal/logger"
	"github.com/kobzarvs/qmacs/internal/mem"
	"github.com/kobzarvs/qmacs/internal/render"
	"github.com/kobzarvs/qmacs/internal/syntax"
	"github.com/kobzarvs/qmacs/internal/sysio"
)

// Places remembers cursor offsets per file between sessions.
type Places interface {
	Place(path string) (int, bool)
	SetPlace(path string, offset int)
}

// Clipboard receives a copy of every kill.
type Clipboard interface {
	Write(p []byte) error
}

type Options struct {
	Config    config.Config
	Languages config.Languages
	// Alloc backs the text buffer and the kill slot. Nil means mem.Heap.
	Alloc     mem.Allocator
	Clipboard Clipboard
	Places    Places
}

type msgKind uint8

const (
	msgInfo msgKind = iota
	msgWarning
	msgError
)

type Editor struct {
	opts   config.EditorOptions
	langs  config.Languages
	alloc  mem.Allocator
	clip   Clipboard
	places Places

	buf     *gapbuf.Buffer
	path    string
	dirty   bool
	version int

	cursor  int
	mark    int
	markSet bool
	// goal is the display column vertical moves aim for; it is kept only
	// across consecutive vertical moves.
	goal      int
	goalValid bool

	rows int
	cols int
	view render.Viewport

	kill   KillSlot
	search search
	prompt prompt

	msg       string
	msgKind   msgKind
	quitArmed bool
	done      bool
	redraw    bool

	hl     syntax.Highlighter
	lang   string
	branch string

	scratch []byte
	spans   []syntax.Span
	colors  []render.Color
	one     [1]byte
}

// New returns an editor with an empty unnamed buffer.
func New(o Options) (*Editor, error) {
	alloc := o.Alloc
	if alloc == nil {
		alloc = mem.Heap{}
	}
	opts := o.Config.Editor
	if opts.TabWidth < 1 {
		opts.TabWidth = 8
	}
	if opts.InitialCapacity <= 0 {
		opts.InitialCapacity = gapbuf.DefaultCapacity
	}
	buf, err := gapbuf.New(alloc, opts.InitialCapacity)
	if err != nil {
		return nil, err
	}
	return &Editor{
		opts:   opts,
		langs:  o.Languages,
		alloc:  alloc,
		clip:   o.Clipboard,
		places: o.Places,
		buf:    buf,
		kill:   KillSlot{alloc: alloc},
	}, nil
}

// Open loads path into a fresh buffer and makes it current. A missing file
// opens empty and is created on the first save. On error the current buffer
// is kept.
func (e *Editor) Open(path string) error {
	buf, err := gapbuf.New(e.alloc, e.opts.InitialCapacity)
	if err != nil {
		return err
	}
	created, err := fileio.Open(path, buf)
	if err != nil {
		_ = buf.Free()
		return err
	}
	e.recordPlace()
	if err := e.buf.Free(); err != nil {
		logger.Warn("free buffer", "error", err)
	}
	e.buf = buf
	e.path = path
	e.dirty = false
	e.version++
	e.cursor = 0
	e.markSet = false
	e.goalValid = false
	e.view.Top, e.view.Left = 0, 0
	e.search = search{last: e.search.last}
	if e.places != nil && config.Enabled(e.opts.SavePlace) {
		if off, ok := e.places.Place(path); ok {
			e.cursor = min(max(off, 0), buf.Len())
		}
	}
	e.bindPath(path)
	logger.Info("open", "path", path, "bytes", buf.Len(), "created", created, "highlight", e.lang)
	if created {
		e.setMessage(msgInfo, "(New file)")
	} else {
		e.setMessage(msgInfo, "")
	}
	e.scroll()
	return nil
}

// bindPath picks the highlighter and git branch for path.
func (e *Editor) bindPath(path string) {
	e.path = path
	e.hl = syntax.For(path, e.langs, e.opts.Highlighter, e.buf.Len())
	e.lang = ""
	if e.hl != nil {
		e.lang = e.hl.Name()
	}
	e.branch = ""
	if config.Enabled(e.opts.GitBranch) {
		e.branch = gitinfo.Branch(path)
	}
}

// Save writes the buffer to its file. An unnamed buffer asks for a name.
func (e *Editor) Save() {
	if e.path == "" {
		e.startPrompt(promptWrite, "Write file: ", "")
		return
	}
	e.saveAs(e.path)
}

func (e *Editor) saveAs(path string) {
	if err := fileio.Save(path, e.buf); err != nil {
		logger.Error("save", "path", path, "error", err)
		e.setMessage(msgError, saveError(err))
		return
	}
	if path != e.path {
		e.bindPath(path)
	}
	e.dirty = false
	e.recordPlace()
	logger.Info("save", "path", path, "bytes", e.buf.Len())
	e.setMessage(msgInfo, fmt.Sprintf("Wrote %s", path))
}

func saveError(err error) string {
	var se *sysio.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case sysio.Permission:
			return fmt.Sprintf("Permission denied: %s", se.Path)
		case sysio.NotFound:
			return fmt.Sprintf("No such directory: %s", filepath.Dir(se.Path))
		}
	}
	return fmt.Sprintf("Error writing file: %v", err)
}

func (e *Editor) recordPlace() {
	if e.places == nil || e.path == "" || !config.Enabled(e.opts.SavePlace) {
		return
	}
	e.places.SetPlace(e.path, e.cursor)
}

// Close records the cursor place and releases the buffer and kill slot.
func (e *Editor) Close() error {
	e.recordPlace()
	err := e.kill.Free()
	if e.buf != nil {
		err = errors.Join(err, e.buf.Free())
	}
	return err
}

// Resize sets the terminal size the next frame is composed for.
func (e *Editor) Resize(rows, cols int) {
	if rows != e.rows || cols != e.cols {
		logger.Debug("resize", "rows", rows, "cols", cols)
	}
	e.rows, e.cols = max(rows, 0), max(cols, 0)
	e.view.Rows, _ = render.Layout(e.rows)
	e.view.Cols = e.cols
	e.scroll()
}

// Done reports whether the user asked to quit.
func (e *Editor) Done() bool { return e.done }

// TakeRedraw reports and clears a request for a full redraw.
func (e *Editor) TakeRedraw() bool {
	r := e.redraw
	e.redraw = false
	return r
}

func (e *Editor) Cursor() int { return e.cursor }

// Mark returns the mark and whether it is set.
func (e *Editor) Mark() (int, bool) { return e.mark, e.markSet }

func (e *Editor) Path() string { return e.path }

func (e *Editor) Dirty() bool { return e.dirty }

func (e *Editor) Len() int { return e.buf.Len() }

// Text returns a copy of the document.
func (e *Editor) Text() []byte { return e.buf.Bytes() }

// Killed returns the kill slot contents, or nil when it is empty.
func (e *Editor) Killed() []byte { return e.kill.Bytes() }

func (e *Editor) Message() string { return e.msg }

func (e *Editor) Viewport() render.Viewport { return e.view }

// Language is the name of the highlighter in use, or "".
func (e *Editor) Language() string { return e.lang }

func (e *Editor) setMessage(kind msgKind, msg string) {
	e.msg, e.msgKind = msg, kind
}

// fail reports a failed edit. Nothing in the buffer has changed.
func (e *Editor) fail(err error) {
	if errors.Is(err, gapbuf.ErrOutOfCapacity) {
		logger.Warn("buffer growth refused", "len", e.buf.Len(), "cap", e.buf.Cap(), "error", err)
		e.setMessage(msgError, "Buffer is full")
		return
	}
	logger.Error("edit failed", "error", err)
	e.setMessage(msgError, err.Error())
}

// scroll keeps the cursor inside the viewport.
func (e *Editor) scroll() {
	row, col := e.cursorRowCol()
	e.view.Scroll(row, col)
}

// cursorRowCol returns the cursor's line and display column.
func (e *Editor) cursorRowCol() (row, col int) {
	row, _ = e.buf.RowCol(e.cursor)
	start := e.buf.LineStart(e.cursor)
	e.scratch = e.buf.Slice(e.scratch[:0], start, e.cursor-start)
	return row, render.Column(e.scratch, len(e.scratch), e.opts.TabWidth)
}
