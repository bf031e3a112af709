package editor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kobzarvs/qmacs/internal/gapbuf"
	"github.com/kobzarvs/qmacs/internal/input"
	"github.com/kobzarvs/qmacs/internal/logger"
	"github.com/kobzarvs/qmacs/internal/sysio"
)

type promptKind uint8

const (
	promptFind promptKind = iota
	promptWrite
)

// prompt is a one-line question on the message row.
type prompt struct {
	active bool
	kind   promptKind
	label  string
	input  []byte
}

func (e *Editor) startPrompt(kind promptKind, label, initial string) {
	e.prompt = prompt{active: true, kind: kind, label: label, input: append(e.prompt.input[:0], initial...)}
	e.setMessage(msgInfo, "")
}

// promptDir is the initial answer for a file prompt: the directory of the
// current file.
func (e *Editor) promptDir() string {
	if e.path == "" {
		return ""
	}
	dir := filepath.Dir(e.path)
	if dir == "." {
		return ""
	}
	return dir + string(filepath.Separator)
}

func (e *Editor) promptCommand(cmd input.Command) {
	p := &e.prompt
	switch cmd.Kind {
	case input.InsertByte:
		if cmd.Byte >= 0x20 {
			p.input = append(p.input, cmd.Byte)
		}
	case input.Backspace:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case input.KillLine:
		p.input = p.input[:0]
	case input.Cancel:
		p.active = false
		e.setMessage(msgInfo, "Quit")
	case input.Newline:
		p.active = false
		e.submitPrompt(string(p.input))
	}
}

func (e *Editor) submitPrompt(answer string) {
	if answer == "" {
		e.setMessage(msgWarning, "No file name given")
		return
	}
	switch e.prompt.kind {
	case promptFind:
		if err := e.Open(answer); err != nil {
			logger.Error("open", "path", answer, "error", err)
			e.ShowOpenError(err)
		}
	case promptWrite:
		e.saveAs(answer)
	}
}

// ShowOpenError reports a failed Open on the message row.
func (e *Editor) ShowOpenError(err error) {
	e.setMessage(msgError, openError(err))
}

func openError(err error) string {
	var se *sysio.Error
	switch {
	case errors.Is(err, gapbuf.ErrOutOfCapacity):
		return "File is too large for the buffer"
	case errors.As(err, &se) && se.Kind == sysio.Permission:
		return fmt.Sprintf("Permission denied: %s", se.Path)
	}
	return fmt.Sprintf("Cannot open: %v", err)
}
