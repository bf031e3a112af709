package editor

import (
	"github.com/kobzarvs/qmacs/internal/input"
	"github.com/kobzarvs/qmacs/internal/logger"
)

// Dispatch executes one command. Its effects are complete when it returns.
func (e *Editor) Dispatch(cmd input.Command) {
	defer e.scroll()
	if e.prompt.active {
		e.promptCommand(cmd)
		return
	}
	if e.search.active && e.searchCommand(cmd) {
		return
	}
	e.msg = ""
	if cmd.Kind != input.Quit {
		e.quitArmed = false
	}
	switch cmd.Kind {
	case input.NextLine, input.PrevLine, input.PageDown, input.PageUp:
	default:
		e.goalValid = false
	}

	switch cmd.Kind {
	case input.InsertByte:
		e.insertByte(cmd.Byte)
	case input.Newline:
		e.insertByte('\n')
	case input.OpenLine:
		e.openLine()
	case input.Backspace:
		e.backspace()
	case input.DeleteChar:
		e.deleteChar()
	case input.ForwardChar:
		e.forwardChar()
	case input.BackwardChar:
		e.backwardChar()
	case input.NextLine:
		e.nextLine()
	case input.PrevLine:
		e.prevLine()
	case input.LineStart:
		e.lineStart()
	case input.LineEnd:
		e.lineEnd()
	case input.WordForward:
		e.wordForward()
	case input.WordBackward:
		e.wordBackward()
	case input.PageDown:
		e.pageDown()
	case input.PageUp:
		e.pageUp()
	case input.BufferStart:
		e.cursor = 0
	case input.BufferEnd:
		e.cursor = e.buf.Len()
	case input.SetMark:
		e.setMark()
	case input.KillRegion:
		e.killRegion(true)
	case input.CopyRegion:
		e.killRegion(false)
	case input.KillLine:
		e.killLine()
	case input.Yank:
		e.yank()
	case input.SearchForward:
		e.startSearch(true)
	case input.SearchBackward:
		e.startSearch(false)
	case input.Cancel:
		e.markSet = false
		e.setMessage(msgInfo, "Quit")
	case input.Refresh:
		e.redraw = true
	case input.OpenFile:
		if e.dirty {
			e.setMessage(msgWarning, "Buffer has unsaved changes; save first")
			return
		}
		e.startPrompt(promptFind, "Find file: ", e.promptDir())
	case input.SaveFile:
		e.Save()
	case input.WriteFile:
		e.startPrompt(promptWrite, "Write file: ", e.promptDir())
	case input.Quit:
		e.quit()
	}
}

// quit ends the session, asking for a second C-x C-c when there are unsaved
// changes.
func (e *Editor) quit() {
	if e.dirty && !e.quitArmed {
		e.quitArmed = true
		e.setMessage(msgWarning, "Modified buffer; C-x C-c again to quit without saving")
		return
	}
	logger.Info("quit", "path", e.path, "dirty", e.dirty)
	e.done = true
}
