// Package input turns raw terminal bytes into editor commands.
package input

// Kind tags a Command.
type Kind uint8

const (
	None Kind = iota
	InsertByte
	Newline
	Backspace
	DeleteChar
	ForwardChar
	BackwardChar
	NextLine
	PrevLine
	LineStart
	LineEnd
	WordForward
	WordBackward
	PageDown
	PageUp
	BufferStart
	BufferEnd
	OpenLine
	SetMark
	KillRegion
	CopyRegion
	KillLine
	Yank
	SearchForward
	SearchBackward
	ToggleCase
	Cancel
	Refresh
	OpenFile
	SaveFile
	WriteFile
	Quit
)

var kindNames = [...]string{
	None:           "none",
	InsertByte:     "insert-byte",
	Newline:        "newline",
	Backspace:      "backspace",
	DeleteChar:     "delete-char",
	ForwardChar:    "forward-char",
	BackwardChar:   "backward-char",
	NextLine:       "next-line",
	PrevLine:       "previous-line",
	LineStart:      "line-start",
	LineEnd:        "line-end",
	WordForward:    "forward-word",
	WordBackward:   "backward-word",
	PageDown:       "page-down",
	PageUp:         "page-up",
	BufferStart:    "buffer-start",
	BufferEnd:      "buffer-end",
	OpenLine:       "open-line",
	SetMark:        "set-mark",
	KillRegion:     "kill-region",
	CopyRegion:     "copy-region",
	KillLine:       "kill-line",
	Yank:           "yank",
	SearchForward:  "search-forward",
	SearchBackward: "search-backward",
	ToggleCase:     "toggle-case",
	Cancel:         "cancel",
	Refresh:        "refresh",
	OpenFile:       "find-file",
	SaveFile:       "save-buffer",
	WriteFile:      "write-file",
	Quit:           "quit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Command is one resolved key action. Byte is set for InsertByte.
type Command struct {
	Kind Kind
	Byte byte
}

func (c Command) String() string {
	if c.Kind == InsertByte {
		return c.Kind.String() + "(" + string(rune(c.Byte)) + ")"
	}
	return c.Kind.String()
}
