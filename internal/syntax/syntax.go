// Package syntax produces per-line color spans for the visible part of a
// document.
package syntax

import (
	"github.com/kobzarvs/qmacs/internal/config"
)

// Class is a highlight category.
type Class uint8

const (
	Plain Class = iota
	Comment
	Keyword
	String
	Number
	Delimiter
	Type
	Function
	Constant
)

// Span colors bytes [Start, End) of a line.
type Span struct {
	Start int
	End   int
	Class Class
}

// Document is the view of the text a Highlighter reads.
type Document interface {
	Contiguous() []byte
	Len() int
}

type Highlighter interface {
	// Update prepares rows [first, last] of doc. version changes whenever
	// the document does.
	Update(doc Document, version, first, last int)
	// Line appends the spans of line row, whose bytes are line, to dst.
	Line(dst []Span, row int, line []byte) []Span
	Name() string
}

// Point is a zero-based row and byte column.
type Point struct {
	Row int
	Col int
}

// Edit describes one change: bytes [Start, OldEnd) were replaced by
// [Start, NewEnd).
type Edit struct {
	Start       int
	OldEnd      int
	NewEnd      int
	StartPoint  Point
	OldEndPoint Point
	NewEndPoint Point
}

// Incremental is implemented by highlighters that carry state across edits.
// Edit must see every change, in order, before the next Update.
type Incremental interface {
	Edit(e Edit)
}

// MaxTreeSitterBytes is the document size above which parsing is skipped
// in favour of line-local keyword highlighting.
const MaxTreeSitterBytes = 8 << 20

// For picks the highlighter for path. mode is "tree-sitter", "keywords" or
// "off"; nil means no highlighting.
func For(path string, langs config.Languages, mode string, size int) Highlighter {
	if mode == "off" || path == "" {
		return nil
	}
	table := Builtin().Merge(langs)
	lang := table.Match(path)
	if lang == nil {
		return nil
	}
	if mode == "tree-sitter" && size <= MaxTreeSitterBytes {
		if ts := NewTreeSitter(lang.Name); ts != nil {
			return ts
		}
	}
	return NewKeywords(*lang)
}
