package editor

import (
	"bytes"

	"github.com/kobzarvs/qmacs/internal/input"
)

// search is the state of an incremental search. The cursor follows the
// current match; origin and originTop restore the view on cancel.
type search struct {
	active    bool
	forward   bool
	sensitive bool
	query     []byte
	last      []byte
	origin    int
	originTop int
	match     int
	failing   bool
}

func (e *Editor) startSearch(forward bool) {
	e.search.active = true
	e.search.forward = forward
	e.search.query = e.search.query[:0]
	e.search.origin = e.cursor
	e.search.originTop = e.view.Top
	e.search.match = -1
	e.search.failing = false
}

// searchCommand handles cmd while a search is active. It returns false when
// the search ended and cmd still has to be executed normally.
func (e *Editor) searchCommand(cmd input.Command) bool {
	s := &e.search
	switch cmd.Kind {
	case input.InsertByte:
		s.query = append(s.query, cmd.Byte)
		e.findFrom(e.searchStart(), s.forward)
	case input.Backspace:
		if len(s.query) > 0 {
			s.query = s.query[:len(s.query)-1]
		}
		e.researchFromOrigin()
	case input.SearchForward, input.SearchBackward:
		forward := cmd.Kind == input.SearchForward
		if len(s.query) == 0 {
			if len(s.last) == 0 {
				s.forward = forward
				return true
			}
			s.query = append(s.query, s.last...)
			s.forward = forward
			e.findFrom(s.origin, forward)
			return true
		}
		s.forward = forward
		e.findNext()
	case input.ToggleCase:
		s.sensitive = !s.sensitive
		e.researchFromOrigin()
	case input.Newline:
		e.endSearch()
	case input.Cancel:
		e.cursor = s.origin
		e.view.Top = s.originTop
		s.active = false
		e.setMessage(msgInfo, "Quit")
	default:
		e.endSearch()
		return false
	}
	return true
}

// endSearch accepts the current position.
func (e *Editor) endSearch() {
	s := &e.search
	if len(s.query) > 0 {
		s.last = append(s.last[:0], s.query...)
	}
	s.active = false
}

// searchStart is where extending the query looks first: the start of the
// current match so it can grow in place.
func (e *Editor) searchStart() int {
	if e.search.match >= 0 {
		if e.search.forward {
			return e.search.match
		}
		return e.search.match + len(e.search.query)
	}
	return e.search.origin
}

func (e *Editor) researchFromOrigin() {
	e.search.match = -1
	e.cursor = e.search.origin
	if len(e.search.query) == 0 {
		e.search.failing = false
		return
	}
	e.findFrom(e.search.origin, e.search.forward)
}

// findNext moves past the current match in the search direction.
func (e *Editor) findNext() {
	s := &e.search
	if s.match < 0 {
		e.findFrom(e.cursor, s.forward)
		return
	}
	if s.forward {
		e.findFrom(s.match+1, true)
	} else {
		e.findFrom(s.match+len(s.query)-1, false)
	}
}

// findFrom looks for the query starting at from (forward) or ending at or
// before from (backward), wrapping around the buffer once.
func (e *Editor) findFrom(from int, forward bool) {
	s := &e.search
	hay := e.buf.Contiguous()
	var at int
	if forward {
		at = index(hay, s.query, from, s.sensitive)
		if at < 0 {
			at = index(hay, s.query, 0, s.sensitive)
		}
	} else {
		at = lastIndex(hay, s.query, from, s.sensitive)
		if at < 0 {
			at = lastIndex(hay, s.query, len(hay), s.sensitive)
		}
	}
	if at < 0 {
		s.failing = true
		return
	}
	s.failing = false
	s.match = at
	if forward {
		e.cursor = at + len(s.query)
	} else {
		e.cursor = at
	}
}

// index returns the first match of q in h at or after from.
func index(h, q []byte, from int, sensitive bool) int {
	if from < 0 {
		from = 0
	}
	if from > len(h) {
		return -1
	}
	if sensitive {
		if i := bytes.Index(h[from:], q); i >= 0 {
			return from + i
		}
		return -1
	}
	for i := from; i+len(q) <= len(h); i++ {
		if equalFold(h[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

// lastIndex returns the last match of q in h that ends at or before end.
func lastIndex(h, q []byte, end int, sensitive bool) int {
	end = min(end, len(h))
	if end < 0 {
		return -1
	}
	if sensitive {
		return bytes.LastIndex(h[:end], q)
	}
	for i := end - len(q); i >= 0; i-- {
		if equalFold(h[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

// equalFold compares ASCII letters without case; other bytes must match.
func equalFold(a, b []byte) bool {
	for i := range a {
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		if x|0x20 != y|0x20 || x|0x20 < 'a' || x|0x20 > 'z' {
			return false
		}
	}
	return true
}

// matchRange returns the bytes of the current match to highlight.
func (e *Editor) matchRange() (start, end int, ok bool) {
	s := &e.search
	if !s.active || s.failing || s.match < 0 || len(s.query) == 0 {
		return 0, 0, false
	}
	return s.match, s.match + len(s.query), true
}

func (e *Editor) searchLabel() string {
	label := "I-search: "
	if !e.search.forward {
		label = "I-search backward: "
	}
	if e.search.failing {
		label = "Failing " + label
	}
	if e.search.sensitive {
		label = "[Case] " + label
	}
	return label
}
