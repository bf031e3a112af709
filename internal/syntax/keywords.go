package syntax

import (
	"bytes"
	"strings"

	"github.com/kobzarvs/qmacs/internal/config"
)

const delimiters = "{}()[];,.:=<>+-*/%&|!^~?"

// Keywords highlights one line at a time from a keyword table: comments,
// quoted strings, numbers, whole-word keywords, types and constants, and
// delimiters. A block comment left open at the end of a line is carried to
// the following lines while they are scanned in order.
type Keywords struct {
	name        string
	words       map[string]Class
	hashWords   bool
	lineComment []byte
	blockOpen   []byte
	blockClose  []byte
	quotes      string
	inBlock     bool
	nextRow     int
}

func NewKeywords(lang config.Language) *Keywords {
	k := &Keywords{
		name:        lang.Name,
		words:       make(map[string]Class, len(lang.Keywords)+len(lang.Types)+len(lang.Constants)),
		lineComment: []byte(lang.LineComment),
		quotes:      lang.Quotes,
		nextRow:     -1,
	}
	if len(lang.BlockComment) == 2 {
		k.blockOpen = []byte(lang.BlockComment[0])
		k.blockClose = []byte(lang.BlockComment[1])
	}
	add := func(words []string, c Class) {
		for _, w := range words {
			k.words[w] = c
			if strings.HasPrefix(w, "#") {
				k.hashWords = true
			}
		}
	}
	add(lang.Keywords, Keyword)
	add(lang.Types, Type)
	add(lang.Constants, Constant)
	return k
}

func (k *Keywords) Name() string { return k.name }

// Update resets the block comment state; the first visible line is assumed
// to start outside a comment.
func (k *Keywords) Update(_ Document, _, first, _ int) {
	k.inBlock = false
	k.nextRow = first
}

func (k *Keywords) Line(dst []Span, row int, line []byte) []Span {
	if row != k.nextRow {
		k.inBlock = false
	}
	k.nextRow = row + 1
	i := 0
	if k.inBlock {
		end := k.closeBlock(line, 0)
		dst = append(dst, Span{Start: 0, End: end, Class: Comment})
		i = end
	}
	for i < len(line) {
		c := line[i]
		switch {
		case len(k.lineComment) > 0 && bytes.HasPrefix(line[i:], k.lineComment):
			return append(dst, Span{Start: i, End: len(line), Class: Comment})
		case len(k.blockOpen) > 0 && bytes.HasPrefix(line[i:], k.blockOpen):
			k.inBlock = true
			end := k.closeBlock(line, i+len(k.blockOpen))
			dst = append(dst, Span{Start: i, End: end, Class: Comment})
			i = end
		case strings.IndexByte(k.quotes, c) >= 0:
			end := scanString(line, i)
			dst = append(dst, Span{Start: i, End: end, Class: String})
			i = end
		case isDigit(c) && (i == 0 || !isWord(line[i-1])):
			end := i + 1
			for end < len(line) && (isWord(line[end]) || line[end] == '.') {
				end++
			}
			dst = append(dst, Span{Start: i, End: end, Class: Number})
			i = end
		case isWord(c) || (c == '#' && k.hashWords):
			end := i + 1
			for end < len(line) && isWord(line[end]) {
				end++
			}
			if class, ok := k.words[string(line[i:end])]; ok {
				dst = append(dst, Span{Start: i, End: end, Class: class})
			} else if end < len(line) && line[end] == '(' && c != '#' {
				dst = append(dst, Span{Start: i, End: end, Class: Function})
			}
			i = end
		case strings.IndexByte(delimiters, c) >= 0:
			dst = append(dst, Span{Start: i, End: i + 1, Class: Delimiter})
			i++
		default:
			i++
		}
	}
	return dst
}

// closeBlock returns the end of a block comment whose body starts at from,
// clearing inBlock when the closing marker is on this line.
func (k *Keywords) closeBlock(line []byte, from int) int {
	if j := bytes.Index(line[from:], k.blockClose); j >= 0 {
		k.inBlock = false
		return from + j + len(k.blockClose)
	}
	return len(line)
}

// scanString returns the end of the quoted string opening at i. An
// unterminated string runs to the end of the line.
func scanString(line []byte, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(line)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWord(c byte) bool {
	return c == '_' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}
