package render

import (
	"bytes"
	"strconv"
	"testing"
	"unicode/utf8"
)

// screen is a minimal terminal that understands the sequences the renderer
// may emit and fails the test on anything else.
type screen struct {
	t        *testing.T
	rows     int
	cols     int
	text     [][]rune
	sgr      [][]string
	row, col int
	fg       string
}

func newScreen(t *testing.T, rows, cols int) *screen {
	s := &screen{t: t, rows: rows, cols: cols, fg: "39"}
	s.text = make([][]rune, rows)
	s.sgr = make([][]string, rows)
	for r := range s.text {
		s.text[r] = []rune(string(bytes.Repeat([]byte{' '}, cols)))
		s.sgr[r] = make([]string, cols)
		for c := range s.sgr[r] {
			s.sgr[r][c] = "39"
		}
	}
	return s
}

func (s *screen) Write(p []byte) (int, error) {
	s.feed(p)
	return len(p), nil
}

func (s *screen) feed(p []byte) {
	s.t.Helper()
	for len(p) > 0 {
		if p[0] != 0x1b {
			r, n := utf8.DecodeRune(p)
			p = p[n:]
			if s.row < s.rows && s.col < s.cols {
				s.text[s.row][s.col] = r
				s.sgr[s.row][s.col] = s.fg
			}
			s.col++
			continue
		}
		if len(p) < 3 || p[1] != '[' {
			s.t.Fatalf("unexpected escape %q", p)
		}
		i := 2
		for i < len(p) && (p[i] == ';' || (p[i] >= '0' && p[i] <= '9')) {
			i++
		}
		if i == len(p) {
			s.t.Fatalf("truncated escape %q", p)
		}
		params, final := string(p[2:i]), p[i]
		p = p[i+1:]
		switch final {
		case 'H':
			var row, col int
			if _, err := sscanPair(params, &row, &col); err != nil {
				s.t.Fatalf("bad cursor position %q", params)
			}
			s.row, s.col = row-1, col-1
		case 'K':
			if params != "" {
				s.t.Fatalf("unexpected erase mode %q", params)
			}
			for c := s.col; c < s.cols; c++ {
				s.text[s.row][c] = ' '
				s.sgr[s.row][c] = "39"
			}
		case 'm':
			s.fg = params
		default:
			s.t.Fatalf("unexpected escape final %q", final)
		}
	}
}

func sscanPair(params string, a, b *int) (int, error) {
	i := bytes.IndexByte([]byte(params), ';')
	x, err := strconv.Atoi(params[:i])
	if err != nil {
		return 0, err
	}
	y, err := strconv.Atoi(params[i+1:])
	if err != nil {
		return 1, err
	}
	*a, *b = x, y
	return 2, nil
}

func (s *screen) line(r int) string { return string(s.text[r]) }
