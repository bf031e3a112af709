package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kobzarvs/qmacs/internal/render"
)

func compose(e *Editor) *render.Frame {
	f := &render.Frame{}
	e.Compose(f)
	return f
}

func rowText(f *render.Frame, r int) string {
	var sb strings.Builder
	for _, c := range f.Row(r)[:f.Used(r)] {
		if c.Ch != 0 {
			sb.WriteRune(c.Ch)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func checkCursorCell(t *testing.T, f *render.Frame, row, col int) {
	t.Helper()
	if f.CursorRow != row || f.CursorCol != col {
		t.Fatalf("frame cursor = (%d, %d), want (%d, %d)", f.CursorRow, f.CursorCol, row, col)
	}
}

func TestComposeLayout(t *testing.T) {
	e := newTestEditor(t, "hello\nworld")
	e.Resize(5, 20)
	f := compose(e)

	for r, want := range []string{"hello", "world", ""} {
		if got := rowText(f, r); got != want {
			t.Fatalf("row %d = %q, want %q", r, got, want)
		}
	}
	if got, want := rowText(f, 3), " [No Name]     L1:0"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
	if c := f.Row(3)[0].Color; c != render.ColorStatus {
		t.Fatalf("status color = %d, want %d", c, render.ColorStatus)
	}
	checkCursorCell(t, f, 0, 0)

	keys(e, "\x0e\x05X")
	f = compose(e)
	if got, want := rowText(f, 3), " [No Name]*    L2:6"; got != want {
		t.Fatalf("status = %q, want %q", got, want)
	}
	checkCursorCell(t, f, 1, 6)
}

func TestComposeTinyTerminal(t *testing.T) {
	e := newTestEditor(t, "a\nb\nc")
	e.Resize(2, 10)
	f := compose(e)
	if got := rowText(f, 1); got != "b" {
		t.Fatalf("row 1 = %q, want %q", got, "b")
	}
	keys(e, "\x0e\x0e")
	f = compose(e)
	if got := rowText(f, 1); got != "c" {
		t.Fatalf("row 1 after scroll = %q, want %q", got, "c")
	}
	checkCursorCell(t, f, 1, 0)
}

func TestComposeSelection(t *testing.T) {
	e := newTestEditor(t, "abcdef")
	keys(e, "\x06\x00\x06\x06\x06")
	f := compose(e)
	row := f.Row(0)
	for i, want := range []render.Color{
		render.ColorDefault,
		render.ColorSelection,
		render.ColorSelection,
		render.ColorSelection,
		render.ColorDefault,
		render.ColorDefault,
	} {
		if row[i].Color != want {
			t.Fatalf("cell %d color = %d, want %d", i, row[i].Color, want)
		}
	}
}

func TestComposeSearch(t *testing.T) {
	e := newTestEditor(t, "abcdef")
	e.Resize(5, 30)
	keys(e, "\x13cd")
	f := compose(e)
	row := f.Row(0)
	if row[1].Color != render.ColorDefault || row[2].Color != render.ColorMatch ||
		row[3].Color != render.ColorMatch || row[4].Color != render.ColorDefault {
		t.Fatalf("match colors = %d %d %d %d", row[1].Color, row[2].Color, row[3].Color, row[4].Color)
	}
	if got := rowText(f, 4); got != "I-search: cd" {
		t.Fatalf("message row = %q", got)
	}
	checkCursorCell(t, f, 4, 12)

	keys(e, "\r")
	f = compose(e)
	if f.Row(0)[2].Color != render.ColorDefault {
		t.Fatalf("match still highlighted after search ended")
	}
	checkCursorCell(t, f, 0, 4)
}

func TestComposePrompt(t *testing.T) {
	e := newTestEditor(t, "text")
	e.Resize(5, 30)
	keys(e, "\x18\x13ab")
	f := compose(e)
	if got := rowText(f, 4); got != "Write file: ab" {
		t.Fatalf("message row = %q", got)
	}
	checkCursorCell(t, f, 4, 14)
}

func TestComposeLongPromptKeepsEnd(t *testing.T) {
	e := newTestEditor(t, "")
	e.Resize(5, 20)
	keys(e, "\x18\x13"+strings.Repeat("a", 10)+"0123456789")
	f := compose(e)
	got := rowText(f, 4)
	if !strings.HasPrefix(got, "Write file: ") || !strings.HasSuffix(got, "6789") {
		t.Fatalf("message row = %q", got)
	}
	if f.CursorRow != 4 || f.CursorCol > 19 {
		t.Fatalf("cursor = (%d, %d)", f.CursorRow, f.CursorCol)
	}
}

func TestComposeHorizontalScroll(t *testing.T) {
	line := strings.Repeat("0123456789", 5)
	e := newTestEditor(t, line)
	e.Resize(5, 20)
	keys(e, "\x05")
	f := compose(e)
	if v := e.Viewport(); v.Left != 31 {
		t.Fatalf("left = %d, want 31", v.Left)
	}
	if got := rowText(f, 0); got != line[31:] {
		t.Fatalf("row 0 = %q, want %q", got, line[31:])
	}
	checkCursorCell(t, f, 0, 19)
}

func TestComposeSyntaxColors(t *testing.T) {
	cfg := testConfig()
	cfg.Editor.Highlighter = "keywords"
	e, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	path := filepath.Join(t.TempDir(), "main.c")
	if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e.Language() != "c" {
		t.Fatalf("language = %q, want %q", e.Language(), "c")
	}
	e.Resize(5, 40)
	f := compose(e)
	row := f.Row(0)
	for i := 0; i < 3; i++ {
		if row[i].Color != render.ColorType {
			t.Fatalf("cell %d color = %d, want %d", i, row[i].Color, render.ColorType)
		}
	}
	if row[4].Color != render.ColorDefault || row[5].Color != render.ColorDelimiter {
		t.Fatalf("cells 4,5 colors = %d %d", row[4].Color, row[5].Color)
	}
	if got := rowText(f, 3); !strings.HasSuffix(got, "L1:0  (c)") {
		t.Fatalf("status = %q", got)
	}
}

func TestRenderAcrossResize(t *testing.T) {
	e := newTestEditor(t, "one\ntwo\nthree")
	r := render.NewRenderer(render.DefaultPalette())
	var f render.Frame
	var out bytes.Buffer

	step := func(rows, cols int) render.Stats {
		t.Helper()
		e.Resize(rows, cols)
		if e.TakeRedraw() {
			r.Invalidate()
		}
		e.Compose(&f)
		out.Reset()
		st, err := r.Render(&out, &f)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		return st
	}

	if st := step(6, 30); !st.Full || st.Rows != 6 {
		t.Fatalf("first frame = %+v, want full redraw", st)
	}
	keys(e, "x")
	if st := step(6, 30); st.Full || st.Rows != 2 {
		t.Fatalf("after insert = %+v, want text and status rows", st)
	}
	if st := step(6, 30); st.Full || st.Rows != 0 {
		t.Fatalf("unchanged = %+v, want no rows", st)
	}
	if st := step(8, 40); !st.Full || st.Rows != 8 {
		t.Fatalf("after resize = %+v, want full redraw", st)
	}
	if st := step(8, 40); st.Full || st.Rows != 0 {
		t.Fatalf("after resize settle = %+v, want no rows", st)
	}
	keys(e, "\x0c")
	if st := step(8, 40); !st.Full {
		t.Fatalf("after C-l = %+v, want full redraw", st)
	}
}

func TestComposeStatusLine(t *testing.T) {
	tests := []struct {
		left, right string
		width       int
		want        string
	}{
		{"ab", "cd", 6, "ab  cd"},
		{"ab", "cd", 4, "abcd"},
		{"abcdef", "xy", 5, "abcxy"},
		{"ab", "wxyz", 3, "xyz"},
		{"ab", "cd", 0, ""},
		{"日本", "x", 4, "日 x"},
	}
	for _, tc := range tests {
		if got := composeStatusLine(tc.left, tc.right, tc.width); got != tc.want {
			t.Fatalf("composeStatusLine(%q, %q, %d) = %q, want %q", tc.left, tc.right, tc.width, got, tc.want)
		}
	}
}

func TestFormatGitBranch(t *testing.T) {
	tests := []struct{ symbol, branch, want string }{
		{"", "main", "git:main"},
		{"  ", "main", "git:main"},
		{"br:", "dev", "br:dev"},
		{"⎇", "main", "⎇ main"},
	}
	for _, tc := range tests {
		if got := formatGitBranch(tc.symbol, tc.branch); got != tc.want {
			t.Fatalf("formatGitBranch(%q, %q) = %q, want %q", tc.symbol, tc.branch, got, tc.want)
		}
	}
}

func openTreeSitter(t *testing.T, path string) *Editor {
	t.Helper()
	cfg := testConfig()
	cfg.Editor.Highlighter = "tree-sitter"
	e, err := New(Options{Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	e.Resize(10, 40)
	return e
}

func TestTreeSitterColorsFollowEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {\n}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e := openTreeSitter(t, path)
	if e.Language() != "go" {
		t.Fatalf("language = %q, want go", e.Language())
	}
	compose(e)
	keys(e, "\x0e\x0e// hi\r\x05\r\tx := 12\x7f")
	f := compose(e)
	if c := f.Row(2)[0].Color; c != render.ColorComment {
		t.Fatalf("row 2 color = %d, want comment", c)
	}
	if c := f.Row(3)[0].Color; c != render.ColorKeyword {
		t.Fatalf("row 3 color = %d, want keyword", c)
	}

	fresh := filepath.Join(dir, "fresh.go")
	if err := os.WriteFile(fresh, e.Text(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g := openTreeSitter(t, fresh)
	want := compose(g)
	for r := 0; r < 8; r++ {
		if diff := cmp.Diff(want.Row(r), f.Row(r)); diff != "" {
			t.Fatalf("row %d differs from a fresh parse (-fresh +edited):\n%s", r, diff)
		}
	}
}
