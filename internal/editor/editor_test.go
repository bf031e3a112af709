package editor

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kobzarvs/qmacs/internal/config"
	"github.com/kobzarvs/qmacs/internal/input"
	"github.com/kobzarvs/qmacs/internal/mem"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Editor.Highlighter = "off"
	cfg.Editor.GitBranch = nil
	cfg.Editor.InitialCapacity = 16
	return cfg
}

func newTestEditor(t *testing.T, content string) *Editor {
	t.Helper()
	e, err := New(Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	if err := e.buf.Load([]byte(content)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	e.Resize(10, 40)
	return e
}

// keys decodes raw terminal bytes and dispatches the commands.
func keys(e *Editor, p string) {
	var d input.Decoder
	for _, cmd := range d.Decode(nil, []byte(p)) {
		e.Dispatch(cmd)
	}
}

func run(e *Editor, kinds ...input.Kind) {
	for _, k := range kinds {
		e.Dispatch(input.Command{Kind: k})
	}
}

func checkText(t *testing.T, e *Editor, want string) {
	t.Helper()
	if got := string(e.Text()); got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestKillYankInverse(t *testing.T) {
	e := newTestEditor(t, "foo bar")
	run(e, input.SetMark)
	run(e, input.ForwardChar, input.ForwardChar, input.ForwardChar, input.ForwardChar)
	run(e, input.KillRegion)
	checkText(t, e, "bar")
	if got := string(e.Killed()); got != "foo " {
		t.Fatalf("kill slot = %q, want %q", got, "foo ")
	}
	if e.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", e.Cursor())
	}
	if _, ok := e.Mark(); ok {
		t.Fatalf("mark still set after kill-region")
	}
	run(e, input.Yank)
	checkText(t, e, "foo bar")
	if got := string(e.Killed()); got != "foo " {
		t.Fatalf("kill slot after yank = %q, want %q", got, "foo ")
	}
	run(e, input.Yank)
	checkText(t, e, "foo foo bar")
}

func TestKillLineScenario(t *testing.T) {
	e := newTestEditor(t, "abc\ndef")
	keys(e, "\x0b")
	checkText(t, e, "\ndef")
	if got := string(e.Killed()); got != "abc" {
		t.Fatalf("kill slot = %q, want %q", got, "abc")
	}
	keys(e, "\x0b")
	checkText(t, e, "def")
	if got := string(e.Killed()); got != "\n" {
		t.Fatalf("kill slot = %q, want newline", got)
	}
	keys(e, "\x05\x0b")
	checkText(t, e, "def")
	if e.Message() != "End of buffer" {
		t.Fatalf("message = %q", e.Message())
	}
}

func TestRegionMessages(t *testing.T) {
	e := newTestEditor(t, "abc")
	run(e, input.KillRegion)
	if !strings.Contains(e.Message(), "mark is not set") {
		t.Fatalf("message = %q", e.Message())
	}
	run(e, input.SetMark, input.CopyRegion)
	if e.Message() != "The region is empty" || e.Killed() != nil {
		t.Fatalf("empty region: message %q, slot %q", e.Message(), e.Killed())
	}
	run(e, input.Yank)
	if e.Message() != "Kill slot is empty" {
		t.Fatalf("message = %q", e.Message())
	}
	checkText(t, e, "abc")
}

func TestCopyRegion(t *testing.T) {
	e := newTestEditor(t, "hello world")
	keys(e, "\x1bf\x00\x1b>\x1bw")
	checkText(t, e, "hello world")
	if got := string(e.Killed()); got != " world" {
		t.Fatalf("kill slot = %q, want %q", got, " world")
	}
	if _, ok := e.Mark(); ok {
		t.Fatalf("mark set after copy")
	}
	keys(e, "\x1b<\x19")
	checkText(t, e, " worldhello world")
}

func TestMarkFollowsEdits(t *testing.T) {
	e := newTestEditor(t, "hello world")
	e.cursor = 6
	run(e, input.SetMark)
	run(e, input.BufferStart)
	keys(e, "XX")
	if m, _ := e.Mark(); m != 8 {
		t.Fatalf("mark after insert = %d, want 8", m)
	}
	run(e, input.DeleteChar, input.DeleteChar)
	if m, _ := e.Mark(); m != 6 {
		t.Fatalf("mark after delete = %d, want 6", m)
	}
	// Deleting the byte the mark sits after pulls it back.
	e.cursor = 6
	run(e, input.Backspace)
	if m, ok := e.Mark(); !ok || m != 5 {
		t.Fatalf("mark after backspace = %d, %v; want 5", m, ok)
	}
	checkText(t, e, "XXlloworld")
}

func TestEditing(t *testing.T) {
	e := newTestEditor(t, "ab\ncd")
	keys(e, "\x0e")
	run(e, input.Backspace)
	checkText(t, e, "abcd")
	if e.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.Cursor())
	}
	keys(e, "\r\t")
	checkText(t, e, "ab\n\tcd")
	run(e, input.LineStart, input.OpenLine)
	checkText(t, e, "ab\n\n\tcd")
	if e.Cursor() != 3 {
		t.Fatalf("cursor after open-line = %d, want 3", e.Cursor())
	}
	keys(e, "\x04")
	checkText(t, e, "ab\n\tcd")
	if !e.Dirty() {
		t.Fatalf("buffer not dirty after edits")
	}
}

func TestBufferFull(t *testing.T) {
	cfg := testConfig()
	e, err := New(Options{Config: cfg, Alloc: mem.Limit{A: mem.Heap{}, Max: 16}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Resize(10, 40)
	keys(e, strings.Repeat("x", 20))
	if e.Len() != 16 {
		t.Fatalf("len = %d, want 16", e.Len())
	}
	if e.Message() != "Buffer is full" {
		t.Fatalf("message = %q, want %q", e.Message(), "Buffer is full")
	}
	if e.Cursor() != 16 {
		t.Fatalf("cursor = %d, want 16", e.Cursor())
	}
}

func TestKillSlotKeepsContentsWhenFull(t *testing.T) {
	e := newTestEditor(t, "abcdefghij")
	k := KillSlot{alloc: mem.Limit{A: mem.Heap{}, Max: 4}}
	defer k.Free()
	if err := k.Set(e.buf, 0, 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := k.Set(e.buf, 0, 10); err == nil {
		t.Fatalf("Set over the limit succeeded")
	}
	if got := string(k.Bytes()); got != "abc" {
		t.Fatalf("slot = %q, want %q", got, "abc")
	}
}

func TestVerticalGoalColumn(t *testing.T) {
	e := newTestEditor(t, "abcdef\nab\nabcdef")
	e.cursor = 5
	run(e, input.NextLine)
	if e.Cursor() != 9 {
		t.Fatalf("cursor = %d, want 9", e.Cursor())
	}
	run(e, input.NextLine)
	if e.Cursor() != 15 {
		t.Fatalf("cursor = %d, want 15", e.Cursor())
	}
	run(e, input.NextLine)
	if e.Cursor() != 15 || e.Message() != "End of buffer" {
		t.Fatalf("cursor = %d, message %q", e.Cursor(), e.Message())
	}
	// Any other command forgets the goal.
	run(e, input.BackwardChar, input.PrevLine)
	if e.Cursor() != 9 {
		t.Fatalf("cursor = %d, want 9", e.Cursor())
	}
}

func TestVerticalMoveOverTabs(t *testing.T) {
	e := newTestEditor(t, "\tx\n0123456789")
	e.cursor = 1
	run(e, input.NextLine)
	if e.Cursor() != 3+8 {
		t.Fatalf("cursor = %d, want %d", e.Cursor(), 11)
	}
	run(e, input.ForwardChar, input.PrevLine)
	if e.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.Cursor())
	}
}

func TestWordMotion(t *testing.T) {
	e := newTestEditor(t, "foo  bar.baz")
	var got []int
	for _, k := range []input.Kind{input.WordForward, input.WordForward, input.WordForward, input.WordForward, input.WordBackward, input.WordBackward} {
		run(e, k)
		got = append(got, e.Cursor())
	}
	want := []int{3, 8, 12, 12, 9, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("positions = %v, want %v", got, want)
		}
	}
}

func TestPageMoves(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("line\n")
	}
	e := newTestEditor(t, sb.String())
	// 10 rows leave 8 text rows; a page is 7 lines.
	run(e, input.PageDown)
	row, _ := e.buf.RowCol(e.Cursor())
	if row != 7 || e.Viewport().Top != 7 {
		t.Fatalf("after page down row %d top %d, want 7 7", row, e.Viewport().Top)
	}
	run(e, input.PageDown, input.PageUp)
	row, _ = e.buf.RowCol(e.Cursor())
	if row != 7 || e.Viewport().Top != 7 {
		t.Fatalf("after page down+up row %d top %d, want 7 7", row, e.Viewport().Top)
	}
	run(e, input.BufferEnd)
	row, _ = e.buf.RowCol(e.Cursor())
	if v := e.Viewport(); row < v.Top || row >= v.Top+v.Rows {
		t.Fatalf("row %d outside viewport %+v", row, v)
	}
}

var randomKinds = []input.Kind{
	input.InsertByte, input.InsertByte, input.InsertByte, input.Newline,
	input.Backspace, input.DeleteChar, input.ForwardChar, input.BackwardChar,
	input.NextLine, input.PrevLine, input.LineStart, input.LineEnd,
	input.WordForward, input.WordBackward, input.PageDown, input.PageUp,
	input.BufferStart, input.BufferEnd, input.OpenLine, input.SetMark,
	input.KillRegion, input.CopyRegion, input.KillLine, input.Yank,
	input.SearchForward, input.SearchBackward, input.ToggleCase, input.Cancel,
	input.Refresh,
}

func TestRandomCommandsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newTestEditor(t, "alpha beta\n\tgamma\n\ndelta \x01\xff epsilon\n")
	for i := 0; i < 5000; i++ {
		if i%500 == 0 {
			e.Resize(3+rng.Intn(20), 5+rng.Intn(60))
		}
		cmd := input.Command{Kind: randomKinds[rng.Intn(len(randomKinds))]}
		if cmd.Kind == input.InsertByte {
			cmd.Byte = "abc \t\x7fé"[rng.Intn(8)]
		}
		e.Dispatch(cmd)

		if c := e.Cursor(); c < 0 || c > e.Len() {
			t.Fatalf("step %d (%v): cursor %d outside [0,%d]", i, cmd, c, e.Len())
		}
		if m, ok := e.Mark(); ok && (m < 0 || m > e.Len()) {
			t.Fatalf("step %d (%v): mark %d outside [0,%d]", i, cmd, m, e.Len())
		}
		row, col := e.cursorRowCol()
		if v := e.Viewport(); !v.Contains(row, col) {
			t.Fatalf("step %d (%v): cursor (%d,%d) outside viewport %+v", i, cmd, row, col, v)
		}
	}
}

func TestNewFileScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	e := newTestEditor(t, "")
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e.Message() != "(New file)" {
		t.Fatalf("message = %q, want %q", e.Message(), "(New file)")
	}
	keys(e, "hi\x18\x13")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hi" {
		t.Fatalf("file = %q, want %q", data, "hi")
	}
	if e.Dirty() || e.Message() != "Wrote "+path {
		t.Fatalf("after save dirty %v, message %q", e.Dirty(), e.Message())
	}
}

func TestSaveUnnamedBufferPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	e := newTestEditor(t, "")
	keys(e, "data\x18\x13")
	if !e.prompt.active || e.prompt.label != "Write file: " {
		t.Fatalf("save of unnamed buffer did not prompt")
	}
	keys(e, path+"x\x7f\r")
	if e.Path() != path || e.Dirty() {
		t.Fatalf("path %q dirty %v", e.Path(), e.Dirty())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "data" {
		t.Fatalf("file = %q", data)
	}
}

func TestSaveError(t *testing.T) {
	e := newTestEditor(t, "x")
	e.path = filepath.Join(t.TempDir(), "missing", "f.txt")
	e.dirty = true
	run(e, input.SaveFile)
	if !e.Dirty() || !strings.HasPrefix(e.Message(), "No such directory") {
		t.Fatalf("dirty %v message %q", e.Dirty(), e.Message())
	}
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(b, []byte("from b"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	e := newTestEditor(t, "")
	if err := e.Open(a); err != nil {
		t.Fatalf("Open: %v", err)
	}
	keys(e, "z\x18\x06")
	if e.prompt.active || !strings.Contains(e.Message(), "save first") {
		t.Fatalf("find-file on dirty buffer: prompt %v, message %q", e.prompt.active, e.Message())
	}
	keys(e, "\x18\x13\x00\x18\x06")
	if !e.prompt.active || string(e.prompt.input) != dir+string(filepath.Separator) {
		t.Fatalf("prompt %v input %q", e.prompt.active, e.prompt.input)
	}
	keys(e, "b.txt\r")
	if e.Path() != b || string(e.Text()) != "from b" {
		t.Fatalf("path %q text %q", e.Path(), e.Text())
	}
	if _, ok := e.Mark(); ok || e.Cursor() != 0 {
		t.Fatalf("load kept mark or cursor")
	}
}

func TestPromptCancel(t *testing.T) {
	e := newTestEditor(t, "abc")
	keys(e, "\x18\x17xyz\x07")
	if e.prompt.active || e.Message() != "Quit" {
		t.Fatalf("prompt %v message %q", e.prompt.active, e.Message())
	}
	keys(e, "q")
	checkText(t, e, "qabc")
}

func TestQuitGuard(t *testing.T) {
	e := newTestEditor(t, "")
	keys(e, "x\x18\x03")
	if e.Done() || !strings.Contains(e.Message(), "again to quit") {
		t.Fatalf("first quit: done %v message %q", e.Done(), e.Message())
	}
	keys(e, "\x06\x18\x03")
	if e.Done() {
		t.Fatalf("quit after another command did not warn again")
	}
	keys(e, "\x18\x03")
	if !e.Done() {
		t.Fatalf("second consecutive quit did not quit")
	}

	clean := newTestEditor(t, "saved")
	keys(clean, "\x18\x03")
	if !clean.Done() {
		t.Fatalf("clean buffer did not quit")
	}
}

func TestRefreshAndCancel(t *testing.T) {
	e := newTestEditor(t, "abc")
	keys(e, "\x0c")
	if !e.TakeRedraw() || e.TakeRedraw() {
		t.Fatalf("refresh request not reported exactly once")
	}
	keys(e, "\x00\x07")
	if _, ok := e.Mark(); ok || e.Message() != "Quit" {
		t.Fatalf("C-g left mark set or message %q", e.Message())
	}
}

type fakePlaces map[string]int

func (p fakePlaces) Place(path string) (int, bool) {
	off, ok := p[path]
	return off, ok
}

func (p fakePlaces) SetPlace(path string, off int) { p[path] = off }

func TestSavePlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	places := fakePlaces{path: 4}
	e, err := New(Options{Config: testConfig(), Places: places})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e.Cursor() != 4 {
		t.Fatalf("cursor = %d, want restored 4", e.Cursor())
	}
	run(e, input.ForwardChar, input.ForwardChar)
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if places[path] != 6 {
		t.Fatalf("place = %d, want 6", places[path])
	}

	places[path] = 99
	e2, _ := New(Options{Config: testConfig(), Places: places})
	defer e2.Close()
	if err := e2.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if e2.Cursor() != 10 {
		t.Fatalf("cursor = %d, want clamped 10", e2.Cursor())
	}
}

type fakeClipboard struct{ got [][]byte }

func (c *fakeClipboard) Write(p []byte) error {
	c.got = append(c.got, bytes.Clone(p))
	return nil
}

func TestClipboardMirror(t *testing.T) {
	clip := &fakeClipboard{}
	e, err := New(Options{Config: testConfig(), Clipboard: clip})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	e.Resize(10, 40)
	keys(e, "one two\x01\x0b")
	if len(clip.got) != 1 || string(clip.got[0]) != "one two" {
		t.Fatalf("clipboard writes = %q", clip.got)
	}
}
