// Package term is the editor's terminal device: raw byte input and output,
// raw mode, and the window size.
package term

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/kobzarvs/qmacs/internal/sysio"
)

// ErrNotTerminal is returned by EnterRaw when the input is not a terminal.
var ErrNotTerminal = errors.New("term: not a terminal")

type Device interface {
	io.ReadWriter
	// EnterRaw disables line buffering, echo and signal characters.
	// Calling it again while raw is a no-op.
	EnterRaw() error
	// Restore undoes EnterRaw. It is safe to call when not raw.
	Restore() error
	Size() (rows, cols int, err error)
	Close() error
}

// Open returns the device named by kind: "tty" opens /dev/tty through tcell,
// "stdio" uses the process's standard input and output.
func Open(kind string) (Device, error) {
	switch kind {
	case "", "tty":
		return NewTty()
	case "stdio":
		return NewFile(os.Stdin, os.Stdout), nil
	}
	return nil, fmt.Errorf("unknown terminal %q", kind)
}

type ttyDevice struct {
	tty tcell.Tty
	raw bool
}

// NewTty opens the controlling terminal.
func NewTty() (Device, error) {
	tty, err := tcell.NewDevTty()
	if err != nil {
		return nil, sysio.Fatalf("open /dev/tty", err)
	}
	return &ttyDevice{tty: tty}, nil
}

func (d *ttyDevice) Read(p []byte) (int, error)  { return d.tty.Read(p) }
func (d *ttyDevice) Write(p []byte) (int, error) { return d.tty.Write(p) }

func (d *ttyDevice) EnterRaw() error {
	if d.raw {
		return nil
	}
	if err := d.tty.Start(); err != nil {
		return sysio.Fatalf("enter raw mode", err)
	}
	d.raw = true
	return nil
}

func (d *ttyDevice) Restore() error {
	if !d.raw {
		return nil
	}
	d.raw = false
	if err := d.tty.Stop(); err != nil {
		return sysio.Fatalf("restore terminal", err)
	}
	return nil
}

func (d *ttyDevice) Size() (int, int, error) {
	ws, err := d.tty.WindowSize()
	if err != nil {
		return 0, 0, sysio.Fatalf("window size", err)
	}
	return ws.Height, ws.Width, nil
}

func (d *ttyDevice) Close() error {
	err := d.Restore()
	return errors.Join(err, d.tty.Close())
}

type fileDevice struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// NewFile returns a device reading in and writing out. Raw mode and size
// are taken from in and out respectively.
func NewFile(in, out *os.File) Device {
	return &fileDevice{in: in, out: out}
}

func (d *fileDevice) Read(p []byte) (int, error)  { return d.in.Read(p) }
func (d *fileDevice) Write(p []byte) (int, error) { return d.out.Write(p) }

func (d *fileDevice) EnterRaw() error {
	if d.state != nil {
		return nil
	}
	fd := int(d.in.Fd())
	if !term.IsTerminal(fd) {
		return sysio.Fatalf("enter raw mode", ErrNotTerminal)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return sysio.Fatalf("enter raw mode", err)
	}
	d.state = state
	return nil
}

func (d *fileDevice) Restore() error {
	if d.state == nil {
		return nil
	}
	state := d.state
	d.state = nil
	if err := term.Restore(int(d.in.Fd()), state); err != nil {
		return sysio.Fatalf("restore terminal", err)
	}
	return nil
}

func (d *fileDevice) Size() (int, int, error) {
	cols, rows, err := term.GetSize(int(d.out.Fd()))
	if err != nil {
		cols, rows, err = term.GetSize(int(d.in.Fd()))
	}
	if err != nil {
		return 0, 0, sysio.Fatalf("window size", err)
	}
	return rows, cols, nil
}

// Close restores the terminal; the standard streams stay open.
func (d *fileDevice) Close() error {
	return d.Restore()
}
