// Package app wires configuration, the terminal device and the editor into
// the main loop.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/kobzarvs/qmacs/internal/config"
	"github.com/kobzarvs/qmacs/internal/editor"
	"github.com/kobzarvs/qmacs/internal/input"
	"github.com/kobzarvs/qmacs/internal/logger"
	"github.com/kobzarvs/qmacs/internal/mem"
	"github.com/kobzarvs/qmacs/internal/render"
	"github.com/kobzarvs/qmacs/internal/session"
	"github.com/kobzarvs/qmacs/internal/sysio"
	"github.com/kobzarvs/qmacs/internal/term"
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[2J\x1b[H"
	leaveAltScreen = "\x1b[?1049l"

	readSize = 256
)

// App is the top-level runtime for qmacs.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

// Run loads the configuration, opens the configured terminal and edits until
// the user quits.
func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.DebugEnabled()); err != nil {
		fmt.Fprintln(os.Stderr, "qmacs: logging disabled:", err)
	}
	defer logger.Close()
	logger.Info("start", "args", a.args, "terminal", cfg.Editor.Terminal, "allocator", cfg.Editor.Allocator)

	dev, err := term.Open(cfg.Editor.Terminal)
	if err != nil {
		logger.Error("open terminal", "error", err)
		return err
	}
	defer dev.Close()
	return a.RunOn(dev, cfg, langs)
}

// RunOn edits on dev until the user quits. The terminal leaves raw mode on
// every return path, including a panic in the loop.
func (a *App) RunOn(dev term.Device, cfg config.Config, langs config.Languages) (err error) {
	alloc, err := mem.New(cfg.Editor.Allocator, cfg.Editor.MaxBufferBytes)
	if err != nil {
		return err
	}
	opts := editor.Options{Config: cfg, Languages: langs, Alloc: alloc}

	var places *session.Manager
	if config.Enabled(cfg.Editor.SavePlace) {
		if places, err = session.NewManager(); err != nil {
			logger.Warn("save-place disabled", "error", err)
			places = nil
		} else {
			opts.Places = places
		}
	}
	if cfg.Editor.SystemClipboard {
		if clip := editor.NewSystemClipboard(); clip != nil {
			opts.Clipboard = clip
		} else {
			logger.Warn("system clipboard unavailable")
		}
	}

	ed, err := editor.New(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ed.Close(); cerr != nil {
			logger.Warn("close editor", "error", cerr)
		}
		if places != nil {
			if serr := places.Save(); serr != nil {
				logger.Warn("save places", "path", places.Path(), "error", serr)
			}
		}
	}()

	if err := dev.EnterRaw(); err != nil {
		logger.Error("enter raw mode", "error", err)
		return err
	}
	var once sync.Once
	var restoreErr error
	restore := func() error {
		once.Do(func() {
			_, _ = sysio.WriteFull(dev, []byte(leaveAltScreen))
			restoreErr = dev.Restore()
		})
		return restoreErr
	}
	stop := watchSignals(restore)
	defer stop()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic", "value", r, "stack", string(debug.Stack()))
			err = sysio.Fatalf("main loop", fmt.Errorf("panic: %v", r))
		}
		if rerr := restore(); rerr != nil {
			logger.Error("restore terminal", "error", rerr)
			if err == nil {
				err = rerr
			}
		}
	}()
	if _, err := sysio.WriteFull(dev, []byte(enterAltScreen)); err != nil {
		return sysio.Fatalf("write terminal", err)
	}

	if len(a.args) > 0 {
		if err := ed.Open(a.args[0]); err != nil {
			// The session goes on with the empty buffer.
			logger.Error("open", "path", a.args[0], "error", err)
			ed.ShowOpenError(err)
		}
	}

	err = loop(dev, ed, render.NewRenderer(render.NewPalette(cfg.Theme)))
	if err != nil {
		logger.Error("main loop", "error", err)
		return err
	}
	logger.Info("stop", "path", ed.Path(), "dirty", ed.Dirty())
	return nil
}

// exit ends the process after a terminating signal.
var exit = os.Exit

// watchSignals restores the terminal and exits when SIGTERM or SIGHUP
// arrives. Raw mode turns off ISIG, so these come only from other
// processes or a hangup. The returned func stops watching.
func watchSignals(restore func() error) (stop func()) {
	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, unix.SIGTERM, unix.SIGHUP)
	go func() {
		select {
		case sig := <-sigc:
			logger.Warn("terminated by signal", "signal", sig.String())
			if err := restore(); err != nil {
				logger.Error("restore terminal", "error", err)
			}
			code := 1
			if s, ok := sig.(unix.Signal); ok {
				code = 128 + int(s)
			}
			exit(code)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigc)
		close(done)
	}
}

// loop renders, blocks for input and dispatches until the editor is done.
// The size is polled before every frame.
func loop(dev term.Device, ed *editor.Editor, r *render.Renderer) error {
	var (
		frame render.Frame
		dec   input.Decoder
		cmds  []input.Command
		in    = make([]byte, readSize)
	)
	for !ed.Done() {
		rows, cols, err := dev.Size()
		if err != nil {
			return sysio.Fatalf("window size", err)
		}
		ed.Resize(rows, cols)
		if ed.TakeRedraw() {
			r.Invalidate()
		}
		ed.Compose(&frame)
		if _, err := r.Render(dev, &frame); err != nil {
			return sysio.Fatalf("write terminal", err)
		}

		n, err := sysio.Read(dev, in)
		if err != nil {
			return sysio.Fatalf("read terminal", err)
		}
		cmds = dec.Decode(cmds[:0], in[:n])
		for _, cmd := range cmds {
			ed.Dispatch(cmd)
			if ed.Done() {
				break
			}
		}
	}
	return nil
}
