// Package sysio classifies system call failures and retries the ones that
// are transient (interrupted calls and short transfers).
package sysio

import (
	"errors"
	"io"
	"io/fs"

	"golang.org/x/sys/unix"
)

type Kind int

const (
	KindNone Kind = iota
	// Interrupted covers EINTR and EAGAIN; callers retry.
	Interrupted
	// ShortIO is a transfer that made no progress without an error.
	ShortIO
	NotFound
	Permission
	IO
	// Fatal marks terminal failures after which the UI cannot continue.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case Interrupted:
		return "interrupted"
	case ShortIO:
		return "short-io"
	case NotFound:
		return "not-found"
	case Permission:
		return "permission-denied"
	case IO:
		return "io"
	case Fatal:
		return "fatal-io"
	}
	return "unknown"
}

// MaxRetries bounds consecutive retries that make no progress.
const MaxRetries = 64

// Classify maps err to a Kind. A *Error keeps the kind it was built with.
func Classify(err error) Kind {
	var se *Error
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, unix.EINTR), errors.Is(err, unix.EAGAIN):
		return Interrupted
	case errors.Is(err, io.ErrShortWrite):
		return ShortIO
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, unix.EROFS):
		return Permission
	}
	return IO
}

// Error is an operation failure tagged with its Kind.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with op, path and its classified kind. Wrap(nil) is nil.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Kind: Classify(err), Err: err}
}

// Fatalf tags err as a Fatal failure of op.
func Fatalf(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: Fatal, Err: err}
}

// Read reads at least one byte into p, retrying interrupted and empty reads.
// io.EOF and non-retryable errors are returned unchanged.
func Read(r io.Reader, p []byte) (int, error) {
	for tries := 0; ; tries++ {
		n, err := r.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == nil || Classify(err) == Interrupted {
			if tries < MaxRetries {
				continue
			}
			if err == nil {
				err = io.ErrNoProgress
			}
		}
		return 0, err
	}
}

// WriteFull writes all of p, retrying short and interrupted writes. The retry
// budget resets whenever a write makes progress.
func WriteFull(w io.Writer, p []byte) (int, error) {
	done, tries := 0, 0
	for done < len(p) {
		n, err := w.Write(p[done:])
		if n > 0 {
			done += n
			tries = 0
		}
		if err != nil {
			if Classify(err) != Interrupted {
				return done, err
			}
		} else if n > 0 {
			continue
		}
		tries++
		if tries > MaxRetries {
			if err == nil {
				err = io.ErrShortWrite
			}
			return done, err
		}
	}
	return done, nil
}
