// Package mem provides the byte-region allocators behind the text buffer and
// the kill slot. A region only changes size through Grow, so every growth of
// editor memory is an explicit call that can be refused.
package mem

import (
	"errors"
	"fmt"
	"os"
)

// ErrRefused is returned when an allocator declines to hand out more memory.
var ErrRefused = errors.New("mem: growth refused")

type Allocator interface {
	// Alloc returns a zeroed region of at least n bytes.
	Alloc(n int) ([]byte, error)
	// Grow returns a region of at least n bytes whose prefix holds the
	// contents of buf. buf must not be used after a successful Grow.
	Grow(buf []byte, n int) ([]byte, error)
	Free(buf []byte) error
}

// PageRound rounds n up to a multiple of the system page size.
func PageRound(n int) int {
	page := os.Getpagesize()
	if n <= 0 {
		return page
	}
	return (n + page - 1) / page * page
}

// Heap allocates from the Go heap. It is used where anonymous mappings are
// not available and in tests.
type Heap struct{}

func (Heap) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("alloc %d bytes: %w", n, ErrRefused)
	}
	return make([]byte, n), nil
}

func (Heap) Grow(buf []byte, n int) ([]byte, error) {
	if n <= len(buf) {
		return buf, nil
	}
	nb := make([]byte, n)
	copy(nb, buf)
	return nb, nil
}

func (Heap) Free([]byte) error { return nil }

// Limit refuses any region larger than Max bytes.
type Limit struct {
	A   Allocator
	Max int
}

func (l Limit) Alloc(n int) ([]byte, error) {
	if l.Max > 0 && n > l.Max {
		return nil, fmt.Errorf("alloc %d bytes over limit %d: %w", n, l.Max, ErrRefused)
	}
	return l.A.Alloc(n)
}

func (l Limit) Grow(buf []byte, n int) ([]byte, error) {
	if l.Max > 0 && n > l.Max {
		// A region that can still fit under the ceiling is grown to the
		// ceiling rather than refused outright.
		if len(buf) >= l.Max {
			return nil, fmt.Errorf("grow to %d bytes over limit %d: %w", n, l.Max, ErrRefused)
		}
		n = l.Max
	}
	return l.A.Grow(buf, n)
}

func (l Limit) Free(buf []byte) error { return l.A.Free(buf) }

// New returns the allocator named by kind ("mmap" or "heap"), wrapped in a
// Limit when max is positive.
func New(kind string, max int) (Allocator, error) {
	var a Allocator
	switch kind {
	case "", "mmap":
		a = Mmap{}
	case "heap":
		a = Heap{}
	default:
		return nil, fmt.Errorf("unknown allocator %q", kind)
	}
	if max > 0 {
		a = Limit{A: a, Max: max}
	}
	return a, nil
}
