//go:build unix

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap backs regions with private anonymous mappings.
type Mmap struct{}

func (Mmap) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmap %d bytes: %w", n, ErrRefused)
	}
	b, err := unix.Mmap(-1, 0, PageRound(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w: %w", n, ErrRefused, err)
	}
	return b, nil
}

func (m Mmap) Grow(buf []byte, n int) ([]byte, error) {
	if len(buf) == 0 {
		return m.Alloc(n)
	}
	if n <= len(buf) {
		return buf, nil
	}
	nb, err := remap(buf, PageRound(n))
	if err != nil {
		return nil, fmt.Errorf("remap %d -> %d bytes: %w: %w", len(buf), n, ErrRefused, err)
	}
	return nb, nil
}

func (Mmap) Free(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return unix.Munmap(buf)
}
