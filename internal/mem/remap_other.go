//go:build unix && !linux

package mem

import "golang.org/x/sys/unix"

// remap emulates mremap where the kernel has none: map, copy, unmap.
func remap(buf []byte, n int) ([]byte, error) {
	nb, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	copy(nb, buf)
	if err := unix.Munmap(buf); err != nil {
		_ = unix.Munmap(nb)
		return nil, err
	}
	return nb, nil
}
