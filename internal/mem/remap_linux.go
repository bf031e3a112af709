package mem

import "golang.org/x/sys/unix"

func remap(buf []byte, n int) ([]byte, error) {
	return unix.Mremap(buf, n, unix.MREMAP_MAYMOVE)
}
