//go:build linux

package mmap

import "golang.org/x/sys/unix"

func osRemap(data []byte, size int) ([]byte, error) {
	return unix.Mremap(data, size, unix.MREMAP_MAYMOVE)
}
