package mmap

import "errors"

var (
	// ErrUnsupported is returned on platforms without anonymous mappings.
	ErrUnsupported = errors.New("mmap: anonymous mappings not supported on this platform")
	// ErrInvalidSize is returned for a non-positive mapping size.
	ErrInvalidSize = errors.New("mmap: invalid size")
)

// Map creates a zero-filled anonymous read-write mapping of size bytes.
func Map(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return osMapAnon(size)
}

// Remap resizes a mapping created by Map. The first min(len(data), size) bytes are preserved.
// The old slice must not be used after a successful call.
func Remap(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if len(data) == 0 {
		return osMapAnon(size)
	}
	return osRemap(data, size)
}

// Unmap releases a mapping created by Map or Remap. Unmapping an empty slice is a no-op.
func Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return osUnmap(data)
}
