//go:build !unix

package mmap

// Supported reports whether anonymous mappings are available.
const Supported = false

func osMapAnon(int) ([]byte, error) { return nil, ErrUnsupported }

func osRemap([]byte, int) ([]byte, error) { return nil, ErrUnsupported }

func osUnmap([]byte) error { return ErrUnsupported }
