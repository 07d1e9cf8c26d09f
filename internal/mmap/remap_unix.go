//go:build unix && !linux

package mmap

func osRemap(data []byte, size int) ([]byte, error) {
	grown, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}
	copy(grown, data)
	if err := osUnmap(data); err != nil {
		_ = osUnmap(grown)
		return nil, err
	}
	return grown, nil
}
