//go:build unix

package imagefile

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the whole file read-only. Empty files cannot be mapped and
// come back as an empty slice.
func mapFile(file *os.File, size int64) ([]byte, func() error, error) {
	if size == 0 {
		return []byte{}, nil, nil
	}
	if int64(int(size)) != size {
		return nil, nil, ErrTooLarge
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
