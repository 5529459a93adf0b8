// Package source opens input files and hands the decoder a read-only,
// zero-copy view over their contents via mmap(2).
package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a read-only memory-mapped file. The zero value is not usable;
// construct with Open.
type Mapped struct {
	data []byte
}

// Open memory-maps path read-only and returns a view over its contents.
// An empty file maps to an empty, non-nil slice rather than calling
// mmap(2) with a zero length, which the syscall rejects.
func Open(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dlt: opening %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dlt: stat %q: %w", path, err)
	}
	if info.Size() == 0 {
		return &Mapped{data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("dlt: mmap %q: %w", path, err)
	}
	return &Mapped{data: data}, nil
}

// Bytes returns the mapped file contents. The returned slice is only valid
// until Close.
func (m *Mapped) Bytes() []byte { return m.data }

// Close unmaps the file. It is a no-op for an empty-file mapping.
func (m *Mapped) Close() error {
	if len(m.data) == 0 {
		return nil
	}
	if err := unix.Munmap(m.data); err != nil {
		return fmt.Errorf("dlt: munmap: %w", err)
	}
	return nil
}
