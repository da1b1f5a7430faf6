// Package binary provides bounds-checked binary reading primitives.
//
// SafeReader reads windows of a file through io.ReaderAt. Cursor walks an
// in-memory byte slice and understands the synchsafe integers used by ID3v2.
package binary

import (
	"fmt"
	"io"

	"github.com/simonhull/id3scan/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the size of the underlying file.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Window reads up to n bytes starting at off, clamped to the end of the file.
//
// Unlike ReadAt, a window that runs past the end of the file is not an
// error: the returned slice is simply shorter. An offset outside the file
// yields an empty slice.
func (sr *SafeReader) Window(off, n int64, what string) ([]byte, error) {
	if off < 0 || n <= 0 || off >= sr.size {
		return nil, nil
	}
	n = min(n, sr.size-off)

	buf := make([]byte, n)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Tail reads the last n bytes of the file (or the whole file when shorter).
func (sr *SafeReader) Tail(n int64, what string) ([]byte, error) {
	return sr.Window(max(sr.size-n, 0), n, what)
}
