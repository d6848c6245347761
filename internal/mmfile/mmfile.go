// Package mmfile maps input files read-only so decoders can work on their
// bytes without copying.
package mmfile

import (
	"errors"
	"io"
	"sync"
)

// ErrClosed is returned by reads after Close.
var ErrClosed = errors.New("mmfile: file closed")

// File is a read-only view of a whole file. It implements io.ReaderAt.
type File struct {
	data  []byte
	unmap func() error
	once  sync.Once
	err   error
}

// Open maps the file at path.
func Open(path string) (*File, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &File{data: data, unmap: unmap}, nil
}

// Bytes returns the file contents. The slice is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Len returns the file size in bytes.
func (f *File) Len() int { return len(f.data) }

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.data == nil && f.unmap == nil {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, errors.New("mmfile: negative offset")
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping. Calling Close more than once is safe.
func (f *File) Close() error {
	f.once.Do(func() {
		if f.unmap != nil {
			f.err = f.unmap()
		}
		f.data, f.unmap = nil, nil
	})
	return f.err
}
