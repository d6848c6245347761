package peimage

import (
	"io"

	"github.com/pkg/errors"
)

// Section presents a section's contents as its loader would see them: the
// raw data from the file followed by zeros up to the virtual size.
type Section struct {
	SectionHeader

	r        io.ReaderAt
	fileSize int64
}

// Size returns the section's in-memory size: VirtualSize, or SizeOfRawData
// for images that leave VirtualSize zero.
func (s *Section) Size() int64 {
	if s.VirtualSize == 0 {
		return int64(s.SizeOfRawData)
	}
	return int64(s.VirtualSize)
}

// rawSize returns how many leading bytes come from the file.
func (s *Section) rawSize() int64 {
	return min(int64(s.SizeOfRawData), s.Size())
}

// ReadAt implements io.ReaderAt over the section. Bytes past the raw data
// but inside the virtual size read as zero.
func (s *Section) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.Errorf("peimage: section %q: negative offset %d", s.Name, off)
	}
	size := s.Size()
	if off >= size {
		return 0, io.EOF
	}
	n := int64(len(p))
	if n > size-off {
		n = size - off
	}

	filled := int64(0)
	if raw := s.rawSize(); off < raw {
		m := min(n, raw-off)
		start := int64(s.PointerToRawData) + off
		if start+m > s.fileSize {
			return 0, errors.Wrapf(ErrMalformedImage, "section %q raw data 0x%x+%d outside %d-byte image",
				s.Name, s.PointerToRawData, s.SizeOfRawData, s.fileSize)
		}
		k, err := s.r.ReadAt(p[:m], start)
		if int64(k) < m {
			return k, errors.Wrapf(ErrMalformedImage, "section %q: read: %v", s.Name, err)
		}
		filled = m
	}
	clear(p[filled:n])

	if n < int64(len(p)) {
		return int(n), io.EOF
	}
	return int(n), nil
}

// Bytes reads the whole section.
func (s *Section) Bytes() ([]byte, error) {
	p := make([]byte, s.Size())
	if _, err := s.ReadAt(p, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return p, nil
}
