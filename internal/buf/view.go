package buf

import (
	"encoding/binary"
	"fmt"
)

// View is a window onto a byte slice. Every accessor checks the requested
// range against the window and never panics on malformed offsets.
type View struct {
	b []byte
}

// NewView wraps b.
func NewView(b []byte) View { return View{b: b} }

// Len returns the size of the window in bytes.
func (v View) Len() int { return len(v.b) }

// Raw returns the underlying bytes.
func (v View) Raw() []byte { return v.b }

// Sub returns the window [off:off+n].
func (v View) Sub(off, n int) (View, error) {
	s, err := v.Bytes(off, n)
	if err != nil {
		return View{}, err
	}
	return View{b: s}, nil
}

// Bytes returns the bytes [off:off+n] without copying.
func (v View) Bytes(off, n int) ([]byte, error) {
	s, ok := Slice(v.b, off, n)
	if !ok {
		return nil, fmt.Errorf("%w: [%d:+%d] of %d", ErrOutOfBounds, off, n, len(v.b))
	}
	return s, nil
}

// U16 reads a little-endian uint16 at off.
func (v View) U16(off int) (uint16, error) {
	s, err := v.Bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s), nil
}

// U32 reads a little-endian uint32 at off.
func (v View) U32(off int) (uint32, error) {
	s, err := v.Bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(s), nil
}

// I32 reads a little-endian int32 at off.
func (v View) I32(off int) (int32, error) {
	u, err := v.U32(off)
	return int32(u), err
}

// U64 reads a little-endian uint64 at off.
func (v View) U64(off int) (uint64, error) {
	s, err := v.Bytes(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(s), nil
}

// PutU32 writes a little-endian uint32 at off.
func (v View) PutU32(off int, x uint32) error {
	s, err := v.Bytes(off, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(s, x)
	return nil
}

// PutI32 writes a little-endian int32 at off.
func (v View) PutI32(off int, x int32) error {
	return v.PutU32(off, uint32(x))
}

// Copy writes p at off.
func (v View) Copy(off int, p []byte) error {
	s, err := v.Bytes(off, len(p))
	if err != nil {
		return err
	}
	copy(s, p)
	return nil
}
