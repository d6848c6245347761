package format

import (
	"fmt"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

// Header is the fixed 28-byte preamble of a namespace schema.
type Header struct {
	Version     int32
	Size        int32
	Flags       uint32
	Count       int32
	EntryOffset int32
	HashOffset  int32
	HashFactor  int32
}

// PeekVersion reads only the version field so callers can reject foreign
// versions before trusting any other header field.
func PeekVersion(b []byte) (int32, error) {
	v, err := buf.NewView(b).I32(HdrVersionOffset)
	if err != nil {
		return 0, fmt.Errorf("header version: %w: %w", ErrTruncated, err)
	}
	return v, nil
}

// DecodeHeader decodes the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("header: %w (have %d, need %d)", ErrTruncated, len(b), HeaderSize)
	}
	r := fieldReader{v: buf.NewView(b), what: "header"}
	h := Header{
		Version:     r.i32(HdrVersionOffset),
		Size:        r.i32(HdrSizeOffset),
		Flags:       r.u32(HdrFlagsOffset),
		Count:       r.i32(HdrCountOffset),
		EntryOffset: r.i32(HdrEntryOffset),
		HashOffset:  r.i32(HdrHashOffset),
		HashFactor:  r.i32(HdrHashFactorOffset),
	}
	if r.err != nil {
		return Header{}, r.err
	}
	if err := checkNonNegative("header", h.Size, h.Count, h.EntryOffset, h.HashOffset); err != nil {
		return Header{}, err
	}
	return h, nil
}

// EncodeHeader writes h into the first HeaderSize bytes of b.
func EncodeHeader(b []byte, h Header) error {
	w := fieldWriter{v: buf.NewView(b), what: "header"}
	w.i32(HdrVersionOffset, h.Version)
	w.i32(HdrSizeOffset, h.Size)
	w.u32(HdrFlagsOffset, h.Flags)
	w.i32(HdrCountOffset, h.Count)
	w.i32(HdrEntryOffset, h.EntryOffset)
	w.i32(HdrHashOffset, h.HashOffset)
	w.i32(HdrHashFactorOffset, h.HashFactor)
	return w.err
}
