// Package buf contains bounds-checked helpers for reading and writing the
// fixed-size little-endian records of the API set schema.
package buf

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds reports a read or write that falls outside the backing slice.
var ErrOutOfBounds = errors.New("buf: range out of bounds")

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative values, returning ok = false on
// overflow or when either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckTable validates that count rows of rowSize bytes fit in a buffer of
// bufLen bytes starting at offset, and returns the end offset of the table.
//
//	end, err := buf.CheckTable(len(data), off, count, format.ValueRecordSize)
//	if err != nil {
//	    return fmt.Errorf("value table: %w", err)
//	}
func CheckTable(bufLen, offset, count, rowSize int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrOutOfBounds, offset)
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: negative count %d", ErrOutOfBounds, count)
	}
	total, ok := MulOverflowSafe(count, rowSize)
	if !ok {
		return 0, fmt.Errorf("%w: overflow count=%d * rowSize=%d", ErrOutOfBounds, count, rowSize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("%w: overflow offset=%d + size=%d", ErrOutOfBounds, offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("%w: end=%d > len=%d", ErrOutOfBounds, end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
