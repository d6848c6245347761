package format

import (
	"fmt"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

// fieldReader reads consecutive fields of one record and keeps the first
// failure, so decoders can read every field and check once.
type fieldReader struct {
	v    buf.View
	what string
	err  error
}

func (r *fieldReader) u32(off int) uint32 {
	if r.err != nil {
		return 0
	}
	x, err := r.v.U32(off)
	if err != nil {
		r.err = fmt.Errorf("%s: %w: %w", r.what, ErrTruncated, err)
	}
	return x
}

func (r *fieldReader) i32(off int) int32 {
	return int32(r.u32(off))
}

// fieldWriter is the write-side counterpart of fieldReader.
type fieldWriter struct {
	v    buf.View
	what string
	err  error
}

func (w *fieldWriter) u32(off int, x uint32) {
	if w.err != nil {
		return
	}
	if err := w.v.PutU32(off, x); err != nil {
		w.err = fmt.Errorf("%s: %w: %w", w.what, ErrTruncated, err)
	}
}

func (w *fieldWriter) i32(off int, x int32) {
	w.u32(off, uint32(x))
}

func checkNonNegative(what string, fields ...int32) error {
	for _, f := range fields {
		if f < 0 {
			return fmt.Errorf("%s: %w (%d)", what, ErrNegativeField, f)
		}
	}
	return nil
}
