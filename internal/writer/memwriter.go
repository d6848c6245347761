package writer

// MemWriter captures output in memory.
type MemWriter struct {
	Buf []byte
}

// WriteOutput stores a copy of b.
func (w *MemWriter) WriteOutput(b []byte) error {
	w.Buf = append(w.Buf[:0], b...)
	return nil
}

// Padded extends output with zero bytes to Pad(len(b)) before handing it
// to Sink. Pad must never shrink its argument.
type Padded struct {
	Sink Sink
	Pad  func(n int) int
}

// WriteOutput pads b and forwards it.
func (w Padded) WriteOutput(b []byte) error {
	n := w.Pad(len(b))
	if n <= len(b) {
		return w.Sink.WriteOutput(b)
	}
	out := make([]byte, n)
	copy(out, b)
	return w.Sink.WriteOutput(out)
}
