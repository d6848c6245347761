package format

import (
	"fmt"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

// NamespaceRecord is one row of the namespace table.
type NamespaceRecord struct {
	Flags uint32
	Name  StringRef
	// HashedLength is the byte length of the lower-cased name without its
	// version suffix. It is written for the loader and never read back.
	HashedLength int32
	ValueOffset  int32
	ValueCount   int32
}

// StringRef locates a UTF-16LE string inside the schema blob.
type StringRef struct {
	Offset int32
	Length int32
}

// Empty reports whether the reference denotes no characters.
func (s StringRef) Empty() bool { return s.Length == 0 }

// Resolve returns the bytes the reference points at in b.
func (s StringRef) Resolve(b []byte) ([]byte, error) {
	if err := checkNonNegative("string", s.Offset, s.Length); err != nil {
		return nil, err
	}
	raw, ok := buf.Slice(b, int(s.Offset), int(s.Length))
	if !ok {
		return nil, fmt.Errorf("string at 0x%x (+%d): %w", s.Offset, s.Length, ErrTruncated)
	}
	return raw, nil
}

// NamespaceTable returns the window holding count namespace rows at offset.
func NamespaceTable(b []byte, offset, count int32) (buf.View, error) {
	return table(b, "namespace table", offset, count, NamespaceRecordSize)
}

// DecodeNamespace decodes row i of a namespace table window.
func DecodeNamespace(table buf.View, i int) (NamespaceRecord, error) {
	row, err := table.Sub(i*NamespaceRecordSize, NamespaceRecordSize)
	if err != nil {
		return NamespaceRecord{}, fmt.Errorf("namespace %d: %w: %w", i, ErrTruncated, err)
	}
	r := fieldReader{v: row, what: fmt.Sprintf("namespace %d", i)}
	rec := NamespaceRecord{
		Flags:        r.u32(NSFlagsOffset),
		Name:         StringRef{Offset: r.i32(NSNameOffsetOffset), Length: r.i32(NSNameLengthOffset)},
		HashedLength: r.i32(NSHashedLengthOffset),
		ValueOffset:  r.i32(NSValueOffsetOffset),
		ValueCount:   r.i32(NSValueCountOffset),
	}
	if r.err != nil {
		return NamespaceRecord{}, r.err
	}
	if err := checkNonNegative(r.what, rec.ValueOffset, rec.ValueCount); err != nil {
		return NamespaceRecord{}, err
	}
	return rec, nil
}

// EncodeNamespace writes rec as row i of a namespace table window.
func EncodeNamespace(table buf.View, i int, rec NamespaceRecord) error {
	row, err := table.Sub(i*NamespaceRecordSize, NamespaceRecordSize)
	if err != nil {
		return fmt.Errorf("namespace %d: %w: %w", i, ErrTruncated, err)
	}
	w := fieldWriter{v: row, what: fmt.Sprintf("namespace %d", i)}
	w.u32(NSFlagsOffset, rec.Flags)
	w.i32(NSNameOffsetOffset, rec.Name.Offset)
	w.i32(NSNameLengthOffset, rec.Name.Length)
	w.i32(NSHashedLengthOffset, rec.HashedLength)
	w.i32(NSValueOffsetOffset, rec.ValueOffset)
	w.i32(NSValueCountOffset, rec.ValueCount)
	return w.err
}

func table(b []byte, what string, offset, count int32, rowSize int) (buf.View, error) {
	if err := checkNonNegative(what, offset, count); err != nil {
		return buf.View{}, err
	}
	end, err := buf.CheckTable(len(b), int(offset), int(count), rowSize)
	if err != nil {
		return buf.View{}, fmt.Errorf("%s: %w: %w", what, ErrTruncated, err)
	}
	return buf.NewView(b[offset:end]), nil
}
