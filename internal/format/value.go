package format

import (
	"fmt"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

// ValueRecord is one row of a namespace's value table. A row with an empty
// name is the namespace's default value.
type ValueRecord struct {
	Flags uint32
	Name  StringRef
	Value StringRef
}

// ValueTable returns the window holding count value rows at offset.
func ValueTable(b []byte, offset, count int32) (buf.View, error) {
	return table(b, "value table", offset, count, ValueRecordSize)
}

// DecodeValue decodes row i of a value table window.
func DecodeValue(table buf.View, i int) (ValueRecord, error) {
	row, err := table.Sub(i*ValueRecordSize, ValueRecordSize)
	if err != nil {
		return ValueRecord{}, fmt.Errorf("value %d: %w: %w", i, ErrTruncated, err)
	}
	r := fieldReader{v: row, what: fmt.Sprintf("value %d", i)}
	rec := ValueRecord{
		Flags: r.u32(VFlagsOffset),
		Name:  StringRef{Offset: r.i32(VNameOffsetOffset), Length: r.i32(VNameLengthOffset)},
		Value: StringRef{Offset: r.i32(VValueOffsetOffset), Length: r.i32(VValueLengthOffset)},
	}
	return rec, r.err
}

// EncodeValue writes rec as row i of a value table window.
func EncodeValue(table buf.View, i int, rec ValueRecord) error {
	row, err := table.Sub(i*ValueRecordSize, ValueRecordSize)
	if err != nil {
		return fmt.Errorf("value %d: %w: %w", i, ErrTruncated, err)
	}
	w := fieldWriter{v: row, what: fmt.Sprintf("value %d", i)}
	w.u32(VFlagsOffset, rec.Flags)
	w.i32(VNameOffsetOffset, rec.Name.Offset)
	w.i32(VNameLengthOffset, rec.Name.Length)
	w.i32(VValueOffsetOffset, rec.Value.Offset)
	w.i32(VValueLengthOffset, rec.Value.Length)
	return w.err
}
