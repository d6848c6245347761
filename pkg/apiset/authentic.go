package apiset

import (
	"go.uber.org/zap"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// authenticBlock is everything one namespace contributes after the
// namespace table: its name when first seen, its value table and the
// strings its values introduced.
type authenticBlock struct {
	name        *placedString
	valueOffset int
	values      []format.ValueRecord
	strings     []placedString
}

// EncodeAuthentic encodes s in the layout the operating system's own tool
// produces. Each namespace's strings follow its value table, every string
// starts on a 4-byte boundary, and a string seen earlier (in any casing) is
// referenced rather than written again.
//
// Placement follows the iteration order of s.Namespaces. strs must be fresh;
// nil allocates one.
func EncodeAuthentic(s *Schema, strs *StringTable) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	if strs == nil {
		strs = NewStringTable()
	}

	count := s.Namespaces.Len()
	cursor := format.HeaderSize + count*format.NamespaceRecordSize
	records := make([]format.NamespaceRecord, 0, count)
	blocks := make([]authenticBlock, 0, count)
	buckets := newBucketBuilder(s.HashFactor, count)

	// place interns str at the cursor and advances it past the aligned end
	// of str when str is new.
	place := func(str string) (format.StringRef, *placedString, error) {
		raw, err := format.EncodeUTF16(str)
		if err != nil {
			return format.StringRef{}, nil, err
		}
		ref, added := strs.Intern(str, int32(cursor), int32(len(raw)))
		if !added {
			return ref, nil, nil
		}
		p := &placedString{offset: cursor, raw: raw}
		cursor = format.Align4(cursor + len(raw))
		return ref, p, nil
	}

	for name, entry := range s.Namespaces.All() {
		if entry == nil {
			entry = &NamespaceEntry{}
		}
		hashed, hashedLen, err := hashedNameLength(name)
		if err != nil {
			return nil, err
		}

		var blk authenticBlock
		nameRef, placed, err := place(name)
		if err != nil {
			return nil, err
		}
		blk.name = placed

		cursor = format.Align4(cursor)
		blk.valueOffset = cursor
		n := 1 + entry.Values.Len()
		records = append(records, format.NamespaceRecord{
			Flags:        uint32(entry.Flags),
			Name:         nameRef,
			HashedLength: hashedLen,
			ValueOffset:  int32(cursor),
			ValueCount:   int32(n),
		})
		cursor += n * format.ValueRecordSize

		blk.values = make([]format.ValueRecord, 0, n)
		for qualifier, v := range entry.rows() {
			qRef, qPlaced, err := place(qualifier)
			if err != nil {
				return nil, err
			}
			if qPlaced != nil {
				blk.strings = append(blk.strings, *qPlaced)
			}
			vRef, vPlaced, err := place(v.Value)
			if err != nil {
				return nil, err
			}
			if vPlaced != nil {
				blk.strings = append(blk.strings, *vPlaced)
			}
			blk.values = append(blk.values, format.ValueRecord{Flags: v.Flags, Name: qRef, Value: vRef})
		}

		blocks = append(blocks, blk)
		buckets.add(hashed)
	}

	hashOffset := format.Align4(cursor)
	total := hashOffset + count*format.HashBucketSize
	if err := checkLayout("authentic", total); err != nil {
		return nil, err
	}

	out := make([]byte, total)
	err := emitTables(out, s, records, hashOffset, buckets.sorted())
	for i := 0; err == nil && i < len(blocks); i++ {
		err = blocks[i].emit(out)
	}
	if err != nil {
		return nil, layoutError("authentic", err)
	}

	Logger().Debug("encoded api set schema",
		zap.Stringer("format", FormatAuthentic),
		zap.Int("namespaces", count),
		zap.Int("strings", strs.Len()),
		zap.Int("intern_hits", strs.Hits()),
		zap.Int("size", total),
	)
	return out, nil
}

func (blk *authenticBlock) emit(out []byte) error {
	if blk.name != nil {
		if err := blk.name.emit(out, 0); err != nil {
			return err
		}
	}
	table, err := format.ValueTable(out, int32(blk.valueOffset), int32(len(blk.values)))
	if err != nil {
		return err
	}
	for j, rec := range blk.values {
		if err := format.EncodeValue(table, j, rec); err != nil {
			return err
		}
	}
	for _, p := range blk.strings {
		if err := p.emit(out, 0); err != nil {
			return err
		}
	}
	return nil
}
