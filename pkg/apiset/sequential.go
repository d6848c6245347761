package apiset

import (
	"go.uber.org/zap"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// EncodeSequential encodes s with contiguous tables: header, namespace
// rows, value rows, then every distinct string once in first-seen order
// without padding, then the hash table.
//
// strs must be fresh; nil allocates one. Offsets it records are relative to
// the start of the string table.
func EncodeSequential(s *Schema, strs *StringTable) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	if strs == nil {
		strs = NewStringTable()
	}

	count := s.Namespaces.Len()
	valuesOffset := format.HeaderSize + count*format.NamespaceRecordSize
	records := make([]format.NamespaceRecord, 0, count)
	var values []format.ValueRecord
	var strings []placedString
	stringsLen := 0
	buckets := newBucketBuilder(s.HashFactor, count)

	intern := func(str string) (format.StringRef, error) {
		raw, err := format.EncodeUTF16(str)
		if err != nil {
			return format.StringRef{}, err
		}
		ref, added := strs.Intern(str, int32(stringsLen), int32(len(raw)))
		if added {
			strings = append(strings, placedString{offset: stringsLen, raw: raw})
			stringsLen += len(raw)
		}
		return ref, nil
	}

	for name, entry := range s.Namespaces.All() {
		if entry == nil {
			entry = &NamespaceEntry{}
		}
		hashed, hashedLen, err := hashedNameLength(name)
		if err != nil {
			return nil, err
		}
		nameRef, err := intern(name)
		if err != nil {
			return nil, err
		}
		n := 1 + entry.Values.Len()
		records = append(records, format.NamespaceRecord{
			Flags:        uint32(entry.Flags),
			Name:         nameRef,
			HashedLength: hashedLen,
			ValueOffset:  int32(valuesOffset + len(values)*format.ValueRecordSize),
			ValueCount:   int32(n),
		})

		for qualifier, v := range entry.rows() {
			qRef, err := intern(qualifier)
			if err != nil {
				return nil, err
			}
			vRef, err := intern(v.Value)
			if err != nil {
				return nil, err
			}
			values = append(values, format.ValueRecord{Flags: v.Flags, Name: qRef, Value: vRef})
		}
		buckets.add(hashed)
	}

	stringOffset := valuesOffset + len(values)*format.ValueRecordSize
	hashOffset := format.Align4(stringOffset + stringsLen)
	total := hashOffset + count*format.HashBucketSize
	if err := checkLayout("sequential", total); err != nil {
		return nil, err
	}

	// The empty reference stays at offset 0; everything else moves by the
	// string table base.
	rebase := func(ref format.StringRef) format.StringRef {
		if !ref.Empty() {
			ref.Offset += int32(stringOffset)
		}
		return ref
	}
	for i := range records {
		records[i].Name = rebase(records[i].Name)
	}
	for i := range values {
		values[i].Name = rebase(values[i].Name)
		values[i].Value = rebase(values[i].Value)
	}

	out := make([]byte, total)
	if err := emitSequential(out, s, records, values, strings, stringOffset, hashOffset, buckets.sorted()); err != nil {
		return nil, layoutError("sequential", err)
	}

	Logger().Debug("encoded api set schema",
		zap.Stringer("format", FormatSequential),
		zap.Int("namespaces", count),
		zap.Int("values", len(values)),
		zap.Int("strings", strs.Len()),
		zap.Int("intern_hits", strs.Hits()),
		zap.Int("size", total),
	)
	return out, nil
}

func emitSequential(out []byte, s *Schema, records []format.NamespaceRecord, values []format.ValueRecord,
	strings []placedString, stringOffset, hashOffset int, buckets []format.HashBucket) error {
	if err := emitTables(out, s, records, hashOffset, buckets); err != nil {
		return err
	}
	valuesOffset := format.HeaderSize + len(records)*format.NamespaceRecordSize
	table, err := format.ValueTable(out, int32(valuesOffset), int32(len(values)))
	if err != nil {
		return err
	}
	for i, rec := range values {
		if err := format.EncodeValue(table, i, rec); err != nil {
			return err
		}
	}
	for _, p := range strings {
		if err := p.emit(out, stringOffset); err != nil {
			return err
		}
	}
	return nil
}
