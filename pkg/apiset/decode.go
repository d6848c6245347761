package apiset

import (
	"go.uber.org/zap"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// Decode parses a version 6 namespace schema from data. The hash table is
// not read; writers rebuild it from the namespace names.
//
// Decode never returns a partial schema. Failures are *Error values that
// match the package sentinels with errors.Is.
func Decode(data []byte) (*Schema, error) {
	version, err := format.PeekVersion(data)
	if err != nil {
		return nil, truncated(err, "schema header")
	}
	if version != format.SchemaVersion {
		return nil, newError(ErrKindUnsupportedVersion, nil, "version %d", version)
	}

	hdr, err := format.DecodeHeader(data)
	if err != nil {
		return nil, truncated(err, "schema header")
	}
	if int64(hdr.Size) > int64(len(data)) {
		return nil, truncated(nil, "declared size %d exceeds %d available bytes", hdr.Size, len(data))
	}

	table, err := format.NamespaceTable(data, hdr.EntryOffset, hdr.Count)
	if err != nil {
		return nil, truncated(err, "namespace table")
	}

	s := &Schema{
		Version:    hdr.Version,
		Flags:      SchemaFlags(hdr.Flags),
		HashFactor: hdr.HashFactor,
	}
	values := 0
	for i := 0; i < int(hdr.Count); i++ {
		rec, err := format.DecodeNamespace(table, i)
		if err != nil {
			return nil, truncated(err, "namespace %d", i)
		}
		name, err := decodeString(data, rec.Name)
		if err != nil {
			return nil, truncated(err, "namespace %d name", i)
		}
		if s.Namespaces.Has(name) {
			return nil, newError(ErrKindDuplicateNamespace, nil, "%q", name)
		}
		entry, err := decodeEntry(data, name, rec)
		if err != nil {
			return nil, err
		}
		s.Namespaces.Add(name, entry)
		values += int(rec.ValueCount)
	}

	Logger().Debug("decoded api set schema",
		zap.Int("namespaces", s.Namespaces.Len()),
		zap.Int("values", values),
		zap.Int32("size", hdr.Size),
	)
	return s, nil
}

// decodeEntry reads the value table of one namespace. Exactly one row must
// carry an empty name; it becomes the default.
func decodeEntry(data []byte, name string, rec format.NamespaceRecord) (*NamespaceEntry, error) {
	table, err := format.ValueTable(data, rec.ValueOffset, rec.ValueCount)
	if err != nil {
		return nil, truncated(err, "%q value table", name)
	}

	entry := &NamespaceEntry{Flags: NamespaceFlags(rec.Flags)}
	seenDefault := false
	for j := 0; j < int(rec.ValueCount); j++ {
		vr, err := format.DecodeValue(table, j)
		if err != nil {
			return nil, truncated(err, "%q", name)
		}
		qualifier, err := decodeString(data, vr.Name)
		if err != nil {
			return nil, truncated(err, "%q value %d name", name, j)
		}
		target, err := decodeString(data, vr.Value)
		if err != nil {
			return nil, truncated(err, "%q value %d target", name, j)
		}
		v := ValueEntry{Flags: vr.Flags, Value: target}

		if qualifier == "" {
			if seenDefault {
				return nil, newError(ErrKindDuplicateDefault, nil, "%q", name)
			}
			seenDefault = true
			entry.Default = v
			continue
		}
		if !entry.Values.Add(qualifier, v) {
			return nil, newError(ErrKindDuplicateQualifier, nil, "%q in %q", qualifier, name)
		}
	}
	if !seenDefault {
		return nil, newError(ErrKindMissingDefault, nil, "%q", name)
	}
	return entry, nil
}

func decodeString(data []byte, ref format.StringRef) (string, error) {
	raw, err := ref.Resolve(data)
	if err != nil {
		return "", err
	}
	return format.DecodeUTF16(raw)
}
