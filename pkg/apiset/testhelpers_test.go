package apiset

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// sampleSchema builds a small schema that exercises qualifiers, flags and
// strings shared across namespaces.
func sampleSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	s.Flags = SchemaSealed

	file := &NamespaceEntry{Default: ValueEntry{Value: "kernel32.dll"}}
	require.True(t, file.Values.Add("kernel32.dll", ValueEntry{Value: "kernelbase.dll"}))

	heap := &NamespaceEntry{Flags: NamespaceSealed, Default: ValueEntry{Value: "kernelbase.dll"}}

	ext := &NamespaceEntry{
		Flags:   NamespaceExtension,
		Default: ValueEntry{Flags: 0x10, Value: "ext-ms-win-ntuser.dll"},
	}
	require.True(t, ext.Values.Add("user32.dll", ValueEntry{Flags: 0x2, Value: ""}))
	require.True(t, ext.Values.Add("shell32.dll", ValueEntry{Value: "user32.dll"}))

	disabled := &NamespaceEntry{}

	require.True(t, s.Namespaces.Add("api-ms-win-core-file-l1-1-0", file))
	require.True(t, s.Namespaces.Add("API-MS-Win-Core-Heap-L1-2-0", heap))
	require.True(t, s.Namespaces.Add("ext-ms-win-ntuser-window-l1-1-4", ext))
	require.True(t, s.Namespaces.Add("api-ms-win-legacy-l1-1-0", disabled))
	return s
}

// rawSchema assembles a schema blob by hand for decoder tests. Each
// namespace is given as a name and its value rows as (qualifier, target)
// pairs.
type rawNamespace struct {
	name   string
	values [][2]string
}

func rawSchema(t *testing.T, version int32, namespaces ...rawNamespace) []byte {
	t.Helper()
	count := len(namespaces)
	rows := 0
	for _, ns := range namespaces {
		rows += len(ns.values)
	}
	valuesOffset := format.HeaderSize + count*format.NamespaceRecordSize
	stringsOffset := valuesOffset + rows*format.ValueRecordSize

	var strs []byte
	put := func(s string) (int32, int32) {
		if s == "" {
			return 0, 0
		}
		raw, err := format.EncodeUTF16(s)
		require.NoError(t, err)
		off := stringsOffset + len(strs)
		strs = append(strs, raw...)
		return int32(off), int32(len(raw))
	}

	head := make([]byte, stringsOffset)
	row := 0
	for i, ns := range namespaces {
		nsBase := format.HeaderSize + i*format.NamespaceRecordSize
		off, n := put(ns.name)
		binary.LittleEndian.PutUint32(head[nsBase+format.NSNameOffsetOffset:], uint32(off))
		binary.LittleEndian.PutUint32(head[nsBase+format.NSNameLengthOffset:], uint32(n))
		binary.LittleEndian.PutUint32(head[nsBase+format.NSValueOffsetOffset:], uint32(valuesOffset+row*format.ValueRecordSize))
		binary.LittleEndian.PutUint32(head[nsBase+format.NSValueCountOffset:], uint32(len(ns.values)))
		for _, v := range ns.values {
			vBase := valuesOffset + row*format.ValueRecordSize
			qo, qn := put(v[0])
			to, tn := put(v[1])
			binary.LittleEndian.PutUint32(head[vBase+format.VNameOffsetOffset:], uint32(qo))
			binary.LittleEndian.PutUint32(head[vBase+format.VNameLengthOffset:], uint32(qn))
			binary.LittleEndian.PutUint32(head[vBase+format.VValueOffsetOffset:], uint32(to))
			binary.LittleEndian.PutUint32(head[vBase+format.VValueLengthOffset:], uint32(tn))
			row++
		}
	}

	out := append(head, strs...)
	require.NoError(t, format.EncodeHeader(out, format.Header{
		Version:     version,
		Size:        int32(len(out)),
		Count:       int32(count),
		EntryOffset: format.HeaderSize,
		HashOffset:  int32(len(out)),
		HashFactor:  format.DefaultHashFactor,
	}))
	return out
}

// hashRows returns the hash table of an encoded schema.
func hashRows(t *testing.T, b []byte) []format.HashBucket {
	t.Helper()
	hdr, err := format.DecodeHeader(b)
	require.NoError(t, err)
	buckets, err := format.DecodeBuckets(b, hdr.HashOffset, hdr.Count)
	require.NoError(t, err)
	return buckets
}

func requireSorted(t *testing.T, buckets []format.HashBucket) {
	t.Helper()
	for i := 1; i < len(buckets); i++ {
		require.LessOrEqual(t, buckets[i-1].Hash, buckets[i].Hash, "bucket %d out of order", i)
	}
}
