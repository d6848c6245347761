package apiset

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dhrdlicka/apisettool/internal/buf"
	"github.com/dhrdlicka/apisettool/internal/format"
)

// Format selects a binary layout.
type Format int

const (
	// FormatSequential writes contiguous tables. It is the default.
	FormatSequential Format = iota
	// FormatAuthentic reproduces the layout of the operating system's tool.
	FormatAuthentic
)

func (f Format) String() string {
	switch f {
	case FormatSequential:
		return "sequential"
	case FormatAuthentic:
		return "authentic"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a layout name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "sequential":
		return FormatSequential, nil
	case "authentic":
		return FormatAuthentic, nil
	default:
		return 0, fmt.Errorf("apiset: unknown format %q (want sequential or authentic)", s)
	}
}

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type names the flag value type in help output.
func (f *Format) Type() string { return "format" }

// Encode encodes s in layout f with a fresh string table.
func Encode(s *Schema, f Format) ([]byte, error) {
	switch f {
	case FormatSequential:
		return EncodeSequential(s, NewStringTable())
	case FormatAuthentic:
		return EncodeAuthentic(s, NewStringTable())
	default:
		return nil, fmt.Errorf("apiset: unknown format %v", f)
	}
}

// Serialize encodes s in layout f and writes it to w.
func Serialize(w io.Writer, s *Schema, f Format) error {
	out, err := Encode(s, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("apiset: write %v schema: %w", f, err)
	}
	return nil
}

// PadLength returns the file length the upstream build tool pads an encoded
// schema of n bytes to. Encoders never pad; callers writing files do.
func PadLength(n int) int {
	return format.PadBlock(n)
}

func validate(s *Schema) error {
	if s == nil {
		return fmt.Errorf("apiset: nil schema")
	}
	if s.Version != format.SchemaVersion {
		return newError(ErrKindUnsupportedVersion, nil, "version %d", s.Version)
	}
	// An empty-named row is the default; a qualifier may not claim that name.
	for name, e := range s.Namespaces.All() {
		if e == nil {
			continue
		}
		if e.Values.Has("") {
			return newError(ErrKindDuplicateDefault, nil, "%q has a qualifier with an empty name", name)
		}
	}
	return nil
}

// placedString is a UTF-16LE string and its offset relative to some base.
type placedString struct {
	offset int
	raw    []byte
}

func (p placedString) emit(out []byte, base int) error {
	return buf.NewView(out).Copy(base+p.offset, p.raw)
}

// hashedNameLength returns the hashed name of namespace and its UTF-16 byte
// length.
func hashedNameLength(namespace string) (string, int32, error) {
	hashed, err := HashedName(namespace)
	if err != nil {
		return "", 0, err
	}
	raw, err := format.EncodeUTF16(hashed)
	if err != nil {
		return "", 0, err
	}
	return hashed, int32(len(raw)), nil
}

func checkLayout(layout string, total int) error {
	if total > math.MaxInt32 {
		return newError(ErrKindLayoutOverflow, nil, "%s layout needs %d bytes", layout, total)
	}
	return nil
}

func layoutError(layout string, err error) error {
	return fmt.Errorf("apiset: emit %s layout: %w", layout, err)
}

// emitTables writes the header, the namespace table and the hash table.
func emitTables(out []byte, s *Schema, records []format.NamespaceRecord, hashOffset int, buckets []format.HashBucket) error {
	hdr := format.Header{
		Version:     s.Version,
		Size:        int32(len(out)),
		Flags:       uint32(s.Flags),
		Count:       int32(len(records)),
		EntryOffset: format.HeaderSize,
		HashOffset:  int32(hashOffset),
		HashFactor:  s.HashFactor,
	}
	if err := format.EncodeHeader(out, hdr); err != nil {
		return err
	}
	table, err := format.NamespaceTable(out, format.HeaderSize, int32(len(records)))
	if err != nil {
		return err
	}
	for i, rec := range records {
		if err := format.EncodeNamespace(table, i, rec); err != nil {
			return err
		}
	}
	return format.EncodeBuckets(out, hashOffset, buckets)
}
