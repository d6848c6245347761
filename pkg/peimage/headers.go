// Package peimage locates named sections in Portable Executable images.
//
// It reads only what is needed to find a section: the optional DOS stub,
// the COFF file header, the optional header and the section table. Every
// field access is bounds checked.
package peimage

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/dhrdlicka/apisettool/internal/buf"
)

var (
	// ErrMalformedImage reports headers that are missing, truncated or
	// inconsistent.
	ErrMalformedImage = errors.New("peimage: malformed image")
	// ErrSectionNotFound reports a lookup for a section the image lacks.
	ErrSectionNotFound = errors.New("peimage: section not found")
)

const (
	dosSignature      = 0x5A4D // MZ
	dosHeaderSize     = 64
	dosLfanewOffset   = 0x3C
	fileHeaderSize    = 20
	sectionHeaderSize = 40
)

var peSignature = []byte("PE\x00\x00")

// Characteristics bits that mark a big-endian image.
const (
	bytesReversedLo = 0x0080
	bytesReversedHi = 0x8000
)

// Optional header magics.
const (
	MagicPE32     = 0x10b
	MagicPE32Plus = 0x20b
	MagicROM      = 0x107
)

// FileHeader is the COFF file header.
type FileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

func decodeFileHeader(v buf.View) (FileHeader, error) {
	var r reader
	r.v = v
	h := FileHeader{
		Machine:              r.u16(0),
		NumberOfSections:     r.u16(2),
		TimeDateStamp:        r.u32(4),
		PointerToSymbolTable: r.u32(8),
		NumberOfSymbols:      r.u32(12),
		SizeOfOptionalHeader: r.u16(16),
		Characteristics:      r.u16(18),
	}
	if r.err != nil {
		return FileHeader{}, errors.Wrap(r.err, "file header")
	}
	if h.Characteristics&(bytesReversedLo|bytesReversedHi) != 0 {
		return FileHeader{}, errors.Wrapf(ErrMalformedImage, "byte-reversed image (characteristics 0x%04x)", h.Characteristics)
	}
	return h, nil
}

// OptionalHeader holds the optional header fields common to all shapes.
// Fields a shape lacks are zero.
type OptionalHeader struct {
	Magic               uint16
	AddressOfEntryPoint uint32
	ImageBase           uint64
	SectionAlignment    uint32
	FileAlignment       uint32
	SizeOfImage         uint32
	SizeOfHeaders       uint32
	Subsystem           uint16
	NumberOfRvaAndSizes uint32
}

// optionalHeaderReaders decode the optional header by magic.
var optionalHeaderReaders = map[uint16]func(*reader) OptionalHeader{
	MagicPE32: func(r *reader) OptionalHeader {
		return OptionalHeader{
			Magic:               MagicPE32,
			AddressOfEntryPoint: r.u32(16),
			ImageBase:           uint64(r.u32(28)),
			SectionAlignment:    r.u32(32),
			FileAlignment:       r.u32(36),
			SizeOfImage:         r.u32(56),
			SizeOfHeaders:       r.u32(60),
			Subsystem:           r.u16(68),
			NumberOfRvaAndSizes: r.u32(92),
		}
	},
	MagicPE32Plus: func(r *reader) OptionalHeader {
		return OptionalHeader{
			Magic:               MagicPE32Plus,
			AddressOfEntryPoint: r.u32(16),
			ImageBase:           r.u64(24),
			SectionAlignment:    r.u32(32),
			FileAlignment:       r.u32(36),
			SizeOfImage:         r.u32(56),
			SizeOfHeaders:       r.u32(60),
			Subsystem:           r.u16(68),
			NumberOfRvaAndSizes: r.u32(108),
		}
	},
	// ROM images stop after the GP value at 52.
	MagicROM: func(r *reader) OptionalHeader {
		r.u32(52)
		return OptionalHeader{
			Magic:               MagicROM,
			AddressOfEntryPoint: r.u32(16),
		}
	},
}

func decodeOptionalHeader(v buf.View) (OptionalHeader, error) {
	var r reader
	r.v = v
	magic := r.u16(0)
	if r.err != nil {
		return OptionalHeader{}, errors.Wrap(r.err, "optional header")
	}
	read, ok := optionalHeaderReaders[magic]
	if !ok {
		return OptionalHeader{}, errors.Wrapf(ErrMalformedImage, "optional header magic 0x%x", magic)
	}
	h := read(&r)
	if r.err != nil {
		return OptionalHeader{}, errors.Wrapf(r.err, "optional header (magic 0x%x)", magic)
	}
	return h, nil
}

// SectionHeader is one row of the section table.
type SectionHeader struct {
	Name                 string
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

func decodeSectionHeader(v buf.View) (SectionHeader, error) {
	var r reader
	r.v = v
	name, err := v.Bytes(0, 8)
	if err != nil {
		return SectionHeader{}, errors.Wrap(ErrMalformedImage, err.Error())
	}
	h := SectionHeader{
		Name:                 sectionName(name),
		VirtualSize:          r.u32(8),
		VirtualAddress:       r.u32(12),
		SizeOfRawData:        r.u32(16),
		PointerToRawData:     r.u32(20),
		PointerToRelocations: r.u32(24),
		PointerToLineNumbers: r.u32(28),
		NumberOfRelocations:  r.u16(32),
		NumberOfLineNumbers:  r.u16(34),
		Characteristics:      r.u32(36),
	}
	if r.err != nil {
		return SectionHeader{}, r.err
	}
	return h, nil
}

// sectionName trims the NUL padding of an 8-byte section name.
func sectionName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimRight(b, " "))
}

// reader keeps the first bounds failure, wrapped as ErrMalformedImage.
type reader struct {
	v   buf.View
	err error
}

func (r *reader) fail(off, n int, err error) {
	if r.err == nil {
		r.err = errors.Wrap(ErrMalformedImage, fmt.Sprintf("field at 0x%x (+%d): %v", off, n, err))
	}
}

func (r *reader) u16(off int) uint16 {
	x, err := r.v.U16(off)
	if err != nil {
		r.fail(off, 2, err)
	}
	return x
}

func (r *reader) u32(off int) uint32 {
	x, err := r.v.U32(off)
	if err != nil {
		r.fail(off, 4, err)
	}
	return x
}

func (r *reader) u64(off int) uint64 {
	x, err := r.v.U64(off)
	if err != nil {
		r.fail(off, 8, err)
	}
	return x
}
