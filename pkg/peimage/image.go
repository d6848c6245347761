package peimage

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/dhrdlicka/apisettool/internal/buf"
	"github.com/dhrdlicka/apisettool/internal/mmfile"
)

// Image is a parsed PE header set over a random-access source.
type Image struct {
	// HeaderOffset is where the COFF file header starts: just past the PE
	// signature, or 0 for images without a DOS stub.
	HeaderOffset   int64
	FileHeader     FileHeader
	OptionalHeader OptionalHeader
	Sections       []SectionHeader

	r    io.ReaderAt
	size int64
}

// Parse reads the headers of the image in r, which holds size bytes.
//
// An image may start with an MZ stub pointing at the PE signature; without
// one the COFF file header is read at offset 0.
func Parse(r io.ReaderAt, size int64) (*Image, error) {
	img := &Image{r: r, size: size}

	stub, err := img.read(0, dosHeaderSize)
	if err == nil && stub.Len() >= 2 {
		if magic, _ := stub.U16(0); magic == dosSignature {
			lfanew, _ := stub.U32(dosLfanewOffset)
			sig, err := img.read(int64(lfanew), len(peSignature))
			if err != nil {
				return nil, errors.Wrap(err, "PE signature")
			}
			if !bytes.Equal(sig.Raw(), peSignature) {
				return nil, errors.Wrapf(ErrMalformedImage, "no PE signature at 0x%x", lfanew)
			}
			img.HeaderOffset = int64(lfanew) + int64(len(peSignature))
		}
	}

	fh, err := img.read(img.HeaderOffset, fileHeaderSize)
	if err != nil {
		return nil, errors.Wrap(err, "file header")
	}
	if img.FileHeader, err = decodeFileHeader(fh); err != nil {
		return nil, err
	}

	optOffset := img.HeaderOffset + fileHeaderSize
	opt, err := img.read(optOffset, int(img.FileHeader.SizeOfOptionalHeader))
	if err != nil {
		return nil, errors.Wrap(err, "optional header")
	}
	if img.OptionalHeader, err = decodeOptionalHeader(opt); err != nil {
		return nil, err
	}

	n := int(img.FileHeader.NumberOfSections)
	tableOffset := optOffset + int64(img.FileHeader.SizeOfOptionalHeader)
	table, err := img.read(tableOffset, n*sectionHeaderSize)
	if err != nil {
		return nil, errors.Wrap(err, "section table")
	}
	img.Sections = make([]SectionHeader, n)
	for i := range img.Sections {
		row, err := table.Sub(i*sectionHeaderSize, sectionHeaderSize)
		if err != nil {
			return nil, errors.Wrap(ErrMalformedImage, err.Error())
		}
		if img.Sections[i], err = decodeSectionHeader(row); err != nil {
			return nil, errors.Wrapf(err, "section %d", i)
		}
	}
	return img, nil
}

// read returns n bytes at off as a view.
func (img *Image) read(off int64, n int) (buf.View, error) {
	if off < 0 || n < 0 || off > img.size || int64(n) > img.size-off {
		return buf.View{}, errors.Wrapf(ErrMalformedImage, "range 0x%x+%d outside %d-byte image", off, n, img.size)
	}
	p := make([]byte, n)
	if k, err := img.r.ReadAt(p, off); k < n {
		return buf.View{}, errors.Wrapf(ErrMalformedImage, "read 0x%x+%d: %v", off, n, err)
	}
	return buf.NewView(p), nil
}

// Section returns the first section called name. Names compare exactly.
func (img *Image) Section(name string) (*Section, error) {
	for _, sh := range img.Sections {
		if sh.Name == name {
			return &Section{SectionHeader: sh, r: img.r, fileSize: img.size}, nil
		}
	}
	return nil, errors.Wrapf(ErrSectionNotFound, "%q", name)
}

// File is an image parsed from a mapped file.
type File struct {
	*Image
	m *mmfile.File
}

// Open maps the file at path and parses its headers.
func Open(path string) (*File, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	img, err := Parse(m, int64(m.Len()))
	if err != nil {
		m.Close()
		return nil, errors.WithMessage(err, path)
	}
	return &File{Image: img, m: m}, nil
}

// Close unmaps the file. Sections read from it become unusable.
func (f *File) Close() error {
	return f.m.Close()
}
