package main

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/dhrdlicka/apisettool/internal/format"
	"github.com/dhrdlicka/apisettool/internal/mmfile"
	"github.com/dhrdlicka/apisettool/pkg/apiset"
	"github.com/dhrdlicka/apisettool/pkg/peimage"
)

// sectionName is the PE section holding the schema.
const sectionName = ".apiset"

// loadedSchema is a decoded schema plus facts about where it came from.
type loadedSchema struct {
	Schema *apiset.Schema
	Header format.Header
	Origin string
	Size   int
	Digest uint64
}

// loadAttempt extracts a schema blob from a whole input file.
type loadAttempt struct {
	name    string
	extract func(m *mmfile.File) ([]byte, error)
}

var (
	rawBlob = loadAttempt{
		name:    "raw schema blob",
		extract: func(m *mmfile.File) ([]byte, error) { return m.Bytes(), nil },
	}
	peSection = loadAttempt{
		name: "PE image section " + sectionName,
		extract: func(m *mmfile.File) ([]byte, error) {
			img, err := peimage.Parse(m, int64(m.Len()))
			if err != nil {
				return nil, err
			}
			s, err := img.Section(sectionName)
			if err != nil {
				return nil, err
			}
			return s.Bytes()
		},
	}
)

// loadSchema reads path as a raw schema blob or as a PE image carrying an
// .apiset section. Files that sniff as executables try the image first.
// When both fail the error reports each attempt.
func loadSchema(path string) (*loadedSchema, error) {
	m, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	attempts := []loadAttempt{rawBlob, peSection}
	kind, _ := filetype.Match(m.Bytes())
	if kind.Extension == "exe" {
		attempts = []loadAttempt{peSection, rawBlob}
	}
	logger.Debug("loading schema",
		zap.String("path", path),
		zap.String("filetype", kind.Extension),
		zap.Int("size", m.Len()),
	)

	var errs []error
	for _, a := range attempts {
		l, err := a.load(m)
		if err == nil {
			printVerbose("Loaded %s as %s\n", path, a.name)
			return l, nil
		}
		logger.Debug("load attempt failed", zap.String("as", a.name), zap.Error(err))
		errs = append(errs, fmt.Errorf("as %s: %w", a.name, err))
	}
	return nil, fmt.Errorf("%s is not an API set schema: %w", path, errors.Join(errs...))
}

func (a loadAttempt) load(m *mmfile.File) (*loadedSchema, error) {
	blob, err := a.extract(m)
	if err != nil {
		return nil, err
	}
	s, err := apiset.Decode(blob)
	if err != nil {
		return nil, err
	}
	hdr, err := format.DecodeHeader(blob)
	if err != nil {
		return nil, err
	}
	return &loadedSchema{
		Schema: s,
		Header: hdr,
		Origin: a.name,
		Size:   len(blob),
		Digest: xxhash.Sum64(blob[:hdr.Size]),
	}, nil
}
