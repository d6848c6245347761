package apisetjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhrdlicka/apisettool/internal/format"
	"github.com/dhrdlicka/apisettool/pkg/apiset"
)

// ErrInvalidDocument reports JSON that is well formed but does not describe
// a schema.
var ErrInvalidDocument = errors.New("apisetjson: invalid document")

// Unmarshal parses the JSON text form of a schema.
//
// Schema property names match case-insensitively; namespace and value
// property names are exact. Unknown properties are ignored. Duplicate
// namespace or qualifier names fail with the apiset sentinels.
func Unmarshal(data []byte) (*apiset.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{dec: dec}

	s, err := p.schema()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after schema", ErrInvalidDocument)
	}
	return s, nil
}

type parser struct {
	dec *json.Decoder
}

func (p *parser) token() (json.Token, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("apisetjson: %w", err)
	}
	return tok, nil
}

// members reads the object whose '{' was just consumed, calling fn with
// each property name and the first token of its value.
func (p *parser) members(what string, fn func(key string, tok json.Token) error) error {
	for p.dec.More() {
		tok, err := p.token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: %s: expected property name", ErrInvalidDocument, what)
		}
		tok, err = p.token()
		if err != nil {
			return err
		}
		if err := fn(key, tok); err != nil {
			return err
		}
	}
	_, err := p.token()
	return err
}

func (p *parser) schema() (*apiset.Schema, error) {
	tok, err := p.token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: schema must be an object", ErrInvalidDocument)
	}

	s := &apiset.Schema{HashFactor: format.DefaultHashFactor}
	var haveVersion, haveEntries bool
	err = p.members("schema", func(key string, tok json.Token) error {
		switch strings.ToLower(key) {
		case "version":
			v, err := int32Of(tok, "version")
			s.Version, haveVersion = v, true
			return err
		case "hashfactor":
			v, err := int32Of(tok, "hashFactor")
			s.HashFactor = v
			return err
		case "sealed":
			return flagOf(tok, "sealed", &s.Flags, apiset.SchemaSealed)
		case "hostextension":
			return flagOf(tok, "hostExtension", &s.Flags, apiset.SchemaHostExtension)
		case "flags":
			v, err := uint32Of(tok, "flags")
			s.Flags |= apiset.SchemaFlags(v)
			return err
		case "entries":
			haveEntries = true
			return p.entries(tok, s)
		default:
			return p.skip(tok)
		}
	})
	if err != nil {
		return nil, err
	}
	if !haveVersion {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidDocument)
	}
	if !haveEntries {
		return nil, fmt.Errorf("%w: missing entries", ErrInvalidDocument)
	}
	return s, nil
}

func (p *parser) entries(tok json.Token, s *apiset.Schema) error {
	if tok != json.Delim('{') {
		return fmt.Errorf("%w: entries must be an object", ErrInvalidDocument)
	}
	return p.members("entries", func(name string, tok json.Token) error {
		e, err := p.namespace(name, tok)
		if err != nil {
			return err
		}
		if !s.Namespaces.Add(name, e) {
			return fmt.Errorf("apisetjson: %w: %q", apiset.ErrDuplicateNamespace, name)
		}
		return nil
	})
}

// namespace reads a namespace given either as a bare value or as an object.
func (p *parser) namespace(name string, tok json.Token) (*apiset.NamespaceEntry, error) {
	e := &apiset.NamespaceEntry{}
	if tok != json.Delim('{') {
		v, err := p.value(name, tok)
		if err != nil {
			return nil, err
		}
		e.Default = v
		return e, nil
	}

	haveValue := false
	err := p.members(name, func(key string, tok json.Token) error {
		switch key {
		case "sealed":
			return flagOf(tok, name+".sealed", &e.Flags, apiset.NamespaceSealed)
		case "extension":
			return flagOf(tok, name+".extension", &e.Flags, apiset.NamespaceExtension)
		case "flags":
			v, err := uint32Of(tok, name+".flags")
			e.Flags |= apiset.NamespaceFlags(v)
			return err
		case "value":
			v, err := p.value(name, tok)
			e.Default, haveValue = v, true
			return err
		case "others":
			return p.others(name, tok, e)
		default:
			return p.skip(tok)
		}
	})
	if err != nil {
		return nil, err
	}
	if !haveValue {
		return nil, fmt.Errorf("%w: %q has no value", ErrInvalidDocument, name)
	}
	return e, nil
}

func (p *parser) others(name string, tok json.Token, e *apiset.NamespaceEntry) error {
	if tok == nil {
		return nil
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("%w: %q: others must be an object", ErrInvalidDocument, name)
	}
	return p.members(name+".others", func(qualifier string, tok json.Token) error {
		if qualifier == "" {
			return fmt.Errorf("apisetjson: %w: %q has a qualifier with an empty name", apiset.ErrDuplicateDefault, name)
		}
		v, err := p.value(name+"."+qualifier, tok)
		if err != nil {
			return err
		}
		if !e.Values.Add(qualifier, v) {
			return fmt.Errorf("apisetjson: %w: %q in %q", apiset.ErrDuplicateQualifier, qualifier, name)
		}
		return nil
	})
}

// value reads null, a string, or an object with "flags" and a required
// "value" that may itself be null.
func (p *parser) value(what string, tok json.Token) (apiset.ValueEntry, error) {
	switch t := tok.(type) {
	case nil:
		return apiset.ValueEntry{}, nil
	case string:
		return apiset.ValueEntry{Value: t}, nil
	case json.Delim:
		if t != '{' {
			break
		}
		var v apiset.ValueEntry
		haveValue := false
		err := p.members(what, func(key string, tok json.Token) error {
			switch key {
			case "flags":
				f, err := uint32Of(tok, what+".flags")
				v.Flags = f
				return err
			case "value":
				haveValue = true
				switch s := tok.(type) {
				case nil:
					v.Value = ""
				case string:
					v.Value = s
				default:
					return fmt.Errorf("%w: %s: value must be a string or null", ErrInvalidDocument, what)
				}
				return nil
			default:
				return p.skip(tok)
			}
		})
		if err != nil {
			return apiset.ValueEntry{}, err
		}
		if !haveValue {
			return apiset.ValueEntry{}, fmt.Errorf("%w: %s: object has no value", ErrInvalidDocument, what)
		}
		return v, nil
	}
	return apiset.ValueEntry{}, fmt.Errorf("%w: %s: expected null, string or object", ErrInvalidDocument, what)
}

// skip consumes the rest of a value whose first token is tok.
func (p *parser) skip(tok json.Token) error {
	depth := 0
	for {
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			default:
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
		var err error
		if tok, err = p.token(); err != nil {
			return err
		}
	}
}

func flagOf[F ~uint32](tok json.Token, what string, flags *F, bit F) error {
	b, ok := tok.(bool)
	if !ok {
		return fmt.Errorf("%w: %s must be a boolean", ErrInvalidDocument, what)
	}
	if b {
		*flags |= bit
	}
	return nil
}

func uint32Of(tok json.Token, what string) (uint32, error) {
	n, ok := tok.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidDocument, what)
	}
	v, err := strconv.ParseUint(n.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, what, err)
	}
	return uint32(v), nil
}

func int32Of(tok json.Token, what string) (int32, error) {
	n, ok := tok.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidDocument, what)
	}
	v, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, what, err)
	}
	return int32(v), nil
}
