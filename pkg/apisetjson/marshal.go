// Package apisetjson maps API set schemas to and from their JSON text form.
//
// A schema is an object with "version", optional "sealed" and
// "hostExtension" booleans, a numeric "flags" for any other bits,
// "hashFactor" and an "entries" object keyed by namespace name. Entries and
// qualifiers keep their document order in both directions.
//
//	{
//	  "version": 6,
//	  "hashFactor": 31,
//	  "entries": {
//	    "api-ms-win-core-file-l1-1-0": "kernel32.dll",
//	    "ext-ms-win-ntuser-window-l1-1-4": {
//	      "extension": true,
//	      "value": "user32.dll",
//	      "others": { "host.exe": null }
//	    }
//	  }
//	}
package apisetjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dhrdlicka/apisettool/pkg/apiset"
)

// Marshal returns the JSON text form of s indented with two spaces.
func Marshal(s *apiset.Schema) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("apisetjson: nil schema")
	}
	var w writer
	w.open('{')

	w.key("version")
	w.int(int64(s.Version))
	if s.Flags&apiset.SchemaSealed != 0 {
		w.key("sealed")
		w.raw("true")
	}
	if s.Flags&apiset.SchemaHostExtension != 0 {
		w.key("hostExtension")
		w.raw("true")
	}
	if rest := s.Flags &^ (apiset.SchemaSealed | apiset.SchemaHostExtension); rest != 0 {
		w.key("flags")
		w.int(int64(rest))
	}
	w.key("hashFactor")
	w.int(int64(s.HashFactor))

	w.key("entries")
	w.open('{')
	for name, e := range s.Namespaces.All() {
		w.key(name)
		if e == nil {
			e = &apiset.NamespaceEntry{}
		}
		w.namespace(e)
	}
	w.close('}')

	w.close('}')

	var out bytes.Buffer
	if err := json.Indent(&out, w.buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("apisetjson: indent: %w", err)
	}
	return out.Bytes(), nil
}

// writer emits compact JSON and tracks where separators belong.
type writer struct {
	buf   bytes.Buffer
	first []bool
}

func (w *writer) open(c byte) {
	w.buf.WriteByte(c)
	w.first = append(w.first, true)
}

func (w *writer) close(c byte) {
	w.buf.WriteByte(c)
	w.first = w.first[:len(w.first)-1]
}

func (w *writer) key(k string) {
	top := len(w.first) - 1
	if !w.first[top] {
		w.buf.WriteByte(',')
	}
	w.first[top] = false
	w.str(k)
	w.buf.WriteByte(':')
}

func (w *writer) str(s string) {
	// Marshal of a string cannot fail.
	b, _ := json.Marshal(s)
	w.buf.Write(b)
}

func (w *writer) int(n int64) { w.buf.WriteString(strconv.FormatInt(n, 10)) }

func (w *writer) raw(s string) { w.buf.WriteString(s) }

// namespace writes e as a bare value when nothing but a plain default needs
// saying, and as an object otherwise.
func (w *writer) namespace(e *apiset.NamespaceEntry) {
	if e.Flags == 0 && e.Values.Len() == 0 && e.Default.Flags == 0 {
		w.value(e.Default)
		return
	}
	w.open('{')
	if e.Flags&apiset.NamespaceSealed != 0 {
		w.key("sealed")
		w.raw("true")
	}
	if e.Flags&apiset.NamespaceExtension != 0 {
		w.key("extension")
		w.raw("true")
	}
	if rest := e.Flags &^ (apiset.NamespaceSealed | apiset.NamespaceExtension); rest != 0 {
		w.key("flags")
		w.int(int64(rest))
	}
	w.key("value")
	w.value(e.Default)
	if e.Values.Len() > 0 {
		w.key("others")
		w.open('{')
		for name, v := range e.Values.All() {
			w.key(name)
			w.value(v)
		}
		w.close('}')
	}
	w.close('}')
}

// value writes v as null, a string, or {flags, value} when flags are set.
func (w *writer) value(v apiset.ValueEntry) {
	if v.Flags != 0 {
		w.open('{')
		w.key("flags")
		w.int(int64(v.Flags))
		w.key("value")
	}
	if v.Value == "" {
		w.raw("null")
	} else {
		w.str(v.Value)
	}
	if v.Flags != 0 {
		w.close('}')
	}
}
