package apiset

import (
	"iter"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// SchemaFlags are the header flags of a namespace schema.
type SchemaFlags uint32

const (
	SchemaSealed        SchemaFlags = 0x1
	SchemaHostExtension SchemaFlags = 0x2
)

// NamespaceFlags are the per-namespace flags.
type NamespaceFlags uint32

const (
	NamespaceSealed    NamespaceFlags = 0x1
	NamespaceExtension NamespaceFlags = 0x2
)

// Schema is a decoded API set namespace: virtual library names mapped to
// their redirection records.
type Schema struct {
	Version    int32
	Flags      SchemaFlags
	HashFactor int32
	Namespaces Dict[*NamespaceEntry]
}

// NewSchema returns an empty version 6 schema with the default hash factor.
func NewSchema() *Schema {
	return &Schema{Version: format.SchemaVersion, HashFactor: format.DefaultHashFactor}
}

// Lookup returns the namespace entry for name, ignoring case.
func (s *Schema) Lookup(name string) (*NamespaceEntry, bool) {
	return s.Namespaces.Get(name)
}

// NamespaceEntry redirects one virtual library name. Default applies when no
// qualifier in Values matches the importing host.
type NamespaceEntry struct {
	Flags   NamespaceFlags
	Default ValueEntry
	Values  Dict[ValueEntry]
}

// Enabled reports whether the namespace redirects anywhere by default.
func (e *NamespaceEntry) Enabled() bool { return !e.Default.IsEmpty() }

// rows yields the value rows in table order: the default under the empty
// name, then the qualifiers.
func (e *NamespaceEntry) rows() iter.Seq2[string, ValueEntry] {
	return func(yield func(string, ValueEntry) bool) {
		if !yield("", e.Default) {
			return
		}
		for name, v := range e.Values.All() {
			if !yield(name, v) {
				return
			}
		}
	}
}

// ValueEntry is one redirection target. Flags are reserved and preserved verbatim.
type ValueEntry struct {
	Flags uint32
	Value string
}

// IsEmpty reports whether the value carries neither flags nor a target.
func (v ValueEntry) IsEmpty() bool { return v.Flags == 0 && v.Value == "" }

// Equal reports whether s and o describe the same namespace. Namespace and
// qualifier names compare case-insensitively; iteration order is ignored.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Version != o.Version || s.Flags != o.Flags || s.HashFactor != o.HashFactor {
		return false
	}
	if s.Namespaces.Len() != o.Namespaces.Len() {
		return false
	}
	for name, e := range s.Namespaces.All() {
		oe, ok := o.Namespaces.Get(name)
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	return true
}

// Equal reports whether e and o hold the same flags and values.
func (e *NamespaceEntry) Equal(o *NamespaceEntry) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Flags != o.Flags || e.Default != o.Default || e.Values.Len() != o.Values.Len() {
		return false
	}
	for name, v := range e.Values.All() {
		ov, ok := o.Values.Get(name)
		if !ok || v != ov {
			return false
		}
	}
	return true
}
