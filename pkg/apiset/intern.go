package apiset

import "github.com/dhrdlicka/apisettool/internal/format"

// StringTable interns strings case-insensitively, remembering where each
// distinct string was first placed. The empty string is pre-interned at
// offset 0 with length 0.
//
// A StringTable belongs to a single encode call. Writers take it as an
// argument so the placement they produce depends only on their inputs.
type StringTable struct {
	refs map[string]format.StringRef
	hits int
}

// NewStringTable returns a table holding only the empty string.
func NewStringTable() *StringTable {
	return &StringTable{refs: map[string]format.StringRef{"": {}}}
}

// Lookup returns the reference recorded for s.
func (t *StringTable) Lookup(s string) (format.StringRef, bool) {
	ref, ok := t.refs[format.FoldKey(s)]
	return ref, ok
}

// Intern records a string of length bytes at offset unless s (in any
// casing) is already present. It returns the reference to write and whether
// s was newly added, in which case the caller must place s at offset.
//
// A reused reference keeps the length of the first spelling, so it always
// covers exactly the bytes that were written.
func (t *StringTable) Intern(s string, offset, length int32) (format.StringRef, bool) {
	key := format.FoldKey(s)
	if ref, ok := t.refs[key]; ok {
		t.hits++
		return ref, false
	}
	ref := format.StringRef{Offset: offset, Length: length}
	t.refs[key] = ref
	return ref, true
}

// Len returns the number of distinct strings, the empty string included.
func (t *StringTable) Len() int { return len(t.refs) }

// Hits returns how many Intern calls reused an existing string.
func (t *StringTable) Hits() int { return t.hits }
