package apiset

import (
	"strings"
	"unicode/utf16"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// Hash computes the loader's namespace hash: for each UTF-16 code unit,
// hash = hash*factor + unit, with uint32 wraparound.
//
// name is expected to be the output of HashedName.
func Hash(name string, factor int32) uint32 {
	var h uint32
	for _, unit := range utf16.Encode([]rune(name)) {
		h = h*uint32(factor) + uint32(unit)
	}
	return h
}

// HashedName returns the part of a namespace name the loader hashes: the
// name without its last "-" and everything after it, lower-cased.
//
//	HashedName("API-MS-Win-Core-File-L1-1-0") = "api-ms-win-core-file-l1-1"
func HashedName(namespace string) (string, error) {
	i := strings.LastIndexByte(namespace, format.VersionSuffixSeparator)
	if i < 0 {
		return "", newError(ErrKindInvalidNameShape, nil, "%q has no version suffix", namespace)
	}
	return format.LowerInvariant(namespace[:i]), nil
}
