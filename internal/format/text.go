package format

import (
	"fmt"
	"strings"
	stdunicode "unicode"

	"golang.org/x/text/encoding/unicode"
)

// utf16le is the on-disk string encoding. No byte order mark is read or written.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUTF16 decodes UTF-16LE bytes. Unpaired surrogates and a trailing odd
// byte decode to U+FFFD.
func DecodeUTF16(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("utf-16 decode: %w", err)
	}
	return string(out), nil
}

// EncodeUTF16 encodes s as UTF-16LE.
func EncodeUTF16(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("utf-16 encode %q: %w", s, err)
	}
	return out, nil
}

// FoldKey returns the key used to compare names case-insensitively. Each
// rune is upper-cased on its own, so multi-rune foldings such as "ß" and
// "ss" stay distinct.
func FoldKey(s string) string {
	return strings.Map(stdunicode.ToUpper, s)
}

// LowerInvariant lower-cases s one rune at a time without language-specific
// rules.
func LowerInvariant(s string) string {
	return strings.Map(stdunicode.ToLower, s)
}
