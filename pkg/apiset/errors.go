package apiset

import (
	"errors"
	"fmt"

	"github.com/dhrdlicka/apisettool/internal/format"
)

// ErrKind classifies codec failures so callers can branch on intent rather
// than text.
type ErrKind int

const (
	ErrKindTruncated          ErrKind = iota // declared size or a table row exceeds the buffer
	ErrKindUnsupportedVersion                // version field is not 6
	ErrKindMissingDefault                    // namespace has no empty-named value row
	ErrKindDuplicateDefault                  // namespace has more than one empty-named value row
	ErrKindDuplicateNamespace                // namespace names collide case-insensitively
	ErrKindDuplicateQualifier                // qualifier names collide within one namespace
	ErrKindInvalidNameShape                  // namespace name has no version suffix
	ErrKindLayoutOverflow                    // encoded schema does not fit 32-bit offsets
)

var kindNames = [...]string{
	ErrKindTruncated:          "truncated data",
	ErrKindUnsupportedVersion: "unsupported version",
	ErrKindMissingDefault:     "missing default value",
	ErrKindDuplicateDefault:   "duplicate default value",
	ErrKindDuplicateNamespace: "duplicate namespace",
	ErrKindDuplicateQualifier: "duplicate qualifier",
	ErrKindInvalidNameShape:   "invalid namespace name",
	ErrKindLayoutOverflow:     "layout overflow",
}

func (k ErrKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrKind(%d)", int(k))
}

// Error is a typed codec error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "apiset: " + e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so detailed errors compare equal
// to the sentinels below.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrTruncated          = &Error{Kind: ErrKindTruncated}
	ErrUnsupportedVersion = &Error{Kind: ErrKindUnsupportedVersion}
	ErrMissingDefault     = &Error{Kind: ErrKindMissingDefault}
	ErrDuplicateDefault   = &Error{Kind: ErrKindDuplicateDefault}
	ErrDuplicateNamespace = &Error{Kind: ErrKindDuplicateNamespace}
	ErrDuplicateQualifier = &Error{Kind: ErrKindDuplicateQualifier}
	ErrInvalidNameShape   = &Error{Kind: ErrKindInvalidNameShape}
	ErrLayoutOverflow     = &Error{Kind: ErrKindLayoutOverflow}
)

func newError(kind ErrKind, cause error, msg string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...), Err: cause}
}

// truncated maps low-level bounds failures onto ErrKindTruncated.
func truncated(cause error, msg string, args ...any) *Error {
	switch {
	case cause == nil:
		cause = format.ErrTruncated
	case !errors.Is(cause, format.ErrTruncated) && !errors.Is(cause, format.ErrNegativeField):
		cause = fmt.Errorf("%w: %w", format.ErrTruncated, cause)
	}
	return newError(ErrKindTruncated, cause, msg, args...)
}
