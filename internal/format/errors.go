package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrNegativeField indicates an offset, length or count field below zero.
	ErrNegativeField = errors.New("format: negative field")
)
