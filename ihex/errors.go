package ihex

import (
	"errors"
	"fmt"
)

// Error categories returned by the decoder. Use errors.Is to test for them.
var (
	ErrConfiguration     = errors.New("invalid decoder configuration")
	ErrFormat            = errors.New("invalid record format")
	ErrBounds            = errors.New("address outside of memory")
	ErrMissingTerminator = errors.New("no end of file record found")
)

// FormatError describes a line that could not be parsed or a record that
// violates the structural rules of its type.
type FormatError struct {
	Line   int    // 1-based line number, 0 if unknown
	Text   string // the offending line
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%s: %s at line %d '%s'", ErrFormat, e.Reason, e.Line, e.Text)
}

// Unwrap returns ErrFormat.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// BoundsError describes a data byte that would be written outside of the
// allocated memory block.
type BoundsError struct {
	Line    int
	Address uint64 // absolute address of the byte
	Index   int64  // index into the cells, may be negative
	Size    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: writing to address 0x%X (index %d) outside of memory size %d at line %d",
		ErrBounds, e.Address, e.Index, e.Size, e.Line)
}

// Unwrap returns ErrBounds.
func (e *BoundsError) Unwrap() error {
	return ErrBounds
}

func formatError(reason string) *FormatError {
	return &FormatError{Reason: reason}
}
