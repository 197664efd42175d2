package record

import (
	"errors"
	"fmt"
)

// FormatError reports a field that holds data the codec refuses to guess
// about. It is fatal for the file being processed.
type FormatError struct {
	// Code identifies the error category.
	Code FormatErrorCode

	// Line is the 1-based input line number, 0 when unknown.
	Line int

	// Field names the column ("year", "ring[3]", ...).
	Field string

	// Value is the raw column content.
	Value string

	// Err is the underlying parse error, if any.
	Err error
}

// FormatErrorCode categorizes format errors.
type FormatErrorCode string

const (
	// ErrCodeBadYear indicates a non-numeric year/decade column.
	ErrCodeBadYear FormatErrorCode = "BAD_YEAR"

	// ErrCodeBadRingWidth indicates a non-numeric ring-width element.
	ErrCodeBadRingWidth FormatErrorCode = "BAD_RING_WIDTH"
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s %q is not an integer", e.Code, e.Line, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: %s %q is not an integer", e.Code, e.Field, e.Value)
}

// Unwrap returns the underlying parse error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError returns true if err is or wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsCode returns true if err is or wraps a *FormatError with the given code.
func IsCode(err error, code FormatErrorCode) bool {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}
