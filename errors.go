package immuskema

import "github.com/reoring/immuskema/compiler"

// Error codes carried by *Error.
const (
	CodeMalformedSchema         = compiler.CodeMalformedSchema
	CodeCyclicReference         = compiler.CodeCyclicReference
	CodeInvalidSupertype        = compiler.CodeInvalidSupertype
	CodeUnsupportedExtension    = compiler.CodeUnsupportedExtension
	CodeDefaultValueRange       = compiler.CodeDefaultValueRange
	CodeNameAllocationExhausted = compiler.CodeNameAllocationExhausted
)

// Sentinels matched by errors.Is.
var (
	ErrMalformedSchema         = compiler.ErrMalformedSchema
	ErrCyclicReference         = compiler.ErrCyclicReference
	ErrInvalidSupertype        = compiler.ErrInvalidSupertype
	ErrUnsupportedExtension    = compiler.ErrUnsupportedExtension
	ErrDefaultValueRange       = compiler.ErrDefaultValueRange
	ErrNameAllocationExhausted = compiler.ErrNameAllocationExhausted
)

// Error is a terminal compilation failure.
type Error = compiler.Error

// AsError extracts an *Error using errors.As internally.
func AsError(err error) (*Error, bool) { return compiler.AsError(err) }

// CodeOf returns the code of a compilation error, or "" for other errors.
func CodeOf(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
