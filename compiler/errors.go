package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/immuskema/schema"
)

// Error codes (exported consts so callers can switch on them).
const (
	CodeMalformedSchema         = "malformed_schema"
	CodeCyclicReference         = "cyclic_reference"
	CodeInvalidSupertype        = "invalid_supertype"
	CodeUnsupportedExtension    = "unsupported_extension"
	CodeDefaultValueRange       = "default_value_range"
	CodeNameAllocationExhausted = "name_allocation_exhausted"
)

// Sentinels for errors.Is; every *Error matches the sentinel of its Code.
var (
	ErrMalformedSchema         = errors.New(CodeMalformedSchema)
	ErrCyclicReference         = errors.New(CodeCyclicReference)
	ErrInvalidSupertype        = errors.New(CodeInvalidSupertype)
	ErrUnsupportedExtension    = errors.New(CodeUnsupportedExtension)
	ErrDefaultValueRange       = errors.New(CodeDefaultValueRange)
	ErrNameAllocationExhausted = errors.New(CodeNameAllocationExhausted)
)

var sentinels = map[string]error{
	CodeMalformedSchema:         ErrMalformedSchema,
	CodeCyclicReference:         ErrCyclicReference,
	CodeInvalidSupertype:        ErrInvalidSupertype,
	CodeUnsupportedExtension:    ErrUnsupportedExtension,
	CodeDefaultValueRange:       ErrDefaultValueRange,
	CodeNameAllocationExhausted: ErrNameAllocationExhausted,
}

// Error is a terminal compilation failure of one document.
type Error struct {
	Code string
	// Document and Pointer locate the offending schema node.
	Document string
	Pointer  string
	Message  string
	Cause    error
}

// Location renders uri#pointer.
func (e *Error) Location() string { return e.Document + "#" + e.Pointer }

func (e *Error) Error() string {
	b := &strings.Builder{}
	// e.g. invalid_supertype at a.json#/properties/x: cannot extend ...
	fmt.Fprintf(b, "%s at %s: %s", e.Code, e.Location(), e.Message)
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// AsError extracts an *Error using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func newError(code string, at *schema.Node, cause error, format string, args ...any) *Error {
	e := &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
	if at != nil {
		e.Pointer = at.Pointer()
		if d := at.Document(); d != nil {
			e.Document = d.URI
		}
	}
	return e
}
