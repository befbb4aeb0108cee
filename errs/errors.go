// Package errs defines the sentinel errors returned by cla packages.
//
// Errors are wrapped with context using fmt.Errorf and the %w verb, so callers
// should compare with errors.Is:
//
//	if errors.Is(err, errs.ErrInvalidArgument) {
//	    // malformed call, choose another scheme or escalate
//	}
//
// The refinements (ErrDuplicateColumn, ErrArityMismatch, ...) all match
// ErrInvalidArgument as well.
package errs

import "errors"

var (
	// ErrInvalidArgument is the root of the invalid-argument class.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilInput reports a missing required input.
	ErrNilInput = errors.New("nil input")
)

// Invalid-argument refinements.
var (
	ErrDuplicateColumn  = invalid("duplicate column index")
	ErrUnsortedColumns  = invalid("column indexes not strictly increasing")
	ErrNegativeColumn   = invalid("negative column index")
	ErrArityMismatch    = invalid("arity mismatch")
	ErrColumnOutOfRange = invalid("column index out of range")
	ErrShapeMismatch    = invalid("shape mismatch")
	ErrOverlappingGroup = invalid("overlapping column groups")
)

// Serialized form errors.
var (
	ErrInvalidHeader    = errors.New("invalid header")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrUnsupportedGroup = errors.New("unsupported column group type")
	ErrTruncatedData    = errors.New("truncated data")
)

type refinedError struct {
	msg string
}

func invalid(msg string) error {
	return &refinedError{msg: msg}
}

func (e *refinedError) Error() string {
	return e.msg
}

func (e *refinedError) Unwrap() error {
	return ErrInvalidArgument
}
