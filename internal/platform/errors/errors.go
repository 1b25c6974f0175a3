// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across the pipeline
// Values are stable for log/report compatibility; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for recovered panics
	ErrorCodePanic

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for option/config validation failures
	ErrorCodeValidation

	// ErrorCodeNotFound is for missing resources; the only per-row
	// recoverable code (a referenced blob file that does not exist)
	ErrorCodeNotFound

	// ErrorCodeTooManyMissing is for a chunk whose missing-blob ratio
	// exceeded the abort threshold
	ErrorCodeTooManyMissing

	// ErrorCodeUnsupportedEncoding is for encoding names outside the
	// resolver's fixed table
	ErrorCodeUnsupportedEncoding

	// ErrorCodeMalformedDecode is for lossy decodes; accept-or-reject,
	// never best-effort
	ErrorCodeMalformedDecode

	// ErrorCodeUnsupportedColumn is for columnar cell types the
	// materializer does not understand
	ErrorCodeUnsupportedColumn

	// ErrorCodeMalformed is for corrupt row metadata (missing blob_id or
	// src_encoding, non-string values where strings are required)
	ErrorCodeMalformed

	// ErrorCodeIO is for file read/write failures
	ErrorCodeIO
)

// String returns a stable lower_snake name for logs and reports
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodePanic:
		return "panic"
	case ErrorCodeInvalidArgument:
		return "invalid_argument"
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeNotFound:
		return "not_found"
	case ErrorCodeTooManyMissing:
		return "too_many_missing"
	case ErrorCodeUnsupportedEncoding:
		return "unsupported_encoding"
	case ErrorCodeMalformedDecode:
		return "malformed_decode"
	case ErrorCodeUnsupportedColumn:
		return "unsupported_column"
	case ErrorCodeMalformed:
		return "malformed"
	case ErrorCodeIO:
		return "io"
	default:
		return "unknown"
	}
}

// ErrNotFound is a sentinel not found error for convenience
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// UnsupportedEncodingf returns an unsupported encoding error
func UnsupportedEncodingf(format string, a ...any) error {
	return Newf(ErrorCodeUnsupportedEncoding, format, a...)
}

// MalformedDecodef returns a lossy decode error
func MalformedDecodef(format string, a ...any) error {
	return Newf(ErrorCodeMalformedDecode, format, a...)
}

// UnsupportedColumnf returns an unsupported column type error
func UnsupportedColumnf(format string, a ...any) error {
	return Newf(ErrorCodeUnsupportedColumn, format, a...)
}

// Malformedf returns a corrupt metadata error
func Malformedf(format string, a ...any) error { return Newf(ErrorCodeMalformed, format, a...) }

// IOf returns a file I/O error
func IOf(format string, a ...any) error { return Newf(ErrorCodeIO, format, a...) }

// PanicErrf returns a panic error
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
