package bincodec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code identifies a class of codec failure. Codes are stable; the messages
// package maps them, together with the error's Params, to readable text.
type Code string

const (
	// Construction-time failures.
	CodeSizeCompatibilityMismatch Code = "size_compatibility_mismatch"
	CodeFixedSizeMismatch         Code = "fixed_size_mismatch"
	CodeMaxSizeMismatch           Code = "max_size_mismatch"
	CodeExpectedFixedLength       Code = "expected_fixed_length"
	CodeInvalidNumberFormat       Code = "invalid_number_format"
	CodeSizeOverflow              Code = "size_overflow"

	// Value domain failures.
	CodeNumberOutOfRange     Code = "number_out_of_range"
	CodeInvalidNumberOfItems Code = "invalid_number_of_items"
	CodeTypeMismatch         Code = "type_mismatch"

	// Buffer bounds failures.
	CodeInsufficientBytes Code = "insufficient_bytes"
	CodeBufferTooSmall    Code = "buffer_too_small"
	CodeOffsetOutOfRange  Code = "offset_out_of_range"
	CodeInvalidByteLength Code = "invalid_byte_length"
	CodeTrailingBytes     Code = "trailing_bytes"

	// Discriminant failures.
	CodeInvalidOptionDiscriminant   Code = "invalid_option_discriminant"
	CodeEnumDiscriminatorOutOfRange Code = "enum_discriminator_out_of_range"
	CodeInvalidBool                 Code = "invalid_bool"
	CodeMalformedShortU16           Code = "malformed_short_u16"

	// Text failures.
	CodeInvalidUTF8          Code = "invalid_utf8"
	CodeInvalidStringForBase Code = "invalid_string_for_base"
)

// Error is the structured failure raised by every codec in this package.
// It carries a stable Code, the named parameters describing the failure and,
// for failures inside composite codecs, the path of the failing field.
type Error struct {
	Code   Code
	Params map[string]any
	Path   []string
	Cause  error
}

// Sentinels for errors.Is. Matching is by Code only.
var (
	ErrSizeCompatibilityMismatch   = &Error{Code: CodeSizeCompatibilityMismatch}
	ErrFixedSizeMismatch           = &Error{Code: CodeFixedSizeMismatch}
	ErrMaxSizeMismatch             = &Error{Code: CodeMaxSizeMismatch}
	ErrExpectedFixedLength         = &Error{Code: CodeExpectedFixedLength}
	ErrInvalidNumberFormat         = &Error{Code: CodeInvalidNumberFormat}
	ErrSizeOverflow                = &Error{Code: CodeSizeOverflow}
	ErrNumberOutOfRange            = &Error{Code: CodeNumberOutOfRange}
	ErrInvalidNumberOfItems        = &Error{Code: CodeInvalidNumberOfItems}
	ErrTypeMismatch                = &Error{Code: CodeTypeMismatch}
	ErrInsufficientBytes           = &Error{Code: CodeInsufficientBytes}
	ErrBufferTooSmall              = &Error{Code: CodeBufferTooSmall}
	ErrOffsetOutOfRange            = &Error{Code: CodeOffsetOutOfRange}
	ErrInvalidByteLength           = &Error{Code: CodeInvalidByteLength}
	ErrTrailingBytes               = &Error{Code: CodeTrailingBytes}
	ErrInvalidOptionDiscriminant   = &Error{Code: CodeInvalidOptionDiscriminant}
	ErrEnumDiscriminatorOutOfRange = &Error{Code: CodeEnumDiscriminatorOutOfRange}
	ErrInvalidBool                 = &Error{Code: CodeInvalidBool}
	ErrMalformedShortU16           = &Error{Code: CodeMalformedShortU16}
	ErrInvalidUTF8                 = &Error{Code: CodeInvalidUTF8}
	ErrInvalidStringForBase        = &Error{Code: CodeInvalidStringForBase}
)

var (
	// ErrNilIO indicates that EncodeTo/DecodeFrom was called with a nil io.Writer/io.Reader.
	ErrNilIO = errors.New("bincodec: EncodeTo/DecodeFrom called with a nil io.Writer/io.Reader")

	// ErrTruncatedData indicates that a stream ended before a fixed-size value was complete.
	ErrTruncatedData = errors.New("bincodec: truncated data")
)

// Params is the named parameter record attached to an Error.
type Params = map[string]any

func newError(code Code, params Params) *Error {
	return &Error{Code: code, Params: params}
}

// Error implements the error interface. The text is diagnostic only; use the
// messages package for human-readable rendering.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("bincodec: ")
	b.WriteString(string(e.Code))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(e.PathString())
	}

	if len(e.Params) > 0 {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Params[k])
		}
		b.WriteByte(')')
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// PathString joins the field path, e.g. "header.accounts[2].owner".
func (e *Error) PathString() string {
	var b strings.Builder
	for i, seg := range e.Path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Param returns the named parameter, or nil.
func (e *Error) Param(name string) any {
	return e.Params[name]
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// withPath prefixes a path segment to a codec error. The error is copied so
// that the child's value is never mutated. Foreign errors pass through.
func withPath(err error, segment string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = make([]string, 0, len(e.Path)+1)
	cp.Path = append(cp.Path, segment)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

func indexSegment(i int) string {
	return fmt.Sprintf("[%d]", i)
}

func insufficientBytes(name string, expected int, buf []byte, offset int) *Error {
	return newError(CodeInsufficientBytes, Params{
		"codecDescription": name,
		"expected":         expected,
		"bytesLength":      len(buf) - offset,
		"offset":           offset,
	})
}
