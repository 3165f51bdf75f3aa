// Package messages renders bincodec errors as human-readable text.
//
// The core package only attaches a Code and named parameters to its errors;
// this package owns the prose. Templates reference parameters as $name.
package messages

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/oy3o/bincodec"
)

var catalog = map[bincodec.Code]string{
	bincodec.CodeSizeCompatibilityMismatch: "Encoder and decoder must either both be fixed-size or variable-size (encoder: $encoderSize, decoder: $decoderSize).",
	bincodec.CodeFixedSizeMismatch:         "Encoder and decoder must have the same fixed size, got [$encoderFixedSize] and [$decoderFixedSize].",
	bincodec.CodeMaxSizeMismatch:           "Encoder and decoder must have the same max size, got [$encoderMaxSize] and [$decoderMaxSize].",
	bincodec.CodeExpectedFixedLength:       "Codec [$codecDescription] expected a fixed-size item.",
	bincodec.CodeInvalidNumberFormat:       "Invalid number format [$codecDescription].",
	bincodec.CodeSizeOverflow:              "Size of [$codecDescription] does not fit in an int.",

	bincodec.CodeNumberOutOfRange:     "Codec [$codecDescription] expected number to be in the range [$min, $max], got $value.",
	bincodec.CodeInvalidNumberOfItems: "Expected [$codecDescription] to have $expected items, got $actual.",
	bincodec.CodeTypeMismatch:         "Codec [$codecDescription] expected a value of type $expected, got $actual.",

	bincodec.CodeInsufficientBytes: "Codec [$codecDescription] expected $expected bytes, got $bytesLength.",
	bincodec.CodeBufferTooSmall:    "Codec [$codecDescription] needs $expected bytes at offset $offset, only $bytesLength available.",
	bincodec.CodeOffsetOutOfRange:  "Offset [$offset] is out of range for a buffer of $bytesLength bytes in [$codecDescription].",
	bincodec.CodeInvalidByteLength: "Codec [$codecDescription] expected $expected bytes, got $bytesLength.",
	bincodec.CodeTrailingBytes:     "Codec [$codecDescription] consumed $expected of $bytesLength bytes.",

	bincodec.CodeInvalidOptionDiscriminant:   "Invalid option discriminant $discriminant in [$codecDescription], expected 0 or 1.",
	bincodec.CodeEnumDiscriminatorOutOfRange: "Enum discriminator out of range. Expected a number in [$formattedValidDiscriminators], got $discriminator.",
	bincodec.CodeInvalidBool:                 "Codec [$codecDescription] expected a boolean as 0 or 1, got $value.",
	bincodec.CodeMalformedShortU16:           "Malformed shortU16 encoding: $bytes.",

	bincodec.CodeInvalidUTF8:          "Invalid UTF-8 sequence: $bytes.",
	bincodec.CodeInvalidStringForBase: "Expected a string of base $base, got [$value].",
}

var placeholder = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Template returns the message template for code and whether it is known.
func Template(code bincodec.Code) (string, bool) {
	t, ok := catalog[code]
	return t, ok
}

// Render interpolates params into the template of code. Placeholders with no
// matching parameter are left as written. Unknown codes render as the code
// followed by the parameters.
func Render(code bincodec.Code, params map[string]any) string {
	tmpl, ok := catalog[code]
	if !ok {
		if len(params) == 0 {
			return string(code)
		}
		return fmt.Sprintf("%s %v", code, params)
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		v, ok := params[m[1:]]
		if !ok {
			return m
		}
		if b, ok := v.([]byte); ok {
			return fmt.Sprintf("%#x", b)
		}
		return fmt.Sprint(v)
	})
}

// Format renders err for humans. Codec errors are looked up in the catalog and
// prefixed with their field path; any other error is returned as err.Error().
func Format(err error) string {
	if err == nil {
		return ""
	}
	var e *bincodec.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := Render(e.Code, e.Params)
	if p := e.PathString(); p != "" {
		msg = p + ": " + msg
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return msg
}
