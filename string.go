package bincodec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

// TextEncoding converts between Go strings and their byte representation.
type TextEncoding interface {
	Name() string
	encodedLen(s string) (int, error)
	put(dst []byte, s string) error
	text(b []byte) (string, error)
}

var (
	// UTF8 stores strings as their UTF-8 bytes.
	UTF8 TextEncoding = utf8Encoding{}
	// Base16 stores a hexadecimal string as the bytes it denotes.
	Base16 TextEncoding = base16
	// Base58 stores a base58 (Bitcoin alphabet) string as the bytes it denotes.
	Base58 TextEncoding = base58Alphabet
	// Base64 stores a standard, padded base64 string as the bytes it denotes.
	Base64 TextEncoding = base64Std
)

type utf8Encoding struct{}

func (utf8Encoding) Name() string                     { return "utf8" }
func (utf8Encoding) encodedLen(s string) (int, error) { return len(s), nil }

func (e utf8Encoding) put(dst []byte, s string) error {
	if !utf8.ValidString(s) {
		return invalidUTF8([]byte(s))
	}
	copy(dst, s)
	return nil
}

func (utf8Encoding) text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", invalidUTF8(b)
	}
	return string(b), nil
}

func invalidUTF8(b []byte) *Error {
	preview := b
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return newError(CodeInvalidUTF8, Params{"bytes": hex.EncodeToString(preview)})
}

// baseEncoding covers the encodings whose byte length is only known after
// decoding the text.
type baseEncoding uint8

const (
	base16 baseEncoding = iota
	base58Alphabet
	base64Std
)

func (e baseEncoding) Name() string {
	switch e {
	case base16:
		return "base16"
	case base58Alphabet:
		return "base58"
	default:
		return "base64"
	}
}

func (e baseEncoding) decode(s string) ([]byte, error) {
	switch e {
	case base16:
		return hex.DecodeString(s)
	case base58Alphabet:
		return base58.Decode(s)
	default:
		return base64.StdEncoding.DecodeString(s)
	}
}

func (e baseEncoding) bytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := e.decode(s)
	if err != nil {
		return nil, &Error{
			Code:   CodeInvalidStringForBase,
			Params: Params{"value": s, "base": e.Name()},
			Cause:  err,
		}
	}
	return b, nil
}

func (e baseEncoding) encodedLen(s string) (int, error) {
	b, err := e.bytes(s)
	return len(b), err
}

func (e baseEncoding) put(dst []byte, s string) error {
	b, err := e.bytes(s)
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (e baseEncoding) text(b []byte) (string, error) {
	switch e {
	case base16:
		return hex.EncodeToString(b), nil
	case base58Alphabet:
		return base58.Encode(b), nil
	default:
		return base64.StdEncoding.EncodeToString(b), nil
	}
}

func rawTextEncoder(enc TextEncoding) Encoder[string] {
	return NewEncoder("string("+enc.Name()+")", VariableSize(),
		func(s string) int {
			// Invalid text is reported by write.
			n, _ := enc.encodedLen(s)
			return n
		},
		func(s string, buf []byte, offset int) (int, error) {
			n, err := enc.encodedLen(s)
			if err != nil {
				return offset, err
			}
			if err := enc.put(buf[offset:offset+n], s); err != nil {
				return offset, err
			}
			return offset + n, nil
		})
}

func rawTextDecoder(enc TextEncoding) Decoder[string] {
	return NewDecoder("string("+enc.Name()+")", VariableSize(), func(buf []byte, offset int) (string, int, error) {
		s, err := enc.text(buf[offset:])
		if err != nil {
			return "", offset, err
		}
		return s, len(buf), nil
	})
}

// TextEncoder encodes strings with the given text encoding. The default layout
// is a u32 little-endian byte-length prefix followed by the bytes.
func TextEncoder(enc TextEncoding, opts ...SizeOption) Encoder[string] {
	return sizedEncoder(rawTextEncoder(enc), applySizeOptions(opts))
}

// TextDecoder decodes strings with the given text encoding. Fixed-size UTF-8
// strings have their zero padding trimmed.
func TextDecoder(enc TextEncoding, opts ...SizeOption) Decoder[string] {
	s := applySizeOptions(opts)
	dec := rawTextDecoder(enc)
	if s.mode == sizeFixed && enc == UTF8 {
		dec = MapDecoder(dec, func(v string) (string, error) {
			return strings.TrimRight(v, "\x00"), nil
		})
	}
	return sizedDecoder(dec, s)
}

func TextCodec(enc TextEncoding, opts ...SizeOption) Codec[string] {
	return MustCombine(TextEncoder(enc, opts...), TextDecoder(enc, opts...))
}

// StringEncoder is TextEncoder(UTF8, opts...).
func StringEncoder(opts ...SizeOption) Encoder[string] { return TextEncoder(UTF8, opts...) }

func StringDecoder(opts ...SizeOption) Decoder[string] { return TextDecoder(UTF8, opts...) }

// StringCodec is the length-prefixed UTF-8 string codec by default.
func StringCodec(opts ...SizeOption) Codec[string] { return TextCodec(UTF8, opts...) }
