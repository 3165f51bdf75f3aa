package bincodec

import "fmt"

// SizeOption selects how the length of a bytes, string or array value is
// delimited on the wire.
type SizeOption func(*sizeSpec)

type sizeMode uint8

const (
	sizePrefixed sizeMode = iota
	sizeFixed
	sizeRemainder
)

type sizeSpec struct {
	mode   sizeMode
	n      int
	prefix Codec[int]
}

// WithSizePrefix delimits the value with a length prefix written by prefix.
// The default prefix is a little-endian u32.
func WithSizePrefix(prefix Codec[int]) SizeOption {
	return func(s *sizeSpec) {
		s.mode = sizePrefixed
		s.prefix = prefix
	}
}

// WithFixedSize gives the value a constant length of n (bytes for strings and
// byte slices, items for arrays) and no prefix.
func WithFixedSize(n int) SizeOption {
	return func(s *sizeSpec) {
		s.mode = sizeFixed
		s.n = n
	}
}

// WithRemainder makes the value consume every remaining byte on decode and
// write no prefix on encode. Only meaningful for the last value of a buffer.
func WithRemainder() SizeOption {
	return func(s *sizeSpec) {
		s.mode = sizeRemainder
	}
}

func applySizeOptions(opts []SizeOption) sizeSpec {
	s := sizeSpec{mode: sizePrefixed}
	for _, opt := range opts {
		opt(&s)
	}
	if s.mode == sizePrefixed && s.prefix.write == nil {
		s.prefix = U32Codec[int]()
	}
	if s.mode == sizeFixed && s.n < 0 {
		panic(newError(CodeInvalidByteLength, Params{"expected": s.n}))
	}
	return s
}

// AddEncoderSizePrefix writes the byte length of each value with prefix
// before the value itself.
func AddEncoderSizePrefix[T any](enc Encoder[T], prefix Encoder[int]) Encoder[T] {
	name := fmt.Sprintf("prefixed(%s, %s)", prefix.name, enc.name)
	size := sumSizes(name, prefix.size, enc.size)
	var sizeOf func(T) int
	if !size.IsFixed() {
		sizeOf = func(v T) int {
			n := enc.sizeOf(v)
			return prefix.sizeOf(n) + n
		}
	}
	return NewEncoder(name, size, sizeOf, func(v T, buf []byte, offset int) (int, error) {
		off, err := prefix.write(enc.sizeOf(v), buf, offset)
		if err != nil {
			return offset, err
		}
		return enc.write(v, buf, off)
	})
}

// AddDecoderSizePrefix reads a byte length with prefix and decodes the value
// from exactly that many bytes.
func AddDecoderSizePrefix[T any](dec Decoder[T], prefix Decoder[int]) Decoder[T] {
	name := fmt.Sprintf("prefixed(%s, %s)", prefix.name, dec.name)
	return NewDecoder(name, sumSizes(name, prefix.size, dec.size), func(buf []byte, offset int) (T, int, error) {
		var zero T
		n, off, err := prefix.read(buf, offset)
		if err != nil {
			return zero, offset, err
		}
		if n < 0 || n > len(buf)-off {
			return zero, offset, insufficientBytes(name, n, buf, off)
		}
		if fixed, ok := dec.size.Fixed(); ok && n != fixed {
			return zero, offset, newError(CodeInvalidByteLength, Params{
				"codecDescription": name,
				"expected":         fixed,
				"bytesLength":      n,
			})
		}
		v, end, err := dec.read(buf[:off+n], off)
		if err != nil {
			return zero, offset, err
		}
		// The prefixed length must be consumed exactly.
		if end != off+n {
			return zero, offset, newError(CodeInvalidByteLength, Params{
				"codecDescription": name,
				"expected":         n,
				"bytesLength":      end - off,
			})
		}
		return v, end, nil
	})
}

// AddCodecSizePrefix combines AddEncoderSizePrefix and AddDecoderSizePrefix.
func AddCodecSizePrefix[T any](c Codec[T], prefix Codec[int]) Codec[T] {
	return MustCombine(AddEncoderSizePrefix(c.Encoder, prefix.Encoder), AddDecoderSizePrefix(c.Decoder, prefix.Decoder))
}

func sizedEncoder[T any](base Encoder[T], s sizeSpec) Encoder[T] {
	switch s.mode {
	case sizeFixed:
		return FixEncoderSize(base, s.n)
	case sizeRemainder:
		return base
	default:
		return AddEncoderSizePrefix(base, s.prefix.Encoder)
	}
}

func sizedDecoder[T any](base Decoder[T], s sizeSpec) Decoder[T] {
	switch s.mode {
	case sizeFixed:
		return FixDecoderSize(base, s.n)
	case sizeRemainder:
		return base
	default:
		return AddDecoderSizePrefix(base, s.prefix.Decoder)
	}
}
