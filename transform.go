package bincodec

import "fmt"

// MapEncoder adapts an Encoder[U] to accept T values. fn runs on every
// SizeOf and Write call, so it should be cheap and pure.
func MapEncoder[T, U any](enc Encoder[U], fn func(T) (U, error)) Encoder[T] {
	var sizeOf func(T) int
	if !enc.size.IsFixed() {
		sizeOf = func(v T) int {
			u, err := fn(v)
			if err != nil {
				return 0
			}
			return enc.sizeOf(u)
		}
	}
	return NewEncoder(enc.name, enc.size, sizeOf, func(v T, buf []byte, offset int) (int, error) {
		u, err := fn(v)
		if err != nil {
			return offset, err
		}
		return enc.write(u, buf, offset)
	})
}

// MapDecoder adapts a Decoder[U] to produce T values.
func MapDecoder[U, T any](dec Decoder[U], fn func(U) (T, error)) Decoder[T] {
	return NewDecoder(dec.name, dec.size, func(buf []byte, offset int) (T, int, error) {
		var zero T
		u, end, err := dec.read(buf, offset)
		if err != nil {
			return zero, offset, err
		}
		v, err := fn(u)
		if err != nil {
			return zero, offset, err
		}
		return v, end, nil
	})
}

// MapCodec adapts a Codec[U] to a Codec[T] with a pair of conversions.
func MapCodec[T, U any](c Codec[U], to func(T) (U, error), from func(U) (T, error)) Codec[T] {
	return MustCombine(MapEncoder(c.Encoder, to), MapDecoder(c.Decoder, from))
}

// Erase turns a Codec[T] into a Codec[any] for dynamically typed layouts.
// Encoding a value that is not a T fails with ErrTypeMismatch.
func Erase[T any](c Codec[T]) Codec[any] {
	return MapCodec(c,
		func(v any) (T, error) {
			t, ok := v.(T)
			if !ok {
				var zero T
				return zero, newError(CodeTypeMismatch, Params{
					"codecDescription": c.Name(),
					"expected":         fmt.Sprintf("%T", zero),
					"actual":           fmt.Sprintf("%T", v),
				})
			}
			return t, nil
		},
		func(t T) (any, error) { return t, nil },
	)
}

// FixEncoderSize makes enc occupy exactly n bytes. Shorter encodings are
// right-padded with zeros; longer ones fail with ErrInvalidByteLength rather
// than being truncated.
func FixEncoderSize[T any](enc Encoder[T], n int) Encoder[T] {
	name := fmt.Sprintf("fixed(%d, %s)", n, enc.name)
	return NewEncoder(name, FixedSize(n), nil, func(v T, buf []byte, offset int) (int, error) {
		size := enc.sizeOf(v)
		if size > n {
			return offset, newError(CodeInvalidByteLength, Params{
				"codecDescription": name,
				"expected":         n,
				"bytesLength":      size,
			})
		}
		end, err := enc.write(v, buf[:offset+n], offset)
		if err != nil {
			return offset, err
		}
		clear(buf[end : offset+n])
		return offset + n, nil
	})
}

// FixDecoderSize makes dec consume exactly n bytes. The inner decoder only
// sees those n bytes.
func FixDecoderSize[T any](dec Decoder[T], n int) Decoder[T] {
	name := fmt.Sprintf("fixed(%d, %s)", n, dec.name)
	return NewDecoder(name, FixedSize(n), func(buf []byte, offset int) (T, int, error) {
		v, _, err := dec.read(buf[:offset+n], offset)
		if err != nil {
			var zero T
			return zero, offset, err
		}
		return v, offset + n, nil
	})
}

// FixCodecSize combines FixEncoderSize and FixDecoderSize.
func FixCodecSize[T any](c Codec[T], n int) Codec[T] {
	return MustCombine(FixEncoderSize(c.Encoder, n), FixDecoderSize(c.Decoder, n))
}
