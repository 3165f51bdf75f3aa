package bincodec

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// BoolEncoder encodes booleans as a u8 holding 0 or 1.
func BoolEncoder() Encoder[bool] { return BoolEncoderOf(U8Encoder[int]()) }

// BoolEncoderOf encodes booleans as 0 or 1 with the given integer encoder.
func BoolEncoderOf(size Encoder[int]) Encoder[bool] {
	return MapEncoder(size, func(v bool) (int, error) {
		if v {
			return 1, nil
		}
		return 0, nil
	})
}

// BoolDecoder decodes a u8 boolean. Only 0 and 1 are accepted.
func BoolDecoder() Decoder[bool] { return BoolDecoderOf(U8Decoder[int]()) }

func BoolDecoderOf(size Decoder[int]) Decoder[bool] {
	return MapDecoder(size, func(n int) (bool, error) {
		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return false, newError(CodeInvalidBool, Params{"codecDescription": size.name, "value": n})
		}
	})
}

func BoolCodec() Codec[bool] { return MustCombine(BoolEncoder(), BoolDecoder()) }

func BoolCodecOf(size Codec[int]) Codec[bool] {
	return MustCombine(BoolEncoderOf(size.Encoder), BoolDecoderOf(size.Decoder))
}

// EnumEncoder encodes the variants [0, count) of a scalar enum as a u8 index.
func EnumEncoder[T constraints.Integer](count int) Encoder[T] {
	return EnumEncoderOf[T](count, U8Encoder[int]())
}

// EnumEncoderOf encodes enum variants with the given discriminator encoder.
func EnumEncoderOf[T constraints.Integer](count int, tag Encoder[int]) Encoder[T] {
	return MapEncoder(tag, func(v T) (int, error) {
		if v < 0 || uint64(v) >= uint64(count) {
			return 0, enumOutOfRange(count, v)
		}
		return int(v), nil
	})
}

func EnumDecoder[T constraints.Integer](count int) Decoder[T] {
	return EnumDecoderOf[T](count, U8Decoder[int]())
}

func EnumDecoderOf[T constraints.Integer](count int, tag Decoder[int]) Decoder[T] {
	return MapDecoder(tag, func(n int) (T, error) {
		if n < 0 || n >= count {
			return 0, enumOutOfRange(count, n)
		}
		return T(n), nil
	})
}

func EnumCodec[T constraints.Integer](count int) Codec[T] {
	return MustCombine(EnumEncoder[T](count), EnumDecoder[T](count))
}

func EnumCodecOf[T constraints.Integer](count int, tag Codec[int]) Codec[T] {
	return MustCombine(EnumEncoderOf[T](count, tag.Encoder), EnumDecoderOf[T](count, tag.Decoder))
}

func enumOutOfRange(count int, v any) *Error {
	return newError(CodeEnumDiscriminatorOutOfRange, Params{
		"discriminator":                v,
		"formattedValidDiscriminators": fmt.Sprintf("0-%d", count-1),
	})
}
