package bincodec

import (
	"fmt"
	"math"
)

// Arrays of homogeneous items. The default layout is a u32 little-endian item
// count followed by the concatenated items. WithFixedSize(n) gives a fixed
// count of n items with no prefix and requires a fixed-size item codec;
// WithRemainder decodes items until the input is exhausted.

func arraySize(name string, item Size, s sizeSpec) Size {
	if s.mode == sizeFixed {
		n, ok := item.Fixed()
		if !ok {
			panic(newError(CodeExpectedFixedLength, Params{"codecDescription": name, "itemSize": item.String()}))
		}
		return FixedSize(mulLengths(name, s.n, n))
	}
	return VariableSize()
}

func arrayName(item string, s sizeSpec) string {
	switch s.mode {
	case sizeFixed:
		return fmt.Sprintf("array(%s; %d)", item, s.n)
	case sizeRemainder:
		return fmt.Sprintf("array(%s; remainder)", item)
	default:
		return fmt.Sprintf("array(%s; %s)", item, s.prefix.Name())
	}
}

// ArrayEncoder encodes slices of T with the given item encoder.
func ArrayEncoder[T any](item Encoder[T], opts ...SizeOption) Encoder[[]T] {
	s := applySizeOptions(opts)
	name := arrayName(item.name, s)
	size := arraySize(name, item.size, s)

	var sizeOf func([]T) int
	if !size.IsFixed() {
		sizeOf = func(v []T) int {
			total := 0
			if s.mode == sizePrefixed {
				total = s.prefix.sizeOf(len(v))
			}
			if n, ok := item.size.Fixed(); ok {
				return total + n*len(v)
			}
			for _, e := range v {
				total += item.sizeOf(e)
			}
			return total
		}
	}

	return NewEncoder(name, size, sizeOf, func(v []T, buf []byte, offset int) (int, error) {
		if s.mode == sizeFixed && len(v) != s.n {
			return offset, newError(CodeInvalidNumberOfItems, Params{
				"codecDescription": name,
				"expected":         s.n,
				"actual":           len(v),
			})
		}
		off := offset
		var err error
		if s.mode == sizePrefixed {
			if off, err = s.prefix.write(len(v), buf, off); err != nil {
				return offset, err
			}
		}
		for i, e := range v {
			if off, err = item.write(e, buf, off); err != nil {
				return offset, withPath(err, indexSegment(i))
			}
		}
		return off, nil
	})
}

// ArrayDecoder decodes slices of T with the given item decoder.
func ArrayDecoder[T any](item Decoder[T], opts ...SizeOption) Decoder[[]T] {
	s := applySizeOptions(opts)
	name := arrayName(item.name, s)
	size := arraySize(name, item.size, s)
	itemFixed, isFixed := item.size.Fixed()

	return NewDecoder(name, size, func(buf []byte, offset int) ([]T, int, error) {
		off := offset
		count := -1
		switch s.mode {
		case sizeFixed:
			count = s.n
		case sizePrefixed:
			n, next, err := s.prefix.read(buf, off)
			if err != nil {
				return nil, offset, err
			}
			if n < 0 {
				return nil, offset, newError(CodeInvalidNumberOfItems, Params{"codecDescription": name, "actual": n})
			}
			count, off = n, next
		case sizeRemainder:
			if isFixed && itemFixed > 0 {
				rest := len(buf) - off
				if rest%itemFixed != 0 {
					return nil, offset, newError(CodeInvalidByteLength, Params{
						"codecDescription": name,
						"expected":         rest - rest%itemFixed + itemFixed,
						"bytesLength":      rest,
					})
				}
				count = rest / itemFixed
			}
		}

		if count >= 0 && isFixed && itemFixed > 0 && count > (len(buf)-off)/itemFixed {
			expected := math.MaxInt
			if count <= math.MaxInt/itemFixed {
				expected = count * itemFixed
			}
			return nil, offset, insufficientBytes(name, expected, buf, off)
		}

		// Never trust a decoded count for the allocation size.
		capHint := count
		if capHint < 0 || capHint > len(buf)-off {
			capHint = len(buf) - off
		}
		out := make([]T, 0, capHint)

		for i := 0; count < 0 || i < count; i++ {
			if count < 0 && off >= len(buf) {
				break
			}
			v, next, err := item.read(buf, off)
			if err != nil {
				return nil, offset, withPath(err, indexSegment(i))
			}
			if count < 0 && next == off {
				// A zero-width item would never exhaust the remainder.
				return nil, offset, newError(CodeExpectedFixedLength, Params{"codecDescription": name})
			}
			out = append(out, v)
			off = next
		}
		return out, off, nil
	})
}

func ArrayCodec[T any](item Codec[T], opts ...SizeOption) Codec[[]T] {
	return MustCombine(ArrayEncoder(item.Encoder, opts...), ArrayDecoder(item.Decoder, opts...))
}

// FixedArrayCodec is ArrayCodec(item, WithFixedSize(n)). It panics with
// ErrExpectedFixedLength when item is not fixed-size.
func FixedArrayCodec[T any](item Codec[T], n int) Codec[[]T] {
	return ArrayCodec(item, WithFixedSize(n))
}

func FixedArrayEncoder[T any](item Encoder[T], n int) Encoder[[]T] {
	return ArrayEncoder(item, WithFixedSize(n))
}

func FixedArrayDecoder[T any](item Decoder[T], n int) Decoder[[]T] {
	return ArrayDecoder(item, WithFixedSize(n))
}
