package bincodec

// Compact u16 ("shortU16"): 7 bits per byte, least significant group first,
// high bit set on every byte but the last. Values in [0, 65535] take 1 to 3
// bytes. Used for array lengths in compact transaction layouts.

var formatShortU16 = NumberFormat{Name: "shortU16", Width: 2, Kind: Unsigned, Max: 0xffff}

func shortU16Size(u uint64) int {
	switch {
	case u < 0x80:
		return 1
	case u < 0x4000:
		return 2
	default:
		return 3
	}
}

// ShortU16Encoder encodes values in [0, 65535] in 1 to 3 bytes.
func ShortU16Encoder[T Number]() Encoder[T] {
	f := formatShortU16
	return NewEncoder(f.Name, VariableSizeMax(3),
		func(v T) int {
			u, err := numberBits(f, v)
			if err != nil {
				// write reports the range error; any size will do here.
				return 1
			}
			return shortU16Size(u)
		},
		func(v T, buf []byte, offset int) (int, error) {
			u, err := numberBits(f, v)
			if err != nil {
				return offset, err
			}
			for {
				b := byte(u & 0x7f)
				u >>= 7
				if u == 0 {
					buf[offset] = b
					return offset + 1, nil
				}
				buf[offset] = b | 0x80
				offset++
			}
		})
}

// ShortU16Decoder decodes compact u16 values. Overlong encodings, a third
// byte above 0x03 and truncated input are rejected.
func ShortU16Decoder[T Number]() Decoder[T] {
	f := formatShortU16
	return NewDecoder(f.Name, VariableSizeMax(3), func(buf []byte, offset int) (T, int, error) {
		var zero T
		var u uint64
		for i := 0; i < 3; i++ {
			if offset+i >= len(buf) {
				return zero, offset, insufficientBytes(f.Name, i+1, buf, offset)
			}
			b := buf[offset+i]
			if i == 2 && b > 0x03 {
				return zero, offset, malformedShortU16(buf[offset : offset+i+1])
			}
			u |= uint64(b&0x7f) << (7 * i)
			if b&0x80 == 0 {
				if i > 0 && b == 0 {
					return zero, offset, malformedShortU16(buf[offset : offset+i+1])
				}
				v, err := fromUnsigned[T](f, u)
				if err != nil {
					return zero, offset, err
				}
				return v, offset + i + 1, nil
			}
		}
		// Unreachable: the third byte is at most 0x03 and has no continuation bit.
		return zero, offset, malformedShortU16(buf[offset : offset+3])
	})
}

func ShortU16Codec[T Number]() Codec[T] {
	return MustCombine(ShortU16Encoder[T](), ShortU16Decoder[T]())
}

func malformedShortU16(b []byte) *Error {
	return newError(CodeMalformedShortU16, Params{
		"codecDescription": formatShortU16.Name,
		"bytes":            append([]byte(nil), b...),
	})
}
