package bincodec

import (
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of Go types a numeric codec can encode from and decode to.
// The Go type is independent of the wire format: a u8 codec over int accepts
// any int in [0, 255], and a u32 codec over float64 accepts integral floats.
type Number interface {
	constraints.Integer | constraints.Float
}

// NumberKind selects how the wire bits of a NumberFormat are interpreted.
type NumberKind uint8

const (
	Unsigned NumberKind = iota
	Signed
	Float
)

// NumberFormat describes a fixed-width numeric wire format. Min and Max bound
// the accepted values inclusively; Min is held as int64 and Max as uint64 so
// that one representation covers every width up to 64 bits. Float formats
// ignore the range.
type NumberFormat struct {
	Name  string
	Width int
	Kind  NumberKind
	Min   int64
	Max   uint64
}

var (
	formatU8  = NumberFormat{Name: "u8", Width: 1, Kind: Unsigned, Max: math.MaxUint8}
	formatI8  = NumberFormat{Name: "i8", Width: 1, Kind: Signed, Min: math.MinInt8, Max: math.MaxInt8}
	formatU16 = NumberFormat{Name: "u16", Width: 2, Kind: Unsigned, Max: math.MaxUint16}
	formatI16 = NumberFormat{Name: "i16", Width: 2, Kind: Signed, Min: math.MinInt16, Max: math.MaxInt16}
	formatU32 = NumberFormat{Name: "u32", Width: 4, Kind: Unsigned, Max: math.MaxUint32}
	formatI32 = NumberFormat{Name: "i32", Width: 4, Kind: Signed, Min: math.MinInt32, Max: math.MaxInt32}
	formatU64 = NumberFormat{Name: "u64", Width: 8, Kind: Unsigned, Max: math.MaxUint64}
	formatI64 = NumberFormat{Name: "i64", Width: 8, Kind: Signed, Min: math.MinInt64, Max: math.MaxInt64}
	formatF32 = NumberFormat{Name: "f32", Width: 4, Kind: Float}
	formatF64 = NumberFormat{Name: "f64", Width: 8, Kind: Float}
)

// NumberOption configures a numeric codec.
type NumberOption func(*numberOptions)

type numberOptions struct {
	order binary.ByteOrder
}

// WithEndian selects the byte order of multi-byte numbers. The default is
// little-endian.
func WithEndian(order binary.ByteOrder) NumberOption {
	return func(o *numberOptions) {
		if order != nil {
			o.order = order
		}
	}
}

func applyNumberOptions(opts []NumberOption) numberOptions {
	o := numberOptions{order: LE}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (f NumberFormat) validate() {
	switch f.Width {
	case 1, 2, 4, 8:
	default:
		panic(newError(CodeInvalidNumberFormat, Params{"codecDescription": f.Name, "width": f.Width}))
	}
	if f.Kind == Float && f.Width != 4 && f.Width != 8 {
		panic(newError(CodeInvalidNumberFormat, Params{"codecDescription": f.Name, "width": f.Width}))
	}
	if f.Kind != Float && f.Min > 0 && uint64(f.Min) > f.Max {
		panic(newError(CodeInvalidNumberFormat, Params{"codecDescription": f.Name, "min": f.Min, "max": f.Max}))
	}
}

func (f NumberFormat) rangeError(v any) *Error {
	return newError(CodeNumberOutOfRange, Params{
		"codecDescription": f.Name,
		"min":              f.Min,
		"max":              f.Max,
		"value":            v,
	})
}

// NumberEncoder returns an encoder writing T values in format f. Values outside
// [f.Min, f.Max], and non-integral values for integer formats, fail with
// ErrNumberOutOfRange.
func NumberEncoder[T Number](f NumberFormat, opts ...NumberOption) Encoder[T] {
	f.validate()
	o := applyNumberOptions(opts)
	return NewEncoder(f.Name, FixedSize(f.Width), nil, func(v T, buf []byte, offset int) (int, error) {
		bits, err := numberBits(f, v)
		if err != nil {
			return offset, err
		}
		putBits(o.order, buf[offset:], f.Width, bits)
		return offset + f.Width, nil
	})
}

// NumberDecoder returns a decoder reading T values in format f. A decoded
// value that does not fit T fails with ErrNumberOutOfRange.
func NumberDecoder[T Number](f NumberFormat, opts ...NumberOption) Decoder[T] {
	f.validate()
	o := applyNumberOptions(opts)
	return NewDecoder(f.Name, FixedSize(f.Width), func(buf []byte, offset int) (T, int, error) {
		v, err := numberFromBits[T](f, getBits(o.order, buf[offset:], f.Width))
		if err != nil {
			return v, offset, err
		}
		return v, offset + f.Width, nil
	})
}

// NumberCodec combines NumberEncoder and NumberDecoder.
func NumberCodec[T Number](f NumberFormat, opts ...NumberOption) Codec[T] {
	return MustCombine(NumberEncoder[T](f, opts...), NumberDecoder[T](f, opts...))
}

func isFloatType[T Number]() bool {
	half := 0.5
	return T(half) != 0
}

func isSignedType[T Number]() bool {
	var zero T
	return zero-1 < 0
}

// numberBits range-checks v against f and returns its two's complement (or
// IEEE-754) bit pattern.
func numberBits[T Number](f NumberFormat, v T) (uint64, error) {
	if f.Kind == Float {
		x := float64(v)
		if f.Width == 4 {
			x32 := float32(x)
			if math.IsInf(float64(x32), 0) && !math.IsInf(x, 0) {
				return 0, f.rangeError(v)
			}
			x = float64(x32)
		}
		// Integers must survive the trip through the float format unrounded.
		if !isFloatType[T]() && !integerExact(v, x) {
			return 0, f.rangeError(v)
		}
		if f.Width == 4 {
			return uint64(math.Float32bits(float32(x))), nil
		}
		return math.Float64bits(x), nil
	}

	if isFloatType[T]() {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, f.rangeError(v)
		}
		// float64(f.Max)+1 is the exclusive upper bound; it rounds correctly
		// for 2^63-1 and 2^64-1 as well.
		if x < float64(f.Min) || x >= float64(f.Max)+1 {
			return 0, f.rangeError(v)
		}
		if x < 0 {
			return uint64(int64(x)), nil
		}
		u := uint64(x)
		if f.Min > 0 && u < uint64(f.Min) {
			return 0, f.rangeError(v)
		}
		return u, nil
	}

	if isSignedType[T]() && v < 0 {
		n := int64(v)
		if n < f.Min {
			return 0, f.rangeError(v)
		}
		return uint64(n), nil
	}
	u := uint64(v)
	if u > f.Max || (f.Min > 0 && u < uint64(f.Min)) {
		return 0, f.rangeError(v)
	}
	return u, nil
}

// integerExact reports whether the float x is exactly the integer v.
func integerExact[T Number](v T, x float64) bool {
	if isSignedType[T]() {
		return x >= -0x1p63 && x < 0x1p63 && int64(x) == int64(v)
	}
	return x >= 0 && x < 0x1p64 && uint64(x) == uint64(v)
}

func numberFromBits[T Number](f NumberFormat, bits uint64) (T, error) {
	switch f.Kind {
	case Float:
		var x float64
		if f.Width == 4 {
			x = float64(math.Float32frombits(uint32(bits)))
		} else {
			x = math.Float64frombits(bits)
		}
		if !isFloatType[T]() {
			return fitInteger[T](f, x)
		}
		return T(x), nil
	case Signed:
		shift := uint(64 - 8*f.Width)
		return fromSigned[T](f, int64(bits<<shift)>>shift)
	default:
		return fromUnsigned[T](f, bits)
	}
}

func fromSigned[T Number](f NumberFormat, n int64) (T, error) {
	var zero T
	if n < f.Min || (n >= 0 && uint64(n) > f.Max) {
		return zero, f.rangeError(n)
	}
	t := T(n)
	if !isFloatType[T]() && (int64(t) != n || (n < 0) != (t < 0)) {
		return zero, f.rangeError(n)
	}
	return t, nil
}

func fromUnsigned[T Number](f NumberFormat, u uint64) (T, error) {
	var zero T
	if u > f.Max || (f.Min > 0 && u < uint64(f.Min)) {
		return zero, f.rangeError(u)
	}
	t := T(u)
	if !isFloatType[T]() && (uint64(t) != u || t < 0) {
		return zero, f.rangeError(u)
	}
	return t, nil
}

// fitInteger converts a decoded float to an integer Go type.
func fitInteger[T Number](f NumberFormat, x float64) (T, error) {
	var zero T
	if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
		return zero, f.rangeError(x)
	}
	t := T(x)
	if float64(t) != x {
		return zero, f.rangeError(x)
	}
	return t, nil
}

func putBits(order binary.ByteOrder, b []byte, width int, bits uint64) {
	switch width {
	case 1:
		b[0] = byte(bits)
	case 2:
		order.PutUint16(b, uint16(bits))
	case 4:
		order.PutUint32(b, uint32(bits))
	case 8:
		order.PutUint64(b, bits)
	}
}

func getBits(order binary.ByteOrder, b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}
