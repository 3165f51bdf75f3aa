package bincodec

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestI8(t *testing.T) {
	c := I8Codec[int]()

	b, err := c.Encode(-1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, b)

	b, err = c.Encode(-128)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, b)

	_, err = c.Encode(128)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = c.Encode(-129)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	v, err := c.Decode([]byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, -128, v)

	v, err = c.Decode([]byte{0x7f, 0xaa})
	require.NoError(t, err)
	assert.Equal(t, 127, v, "trailing bytes are ignored by Decode")
}

func TestNumberBoundaries(t *testing.T) {
	t.Run("U8", func(t *testing.T) {
		c := U8Codec[int]()
		b, err := c.Encode(255)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff}, b)

		_, err = c.Encode(256)
		assert.ErrorIs(t, err, ErrNumberOutOfRange)
		_, err = c.Encode(-1)
		assert.ErrorIs(t, err, ErrNumberOutOfRange)
	})

	t.Run("U64Max", func(t *testing.T) {
		c := U64Codec[uint64]()
		b, err := c.Encode(math.MaxUint64)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b)

		v, err := c.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), v)
	})

	t.Run("I64FromFloat", func(t *testing.T) {
		c := I64Codec[float64]()
		_, err := c.Encode(math.Pow(2, 63))
		assert.ErrorIs(t, err, ErrNumberOutOfRange)

		b, err := c.Encode(-math.Pow(2, 63))
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0x80}, b)
	})

	t.Run("RangeErrorParams", func(t *testing.T) {
		_, err := U16Codec[int]().Encode(70000)
		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, CodeNumberOutOfRange, e.Code)
		assert.Equal(t, "u16", e.Param("codecDescription"))
		assert.Equal(t, int64(0), e.Param("min"))
		assert.Equal(t, uint64(math.MaxUint16), e.Param("max"))
		assert.Equal(t, 70000, e.Param("value"))
	})
}

func TestNumberEndian(t *testing.T) {
	le, err := U16Codec[uint16]().Encode(0x0102)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01}, le)

	be, err := U16Codec[uint16](WithEndian(BE)).Encode(0x0102)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, be)

	v, err := U32Codec[uint32](WithEndian(BE)).Decode([]byte{0, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, uint32(256), v)
}

func TestNumberIntegrality(t *testing.T) {
	c := U32Codec[float64]()

	_, err := c.Encode(3.5)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = c.Encode(math.NaN())
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = c.Encode(math.Inf(1))
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	b, err := c.Encode(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0, 0, 0}, b)
}

func TestNumberNarrowDecode(t *testing.T) {
	_, err := I16Decoder[int8]().Decode([]byte{0x00, 0x01})
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	_, err = U8Decoder[int8]().Decode([]byte{200})
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	_, err = I8Decoder[uint]().Decode([]byte{0xff})
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	_, err = F64Decoder[int]().Decode([]byte{0, 0, 0, 0, 0, 0, 0xf8, 0x3f}) // 1.5
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	v, err := F64Decoder[int]().Decode([]byte{0, 0, 0, 0, 0, 0, 0x00, 0x40}) // 2.0
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestNumberFloat(t *testing.T) {
	b, err := F32Codec[float32]().Encode(1.5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f}, b)

	v, err := F32Codec[float64]().Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestNumberFloatPrecision(t *testing.T) {
	_, err := F64Codec[int64]().Encode(1<<53 + 1)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = F32Codec[int]().Encode(1<<24 + 1)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = F64Codec[uint64]().Encode(math.MaxUint64)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = F32Codec[float64]().Encode(1e300)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	v, err := F64Codec[int64]().Decode(mustEncode(t, F64Codec[int64](), 1<<53))
	require.NoError(t, err)
	assert.Equal(t, int64(1<<53), v)

	w, err := F32Codec[int]().Decode(mustEncode(t, F32Codec[int](), -(1 << 24)))
	require.NoError(t, err)
	assert.Equal(t, -(1 << 24), w)

	// Infinities are values of the format, not overflows.
	b, err := F32Codec[float64]().Encode(math.Inf(-1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0x80, 0xff}, b)
}

func mustEncode[T any](t *testing.T, c Codec[T], v T) []byte {
	t.Helper()
	b, err := c.Encode(v)
	require.NoError(t, err)
	return b
}

func encodeErr[T Number](c Codec[T], v T) func() error {
	return func() error {
		_, err := c.Encode(v)
		return err
	}
}

func TestNumberFamilies(t *testing.T) {
	cases := []struct {
		name     string
		width    int
		codec    Codec[any]
		min, max any
		outside  []func() error
	}{
		{"u8", 1, Erase(U8Codec[int64]()), int64(0), int64(math.MaxUint8),
			[]func() error{encodeErr(U8Codec[int64](), -1), encodeErr(U8Codec[int64](), math.MaxUint8+1)}},
		{"i8", 1, Erase(I8Codec[int64]()), int64(math.MinInt8), int64(math.MaxInt8),
			[]func() error{encodeErr(I8Codec[int64](), math.MinInt8-1), encodeErr(I8Codec[int64](), math.MaxInt8+1)}},
		{"u16", 2, Erase(U16Codec[int64]()), int64(0), int64(math.MaxUint16),
			[]func() error{encodeErr(U16Codec[int64](), -1), encodeErr(U16Codec[int64](), math.MaxUint16+1)}},
		{"i16", 2, Erase(I16Codec[int64]()), int64(math.MinInt16), int64(math.MaxInt16),
			[]func() error{encodeErr(I16Codec[int64](), math.MinInt16-1), encodeErr(I16Codec[int64](), math.MaxInt16+1)}},
		{"u32", 4, Erase(U32Codec[int64]()), int64(0), int64(math.MaxUint32),
			[]func() error{encodeErr(U32Codec[int64](), -1), encodeErr(U32Codec[int64](), math.MaxUint32+1)}},
		{"i32", 4, Erase(I32Codec[int64]()), int64(math.MinInt32), int64(math.MaxInt32),
			[]func() error{encodeErr(I32Codec[int64](), math.MinInt32-1), encodeErr(I32Codec[int64](), math.MaxInt32+1)}},
		{"u64", 8, Erase(U64Codec[uint64]()), uint64(0), uint64(math.MaxUint64),
			[]func() error{encodeErr(U64Codec[int64](), -1), encodeErr(U64Codec[float64](), 0x1p64)}},
		{"i64", 8, Erase(I64Codec[int64]()), int64(math.MinInt64), int64(math.MaxInt64),
			[]func() error{encodeErr(I64Codec[float64](), -0x1p64), encodeErr(I64Codec[uint64](), 1<<63)}},
		{"f32", 4, Erase(F32Codec[float32]()), float32(-math.MaxFloat32), float32(math.MaxFloat32),
			[]func() error{encodeErr(F32Codec[float64](), -1e300), encodeErr(F32Codec[float64](), 1e300)}},
		{"f64", 8, Erase(F64Codec[float64]()), -math.MaxFloat64, math.MaxFloat64,
			[]func() error{encodeErr(F64Codec[int64](), -(1<<53 + 1)), encodeErr(F64Codec[int64](), 1<<53+1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, FixedSize(tc.width), tc.codec.Size())

			for _, v := range []any{tc.min, tc.max} {
				buf := make([]byte, tc.width+2)
				end, err := tc.codec.Write(v, buf, 1)
				require.NoError(t, err, v)
				assert.Equal(t, 1+tc.width, end)

				got, end, err := tc.codec.Read(buf, 1)
				require.NoError(t, err, v)
				assert.Equal(t, v, got)
				assert.Equal(t, 1+tc.width, end)
			}

			for _, encode := range tc.outside {
				assert.ErrorIs(t, encode(), ErrNumberOutOfRange)
			}

			_, _, err := tc.codec.Read(make([]byte, tc.width-1), 0)
			assert.ErrorIs(t, err, ErrInsufficientBytes)
			_, _, err = tc.codec.Read(make([]byte, tc.width), 1)
			assert.ErrorIs(t, err, ErrInsufficientBytes)
		})
	}

	v, end, err := I8Codec[int]().Read([]byte{0xaa, 0xff}, 1)
	require.NoError(t, err)
	assert.Equal(t, -1, v)
	assert.Equal(t, 2, end)
}

func TestNumberUnderrun(t *testing.T) {
	_, err := U32Decoder[uint32]().Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInsufficientBytes)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 4, e.Param("expected"))
	assert.Equal(t, 3, e.Param("bytesLength"))

	_, err = U32Encoder[uint32]().Write(1, make([]byte, 3), 0)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestNumberFormatValidation(t *testing.T) {
	assert.Panics(t, func() {
		NumberCodec[int](NumberFormat{Name: "u24", Width: 3, Kind: Unsigned, Max: 1<<24 - 1})
	})
	assert.Panics(t, func() {
		NumberCodec[float64](NumberFormat{Name: "f16", Width: 2, Kind: Float})
	})

	// Custom ranges are honored.
	percent := NumberCodec[int](NumberFormat{Name: "percent", Width: 1, Kind: Unsigned, Max: 100})
	_, err := percent.Encode(101)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = percent.Decode([]byte{200})
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
}

func TestBigIntegers(t *testing.T) {
	maxU := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	ones := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	b, err := U128Codec().Encode(maxU)
	require.NoError(t, err)
	assert.Equal(t, ones, b)

	v, err := U128Codec().Decode(ones)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(maxU))

	b, err = I128Codec().Encode(big.NewInt(-1))
	require.NoError(t, err)
	assert.Equal(t, ones, b)

	v, err = I128Codec().Decode(ones)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v.Int64())

	b, err = U128Codec().Encode(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, byte(1), b[0])

	b, err = U128Codec(WithEndian(BE)).Encode(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, byte(1), b[15])

	_, err = U128Codec().Encode(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = I128Codec().Encode(maxU)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)
	_, err = U128Codec().Encode(nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestShortU16(t *testing.T) {
	c := ShortU16Codec[int]()

	vectors := []struct {
		value int
		bytes []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
		{65535, []byte{0xff, 0xff, 0x03}},
	}
	for _, tc := range vectors {
		b, err := c.Encode(tc.value)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.bytes, b, tc.value)
		assert.Equal(t, len(tc.bytes), c.SizeOf(tc.value))

		v, end, err := c.Read(tc.bytes, 0)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.value, v)
		assert.Equal(t, len(tc.bytes), end)
	}

	limit, ok := c.Size().Max()
	assert.True(t, ok)
	assert.Equal(t, 3, limit)

	_, err := c.Encode(65536)
	assert.ErrorIs(t, err, ErrNumberOutOfRange)

	_, err = c.Decode([]byte{0x80, 0x00})
	assert.ErrorIs(t, err, ErrMalformedShortU16)
	_, err = c.Decode([]byte{0xff, 0xff, 0x04})
	assert.ErrorIs(t, err, ErrMalformedShortU16)
	_, err = c.Decode([]byte{0x80})
	assert.ErrorIs(t, err, ErrInsufficientBytes)
}
