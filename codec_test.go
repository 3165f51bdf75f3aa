package bincodec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Helpers ---

type point struct {
	X int32
	Y int32
}

func pointCodec() Codec[point] {
	return StructCodec(
		NewField("x", I32Codec[int32](), func(p *point) *int32 { return &p.X }),
		NewField("y", I32Codec[int32](), func(p *point) *int32 { return &p.Y }),
	)
}

// --- Codec Test Suite ---

type CodecTestSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) TestCombine() {
	s.T().Run("Compatible", func(t *testing.T) {
		c, err := Combine(U16Encoder[int](), U16Decoder[int]())
		require.NoError(t, err)
		n, ok := c.Size().Fixed()
		assert.True(t, ok)
		assert.Equal(t, 2, n)
		assert.Equal(t, "u16", c.Name())
	})

	s.T().Run("FixedVersusVariable", func(t *testing.T) {
		_, err := Combine(FixEncoderSize(StringEncoder(), 4), StringDecoder())
		assert.ErrorIs(t, err, ErrSizeCompatibilityMismatch)
	})

	s.T().Run("DifferentFixedSizes", func(t *testing.T) {
		_, err := Combine(U16Encoder[int](), MapDecoder(U32Decoder[int](), func(v int) (int, error) { return v, nil }))
		assert.ErrorIs(t, err, ErrFixedSizeMismatch)
	})

	s.T().Run("DifferentMaxSizes", func(t *testing.T) {
		_, err := Combine(ShortU16Encoder[int](), MapDecoder(StringDecoder(), func(string) (int, error) { return 0, nil }))
		assert.ErrorIs(t, err, ErrMaxSizeMismatch)
	})

	s.T().Run("MustCombinePanics", func(t *testing.T) {
		assert.Panics(t, func() { MustCombine(U8Encoder[int](), U16Decoder[int]()) })
	})
}

func (s *CodecTestSuite) TestSizePrefix() {
	c := AddCodecSizePrefix(U8Codec[int](), U32Codec[int]())
	s.Equal(FixedSize(5), c.Size())

	b, err := c.Encode(9)
	s.Require().NoError(err)
	s.Equal([]byte{1, 0, 0, 0, 9}, b)

	v, end, err := c.Read([]byte{1, 0, 0, 0, 9, 0xaa}, 0)
	s.Require().NoError(err)
	s.Equal(9, v)
	s.Equal(5, end)

	// A fixed layout must never consume more than its size.
	_, _, err = c.Read([]byte{2, 0, 0, 0, 9, 9, 0xaa}, 0)
	s.ErrorIs(err, ErrInvalidByteLength)

	// Bytes inside the prefixed length must all be consumed.
	loose := AddCodecSizePrefix(StringCodec(WithSizePrefix(U8Codec[int]())), U8Codec[int]())
	_, _, err = loose.Read([]byte{3, 1, 'h', 'x'}, 0)
	s.ErrorIs(err, ErrInvalidByteLength)

	str := AddCodecSizePrefix(StringCodec(WithRemainder()), U8Codec[int]())
	got, end, err := str.Read([]byte{2, 'h', 'i', 0xaa}, 0)
	s.Require().NoError(err)
	s.Equal("hi", got)
	s.Equal(3, end)
}

func (s *CodecTestSuite) TestWriteAtOffset() {
	c := U16Codec[int]()
	buf := []byte{0xaa, 0, 0, 0xbb}

	end, err := c.Write(0x0102, buf, 1)
	s.Require().NoError(err)
	s.Equal(3, end)
	s.Equal([]byte{0xaa, 0x02, 0x01, 0xbb}, buf)

	v, end, err := c.Read(buf, 1)
	s.Require().NoError(err)
	s.Equal(0x0102, v)
	s.Equal(3, end)

	_, err = c.Write(1, buf, 5)
	s.ErrorIs(err, ErrOffsetOutOfRange)
	_, _, err = c.Read(buf, -1)
	s.ErrorIs(err, ErrOffsetOutOfRange)
	_, err = c.Write(1, buf, 3)
	s.ErrorIs(err, ErrBufferTooSmall)
}

func (s *CodecTestSuite) TestEncodeMatchesWrite() {
	c := pointCodec()
	v := point{X: -1, Y: 7}

	encoded, err := c.Encode(v)
	s.Require().NoError(err)

	buf := make([]byte, c.SizeOf(v))
	_, err = c.Write(v, buf, 0)
	s.Require().NoError(err)
	s.Equal(encoded, buf)
	s.Equal([]byte{0xff, 0xff, 0xff, 0xff, 7, 0, 0, 0}, encoded)

	appended, err := c.Append([]byte{0x01}, v)
	s.Require().NoError(err)
	s.Equal(append([]byte{0x01}, encoded...), appended)
}

func (s *CodecTestSuite) TestDecodeExact() {
	c := U8Codec[int]()

	v, err := c.DecodeExact([]byte{9})
	s.Require().NoError(err)
	s.Equal(9, v)

	_, err = c.DecodeExact([]byte{9, 0})
	s.ErrorIs(err, ErrTrailingBytes)

	v, err = c.Decode([]byte{9, 0})
	s.Require().NoError(err)
	s.Equal(9, v)
}

func (s *CodecTestSuite) TestErrorFormatting() {
	err := &Error{
		Code:   CodeNumberOutOfRange,
		Params: Params{"value": 300, "max": 255},
		Path:   []string{"header", "items", "[2]", "amount"},
		Cause:  errors.New("boom"),
	}
	s.Equal("header.items[2].amount", err.PathString())
	s.Equal("bincodec: number_out_of_range at header.items[2].amount (max=255, value=300): boom", err.Error())
	s.True(errors.Is(err, ErrNumberOutOfRange))
	s.False(errors.Is(err, ErrInvalidBool))
}

func (s *CodecTestSuite) TestMapAndErase() {
	cents := MapCodec(U32Codec[uint32](),
		func(d float64) (uint32, error) { return uint32(d * 100), nil },
		func(c uint32) (float64, error) { return float64(c) / 100, nil },
	)
	b, err := cents.Encode(1.5)
	s.Require().NoError(err)
	s.Equal([]byte{150, 0, 0, 0}, b)

	erased := Erase(U8Codec[int]())
	b, err = erased.Encode(3)
	s.Require().NoError(err)
	s.Equal([]byte{3}, b)

	_, err = erased.Encode("3")
	s.ErrorIs(err, ErrTypeMismatch)

	v, err := erased.Decode([]byte{4})
	s.Require().NoError(err)
	s.Equal(4, v)
}

func (s *CodecTestSuite) TestFixCodecSize() {
	c := FixCodecSize(BytesCodec(WithRemainder()), 4)

	b, err := c.Encode([]byte{1, 2})
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 0, 0}, b)

	_, err = c.Encode([]byte{1, 2, 3, 4, 5})
	s.ErrorIs(err, ErrInvalidByteLength)

	v, end, err := c.Read([]byte{1, 2, 3, 4, 5}, 0)
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 3, 4}, v)
	s.Equal(4, end)
}

func (s *CodecTestSuite) TestBoolAndEnum() {
	b, err := BoolCodec().Encode(true)
	s.Require().NoError(err)
	s.Equal([]byte{1}, b)

	_, err = BoolCodec().Decode([]byte{2})
	s.ErrorIs(err, ErrInvalidBool)

	wide := BoolCodecOf(U32Codec[int]())
	b, err = wide.Encode(true)
	s.Require().NoError(err)
	s.Equal([]byte{1, 0, 0, 0}, b)

	type color uint8
	enum := EnumCodec[color](3)
	b, err = enum.Encode(2)
	s.Require().NoError(err)
	s.Equal([]byte{2}, b)

	_, err = enum.Encode(3)
	s.ErrorIs(err, ErrEnumDiscriminatorOutOfRange)
	_, err = enum.Decode([]byte{5})
	s.ErrorIs(err, ErrEnumDiscriminatorOutOfRange)
}

func (s *CodecTestSuite) TestBound() {
	bound := Bind(pointCodec(), point{X: 1, Y: 2})
	s.Equal(8, bound.Size())

	data, err := bound.MarshalBinary()
	s.Require().NoError(err)

	var out Bound[point]
	out.Codec = pointCodec()
	s.Require().NoError(out.UnmarshalBinary(data))
	s.Equal(point{X: 1, Y: 2}, out.Value)

	s.ErrorIs(out.UnmarshalBinary(append(data, 0)), ErrTrailingBytes)

	p := make([]byte, 8)
	n, err := bound.MarshalTo(p)
	s.Require().NoError(err)
	s.Equal(8, n)
	s.Equal(data, p)
}

type fixedPayload struct {
	ID    uint32
	Flags uint16
	Alive bool
	Data  [4]byte
}

func (s *CodecTestSuite) TestBinaryCodec() {
	c := BinaryCodec[fixedPayload]()
	n, ok := c.Size().Fixed()
	s.True(ok)
	s.Equal(11, n)

	v := fixedPayload{ID: 0xdeadbeef, Flags: 0x0102, Alive: true, Data: [4]byte{1, 2, 3, 4}}
	b, err := c.Encode(v)
	s.Require().NoError(err)
	s.Equal([]byte{0xef, 0xbe, 0xad, 0xde, 0x02, 0x01, 0x01, 1, 2, 3, 4}, b)

	out, err := c.DecodeExact(b)
	s.Require().NoError(err)
	s.Equal(v, out)

	_, err = c.Decode(b[:10])
	s.ErrorIs(err, ErrInsufficientBytes)

	be := BinaryCodec[fixedPayload](WithEndian(BE))
	b, err = be.Encode(v)
	s.Require().NoError(err)
	s.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, b[:4])

	// Bool fields are lenient here, unlike BoolCodec.
	loose := []byte{0xef, 0xbe, 0xad, 0xde, 0x02, 0x01, 0x07, 1, 2, 3, 4}
	out, err = c.DecodeExact(loose)
	s.Require().NoError(err)
	s.True(out.Alive)
	_, err = BoolCodec().Decode([]byte{0x07})
	s.ErrorIs(err, ErrInvalidBool)

	s.Panics(func() { BinaryCodec[struct{ S string }]() })
}
