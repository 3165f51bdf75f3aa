package bincodec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StreamTestSuite struct {
	suite.Suite
	buf *bytes.Buffer
}

func TestStreamSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

// SetupTest runs before each test in the suite, ensuring a clean state.
func (s *StreamTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
}

func (s *StreamTestSuite) TestNilIO() {
	_, err := U8Codec[int]().EncodeTo(nil, 1)
	s.ErrorIs(err, ErrNilIO)
	_, _, err = U8Codec[int]().DecodeFrom(nil)
	s.ErrorIs(err, ErrNilIO)
}

func (s *StreamTestSuite) TestFixedLeavesRest() {
	c := pointCodec()

	n, err := c.EncodeTo(s.buf, point{X: 1, Y: 2})
	s.Require().NoError(err)
	s.EqualValues(8, n)
	s.buf.WriteByte(0xaa)

	v, read, err := c.DecodeFrom(s.buf)
	s.Require().NoError(err)
	s.EqualValues(8, read)
	s.Equal(point{X: 1, Y: 2}, v)
	s.Equal([]byte{0xaa}, s.buf.Bytes())
}

func (s *StreamTestSuite) TestFixedTruncated() {
	s.buf.Write([]byte{1, 2, 3})

	_, read, err := pointCodec().DecodeFrom(s.buf)
	s.ErrorIs(err, ErrInsufficientBytes)
	s.ErrorIs(err, ErrTruncatedData)
	s.ErrorIs(err, io.ErrUnexpectedEOF)
	s.EqualValues(3, read)
}

func (s *StreamTestSuite) TestVariable() {
	c := StringCodec()

	_, err := c.EncodeTo(s.buf, "stream")
	s.Require().NoError(err)

	v, read, err := c.DecodeFrom(bytes.NewReader(s.buf.Bytes()))
	s.Require().NoError(err)
	s.Equal("stream", v)
	s.EqualValues(10, read)

	s.buf.WriteByte(0)
	_, _, err = c.DecodeFrom(s.buf)
	s.ErrorIs(err, ErrTrailingBytes)
}

func (s *StreamTestSuite) TestBoundedVariable() {
	c := OptionCodec(U8Codec[int]())
	s.buf.Write([]byte{1, 5, 0, 0, 0})

	_, _, err := c.DecodeFrom(s.buf)
	s.ErrorIs(err, ErrTrailingBytes)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func (s *StreamTestSuite) TestWriterError() {
	_, err := U32Codec[int]().EncodeTo(failingWriter{}, 1)
	s.EqualError(err, "disk full")
}

func (s *StreamTestSuite) TestBoundReaderWriter() {
	src := Bind(StringCodec(), "hello")
	_, err := src.WriteTo(s.buf)
	s.Require().NoError(err)

	dst := Bind(StringCodec(), "")
	n, err := dst.ReadFrom(s.buf)
	s.Require().NoError(err)
	s.EqualValues(9, n)
	s.Equal("hello", dst.Value)
}

func TestCursor(t *testing.T) {
	c := NewCursor(make([]byte, 16))

	require.NoError(t, Put(c, U8Encoder[uint8](), 7))
	require.NoError(t, Put(c, StringEncoder(), "hi"))
	assert.Equal(t, 7, c.Len())
	assert.Equal(t, 9, c.Available())
	assert.Equal(t, []byte{7, 2, 0, 0, 0, 'h', 'i'}, c.Bytes())

	err := Put(c, BytesEncoder(WithFixedSize(10)), nil)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Equal(t, 7, c.Len(), "a failed write leaves the cursor in place")

	r := NewCursor(c.Bytes())
	tag, err := Take(r, U8Decoder[uint8]())
	require.NoError(t, err)
	assert.Equal(t, uint8(7), tag)

	str, err := Take(r, StringDecoder())
	require.NoError(t, err)
	assert.Equal(t, "hi", str)
	assert.Empty(t, r.Rest())

	_, err = Take(r, U8Decoder[uint8]())
	assert.ErrorIs(t, err, ErrInsufficientBytes)

	pos, err := r.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.EqualValues(t, 5, pos)
	assert.Equal(t, []byte("hi"), r.Rest())

	_, err = r.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, ErrInvalidSeek)
	_, err = r.Seek(0, 42)
	assert.ErrorIs(t, err, ErrInvalidWhence)

	r.Reset()
	assert.Equal(t, 0, r.Len())
}
