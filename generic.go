package bincodec

import (
	"encoding"
	"io"
)

// Bound attaches a codec to a value so that it satisfies the standard
// library's binary and stream interfaces.
//
//	p := bincodec.Bind(pointCodec, Point{X: 1, Y: 2})
//	data, err := p.MarshalBinary()
type Bound[T any] struct {
	Codec Codec[T]
	Value T
}

// Bind returns a Bound holding v.
func Bind[T any](c Codec[T], v T) *Bound[T] {
	return &Bound[T]{Codec: c, Value: v}
}

var (
	_ encoding.BinaryMarshaler   = (*Bound[struct{}])(nil)
	_ encoding.BinaryUnmarshaler = (*Bound[struct{}])(nil)
	_ encoding.BinaryAppender    = (*Bound[struct{}])(nil)
	_ io.WriterTo                = (*Bound[struct{}])(nil)
	_ io.ReaderFrom              = (*Bound[struct{}])(nil)
)

// Size returns the encoded length of the current value.
func (b *Bound[T]) Size() int { return b.Codec.SizeOf(b.Value) }

// MarshalBinary implements [encoding.BinaryMarshaler].
func (b *Bound[T]) MarshalBinary() ([]byte, error) {
	return b.Codec.Encode(b.Value)
}

// AppendBinary implements [encoding.BinaryAppender].
func (b *Bound[T]) AppendBinary(dst []byte) ([]byte, error) {
	return b.Codec.Append(dst, b.Value)
}

// MarshalTo encodes the value into the start of p, which must be large enough.
func (b *Bound[T]) MarshalTo(p []byte) (int, error) {
	return b.Codec.Write(b.Value, p, 0)
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. The whole of data
// must be consumed.
func (b *Bound[T]) UnmarshalBinary(data []byte) error {
	v, err := b.Codec.DecodeExact(data)
	if err != nil {
		return err
	}
	b.Value = v
	return nil
}

// WriteTo implements [io.WriterTo].
func (b *Bound[T]) WriteTo(w io.Writer) (int64, error) {
	return b.Codec.EncodeTo(w, b.Value)
}

// ReadFrom implements [io.ReaderFrom]. See Decoder.DecodeFrom for how much of
// r is consumed.
func (b *Bound[T]) ReadFrom(r io.Reader) (int64, error) {
	v, n, err := b.Codec.DecodeFrom(r)
	if err != nil {
		return n, err
	}
	b.Value = v
	return n, nil
}
