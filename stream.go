package bincodec

import (
	"errors"
	"fmt"
	"io"
)

// EncodeTo encodes v and writes it to w in a single Write call. The scratch
// buffer comes from a pool, so steady-state encoding does not allocate.
func (e Encoder[T]) EncodeTo(w io.Writer, v T) (int64, error) {
	if w == nil {
		return 0, ErrNilIO
	}
	n := e.sizeOf(v)

	buf := getBuffer()
	defer putBuffer(buf)
	buf.Grow(n)
	b := buf.AvailableBuffer()[:n]

	if _, err := e.Write(v, b, 0); err != nil {
		return 0, err
	}
	written, err := w.Write(b)
	if err != nil {
		return int64(written), err
	}
	if written < n {
		return int64(written), io.ErrShortWrite
	}
	return int64(written), nil
}

// DecodeFrom reads one value from r. Fixed-size decoders read exactly their
// length and leave the rest of r untouched. Variable-size decoders read r to
// EOF (at most their maximum size when bounded) and reject bytes the value
// does not consume. The returned count is the number of bytes read from r.
func (d Decoder[T]) DecodeFrom(r io.Reader) (T, int64, error) {
	var zero T
	if r == nil {
		return zero, 0, ErrNilIO
	}

	if n, ok := d.size.Fixed(); ok {
		// Decoded values may alias the buffer, so it is not pooled.
		buf := make([]byte, n)
		read, err := io.ReadFull(r, buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return zero, int64(read), &Error{
					Code: CodeInsufficientBytes,
					Params: Params{
						"codecDescription": d.name,
						"expected":         n,
						"bytesLength":      read,
						"offset":           0,
					},
					Cause: fmt.Errorf("%w: %w", ErrTruncatedData, err),
				}
			}
			return zero, int64(read), err
		}
		v, err := d.DecodeExact(buf)
		return v, int64(read), err
	}

	src := r
	limit, bounded := d.size.Max()
	if bounded {
		src = io.LimitReader(r, int64(limit)+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return zero, int64(len(data)), err
	}
	if bounded && len(data) > limit {
		return zero, int64(len(data)), newError(CodeTrailingBytes, Params{
			"codecDescription": d.name,
			"expected":         limit,
			"bytesLength":      len(data),
		})
	}
	v, err := d.DecodeExact(data)
	return v, int64(len(data)), err
}
