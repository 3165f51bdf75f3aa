package bincodec

import (
	"errors"
	"io"
)

var (
	ErrInvalidWhence = errors.New("bincodec: invalid whence")
	ErrInvalidSeek   = errors.New("bincodec: seek to a negative position")
)

// Cursor tracks a position in a byte slice for sequential writes and reads.
// It is the threaded-offset pattern of Write and Read bundled into a value:
//
//	c := bincodec.NewCursor(make([]byte, 64))
//	bincodec.Put(c, bincodec.U8Encoder[uint8](), 7)
//	bincodec.Put(c, bincodec.StringEncoder(), "hi")
//	frame := c.Bytes()
type Cursor struct {
	B []byte // underlying slice
	N int    // current position
}

// NewCursor creates a Cursor over b. Writes never grow b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{B: b}
}

// Put encodes v at the cursor position and advances past it.
func Put[T any](c *Cursor, enc Encoder[T], v T) error {
	n, err := enc.Write(v, c.B, c.N)
	if err != nil {
		return err
	}
	c.N = n
	return nil
}

// Take decodes a value at the cursor position and advances past it. On error
// the position is unchanged.
func Take[T any](c *Cursor, dec Decoder[T]) (T, error) {
	v, n, err := dec.Read(c.B, c.N)
	if err != nil {
		return v, err
	}
	c.N = n
	return v, nil
}

// Seek implements the [io.Seeker] interface.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(c.N) + offset
	case io.SeekEnd:
		abs = int64(len(c.B)) + offset
	default:
		return 0, ErrInvalidWhence
	}

	if abs < 0 {
		return 0, ErrInvalidSeek
	}

	c.N = int(abs)
	return abs, nil
}

// Reset moves the cursor back to the start so the slice can be reused.
func (c *Cursor) Reset() { c.N = 0 }

// Len returns the current position.
func (c *Cursor) Len() int { return c.N }

// Size returns the length of the underlying slice.
func (c *Cursor) Size() int { return len(c.B) }

// Available returns the number of bytes after the cursor.
func (c *Cursor) Available() int {
	length := len(c.B) - c.N
	if length <= 0 {
		return 0
	}
	return length
}

// Bytes returns the slice up to the cursor, i.e. what has been written so far.
func (c *Cursor) Bytes() []byte { return c.B[:min(c.N, len(c.B))] }

// Rest returns the slice after the cursor, i.e. what is left to read.
func (c *Cursor) Rest() []byte { return c.B[min(c.N, len(c.B)):] }
