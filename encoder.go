package bincodec

import "slices"

// WriteFunc writes v into buf at offset and returns the offset just past the
// written bytes. Callers guarantee that buf has room for the encoded value.
type WriteFunc[T any] func(v T, buf []byte, offset int) (int, error)

// Encoder converts values of type T to bytes. Encoders are immutable and safe
// for concurrent use; the buffer and offset are always explicit arguments.
type Encoder[T any] struct {
	name   string
	size   Size
	sizeOf func(T) int
	write  WriteFunc[T]
}

// NewEncoder builds an Encoder from its write function.
//
// For fixed size classes sizeOf may be nil and write is guarded so that it
// never runs against a buffer shorter than the fixed length. Variable size
// classes require sizeOf, and it must return exactly the number of bytes
// write produces for the same value.
func NewEncoder[T any](name string, size Size, sizeOf func(T) int, write WriteFunc[T]) Encoder[T] {
	if write == nil {
		panic("bincodec: NewEncoder called with a nil write function")
	}
	if n, ok := size.Fixed(); ok {
		sizeOf = func(T) int { return n }
		inner := write
		write = func(v T, buf []byte, offset int) (int, error) {
			if len(buf)-offset < n {
				return offset, bufferTooSmall(name, n, buf, offset)
			}
			return inner(v, buf, offset)
		}
	} else if sizeOf == nil {
		panic("bincodec: NewEncoder called without a size function for a variable-size encoder")
	}
	return Encoder[T]{name: name, size: size, sizeOf: sizeOf, write: write}
}

// Name returns the diagnostic name of the encoder.
func (e Encoder[T]) Name() string { return e.name }

// Size returns the size class of the encoder.
func (e Encoder[T]) Size() Size { return e.size }

// SizeOf returns the number of bytes v encodes to.
func (e Encoder[T]) SizeOf(v T) int { return e.sizeOf(v) }

// Write encodes v into buf starting at offset and returns the offset just past
// the written bytes. This is the composable mode: nothing is allocated.
func (e Encoder[T]) Write(v T, buf []byte, offset int) (int, error) {
	if offset < 0 || offset > len(buf) {
		return offset, offsetOutOfRange(e.name, buf, offset)
	}
	n := e.sizeOf(v)
	if len(buf)-offset < n {
		return offset, bufferTooSmall(e.name, n, buf, offset)
	}
	end, err := e.write(v, buf, offset)
	if err != nil {
		return offset, err
	}
	if end-offset != n {
		return offset, newError(CodeInvalidByteLength, Params{
			"codecDescription": e.name,
			"expected":         n,
			"bytesLength":      end - offset,
		})
	}
	return end, nil
}

// Encode allocates a buffer of exactly SizeOf(v) bytes and encodes v into it.
func (e Encoder[T]) Encode(v T) ([]byte, error) {
	buf := make([]byte, e.sizeOf(v))
	if _, err := e.Write(v, buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// Append encodes v to the end of dst, growing it as needed.
func (e Encoder[T]) Append(dst []byte, v T) ([]byte, error) {
	n := e.sizeOf(v)
	start := len(dst)
	dst = slices.Grow(dst, n)[:start+n]
	if _, err := e.Write(v, dst, start); err != nil {
		return dst[:start], err
	}
	return dst, nil
}

func bufferTooSmall(name string, expected int, buf []byte, offset int) *Error {
	return newError(CodeBufferTooSmall, Params{
		"codecDescription": name,
		"expected":         expected,
		"bytesLength":      len(buf) - offset,
		"offset":           offset,
	})
}

func offsetOutOfRange(name string, buf []byte, offset int) *Error {
	return newError(CodeOffsetOutOfRange, Params{
		"codecDescription": name,
		"offset":           offset,
		"bytesLength":      len(buf),
	})
}
