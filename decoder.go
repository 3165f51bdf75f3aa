package bincodec

// ReadFunc parses a value from buf starting at offset and returns it together
// with the offset just past the consumed bytes.
type ReadFunc[T any] func(buf []byte, offset int) (T, int, error)

// Decoder parses values of type T from bytes. Input buffers are borrowed and
// never modified.
type Decoder[T any] struct {
	name string
	size Size
	read ReadFunc[T]
}

// NewDecoder builds a Decoder from its read function. For fixed size classes
// read is guarded so that it never runs with fewer than the fixed number of
// bytes remaining; variable-size read functions do their own bounds checks.
func NewDecoder[T any](name string, size Size, read ReadFunc[T]) Decoder[T] {
	if read == nil {
		panic("bincodec: NewDecoder called with a nil read function")
	}
	if n, ok := size.Fixed(); ok {
		inner := read
		read = func(buf []byte, offset int) (T, int, error) {
			if len(buf)-offset < n {
				var zero T
				return zero, offset, insufficientBytes(name, n, buf, offset)
			}
			return inner(buf, offset)
		}
	}
	return Decoder[T]{name: name, size: size, read: read}
}

// Name returns the diagnostic name of the decoder.
func (d Decoder[T]) Name() string { return d.name }

// Size returns the size class of the decoder.
func (d Decoder[T]) Size() Size { return d.size }

// Read decodes a value starting at offset and returns it with the offset just
// past the consumed bytes. Bytes after the value are ignored.
func (d Decoder[T]) Read(buf []byte, offset int) (T, int, error) {
	if offset < 0 || offset > len(buf) {
		var zero T
		return zero, offset, offsetOutOfRange(d.name, buf, offset)
	}
	v, end, err := d.read(buf, offset)
	if err != nil {
		var zero T
		return zero, offset, err
	}
	return v, end, nil
}

// Decode decodes a value from the start of buf, ignoring trailing bytes.
func (d Decoder[T]) Decode(buf []byte) (T, error) {
	v, _, err := d.Read(buf, 0)
	return v, err
}

// DecodeExact decodes a value from buf and fails with ErrTrailingBytes unless
// the value spans the whole buffer.
func (d Decoder[T]) DecodeExact(buf []byte) (T, error) {
	v, end, err := d.Read(buf, 0)
	if err != nil {
		return v, err
	}
	if end != len(buf) {
		var zero T
		return zero, newError(CodeTrailingBytes, Params{
			"codecDescription": d.name,
			"expected":         end,
			"bytesLength":      len(buf),
		})
	}
	return v, nil
}
