package bincodec

import (
	"fmt"
	"strings"
)

// Field describes one member of a struct layout. Build fields with NewField;
// their order is the wire order.
type Field[S any] struct {
	name   string
	size   Size
	sizeOf func(*S) int
	write  func(*S, []byte, int) (int, error)
	read   func(*S, []byte, int) (int, error)
}

// NewField binds a codec to the member of S returned by ref.
//
//	type Point struct{ X, Y int32 }
//	fields := []bincodec.Field[Point]{
//		bincodec.NewField("x", bincodec.I32Codec[int32](), func(p *Point) *int32 { return &p.X }),
//		bincodec.NewField("y", bincodec.I32Codec[int32](), func(p *Point) *int32 { return &p.Y }),
//	}
func NewField[S, F any](name string, c Codec[F], ref func(*S) *F) Field[S] {
	return Field[S]{
		name: name,
		size: c.Encoder.size,
		sizeOf: func(s *S) int {
			return c.sizeOf(*ref(s))
		},
		write: func(s *S, buf []byte, offset int) (int, error) {
			return c.write(*ref(s), buf, offset)
		},
		read: func(s *S, buf []byte, offset int) (int, error) {
			v, off, err := c.read(buf, offset)
			if err != nil {
				return offset, err
			}
			*ref(s) = v
			return off, nil
		},
	}
}

// Name returns the field name used in error paths.
func (f Field[S]) Name() string { return f.name }

func structLayout[S any](fields []Field[S]) (string, Size) {
	names := make([]string, len(fields))
	sizes := make([]Size, len(fields))
	for i, f := range fields {
		names[i] = f.name
		sizes[i] = f.size
	}
	name := "struct(" + strings.Join(names, ", ") + ")"
	return name, sumSizes(name, sizes...)
}

// StructEncoder writes the fields of S in declaration order with no padding.
// The layout is fixed-size when every field is.
func StructEncoder[S any](fields ...Field[S]) Encoder[S] {
	name, size := structLayout(fields)
	var sizeOf func(S) int
	if !size.IsFixed() {
		sizeOf = func(v S) int {
			total := 0
			for _, f := range fields {
				total += f.sizeOf(&v)
			}
			return total
		}
	}
	return NewEncoder(name, size, sizeOf, func(v S, buf []byte, offset int) (int, error) {
		off := offset
		var err error
		for _, f := range fields {
			if off, err = f.write(&v, buf, off); err != nil {
				return offset, withPath(err, f.name)
			}
		}
		return off, nil
	})
}

// StructDecoder reads the fields of S in declaration order.
func StructDecoder[S any](fields ...Field[S]) Decoder[S] {
	name, size := structLayout(fields)
	return NewDecoder(name, size, func(buf []byte, offset int) (S, int, error) {
		var v S
		off := offset
		var err error
		for _, f := range fields {
			if off, err = f.read(&v, buf, off); err != nil {
				var zero S
				return zero, offset, withPath(err, f.name)
			}
		}
		return v, off, nil
	})
}

func StructCodec[S any](fields ...Field[S]) Codec[S] {
	return MustCombine(StructEncoder(fields...), StructDecoder(fields...))
}

// RecordField is a named, dynamically typed member of a record layout.
type RecordField struct {
	Name  string
	Codec Codec[any]
}

// RecordCodec encodes map[string]any values as the concatenation of the named
// fields in the given order. Missing keys encode as a nil value, which most
// codecs reject with ErrTypeMismatch. Extra keys are ignored.
func RecordCodec(fields ...RecordField) Codec[map[string]any] {
	names := make([]string, len(fields))
	sizes := make([]Size, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		sizes[i] = f.Codec.Size()
	}
	name := "record(" + strings.Join(names, ", ") + ")"
	size := sumSizes(name, sizes...)

	var sizeOf func(map[string]any) int
	if !size.IsFixed() {
		sizeOf = func(m map[string]any) int {
			total := 0
			for _, f := range fields {
				total += f.Codec.sizeOf(m[f.Name])
			}
			return total
		}
	}

	enc := NewEncoder(name, size, sizeOf, func(m map[string]any, buf []byte, offset int) (int, error) {
		off := offset
		var err error
		for _, f := range fields {
			if off, err = f.Codec.write(m[f.Name], buf, off); err != nil {
				return offset, withPath(err, f.Name)
			}
		}
		return off, nil
	})

	dec := NewDecoder(name, size, func(buf []byte, offset int) (map[string]any, int, error) {
		m := make(map[string]any, len(fields))
		off := offset
		for _, f := range fields {
			v, next, err := f.Codec.read(buf, off)
			if err != nil {
				return nil, offset, withPath(err, f.Name)
			}
			m[f.Name] = v
			off = next
		}
		return m, off, nil
	})

	return MustCombine(enc, dec)
}

// TupleCodec encodes []any values whose i-th element is handled by items[i].
// Encoding a slice of the wrong length fails with ErrInvalidNumberOfItems.
func TupleCodec(items ...Codec[any]) Codec[[]any] {
	names := make([]string, len(items))
	sizes := make([]Size, len(items))
	for i, c := range items {
		names[i] = c.Name()
		sizes[i] = c.Size()
	}
	name := "tuple(" + strings.Join(names, ", ") + ")"
	size := sumSizes(name, sizes...)

	var sizeOf func([]any) int
	if !size.IsFixed() {
		sizeOf = func(v []any) int {
			total := 0
			for i, c := range items {
				if i < len(v) {
					total += c.sizeOf(v[i])
				}
			}
			return total
		}
	}

	enc := NewEncoder(name, size, sizeOf, func(v []any, buf []byte, offset int) (int, error) {
		if len(v) != len(items) {
			return offset, newError(CodeInvalidNumberOfItems, Params{
				"codecDescription": name,
				"expected":         len(items),
				"actual":           len(v),
			})
		}
		off := offset
		var err error
		for i, c := range items {
			if off, err = c.write(v[i], buf, off); err != nil {
				return offset, withPath(err, indexSegment(i))
			}
		}
		return off, nil
	})

	dec := NewDecoder(name, size, func(buf []byte, offset int) ([]any, int, error) {
		out := make([]any, len(items))
		off := offset
		for i, c := range items {
			v, next, err := c.read(buf, off)
			if err != nil {
				return nil, offset, withPath(err, indexSegment(i))
			}
			out[i] = v
			off = next
		}
		return out, off, nil
	})

	return MustCombine(enc, dec)
}

func (f RecordField) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.Codec.Name())
}
