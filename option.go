package bincodec

import "fmt"

// Option holds a value that may be absent.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Valid }

func (o Option[T]) String() string {
	if !o.Valid {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}

// OptionSetting configures the layout of an option codec.
type OptionSetting func(*optionSpec)

type optionSpec struct {
	tag   Codec[int]
	fixed bool
}

// WithTag sets the integer codec of the presence discriminant. The default is
// a u8 holding 0 (None) or 1 (Some).
func WithTag(tag Codec[int]) OptionSetting {
	return func(s *optionSpec) { s.tag = tag }
}

// FixedOption pads None to the width of the item so that the option is
// fixed-size. The item codec must be fixed-size.
func FixedOption() OptionSetting {
	return func(s *optionSpec) { s.fixed = true }
}

func applyOptionSettings(opts []OptionSetting) optionSpec {
	s := optionSpec{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.tag.write == nil {
		s.tag = U8Codec[int]()
	}
	return s
}

func optionLayout(item Size, itemName string, s optionSpec) (string, Size, int) {
	name := fmt.Sprintf("option(%s; %s)", itemName, s.tag.Name())
	if !s.fixed {
		if n, ok := item.Fixed(); ok && n == 0 {
			// Zero-width items leave nothing to vary.
			return name, s.tag.Size(), 0
		}
		if m, ok := item.Max(); ok {
			if t, ok := s.tag.Size().Max(); ok {
				return name, VariableSizeMax(addLengths(name, t, m)), 0
			}
		}
		return name, VariableSize(), 0
	}
	n, ok := item.Fixed()
	if !ok {
		panic(newError(CodeExpectedFixedLength, Params{"codecDescription": name, "itemSize": item.String()}))
	}
	t, ok := s.tag.Size().Fixed()
	if !ok {
		panic(newError(CodeExpectedFixedLength, Params{"codecDescription": name, "tagSize": s.tag.Size().String()}))
	}
	return "fixed" + name, FixedSize(addLengths(name, t, n)), n
}

// OptionEncoder writes a discriminant followed, for Some, by the item.
func OptionEncoder[T any](item Encoder[T], opts ...OptionSetting) Encoder[Option[T]] {
	s := applyOptionSettings(opts)
	name, size, pad := optionLayout(item.size, item.name, s)

	var sizeOf func(Option[T]) int
	if !size.IsFixed() {
		sizeOf = func(o Option[T]) int {
			if !o.Valid {
				return s.tag.sizeOf(0)
			}
			return s.tag.sizeOf(1) + item.sizeOf(o.Value)
		}
	}

	return NewEncoder(name, size, sizeOf, func(o Option[T], buf []byte, offset int) (int, error) {
		if !o.Valid {
			off, err := s.tag.write(0, buf, offset)
			if err != nil {
				return offset, err
			}
			if s.fixed {
				clear(buf[off : off+pad])
				off += pad
			}
			return off, nil
		}
		off, err := s.tag.write(1, buf, offset)
		if err != nil {
			return offset, err
		}
		return item.write(o.Value, buf, off)
	})
}

// OptionDecoder reads a discriminant and, for 1, the item. Any other
// discriminant fails with ErrInvalidOptionDiscriminant.
func OptionDecoder[T any](item Decoder[T], opts ...OptionSetting) Decoder[Option[T]] {
	s := applyOptionSettings(opts)
	name, size, pad := optionLayout(item.size, item.name, s)

	return NewDecoder(name, size, func(buf []byte, offset int) (Option[T], int, error) {
		tag, off, err := s.tag.read(buf, offset)
		if err != nil {
			return Option[T]{}, offset, err
		}
		switch tag {
		case 0:
			return Option[T]{}, off + pad, nil
		case 1:
			v, end, err := item.read(buf, off)
			if err != nil {
				return Option[T]{}, offset, err
			}
			return Some(v), end, nil
		default:
			return Option[T]{}, offset, newError(CodeInvalidOptionDiscriminant, Params{
				"codecDescription": name,
				"discriminant":     tag,
				"offset":           offset,
			})
		}
	})
}

func OptionCodec[T any](item Codec[T], opts ...OptionSetting) Codec[Option[T]] {
	return MustCombine(OptionEncoder(item.Encoder, opts...), OptionDecoder(item.Decoder, opts...))
}

// NullableCodec is OptionCodec expressed over pointers: nil is None and a
// non-nil pointer is Some of the value it points to.
func NullableCodec[T any](item Codec[T], opts ...OptionSetting) Codec[*T] {
	return MapCodec(OptionCodec(item, opts...),
		func(p *T) (Option[T], error) {
			if p == nil {
				return None[T](), nil
			}
			return Some(*p), nil
		},
		func(o Option[T]) (*T, error) {
			if !o.Valid {
				return nil, nil
			}
			v := o.Value
			return &v, nil
		},
	)
}
