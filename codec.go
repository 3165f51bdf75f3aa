package bincodec

// Codec pairs an Encoder and a Decoder for the same value type. Build one with
// Combine, or with the XxxCodec factories of each type family.
type Codec[T any] struct {
	Encoder[T]
	Decoder[T]
}

// Name returns the diagnostic name of the codec.
func (c Codec[T]) Name() string { return c.Encoder.Name() }

// Size returns the size class shared by both halves of the codec.
func (c Codec[T]) Size() Size { return c.Encoder.Size() }

// Combine merges an independently built encoder and decoder into one Codec.
// Both must report the same size class: fixed with the same length, or
// variable with the same upper bound.
func Combine[T any](enc Encoder[T], dec Decoder[T]) (Codec[T], error) {
	es, ds := enc.Size(), dec.Size()
	if es.IsFixed() != ds.IsFixed() {
		return Codec[T]{}, newError(CodeSizeCompatibilityMismatch, Params{
			"encoderSize": es.String(),
			"decoderSize": ds.String(),
		})
	}

	if en, ok := es.Fixed(); ok {
		if dn, _ := ds.Fixed(); en != dn {
			return Codec[T]{}, newError(CodeFixedSizeMismatch, Params{
				"encoderFixedSize": en,
				"decoderFixedSize": dn,
			})
		}
		return Codec[T]{Encoder: enc, Decoder: dec}, nil
	}

	em, eok := es.Max()
	dm, dok := ds.Max()
	if eok != dok || em != dm {
		return Codec[T]{}, newError(CodeMaxSizeMismatch, Params{
			"encoderMaxSize": es.String(),
			"decoderMaxSize": ds.String(),
		})
	}
	return Codec[T]{Encoder: enc, Decoder: dec}, nil
}

// MustCombine is like Combine but panics with the *Error on mismatch.
// It is meant for codec trees assembled at package initialization.
func MustCombine[T any](enc Encoder[T], dec Decoder[T]) Codec[T] {
	c, err := Combine(enc, dec)
	if err != nil {
		panic(err)
	}
	return c
}
