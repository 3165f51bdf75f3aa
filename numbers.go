package bincodec

// Fixed-width numeric families. Every factory is a pure constructor; the Go
// value type is chosen by the caller, e.g. U8Codec[int]() or U64Codec[uint64]().

// U8Encoder encodes unsigned 8-bit integers (1 byte).
func U8Encoder[T Number](opts ...NumberOption) Encoder[T] { return NumberEncoder[T](formatU8, opts...) }

// U8Decoder decodes unsigned 8-bit integers.
func U8Decoder[T Number](opts ...NumberOption) Decoder[T] { return NumberDecoder[T](formatU8, opts...) }

// U8Codec combines U8Encoder and U8Decoder.
func U8Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatU8, opts...) }

// I8Encoder encodes signed 8-bit integers (1 byte).
func I8Encoder[T Number](opts ...NumberOption) Encoder[T] { return NumberEncoder[T](formatI8, opts...) }

// I8Decoder decodes signed 8-bit integers.
func I8Decoder[T Number](opts ...NumberOption) Decoder[T] { return NumberDecoder[T](formatI8, opts...) }

// I8Codec combines I8Encoder and I8Decoder.
func I8Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatI8, opts...) }

// U16Encoder encodes unsigned 16-bit integers.
func U16Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatU16, opts...)
}

// U16Decoder decodes unsigned 16-bit integers.
func U16Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatU16, opts...)
}

// U16Codec combines U16Encoder and U16Decoder.
func U16Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatU16, opts...) }

// I16Encoder encodes signed 16-bit integers.
func I16Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatI16, opts...)
}

// I16Decoder decodes signed 16-bit integers.
func I16Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatI16, opts...)
}

// I16Codec combines I16Encoder and I16Decoder.
func I16Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatI16, opts...) }

// U32Encoder encodes unsigned 32-bit integers.
func U32Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatU32, opts...)
}

// U32Decoder decodes unsigned 32-bit integers.
func U32Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatU32, opts...)
}

// U32Codec combines U32Encoder and U32Decoder.
func U32Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatU32, opts...) }

// I32Encoder encodes signed 32-bit integers.
func I32Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatI32, opts...)
}

// I32Decoder decodes signed 32-bit integers.
func I32Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatI32, opts...)
}

// I32Codec combines I32Encoder and I32Decoder.
func I32Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatI32, opts...) }

// U64Encoder encodes unsigned 64-bit integers.
func U64Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatU64, opts...)
}

// U64Decoder decodes unsigned 64-bit integers.
func U64Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatU64, opts...)
}

// U64Codec combines U64Encoder and U64Decoder.
func U64Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatU64, opts...) }

// I64Encoder encodes signed 64-bit integers.
func I64Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatI64, opts...)
}

// I64Decoder decodes signed 64-bit integers.
func I64Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatI64, opts...)
}

// I64Codec combines I64Encoder and I64Decoder.
func I64Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatI64, opts...) }

// F32Encoder encodes IEEE-754 single precision floats.
func F32Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatF32, opts...)
}

// F32Decoder decodes IEEE-754 single-precision floats.
func F32Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatF32, opts...)
}

// F32Codec combines F32Encoder and F32Decoder.
func F32Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatF32, opts...) }

// F64Encoder encodes IEEE-754 double precision floats.
func F64Encoder[T Number](opts ...NumberOption) Encoder[T] {
	return NumberEncoder[T](formatF64, opts...)
}

// F64Decoder decodes IEEE-754 double-precision floats.
func F64Decoder[T Number](opts ...NumberOption) Decoder[T] {
	return NumberDecoder[T](formatF64, opts...)
}

// F64Codec combines F64Encoder and F64Decoder.
func F64Codec[T Number](opts ...NumberOption) Codec[T] { return NumberCodec[T](formatF64, opts...) }
