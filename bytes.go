package bincodec

// Raw byte slices. The default layout is a u32 little-endian length prefix
// followed by the bytes; see SizeOption for the alternatives.

func rawBytesEncoder() Encoder[[]byte] {
	return NewEncoder("bytes", VariableSize(),
		func(v []byte) int { return len(v) },
		func(v []byte, buf []byte, offset int) (int, error) {
			return offset + copy(buf[offset:], v), nil
		})
}

// rawBytesDecoder consumes every remaining byte. The result aliases buf with
// its capacity clipped, so appending to it never writes into the input.
func rawBytesDecoder() Decoder[[]byte] {
	return NewDecoder("bytes", VariableSize(), func(buf []byte, offset int) ([]byte, int, error) {
		return buf[offset:len(buf):len(buf)], len(buf), nil
	})
}

// BytesEncoder encodes byte slices. With WithFixedSize, shorter slices are
// zero padded and longer ones are rejected.
func BytesEncoder(opts ...SizeOption) Encoder[[]byte] {
	return sizedEncoder(rawBytesEncoder(), applySizeOptions(opts))
}

// BytesDecoder decodes byte slices. Decoded slices alias the input buffer.
func BytesDecoder(opts ...SizeOption) Decoder[[]byte] {
	return sizedDecoder(rawBytesDecoder(), applySizeOptions(opts))
}

func BytesCodec(opts ...SizeOption) Codec[[]byte] {
	s := applySizeOptions(opts)
	return MustCombine(sizedEncoder(rawBytesEncoder(), s), sizedDecoder(rawBytesDecoder(), s))
}
