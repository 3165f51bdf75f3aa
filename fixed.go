package bincodec

import (
	"encoding/binary"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the reflection cost of binary.Size on every construction.
var sizeCache = xsync.NewMap[reflect.Type, int]()

func binarySize[S any]() int {
	t := reflect.TypeFor[S]()
	if size, ok := sizeCache.Load(t); ok {
		return size
	}
	var zero S
	size := binary.Size(&zero)
	sizeCache.Store(t, size)
	return size
}

// BinaryCodec builds a fixed-size codec for a plain data type S using
// encoding/binary's layout rules: fields in declaration order, no padding,
// bools as one byte. S must not contain slices, strings, maps or pointers;
// BinaryCodec panics with ErrExpectedFixedLength otherwise. The byte order
// defaults to little-endian and can be changed with WithEndian. Unlike
// BoolCodec, bool fields decode any nonzero byte as true.
func BinaryCodec[S any](opts ...NumberOption) Codec[S] {
	o := applyNumberOptions(opts)
	t := reflect.TypeFor[S]()
	name := "binary(" + t.String() + ")"

	size := binarySize[S]()
	if size < 0 {
		panic(newError(CodeExpectedFixedLength, Params{"codecDescription": name}))
	}

	enc := NewEncoder(name, FixedSize(size), nil, func(v S, buf []byte, offset int) (int, error) {
		n, err := binary.Encode(buf[offset:], o.order, &v)
		if err != nil {
			return offset, bufferTooSmall(name, size, buf, offset)
		}
		return offset + n, nil
	})
	dec := NewDecoder(name, FixedSize(size), func(buf []byte, offset int) (S, int, error) {
		var v S
		n, err := binary.Decode(buf[offset:], o.order, &v)
		if err != nil {
			return v, offset, insufficientBytes(name, size, buf, offset)
		}
		return v, offset + n, nil
	})
	return MustCombine(enc, dec)
}
