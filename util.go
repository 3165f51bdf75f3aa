package bincodec

import "encoding/binary"

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
)

// Ptr returns a pointer to a copy of v. Handy for NullableCodec values.
func Ptr[T any](v T) *T { return &v }
