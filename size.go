package bincodec

import (
	"math"
	"strconv"
)

// Size is the size class of an encoder or decoder. It is resolved once at
// construction and never re-queried while encoding or decoding.
//
// A fixed Size carries the byte length shared by every value. A variable Size
// may carry an upper bound; the value-dependent length itself lives on the
// Encoder (see Encoder.SizeOf).
type Size struct {
	fixed bool
	n     int // fixed length, or max length (-1 when unbounded)
}

// FixedSize returns the size class of codecs that always use n bytes.
func FixedSize(n int) Size {
	if n < 0 {
		panic("bincodec: FixedSize called with a negative length")
	}
	return Size{fixed: true, n: n}
}

// VariableSize returns an unbounded variable size class.
func VariableSize() Size {
	return Size{n: -1}
}

// VariableSizeMax returns a variable size class bounded by limit bytes.
func VariableSizeMax(limit int) Size {
	if limit < 0 {
		return VariableSize()
	}
	return Size{n: limit}
}

// IsFixed reports whether s is a fixed size class.
func (s Size) IsFixed() bool { return s.fixed }

// Fixed returns the constant length and true for fixed size classes.
func (s Size) Fixed() (int, bool) {
	if !s.fixed {
		return 0, false
	}
	return s.n, true
}

// Max returns the upper bound of the byte length. Fixed sizes are their own bound.
func (s Size) Max() (int, bool) {
	if s.n < 0 {
		return 0, false
	}
	return s.n, true
}

func (s Size) String() string {
	if s.fixed {
		return "fixed(" + strconv.Itoa(s.n) + ")"
	}
	if s.n >= 0 {
		return "variable(max=" + strconv.Itoa(s.n) + ")"
	}
	return "variable"
}

// sumSizes is the size class of a concatenation: fixed iff every part is
// fixed, bounded iff every part is bounded. It panics with ErrSizeOverflow
// when the lengths do not fit an int.
func sumSizes(name string, sizes ...Size) Size {
	fixed, bounded, total := true, true, 0
	for _, s := range sizes {
		fixed = fixed && s.fixed
		if m, ok := s.Max(); ok {
			total = addLengths(name, total, m)
		} else {
			bounded = false
		}
	}
	switch {
	case fixed:
		return FixedSize(total)
	case bounded:
		return VariableSizeMax(total)
	default:
		return VariableSize()
	}
}

func sizeOverflow(name string, params Params) *Error {
	params["codecDescription"] = name
	return newError(CodeSizeOverflow, params)
}

func addLengths(name string, a, b int) int {
	if b > math.MaxInt-a {
		panic(sizeOverflow(name, Params{"lhs": a, "rhs": b}))
	}
	return a + b
}

func mulLengths(name string, count, n int) int {
	if n > 0 && count > math.MaxInt/n {
		panic(sizeOverflow(name, Params{"count": count, "itemSize": n}))
	}
	return count * n
}
