package bincodec

import (
	"math/big"
	"slices"
)

// 128-bit integers have no native Go type; they are carried as *big.Int.

var (
	two128     = new(big.Int).Lsh(big.NewInt(1), 128)
	maxU128    = new(big.Int).Sub(two128, big.NewInt(1))
	minI128    = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxI128    = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	bigZero    = big.NewInt(0)
	signBit128 = new(big.Int).Lsh(big.NewInt(1), 127)
)

type bigFormat struct {
	name     string
	min, max *big.Int
	signed   bool
}

var (
	formatU128 = bigFormat{name: "u128", min: bigZero, max: maxU128}
	formatI128 = bigFormat{name: "i128", min: minI128, max: maxI128, signed: true}
)

func bigEncoder(f bigFormat, opts []NumberOption) Encoder[*big.Int] {
	o := applyNumberOptions(opts)
	little := o.order == LE
	return NewEncoder(f.name, FixedSize(16), nil, func(v *big.Int, buf []byte, offset int) (int, error) {
		if v == nil {
			return offset, newError(CodeTypeMismatch, Params{"codecDescription": f.name, "value": nil})
		}
		if v.Cmp(f.min) < 0 || v.Cmp(f.max) > 0 {
			return offset, newError(CodeNumberOutOfRange, Params{
				"codecDescription": f.name,
				"min":              f.min.String(),
				"max":              f.max.String(),
				"value":            v.String(),
			})
		}
		u := v
		if v.Sign() < 0 {
			u = new(big.Int).Add(v, two128)
		}
		dst := buf[offset : offset+16]
		u.FillBytes(dst)
		if little {
			slices.Reverse(dst)
		}
		return offset + 16, nil
	})
}

func bigDecoder(f bigFormat, opts []NumberOption) Decoder[*big.Int] {
	o := applyNumberOptions(opts)
	little := o.order == LE
	return NewDecoder(f.name, FixedSize(16), func(buf []byte, offset int) (*big.Int, int, error) {
		var raw [16]byte
		copy(raw[:], buf[offset:offset+16])
		if little {
			slices.Reverse(raw[:])
		}
		v := new(big.Int).SetBytes(raw[:])
		if f.signed && v.Cmp(signBit128) >= 0 {
			v.Sub(v, two128)
		}
		return v, offset + 16, nil
	})
}

// U128Encoder encodes unsigned 128-bit integers in [0, 2^128-1].
func U128Encoder(opts ...NumberOption) Encoder[*big.Int] { return bigEncoder(formatU128, opts) }

func U128Decoder(opts ...NumberOption) Decoder[*big.Int] { return bigDecoder(formatU128, opts) }

func U128Codec(opts ...NumberOption) Codec[*big.Int] {
	return MustCombine(U128Encoder(opts...), U128Decoder(opts...))
}

// I128Encoder encodes signed 128-bit integers in [-2^127, 2^127-1] as two's complement.
func I128Encoder(opts ...NumberOption) Encoder[*big.Int] { return bigEncoder(formatI128, opts) }

func I128Decoder(opts ...NumberOption) Decoder[*big.Int] { return bigDecoder(formatI128, opts) }

func I128Codec(opts ...NumberOption) Codec[*big.Int] {
	return MustCombine(I128Encoder(opts...), I128Decoder(opts...))
}
