// Package zigzag maps signed integers onto unsigned ones so that values of
// small magnitude stay small:
//
//	+0 <-> 0
//	-1 <-> 1
//	+1 <-> 2
//	-2 <-> 3
//	+2 <-> 4
//
// Composed with bytepack.PutUint it is an alternative to bytepack.PutInt. The
// two produce different bytes and must not be mixed for one value.
package zigzag

import (
	"math/big"

	"github.com/rawbytedev/bytepack/internal/common"
)

// Encode maps v to an unsigned value. U should be at least as wide as S;
// a narrower U truncates.
//
//	u := zigzag.Encode[uint32](int32(-3)) // 5
func Encode[U common.Unsigned, S common.Signed](v S) U {
	if v < 0 {
		return U(-(v+1))<<1 | 1
	}
	return U(v) << 1
}

// Decode inverts Encode.
func Decode[S common.Signed, U common.Unsigned](u U) S {
	m := S(u >> 1)
	if u&1 != 0 {
		return -m - 1
	}
	return m
}

func Encode64(v int64) uint64 { return Encode[uint64](v) }

func Decode64(u uint64) int64 { return Decode[int64](u) }

// EncodeBig returns the zigzag image of v as a new non-negative big.Int.
func EncodeBig(v *big.Int) *big.Int {
	u := new(big.Int)
	if v.Sign() < 0 {
		u.Neg(v).Sub(u, big.NewInt(1))
		return u.Lsh(u, 1).SetBit(u, 0, 1)
	}
	return u.Lsh(v, 1)
}

// DecodeBig inverts EncodeBig. u must not be negative.
func DecodeBig(u *big.Int) *big.Int {
	m := new(big.Int).Rsh(u, 1)
	if u.Bit(0) == 1 {
		return m.Neg(m).Sub(m, big.NewInt(1))
	}
	return m
}
