package common

import (
	"math/big"
	"unsafe"
)

// Bit layout of a packed byte.
const (
	ContinueBit byte = 0x80 // more bytes follow
	SignBit     byte = 0x40 // first byte of a signed value only

	PayloadMask       byte = 0x7F
	SignedPayloadMask byte = 0x3F

	PayloadBits       = 7
	SignedPayloadBits = 6
)

// Unsigned is satisfied by every unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Signed is satisfied by every signed integer type.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Integer is satisfied by every integer type.
type Integer interface {
	Signed | Unsigned
}

// Width returns the bit width of T.
func Width[T Integer]() int {
	var v T
	return int(unsafe.Sizeof(v)) * 8
}

// MaxLen returns the smallest byte count able to hold every magnitude below
// 2^bits when the first byte carries firstBits payload bits and every later
// byte carries PayloadBits.
func MaxLen(firstBits uint, bits int) int {
	one := big.NewInt(1)
	need := new(big.Int).Lsh(one, uint(bits))
	capacity := new(big.Int)
	term := new(big.Int).Lsh(one, firstBits)
	for n := 1; ; n++ {
		capacity.Add(capacity, term)
		if capacity.Cmp(need) >= 0 {
			return n
		}
		term.Lsh(term, PayloadBits)
	}
}
