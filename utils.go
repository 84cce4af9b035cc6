package bytepack

import "github.com/rawbytedev/bytepack/internal/common"

// Widest encodings of the fixed-width types.
const (
	MaxLen8  = 2
	MaxLen16 = 3
	MaxLen32 = 5
	MaxLen64 = 10
)

// AppendUint appends the encoding of v to dst.
func AppendUint[T Unsigned](dst []byte, v T) []byte {
	for {
		b, rest, more := nextChunk(v)
		dst = append(dst, b)
		if !more {
			return dst
		}
		v = rest
	}
}

// AppendInt appends the signed encoding of v to dst.
func AppendInt[T Signed](dst []byte, v T) []byte {
	b, rest, more := firstSignedChunk(v)
	dst = append(dst, b)
	for more {
		b, rest, more = nextChunk(rest)
		dst = append(dst, b)
	}
	return dst
}

// Uint decodes a value from the front of b and returns it with the number of
// bytes read. n is 0 if b ends before a terminal byte.
func Uint[T Unsigned](b []byte) (v T, n int) {
	var d UintDecoder[T]
	for i, c := range b {
		if d.Feed(c) {
			return d.Value(), i + 1
		}
	}
	return 0, 0
}

// Int decodes a signed value from the front of b.
func Int[T Signed](b []byte) (v T, n int) {
	var d IntDecoder[T]
	for i, c := range b {
		if d.Feed(c) {
			return d.Value(), i + 1
		}
	}
	return 0, 0
}

// UintLen returns the number of bytes PutUint writes for v.
func UintLen[T Unsigned](v T) int {
	n := 1
	for {
		_, rest, more := nextChunk(v)
		if !more {
			return n
		}
		v = rest
		n++
	}
}

// IntLen returns the number of bytes PutInt writes for v.
func IntLen[T Signed](v T) int {
	_, rest, more := firstSignedChunk(v)
	if !more {
		return 1
	}
	for n := 2; ; n++ {
		_, rest, more = nextChunk(rest)
		if !more {
			return n
		}
	}
}

// MaxUintLen returns the widest encoding of any T.
func MaxUintLen[T Unsigned]() int {
	return common.MaxLen(common.PayloadBits, common.Width[T]())
}

// MaxIntLen returns the widest signed encoding of any T.
func MaxIntLen[T Signed]() int {
	return common.MaxLen(common.SignedPayloadBits, common.Width[T]()-1)
}
