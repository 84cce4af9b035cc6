// Package bytepack packs integers into self-delimiting byte sequences.
//
// Every byte carries seven payload bits below a continuation bit. Unlike plain
// base-128 varints, the remaining value is decremented each time a byte is
// continued, so no value has more than one encoding and every byte count
// covers its own gapless range:
//
//	0     -> 00
//	127   -> 7f
//	128   -> 80 00
//	255   -> ff 00
//	16512 -> 80 80 00
//
// Signed values keep the sign in bit 6 of the first byte and encode the
// magnitude -(v+1) of negative values, so -1 packs to 40 and the minimum of
// every width needs no special case.
//
// The codec reads and writes one byte at a time through io.ByteReader and
// io.ByteWriter and keeps no state between calls. It performs no range or
// length checks; see package checked for those.
package bytepack

import (
	"errors"
	"io"

	"github.com/rawbytedev/bytepack/internal/common"
)

var (
	ErrNegative = errors.New("bytepack: negative value for unsigned encoding")
	ErrNilValue = errors.New("bytepack: nil value")
)

// Unsigned is satisfied by every unsigned integer type.
type Unsigned = common.Unsigned

// Signed is satisfied by every signed integer type.
type Signed = common.Signed

// SinkFunc adapts a function to io.ByteWriter.
type SinkFunc func(b byte) error

func (f SinkFunc) WriteByte(b byte) error { return f(b) }

// SourceFunc adapts a function to io.ByteReader.
type SourceFunc func() (byte, error)

func (f SourceFunc) ReadByte() (byte, error) { return f() }

// nextChunk splits the low payload off a non-negative v.
func nextChunk[T common.Integer](v T) (byte, T, bool) {
	b := byte(v) & common.PayloadMask
	v >>= common.PayloadBits
	if v == 0 {
		return b, 0, false
	}
	return b | common.ContinueBit, v - 1, true
}

// firstSignedChunk builds the leading byte of a signed encoding.
func firstSignedChunk[T Signed](v T) (byte, T, bool) {
	var b byte
	if v < 0 {
		v = -(v + 1)
		b = common.SignBit
	}
	b |= byte(v) & common.SignedPayloadMask
	v >>= common.SignedPayloadBits
	if v == 0 {
		return b, 0, false
	}
	return b | common.ContinueBit, v - 1, true
}

func putChunks[T common.Integer](w io.ByteWriter, v T, n int) (int, error) {
	for {
		b, rest, more := nextChunk(v)
		if err := w.WriteByte(b); err != nil {
			return n, err
		}
		n++
		if !more {
			return n, nil
		}
		v = rest
	}
}

// PutUint writes the encoding of v to w and returns the number of bytes
// written. An error from w stops the encoding and is returned as is.
func PutUint[T Unsigned](w io.ByteWriter, v T) (int, error) {
	return putChunks(w, v, 0)
}

// PutInt writes the signed encoding of v to w and returns the number of bytes
// written.
func PutInt[T Signed](w io.ByteWriter, v T) (int, error) {
	b, rest, more := firstSignedChunk(v)
	if err := w.WriteByte(b); err != nil {
		return 0, err
	}
	if !more {
		return 1, nil
	}
	return putChunks(w, rest, 1)
}

// GetUint reads one value from r. Errors from r, io.EOF included, are
// returned unchanged. A value wider than T wraps.
func GetUint[T Unsigned](r io.ByteReader) (T, error) {
	var d UintDecoder[T]
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if d.Feed(b) {
			return d.Value(), nil
		}
	}
}

// GetInt reads one signed value from r.
func GetInt[T Signed](r io.ByteReader) (T, error) {
	var d IntDecoder[T]
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if d.Feed(b) {
			return d.Value(), nil
		}
	}
}
