// Package checked wraps the bytepack codec with the limits the core leaves to
// its caller: a bounded byte supply, a bounded sink and a range check against
// the target width.
package checked

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/rawbytedev/bytepack"
	"github.com/rawbytedev/bytepack/internal/common"
)

var (
	ErrOverflow = errors.New("checked: value out of range")
	ErrTooLong  = errors.New("checked: varint exceeds maximum length")
	ErrSinkFull = errors.New("checked: sink capacity exceeded")
)

// LimitReader yields at most Max bytes from R, then ErrTooLong.
type LimitReader struct {
	R   io.ByteReader
	Max int
	n   int
}

// NewLimitReader returns a LimitReader allowing max bytes per value.
func NewLimitReader(r io.ByteReader, max int) *LimitReader {
	return &LimitReader{R: r, Max: max}
}

func (l *LimitReader) ReadByte() (byte, error) {
	if l.n >= l.Max {
		return 0, ErrTooLong
	}
	b, err := l.R.ReadByte()
	if err != nil {
		return 0, err
	}
	l.n++
	return b, nil
}

// Count returns the bytes read since the last Reset.
func (l *LimitReader) Count() int { return l.n }

// Reset rearms the limit for the next value.
func (l *LimitReader) Reset() { l.n = 0 }

// LimitWriter accepts at most Max bytes, then ErrSinkFull.
type LimitWriter struct {
	W   io.ByteWriter
	Max int
	n   int
}

func NewLimitWriter(w io.ByteWriter, max int) *LimitWriter {
	return &LimitWriter{W: w, Max: max}
}

func (l *LimitWriter) WriteByte(b byte) error {
	if l.n >= l.Max {
		return ErrSinkFull
	}
	if err := l.W.WriteByte(b); err != nil {
		return err
	}
	l.n++
	return nil
}

func (l *LimitWriter) Count() int { return l.n }

func (l *LimitWriter) Reset() { l.n = 0 }

// readErr turns an io.EOF after the first byte into io.ErrUnexpectedEOF.
func readErr(err error, read int) error {
	if err == io.EOF && read > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}

// GetUint reads one value from r and fails with ErrOverflow if it does not
// fit T. It never reads more than bytepack.MaxUintLen[T]() bytes.
func GetUint[T bytepack.Unsigned](r io.ByteReader) (T, error) {
	lr := LimitReader{R: r, Max: bytepack.MaxUintLen[T]()}
	x, err := bytepack.GetBigUint(&lr)
	if err != nil {
		return 0, readErr(err, lr.n)
	}
	if w := common.Width[T](); x.BitLen() > w {
		return 0, errors.Wrapf(ErrOverflow, "%v does not fit %d bits", x, w)
	}
	return T(x.Uint64()), nil
}

// GetInt reads one signed value from r and fails with ErrOverflow if it does
// not fit T.
func GetInt[T bytepack.Signed](r io.ByteReader) (T, error) {
	lr := LimitReader{R: r, Max: bytepack.MaxIntLen[T]()}
	x, err := bytepack.GetBigInt(&lr)
	if err != nil {
		return 0, readErr(err, lr.n)
	}
	w := common.Width[T]()
	m := x
	if x.Sign() < 0 {
		m = new(big.Int).Not(x) // -(x+1)
	}
	if m.BitLen() > w-1 {
		return 0, errors.Wrapf(ErrOverflow, "%v does not fit %d bits", x, w)
	}
	return T(x.Int64()), nil
}

// PutUint writes v to w, failing with ErrSinkFull after capacity bytes.
func PutUint[T bytepack.Unsigned](w io.ByteWriter, v T, capacity int) (int, error) {
	n, err := bytepack.PutUint(&LimitWriter{W: w, Max: capacity}, v)
	if err != nil {
		return n, errors.WithMessagef(err, "after %d of %d bytes", n, bytepack.UintLen(v))
	}
	return n, nil
}

// PutInt writes the signed encoding of v to w, failing with ErrSinkFull after
// capacity bytes.
func PutInt[T bytepack.Signed](w io.ByteWriter, v T, capacity int) (int, error) {
	n, err := bytepack.PutInt(&LimitWriter{W: w, Max: capacity}, v)
	if err != nil {
		return n, errors.WithMessagef(err, "after %d of %d bytes", n, bytepack.IntLen(v))
	}
	return n, nil
}
