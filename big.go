package bytepack

import (
	"io"
	"math/big"

	"github.com/rawbytedev/bytepack/internal/common"
)

var bigOne = big.NewInt(1)

// lowByte returns the least significant byte of a non-negative x.
func lowByte(x *big.Int) byte {
	words := x.Bits()
	if len(words) == 0 {
		return 0
	}
	return byte(words[0])
}

// putBigChunks consumes m.
func putBigChunks(w io.ByteWriter, m *big.Int, n int) (int, error) {
	for {
		b := lowByte(m) & common.PayloadMask
		m.Rsh(m, common.PayloadBits)
		more := m.Sign() != 0
		if more {
			m.Sub(m, bigOne)
			b |= common.ContinueBit
		}
		if err := w.WriteByte(b); err != nil {
			return n, err
		}
		n++
		if !more {
			return n, nil
		}
	}
}

// PutBigUint writes the encoding of x, which must not be negative. The
// output matches PutUint for every x that fits a uint64.
func PutBigUint(w io.ByteWriter, x *big.Int) (int, error) {
	if x == nil {
		return 0, ErrNilValue
	}
	if x.Sign() < 0 {
		return 0, ErrNegative
	}
	return putBigChunks(w, new(big.Int).Set(x), 0)
}

// PutBigInt writes the signed encoding of x.
func PutBigInt(w io.ByteWriter, x *big.Int) (int, error) {
	if x == nil {
		return 0, ErrNilValue
	}
	m := new(big.Int)
	var b byte
	if x.Sign() < 0 {
		m.Neg(x).Sub(m, bigOne)
		b = common.SignBit
	} else {
		m.Set(x)
	}
	b |= lowByte(m) & common.SignedPayloadMask
	m.Rsh(m, common.SignedPayloadBits)
	if m.Sign() == 0 {
		if err := w.WriteByte(b); err != nil {
			return 0, err
		}
		return 1, nil
	}
	m.Sub(m, bigOne)
	if err := w.WriteByte(b | common.ContinueBit); err != nil {
		return 0, err
	}
	return putBigChunks(w, m, 1)
}

// getBigChunks adds continuation bytes from r to val starting at shift.
func getBigChunks(r io.ByteReader, val *big.Int, shift uint) (*big.Int, error) {
	term := new(big.Int)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		term.SetUint64(uint64(b))
		val.Add(val, term.Lsh(term, shift))
		if b&common.ContinueBit == 0 {
			return val, nil
		}
		shift += common.PayloadBits
	}
}

// GetBigUint reads one value of any size from r.
func GetBigUint(r io.ByteReader) (*big.Int, error) {
	return getBigChunks(r, new(big.Int), 0)
}

// GetBigInt reads one signed value of any size from r.
func GetBigInt(r io.ByteReader) (*big.Int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	m := new(big.Int).SetUint64(uint64(b & common.SignedPayloadMask))
	if b&common.ContinueBit != 0 {
		m.Add(m, big.NewInt(1<<common.SignedPayloadBits))
		if m, err = getBigChunks(r, m, common.SignedPayloadBits); err != nil {
			return nil, err
		}
	}
	if b&common.SignBit != 0 {
		m.Neg(m).Sub(m, bigOne)
	}
	return m, nil
}
