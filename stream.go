package bytepack

import "github.com/rawbytedev/bytepack/internal/common"

// accumulator holds the decode loop state shared by both decoders.
type accumulator[T common.Integer] struct {
	val   T
	shift uint
	n     int
	done  bool
}

func (a *accumulator[T]) feed(b byte) bool {
	a.val += T(b) << a.shift
	a.n++
	if b&common.ContinueBit == 0 {
		a.done = true
		return true
	}
	a.shift += common.PayloadBits
	return false
}

// UintDecoder decodes an unsigned value fed to it one byte at a time. It lets
// a caller stop between any two bytes, e.g. when a non-blocking read comes up
// short, and continue later. The zero value is ready to use.
type UintDecoder[T Unsigned] struct {
	acc accumulator[T]
}

// Feed consumes b and reports whether the value is complete. Bytes fed after
// completion are ignored until Reset.
func (d *UintDecoder[T]) Feed(b byte) bool {
	if d.acc.done {
		return true
	}
	return d.acc.feed(b)
}

// Done reports whether a terminal byte has been fed.
func (d *UintDecoder[T]) Done() bool { return d.acc.done }

// Value returns the decoded value, or the partial sum if not Done.
func (d *UintDecoder[T]) Value() T { return d.acc.val }

// Len returns the number of bytes consumed so far.
func (d *UintDecoder[T]) Len() int { return d.acc.n }

// Reset discards any partial state.
func (d *UintDecoder[T]) Reset() { d.acc = accumulator[T]{} }

// IntDecoder is the signed counterpart of UintDecoder.
type IntDecoder[T Signed] struct {
	acc accumulator[T]
	neg bool
}

func (d *IntDecoder[T]) Feed(b byte) bool {
	if d.acc.done {
		return true
	}
	if d.acc.n > 0 {
		return d.acc.feed(b)
	}
	d.neg = b&common.SignBit != 0
	d.acc.val = T(b & common.SignedPayloadMask)
	d.acc.n = 1
	if b&common.ContinueBit == 0 {
		d.acc.done = true
		return true
	}
	// the continuation bit weighs 1<<6 after a six bit chunk
	d.acc.val += 1 << common.SignedPayloadBits
	d.acc.shift = common.SignedPayloadBits
	return false
}

func (d *IntDecoder[T]) Done() bool { return d.acc.done }

// Value returns the decoded value. Before Done it is the signed partial sum.
func (d *IntDecoder[T]) Value() T {
	if d.neg {
		return -d.acc.val - 1
	}
	return d.acc.val
}

func (d *IntDecoder[T]) Len() int { return d.acc.n }

func (d *IntDecoder[T]) Reset() { *d = IntDecoder[T]{} }

// UintEncoder produces the encoding of a value one byte at a time.
type UintEncoder[T Unsigned] struct {
	v    T
	done bool
}

// NewUintEncoder returns an encoder for v.
func NewUintEncoder[T Unsigned](v T) *UintEncoder[T] {
	return &UintEncoder[T]{v: v}
}

// Next returns the next byte and whether more follow. It returns 0, false
// once the encoding is exhausted.
func (e *UintEncoder[T]) Next() (byte, bool) {
	if e.done {
		return 0, false
	}
	b, rest, more := nextChunk(e.v)
	e.v = rest
	e.done = !more
	return b, more
}

// Done reports whether every byte has been produced.
func (e *UintEncoder[T]) Done() bool { return e.done }

// IntEncoder produces the signed encoding of a value one byte at a time.
type IntEncoder[T Signed] struct {
	v       T
	started bool
	done    bool
}

func NewIntEncoder[T Signed](v T) *IntEncoder[T] {
	return &IntEncoder[T]{v: v}
}

func (e *IntEncoder[T]) Next() (byte, bool) {
	if e.done {
		return 0, false
	}
	var (
		b    byte
		rest T
		more bool
	)
	if e.started {
		b, rest, more = nextChunk(e.v)
	} else {
		b, rest, more = firstSignedChunk(e.v)
		e.started = true
	}
	e.v = rest
	e.done = !more
	return b, more
}

func (e *IntEncoder[T]) Done() bool { return e.done }
