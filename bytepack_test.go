package bytepack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type vector struct {
	Value string `yaml:"value"`
	Bytes string `yaml:"bytes"`
}

type vectorFile struct {
	Unsigned    []vector `yaml:"unsigned"`
	Signed      []vector `yaml:"signed"`
	BigUnsigned []vector `yaml:"big_unsigned"`
	BigSigned   []vector `yaml:"big_signed"`
}

func loadVectors(t testing.TB) vectorFile {
	raw, err := os.ReadFile("testdata/vectors.yaml")
	require.NoError(t, err)
	var vf vectorFile
	require.NoError(t, yaml.Unmarshal(raw, &vf))
	require.NotEmpty(t, vf.Unsigned)
	require.NotEmpty(t, vf.Signed)
	return vf
}

func hexOf(b []byte) string { return fmt.Sprintf("% x", b) }

func TestUnsignedVectors(t *testing.T) {
	for _, vec := range loadVectors(t).Unsigned {
		v, err := strconv.ParseUint(vec.Value, 10, 64)
		require.NoError(t, err)

		var buf bytes.Buffer
		n, err := PutUint(&buf, v)
		require.NoError(t, err)
		require.Equal(t, vec.Bytes, hexOf(buf.Bytes()), "value %d", v)
		require.Equal(t, buf.Len(), n)
		require.Equal(t, n, UintLen(v))

		got, err := GetUint[uint64](&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Zero(t, buf.Len(), "decoder left bytes behind")

		if v <= math.MaxUint32 {
			require.Equal(t, vec.Bytes, hexOf(AppendUint(nil, uint32(v))))
		}
		if v <= math.MaxUint16 {
			require.Equal(t, vec.Bytes, hexOf(AppendUint(nil, uint16(v))))
			got16, n := Uint[uint16](AppendUint(nil, uint16(v)))
			require.Equal(t, uint16(v), got16)
			require.Equal(t, UintLen(uint16(v)), n)
		}
		if v <= math.MaxUint8 {
			require.Equal(t, vec.Bytes, hexOf(AppendUint(nil, uint8(v))))
		}
	}
}

func TestSignedVectors(t *testing.T) {
	for _, vec := range loadVectors(t).Signed {
		v, err := strconv.ParseInt(vec.Value, 10, 64)
		require.NoError(t, err)

		var buf bytes.Buffer
		n, err := PutInt(&buf, v)
		require.NoError(t, err)
		require.Equal(t, vec.Bytes, hexOf(buf.Bytes()), "value %d", v)
		require.Equal(t, n, IntLen(v))

		got, err := GetInt[int64](&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)

		if v >= math.MinInt32 && v <= math.MaxInt32 {
			require.Equal(t, vec.Bytes, hexOf(AppendInt(nil, int32(v))))
		}
		if v >= math.MinInt8 && v <= math.MaxInt8 {
			require.Equal(t, vec.Bytes, hexOf(AppendInt(nil, int8(v))))
			got8, n := Int[int8](AppendInt(nil, int8(v)))
			require.Equal(t, int8(v), got8)
			require.Equal(t, IntLen(int8(v)), n)
		}
	}
}

func TestCanonicalLength(t *testing.T) {
	assert.Equal(t, []byte{0x00}, AppendUint(nil, uint64(0)))
	assert.Equal(t, []byte{0x7F}, AppendUint(nil, uint64(127)))
	assert.Len(t, AppendUint(nil, uint64(128)), 2)
	assert.Equal(t, []byte{0x00}, AppendInt(nil, int64(0)))
	assert.Equal(t, []byte{0x40}, AppendInt(nil, int64(-1)))
}

func TestExhaustiveUint16(t *testing.T) {
	seen := make(map[string]uint16, 1<<16)
	prevLen := 0
	for i := 0; i <= math.MaxUint16; i++ {
		v := uint16(i)
		enc := AppendUint(nil, v)
		requireTerminated(t, enc)
		require.GreaterOrEqual(t, len(enc), prevLen, "length shrank at %d", v)
		prevLen = len(enc)

		other, dup := seen[string(enc)]
		require.False(t, dup, "%d and %d share %x", v, other, enc)
		seen[string(enc)] = v

		got, n := Uint[uint16](enc)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	}
}

func TestExhaustiveInt16(t *testing.T) {
	seen := make(map[string]int16, 1<<16)
	for i := math.MinInt16; i <= math.MaxInt16; i++ {
		v := int16(i)
		enc := AppendInt(nil, v)
		requireTerminated(t, enc)
		require.LessOrEqual(t, len(enc), MaxIntLen[int16]())

		_, dup := seen[string(enc)]
		require.False(t, dup, "duplicate encoding for %d", v)
		seen[string(enc)] = v

		got, err := GetInt[int16](bytes.NewReader(enc))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

// Every valid two byte sequence decodes, and they cover one gapless range.
func TestTwoByteRangeIsGapless(t *testing.T) {
	var lo, hi uint64 = math.MaxUint64, 0
	values := make(map[uint64]bool)
	for a := 0x80; a <= 0xFF; a++ {
		for b := 0x00; b <= 0x7F; b++ {
			v, n := Uint[uint64]([]byte{byte(a), byte(b)})
			require.Equal(t, 2, n)
			values[v] = true
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	require.Len(t, values, 128*128)
	require.Equal(t, uint64(128), lo)
	require.Equal(t, uint64(128+128*128-1), hi)
}

func TestSignSymmetry(t *testing.T) {
	condition := func(v int64) bool {
		if v < 0 {
			v = -(v + 1)
		}
		pos := AppendInt(nil, v)
		neg := AppendInt(nil, -v-1)
		if len(pos) != len(neg) || pos[0]^neg[0] != 0x40 {
			return false
		}
		return bytes.Equal(pos[1:], neg[1:])
	}
	require.NoError(t, quick.Check(condition, nil))
}

func TestRoundTripWidths(t *testing.T) {
	require.NoError(t, quick.Check(roundTripUint[uint8], nil))
	require.NoError(t, quick.Check(roundTripUint[uint16], nil))
	require.NoError(t, quick.Check(roundTripUint[uint32], nil))
	require.NoError(t, quick.Check(roundTripUint[uint64], nil))
	require.NoError(t, quick.Check(roundTripUint[uint], nil))
	require.NoError(t, quick.Check(roundTripInt[int8], nil))
	require.NoError(t, quick.Check(roundTripInt[int16], nil))
	require.NoError(t, quick.Check(roundTripInt[int32], nil))
	require.NoError(t, quick.Check(roundTripInt[int64], nil))
	require.NoError(t, quick.Check(roundTripInt[int], nil))
}

func roundTripUint[T Unsigned](v T) bool {
	var buf bytes.Buffer
	if _, err := PutUint(&buf, v); err != nil {
		return false
	}
	if buf.Len() > MaxUintLen[T]() {
		return false
	}
	got, err := GetUint[T](&buf)
	return err == nil && got == v
}

func roundTripInt[T Signed](v T) bool {
	var buf bytes.Buffer
	if _, err := PutInt(&buf, v); err != nil {
		return false
	}
	if buf.Len() > MaxIntLen[T]() {
		return false
	}
	got, err := GetInt[T](&buf)
	return err == nil && got == v
}

func TestExtremes(t *testing.T) {
	require.True(t, roundTripUint[uint64](math.MaxUint64))
	require.True(t, roundTripInt[int64](math.MinInt64))
	require.True(t, roundTripInt[int64](math.MaxInt64))
	require.True(t, roundTripInt[int32](math.MinInt32))
	require.True(t, roundTripInt[int8](math.MinInt8))
	require.True(t, roundTripUint[uint8](math.MaxUint8))

	require.Equal(t, MaxLen64, UintLen(uint64(math.MaxUint64)))
	require.Equal(t, MaxLen64, IntLen(int64(math.MinInt64)))
	require.Equal(t, MaxLen32, UintLen(uint32(math.MaxUint32)))
	require.Equal(t, MaxLen16, UintLen(uint16(math.MaxUint16)))
	require.Equal(t, MaxLen8, UintLen(uint8(math.MaxUint8)))
}

func TestMaxLen(t *testing.T) {
	assert.Equal(t, MaxLen8, MaxUintLen[uint8]())
	assert.Equal(t, MaxLen16, MaxUintLen[uint16]())
	assert.Equal(t, MaxLen32, MaxUintLen[uint32]())
	assert.Equal(t, MaxLen64, MaxUintLen[uint64]())
	assert.Equal(t, MaxLen8, MaxIntLen[int8]())
	assert.Equal(t, MaxLen16, MaxIntLen[int16]())
	assert.Equal(t, MaxLen32, MaxIntLen[int32]())
	assert.Equal(t, MaxLen64, MaxIntLen[int64]())
}

func TestSequence(t *testing.T) {
	var buf bytes.Buffer
	values := []int64{0, -1, 1 << 40, math.MinInt64, 63, -64}
	for _, v := range values {
		_, err := PutInt(&buf, v)
		require.NoError(t, err)
	}
	for _, want := range values {
		got, err := GetInt[int64](&buf)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := GetInt[int64](&buf)
	require.ErrorIs(t, err, io.EOF)
}

var errSink = errors.New("sink closed")

func TestSinkFailureStopsEncoding(t *testing.T) {
	var out []byte
	limit := 2
	sink := SinkFunc(func(b byte) error {
		if len(out) == limit {
			return errSink
		}
		out = append(out, b)
		return nil
	})

	n, err := PutUint(sink, uint64(math.MaxUint64))
	require.ErrorIs(t, err, errSink)
	require.Equal(t, 2, n)
	require.Len(t, out, 2)

	out, limit = nil, 0
	n, err = PutInt(sink, int64(-1))
	require.ErrorIs(t, err, errSink)
	require.Zero(t, n)
}

func TestSourceFailureIsForwarded(t *testing.T) {
	// truncated after a continuation byte
	_, err := GetUint[uint32](bytes.NewReader([]byte{0x80}))
	require.Equal(t, io.EOF, err)

	_, err = GetInt[int32](bytes.NewReader([]byte{0xC0, 0x80}))
	require.Equal(t, io.EOF, err)

	calls := 0
	src := SourceFunc(func() (byte, error) {
		calls++
		if calls > 3 {
			return 0, errSink
		}
		return 0xFF, nil
	})
	_, err = GetUint[uint64](src)
	require.ErrorIs(t, err, errSink)
	require.Equal(t, 4, calls)
}

func TestSliceDecodeTruncated(t *testing.T) {
	v, n := Uint[uint64]([]byte{0x80, 0x80})
	require.Zero(t, n)
	require.Zero(t, v)

	_, n = Int[int64](nil)
	require.Zero(t, n)

	// trailing bytes are left alone
	v, n = Uint[uint64]([]byte{0xAC, 0x01, 0xFF})
	require.Equal(t, uint64(300), v)
	require.Equal(t, 2, n)
}

type celsius int16

func TestNamedTypes(t *testing.T) {
	enc := AppendInt(nil, celsius(-40))
	got, n := Int[celsius](enc)
	require.Equal(t, celsius(-40), got)
	require.Equal(t, 1, n)
}

func FuzzUintRoundTrip(f *testing.F) {
	for _, v := range []uint64{0, 127, 128, 255, 16512, math.MaxUint64} {
		f.Add(v)
	}
	f.Fuzz(func(t *testing.T, v uint64) {
		enc := AppendUint(nil, v)
		requireTerminated(t, enc)
		got, n := Uint[uint64](enc)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	})
}

func FuzzIntRoundTrip(f *testing.F) {
	for _, v := range []int64{0, -1, 63, -64, 64, math.MinInt64, math.MaxInt64} {
		f.Add(v)
	}
	f.Fuzz(func(t *testing.T, v int64) {
		enc := AppendInt(nil, v)
		requireTerminated(t, enc)
		got, n := Int[int64](enc)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	})
}

// Any terminated input decodes without panicking and re-encodes to itself
// when the value did not wrap.
func FuzzDecodeArbitrary(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0xFE, 0x02})
	f.Fuzz(func(t *testing.T, data []byte) {
		v, n := Uint[uint64](data)
		if n == 0 || n >= MaxLen64 {
			return
		}
		require.Equal(t, data[:n], AppendUint(nil, v))
	})
}

func requireTerminated(t testing.TB, enc []byte) {
	t.Helper()
	require.NotEmpty(t, enc)
	for i, b := range enc[:len(enc)-1] {
		require.NotZero(t, b&0x80, "byte %d of %x lacks the continuation bit", i, enc)
	}
	require.Zero(t, enc[len(enc)-1]&0x80, "last byte of %x is continued", enc)
}
