package varint

import (
	"testing"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/stretchr/testify/require"
)

// TestWorkedExamples pins the encoder to the four concrete byte sequences
// spelled out for the canonical scheme.
func TestWorkedExamples(t *testing.T) {
	cases := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"127", 127, []byte{0x7F}},
		{"128", 128, []byte{0x80, 0x80}},
		{"2^56-1", 1<<56 - 1, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"2^56", 1 << 56, []byte{0xFF, 0, 0, 0, 0, 0, 0, 0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			got := Encode(tc.v)
			require.Equal(tc.want, got)

			v, n, err := Decode(got)
			require.NoError(err)
			require.Equal(tc.v, v)
			require.Equal(len(tc.want), n)
		})
	}
}

// TestRoundTrip sweeps bit-length boundaries rather than every value.
func TestRoundTrip(t *testing.T) {
	require := require.New(t)
	var values []uint64
	for shift := uint(0); shift <= 64; shift++ {
		var base uint64
		if shift < 64 {
			base = uint64(1) << shift
		} else {
			base = ^uint64(0)
		}
		values = append(values, base, base-1, base+1)
	}
	for _, v := range values {
		buf := Encode(v)
		require.Equal(Size(v), len(buf), "value %d", v)
		got, n, err := Decode(buf)
		require.NoError(err)
		require.Equal(v, got, "value %d", v)
		require.Equal(len(buf), n)
	}
}

func TestDecodeRejectsNonCanonicalNineByteEscape(t *testing.T) {
	require := require.New(t)
	// 9-byte escape encoding a value < 2^56, which should always use the
	// shorter unary-prefix form instead.
	buf := []byte{0xFF, 1, 0, 0, 0, 0, 0, 0, 0}
	_, _, err := Decode(buf)
	require.ErrorIs(err, codec.ErrMalformed)
}

func TestDecodeRejectsNonMinimalPrefixLength(t *testing.T) {
	require := require.New(t)
	// Value 1 canonically fits in 1 byte; force a 2-byte unary-prefix
	// encoding of it instead.
	buf := []byte{0x80, 1}
	_, _, err := Decode(buf)
	require.ErrorIs(err, codec.ErrMalformed)
}

func TestDecodeTruncated(t *testing.T) {
	require := require.New(t)
	full := Encode(1 << 20)
	_, _, err := Decode(full[:len(full)-1])
	require.ErrorIs(err, codec.ErrBufferTooSmall)
}

func TestDecodeEmptyBuffer(t *testing.T) {
	require := require.New(t)
	_, _, err := Decode(nil)
	require.ErrorIs(err, codec.ErrBufferTooSmall)
}

func TestEncodeToBufferTooSmall(t *testing.T) {
	require := require.New(t)
	buf := make([]byte, 1)
	_, err := EncodeTo(1<<20, buf, 0)
	require.ErrorIs(err, codec.ErrBufferTooSmall)
}

// BenchmarkEncodeTo measures the reused-buffer encode path every length
// prefix, dictionary count, and choice discriminator goes through.
func BenchmarkEncodeTo(b *testing.B) {
	buf := make([]byte, 9)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EncodeTo(uint64(i), buf, 0)
	}
}

// BenchmarkDecodeFrom measures the matching decode path.
func BenchmarkDecodeFrom(b *testing.B) {
	buf := Encode(1 << 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = DecodeFrom(buf, 0)
	}
}
