package integer

import (
	"testing"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/stretchr/testify/require"
)

func TestUintRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		v    *Uint
	}{
		{"u8", U8(0xAB)},
		{"u16", U16(0xBEEF)},
		{"u32", U32(0xDEADBEEF)},
		{"u64", U64(0xDEADBEEFCAFEBABE)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			buf, err := codec.Encode(tc.v)
			require.NoError(err)
			require.Len(buf, int(tc.v.Width))

			got := &Uint{Width: tc.v.Width}
			require.NoError(codec.Decode(buf, got))
			require.Equal(tc.v.Value, got.Value)

			j, err := tc.v.MarshalJSON()
			require.NoError(err)
			jgot := &Uint{Width: tc.v.Width}
			require.NoError(jgot.UnmarshalJSON(j))
			require.Equal(tc.v.Value, jgot.Value)
		})
	}
}

func TestUintOutOfRange(t *testing.T) {
	require := require.New(t)
	u := &Uint{Width: W1, Value: 256}
	_, err := codec.Encode(u)
	require.ErrorIs(err, codec.ErrOutOfRange)
}

func TestUintJSONOutOfRange(t *testing.T) {
	require := require.New(t)
	u := &Uint{Width: W1}
	err := u.UnmarshalJSON([]byte("256"))
	require.ErrorIs(err, codec.ErrOutOfRange)
}

func TestIntRoundTrip(t *testing.T) {
	cases := []*Int{I8(-1), I8(127), I16(-32768), I32(-1), I64(-9223372036854775808), I64(9223372036854775807)}
	for _, tc := range cases {
		buf, err := codec.Encode(tc)
		require.NoError(t, err)

		got := &Int{Width: tc.Width}
		require.NoError(t, codec.Decode(buf, got))
		require.Equal(t, tc.Value, got.Value)
	}
}

func TestIntOutOfRange(t *testing.T) {
	require := require.New(t)
	i := &Int{Width: W1, Value: 128}
	_, err := codec.Encode(i)
	require.ErrorIs(err, codec.ErrOutOfRange)
}

func TestIntBiasMatchesWireValue(t *testing.T) {
	require := require.New(t)
	// -1 at width 1 biases to 127 (2^7 - 1), which is 0x7F on the wire.
	i := I8(-1)
	buf, err := codec.Encode(i)
	require.NoError(err)
	require.Equal([]byte{0x7F}, buf)
}

func TestVarUintRoundTrip(t *testing.T) {
	require := require.New(t)
	v := NewVarUint(1 << 40)
	buf, err := codec.Encode(v)
	require.NoError(err)

	got := &VarUint{}
	require.NoError(codec.Decode(buf, got))
	require.Equal(v.Value, got.Value)
}

func TestUintDecodeBufferTooSmall(t *testing.T) {
	require := require.New(t)
	u := &Uint{Width: W4}
	_, err := u.DecodeFrom([]byte{1, 2}, 0)
	require.ErrorIs(err, codec.ErrBufferTooSmall)
}
