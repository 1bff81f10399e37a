package codec_test

import (
	"testing"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/integer"
	"github.com/stretchr/testify/require"
)

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	require := require.New(t)
	buf, err := codec.Encode(integer.U32(7))
	require.NoError(err)
	buf = append(buf, 0xFF)

	got := &integer.Uint{Width: integer.W4}
	err = codec.Decode(buf, got)
	require.ErrorIs(err, codec.ErrMalformed)
}

func TestDecodeAcceptsExactBuffer(t *testing.T) {
	require := require.New(t)
	buf, err := codec.Encode(integer.U32(7))
	require.NoError(err)

	got := &integer.Uint{Width: integer.W4}
	require.NoError(codec.Decode(buf, got))
	require.Equal(uint64(7), got.Value)
}
