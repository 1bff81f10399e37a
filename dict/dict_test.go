package dict

import (
	"testing"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/text"
	"github.com/stretchr/testify/require"
)

func TestIntIntFastPathRoundTrip(t *testing.T) {
	require := require.New(t)
	d := New[uint32, uint64](Uint32Codec{}, Uint64Codec{}, "", "")
	d.Set(3, 300)
	d.Set(1, 100)
	d.Set(2, 200)

	buf, err := codec.Encode(d)
	require.NoError(err)
	// varint(3) + 3*(4+8) bytes
	require.Len(buf, 1+36)
	// Entries must be sorted ascending by key on the wire.
	require.Equal(byte(3), buf[0])
	require.Equal([]byte{1, 0, 0, 0}, buf[1:5])

	got := New[uint32, uint64](Uint32Codec{}, Uint64Codec{}, "", "")
	require.NoError(codec.Decode(buf, got))
	require.Equal(3, got.Len())
	v, ok := got.Get(2)
	require.True(ok)
	require.Equal(uint64(200), v)
}

func TestStringIntFastPathRoundTrip(t *testing.T) {
	require := require.New(t)
	d := New[string, uint16](StringKey{}, Uint16Codec{}, "", "")
	d.Set("bob", 2)
	d.Set("alice", 1)

	// The dispatch itself, not just the wire bytes, is what the fast path
	// claim is about: a string key has no ToU64/FromU64, so this can only
	// be pathStringInt, never pathIntInt.
	_, _, kind := d.fastPath()
	require.Equal(pathStringInt, kind)

	buf, err := codec.Encode(d)
	require.NoError(err)
	// count=2, then sorted "alice" (varint len 5 + bytes) + uint16 LE,
	// then "bob" (varint len 3 + bytes) + uint16 LE.
	want := []byte{2, 5, 'a', 'l', 'i', 'c', 'e', 1, 0, 3, 'b', 'o', 'b', 2, 0}
	require.Equal(want, buf)

	got := New[string, uint16](StringKey{}, Uint16Codec{}, "", "")
	require.NoError(codec.Decode(buf, got))
	v, ok := got.Get("alice")
	require.True(ok)
	require.Equal(uint16(1), v)
	v, ok = got.Get("bob")
	require.True(ok)
	require.Equal(uint16(2), v)
}

func TestGeneralPathKindForUnrecognizedCodecs(t *testing.T) {
	require := require.New(t)
	valCodec := Adapt[text.String, *text.String]()
	d := New[uint32, text.String](Uint32Codec{}, valCodec, "", "")
	_, _, kind := d.fastPath()
	require.Equal(pathGeneral, kind)
}

func TestStringKeyJSONUsesObjectForm(t *testing.T) {
	require := require.New(t)
	d := New[string, uint16](StringKey{}, Uint16Codec{}, "", "")
	d.Set("alice", 1)
	d.Set("bob", 2)

	j, err := d.MarshalJSON()
	require.NoError(err)
	require.JSONEq(`{"alice":1,"bob":2}`, string(j))

	got := New[string, uint16](StringKey{}, Uint16Codec{}, "", "")
	require.NoError(got.UnmarshalJSON(j))
	v, ok := got.Get("bob")
	require.True(ok)
	require.Equal(uint16(2), v)
}

func TestIntKeyJSONUsesListForm(t *testing.T) {
	require := require.New(t)
	d := New[uint8, uint8](Uint8Codec{}, Uint8Codec{}, "k", "v")
	d.Set(1, 10)
	d.Set(2, 20)

	j, err := d.MarshalJSON()
	require.NoError(err)
	require.JSONEq(`[{"k":1,"v":10},{"k":2,"v":20}]`, string(j))

	got := New[uint8, uint8](Uint8Codec{}, Uint8Codec{}, "k", "v")
	require.NoError(got.UnmarshalJSON(j))
	v, ok := got.Get(1)
	require.True(ok)
	require.Equal(uint8(10), v)
}

func TestGeneralPathUsesElementCodec(t *testing.T) {
	require := require.New(t)
	valCodec := Adapt[text.String, *text.String]()
	d := New[uint32, text.String](Uint32Codec{}, valCodec, "", "")
	d.Set(1, text.String{Value: "one"})
	d.Set(2, text.String{Value: "two"})

	buf, err := codec.Encode(d)
	require.NoError(err)

	got := New[uint32, text.String](Uint32Codec{}, valCodec, "", "")
	require.NoError(codec.Decode(buf, got))
	v, ok := got.Get(2)
	require.True(ok)
	require.Equal("two", v.Value)
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	require := require.New(t)
	// Hand-build a wire buffer with count=2 but the same key twice.
	buf := []byte{2, 1, 0, 0, 0, 0xAA, 1, 0, 0, 0, 0xBB}
	got := New[uint32, uint8](Uint32Codec{}, Uint8Codec{}, "", "")
	_, err := got.DecodeFrom(buf, 0)
	require.ErrorIs(err, codec.ErrMalformed)
}

// BenchmarkEncodeIntIntFastPath measures the inlined pathIntInt loop.
func BenchmarkEncodeIntIntFastPath(b *testing.B) {
	d := New[uint32, uint64](Uint32Codec{}, Uint64Codec{}, "", "")
	for i := uint32(0); i < 1000; i++ {
		d.Set(i, uint64(i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Encode(d)
	}
}

// BenchmarkEncodeGeneralPath measures the same entry count through the
// per-element KeyCodec/ValueCodec calls pathGeneral falls back to, for a
// value type that can't satisfy fixedWidthValue.
func BenchmarkEncodeGeneralPath(b *testing.B) {
	valCodec := Adapt[text.String, *text.String]()
	d := New[uint32, text.String](Uint32Codec{}, valCodec, "", "")
	for i := uint32(0); i < 1000; i++ {
		d.Set(i, text.String{Value: "x"})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Encode(d)
	}
}

func TestEmptyDictionary(t *testing.T) {
	require := require.New(t)
	d := New[uint32, uint8](Uint32Codec{}, Uint8Codec{}, "", "")
	buf, err := codec.Encode(d)
	require.NoError(err)
	require.Equal([]byte{0}, buf)

	got := New[uint32, uint8](Uint32Codec{}, Uint8Codec{}, "", "")
	require.NoError(codec.Decode(buf, got))
	require.Equal(0, got.Len())
}
