package dict

import (
	"encoding/json"
	"encoding/binary"
	"unicode/utf8"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// StringKey is the KeyCodec for K=string: a varint byte-length prefix
// followed by the raw UTF-8 bytes, lexicographically ordered. Pairing it
// with one of the UintNCodec value codecs below is the K=string, V=fixed
// width unsigned integer fast path from §4.8.
type StringKey struct{}

func (StringKey) Size(k string) int { return varint.Size(uint64(len(k))) + len(k) }

func (StringKey) EncodeTo(k string, buf []byte, offset int) (int, error) {
	n, err := varint.EncodeTo(uint64(len(k)), buf, offset)
	if err != nil {
		return 0, err
	}
	if len(buf)-offset-n < len(k) {
		return 0, codec.ErrBufferTooSmall
	}
	copy(buf[offset+n:], k)
	return n + len(k), nil
}

func (StringKey) DecodeFrom(buf []byte, offset int) (string, int, error) {
	length, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return "", 0, err
	}
	if uint64(len(buf)-offset-n) < length {
		return "", 0, codec.ErrBufferTooSmall
	}
	raw := buf[offset+n : offset+n+int(length)]
	if !utf8.Valid(raw) {
		return "", 0, codec.Wrap(codec.ErrMalformed, "invalid UTF-8 in dictionary key")
	}
	return string(raw), n + int(length), nil
}

func (StringKey) Less(a, b string) bool { return a < b }

// dictStringKey marks StringKey for the Dictionary string/int fast path in
// dict.go. A string key has no uint64 form, so it can't satisfy
// fixedWidthKey the way the UintNCodec types do; this is a separate
// dispatch signal instead.
func (StringKey) dictStringKey() {}

func (StringKey) ToJSONKey(k string) (string, bool) { return k, true }

func (StringKey) ToJSON(k string) ([]byte, error) { return json.Marshal(k) }

func (StringKey) FromJSON(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", codec.Wrap(codec.ErrMalformed, "invalid JSON string dictionary key: %v", err)
	}
	return s, nil
}

// The UintNCodec types below (Uint8Codec, Uint16Codec, Uint32Codec,
// Uint64Codec) are fixed-width little-endian
// codecs for native Go unsigned integer types. A Dictionary built from a
// matching Key/Val pair recognizes them via the fixedWidthKey/
// fixedWidthValue interfaces and takes the inlined int/int fast path;
// paired with StringKey as the key side it takes the string/int fast
// path. Either role (key or value) uses the same on-wire representation,
// so each width gets one codec type implementing both KeyCodec and
// ValueCodec.

type Uint8Codec struct{}

func (Uint8Codec) Size(uint8) int { return 1 }
func (Uint8Codec) EncodeTo(v uint8, buf []byte, offset int) (int, error) {
	if len(buf)-offset < 1 {
		return 0, codec.ErrBufferTooSmall
	}
	buf[offset] = v
	return 1, nil
}
func (Uint8Codec) DecodeFrom(buf []byte, offset int) (uint8, int, error) {
	if len(buf)-offset < 1 {
		return 0, 0, codec.ErrBufferTooSmall
	}
	return buf[offset], 1, nil
}
func (Uint8Codec) Less(a, b uint8) bool                { return a < b }
func (Uint8Codec) ToJSONKey(uint8) (string, bool)      { return "", false }
func (Uint8Codec) ToJSON(v uint8) ([]byte, error)      { return []byte(jsonUintLiteral(uint64(v))), nil }
func (Uint8Codec) FromJSON(data []byte) (uint8, error) {
	v, err := parseUintLiteral(data, 0xFF)
	return uint8(v), err
}
func (Uint8Codec) Width() int             { return 1 }
func (Uint8Codec) ToU64(v uint8) uint64   { return uint64(v) }
func (Uint8Codec) FromU64(v uint64) uint8 { return uint8(v) }

type Uint16Codec struct{}

func (Uint16Codec) Size(uint16) int { return 2 }
func (Uint16Codec) EncodeTo(v uint16, buf []byte, offset int) (int, error) {
	if len(buf)-offset < 2 {
		return 0, codec.ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint16(buf[offset:], v)
	return 2, nil
}
func (Uint16Codec) DecodeFrom(buf []byte, offset int) (uint16, int, error) {
	if len(buf)-offset < 2 {
		return 0, 0, codec.ErrBufferTooSmall
	}
	return binary.LittleEndian.Uint16(buf[offset:]), 2, nil
}
func (Uint16Codec) Less(a, b uint16) bool            { return a < b }
func (Uint16Codec) ToJSONKey(uint16) (string, bool)  { return "", false }
func (Uint16Codec) ToJSON(v uint16) ([]byte, error)  { return []byte(jsonUintLiteral(uint64(v))), nil }
func (Uint16Codec) FromJSON(data []byte) (uint16, error) {
	v, err := parseUintLiteral(data, 0xFFFF)
	return uint16(v), err
}
func (Uint16Codec) Width() int              { return 2 }
func (Uint16Codec) ToU64(v uint16) uint64   { return uint64(v) }
func (Uint16Codec) FromU64(v uint64) uint16 { return uint16(v) }

type Uint32Codec struct{}

func (Uint32Codec) Size(uint32) int { return 4 }
func (Uint32Codec) EncodeTo(v uint32, buf []byte, offset int) (int, error) {
	if len(buf)-offset < 4 {
		return 0, codec.ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint32(buf[offset:], v)
	return 4, nil
}
func (Uint32Codec) DecodeFrom(buf []byte, offset int) (uint32, int, error) {
	if len(buf)-offset < 4 {
		return 0, 0, codec.ErrBufferTooSmall
	}
	return binary.LittleEndian.Uint32(buf[offset:]), 4, nil
}
func (Uint32Codec) Less(a, b uint32) bool           { return a < b }
func (Uint32Codec) ToJSONKey(uint32) (string, bool) { return "", false }
func (Uint32Codec) ToJSON(v uint32) ([]byte, error) { return []byte(jsonUintLiteral(uint64(v))), nil }
func (Uint32Codec) FromJSON(data []byte) (uint32, error) {
	v, err := parseUintLiteral(data, 0xFFFFFFFF)
	return uint32(v), err
}
func (Uint32Codec) Width() int              { return 4 }
func (Uint32Codec) ToU64(v uint32) uint64   { return uint64(v) }
func (Uint32Codec) FromU64(v uint64) uint32 { return uint32(v) }

type Uint64Codec struct{}

func (Uint64Codec) Size(uint64) int { return 8 }
func (Uint64Codec) EncodeTo(v uint64, buf []byte, offset int) (int, error) {
	if len(buf)-offset < 8 {
		return 0, codec.ErrBufferTooSmall
	}
	binary.LittleEndian.PutUint64(buf[offset:], v)
	return 8, nil
}
func (Uint64Codec) DecodeFrom(buf []byte, offset int) (uint64, int, error) {
	if len(buf)-offset < 8 {
		return 0, 0, codec.ErrBufferTooSmall
	}
	return binary.LittleEndian.Uint64(buf[offset:]), 8, nil
}
func (Uint64Codec) Less(a, b uint64) bool           { return a < b }
func (Uint64Codec) ToJSONKey(uint64) (string, bool) { return "", false }
func (Uint64Codec) ToJSON(v uint64) ([]byte, error) { return []byte(jsonUintLiteral(v)), nil }
func (Uint64Codec) FromJSON(data []byte) (uint64, error) {
	return parseUintLiteral(data, ^uint64(0))
}
func (Uint64Codec) Width() int            { return 8 }
func (Uint64Codec) ToU64(v uint64) uint64 { return v }
func (Uint64Codec) FromU64(v uint64) uint64 { return v }

func jsonUintLiteral(v uint64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func parseUintLiteral(data []byte, max uint64) (uint64, error) {
	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, codec.Wrap(codec.ErrMalformed, "invalid JSON unsigned integer: %v", err)
	}
	if v > max {
		return 0, codec.Wrap(codec.ErrOutOfRange, "value %d exceeds declared width", v)
	}
	return v, nil
}

// Adapt wraps any type implementing codec.JSONCodec (through its pointer
// form PT) as a dict.ValueCodec, for dictionary values that are composite
// types rather than one of the built-in fixed-width codecs above. This is
// the general path: EncodeTo/DecodeFrom delegate to the per-element
// codec instead of inlining bytes.
func Adapt[T any, PT interface {
	*T
	codec.JSONCodec
}]() adaptedCodec[T, PT] {
	return adaptedCodec[T, PT]{}
}

type adaptedCodec[T any, PT interface {
	*T
	codec.JSONCodec
}] struct{}

func (adaptedCodec[T, PT]) Size(v T) int { return PT(&v).EncodedSize() }

func (adaptedCodec[T, PT]) EncodeTo(v T, buf []byte, offset int) (int, error) {
	return PT(&v).EncodeTo(buf, offset)
}

func (adaptedCodec[T, PT]) DecodeFrom(buf []byte, offset int) (T, int, error) {
	var v T
	n, err := PT(&v).DecodeFrom(buf, offset)
	return v, n, err
}

func (adaptedCodec[T, PT]) ToJSON(v T) ([]byte, error) { return PT(&v).MarshalJSON() }

func (adaptedCodec[T, PT]) FromJSON(data []byte) (T, error) {
	var v T
	err := PT(&v).UnmarshalJSON(data)
	return v, err
}
