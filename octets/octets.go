// Package octets implements spec §4.3: length-prefixed and fixed-size
// opaque byte containers. Decode always copies into newly owned storage,
// per §3's "views into decode buffers are not retained across return" —
// the teacher's utils/fast.Reader.Read deliberately returns a shared-memory
// view for speed (documented as such); this package accepts the one copy
// per decode that owning storage requires and documents the trade
// explicitly rather than silently aliasing the caller's buffer.
package octets

import (
	"encoding/hex"
	"strings"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// Bytes is a variable-length, varint-length-prefixed byte container.
type Bytes struct {
	Value []byte
}

func New(v []byte) *Bytes { return &Bytes{Value: v} }

func (b *Bytes) EncodedSize() int {
	return varint.Size(uint64(len(b.Value))) + len(b.Value)
}

func (b *Bytes) EncodeTo(buf []byte, offset int) (int, error) {
	size := b.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	n, err := varint.EncodeTo(uint64(len(b.Value)), buf, offset)
	if err != nil {
		return 0, err
	}
	copy(buf[offset+n:], b.Value)
	return size, nil
}

func (b *Bytes) DecodeFrom(buf []byte, offset int) (int, error) {
	length, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	if uint64(len(buf)-offset-n) < length {
		return 0, codec.ErrBufferTooSmall
	}
	owned := make([]byte, length)
	copy(owned, buf[offset+n:offset+n+int(length)])
	b.Value = owned
	return n + int(length), nil
}

func (b *Bytes) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(b.Value) + `"`), nil
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid hex for bytes: %v", err)
	}
	b.Value = raw
	return nil
}

// Fixed is a byte container of exactly N bytes, written with no length
// prefix. N is carried on the value so a zero Fixed{N: k} can be used as
// a decode target the way Uint.Width is.
type Fixed struct {
	N     int
	Value []byte
}

// NewFixed16/32/64/128/256/512/1024 are convenience aliases for the
// standard power-of-two sizes called out in §4.3; all share Fixed's
// contract, so each alias just calls this general constructor.
func NewFixed(n int, v []byte) *Fixed { return &Fixed{N: n, Value: v} }

func NewFixed16(v []byte) *Fixed   { return NewFixed(16, v) }
func NewFixed32(v []byte) *Fixed   { return NewFixed(32, v) }
func NewFixed64(v []byte) *Fixed   { return NewFixed(64, v) }
func NewFixed128(v []byte) *Fixed  { return NewFixed(128, v) }
func NewFixed256(v []byte) *Fixed  { return NewFixed(256, v) }
func NewFixed512(v []byte) *Fixed  { return NewFixed(512, v) }
func NewFixed1024(v []byte) *Fixed { return NewFixed(1024, v) }

func (f *Fixed) EncodedSize() int { return f.N }

func (f *Fixed) EncodeTo(buf []byte, offset int) (int, error) {
	if len(f.Value) != f.N {
		return 0, codec.Wrap(codec.ErrLengthPolicy, "fixed bytes: value length %d does not match declared size %d", len(f.Value), f.N)
	}
	if len(buf)-offset < f.N {
		return 0, codec.ErrBufferTooSmall
	}
	copy(buf[offset:], f.Value)
	return f.N, nil
}

func (f *Fixed) DecodeFrom(buf []byte, offset int) (int, error) {
	if len(buf)-offset < f.N {
		return 0, codec.ErrBufferTooSmall
	}
	owned := make([]byte, f.N)
	copy(owned, buf[offset:offset+f.N])
	f.Value = owned
	return f.N, nil
}

func (f *Fixed) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(f.Value) + `"`), nil
}

func (f *Fixed) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid hex for fixed bytes: %v", err)
	}
	if len(raw) != f.N {
		return codec.Wrap(codec.ErrLengthPolicy, "fixed bytes: decoded %d bytes, want %d", len(raw), f.N)
	}
	f.Value = raw
	return nil
}
