// Package integer implements spec §4.2: fixed-width little-endian
// integers (unsigned and bias-signed) of width 1, 2, 4, or 8 bytes, plus
// a variable-width integer built directly on the varint package.
//
// Fixed-width values use encoding/binary.LittleEndian for the bulk
// pack/unpack, the same primitive axiomhq/fsst's table (de)serialization
// uses for its little-endian fields — there is no reason to hand-roll
// byte shifts when the standard library already provides the canonical
// tool for this exact job.
package integer

import (
	"encoding/binary"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// Width is a supported fixed byte width.
type Width int

const (
	W1 Width = 1
	W2 Width = 2
	W4 Width = 4
	W8 Width = 8
)

func maxUnsigned(w Width) uint64 {
	if w == 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(8*uint(w)) - 1
}

// Uint is a fixed-width unsigned integer of width W, W in {1,2,4,8}.
type Uint struct {
	Width Width
	Value uint64
}

// U8, U16, U32, U64 are convenience constructors.
func U8(v uint8) *Uint   { return &Uint{Width: W1, Value: uint64(v)} }
func U16(v uint16) *Uint { return &Uint{Width: W2, Value: uint64(v)} }
func U32(v uint32) *Uint { return &Uint{Width: W4, Value: uint64(v)} }
func U64(v uint64) *Uint { return &Uint{Width: W8, Value: v} }

// EncodedSize returns Width bytes.
func (u *Uint) EncodedSize() int { return int(u.Width) }

// EncodeTo writes Value as Width little-endian bytes.
func (u *Uint) EncodeTo(buf []byte, offset int) (int, error) {
	if u.Value > maxUnsigned(u.Width) {
		return 0, codec.Wrap(codec.ErrOutOfRange, "value %d exceeds %d-byte unsigned range", u.Value, u.Width)
	}
	if len(buf)-offset < int(u.Width) {
		return 0, codec.ErrBufferTooSmall
	}
	switch u.Width {
	case W1:
		buf[offset] = byte(u.Value)
	case W2:
		binary.LittleEndian.PutUint16(buf[offset:], uint16(u.Value))
	case W4:
		binary.LittleEndian.PutUint32(buf[offset:], uint32(u.Value))
	case W8:
		binary.LittleEndian.PutUint64(buf[offset:], u.Value)
	default:
		return 0, codec.Wrap(codec.ErrTypeMismatch, "unsupported integer width %d", u.Width)
	}
	return int(u.Width), nil
}

// DecodeFrom reads Width little-endian bytes into Value. Width must
// already be set (e.g. via U16(0) as a decode target) so the decoder
// knows how many bytes to consume.
func (u *Uint) DecodeFrom(buf []byte, offset int) (int, error) {
	w := int(u.Width)
	if w != 1 && w != 2 && w != 4 && w != 8 {
		return 0, codec.Wrap(codec.ErrTypeMismatch, "unsupported integer width %d", u.Width)
	}
	if len(buf)-offset < w {
		return 0, codec.ErrBufferTooSmall
	}
	switch u.Width {
	case W1:
		u.Value = uint64(buf[offset])
	case W2:
		u.Value = uint64(binary.LittleEndian.Uint16(buf[offset:]))
	case W4:
		u.Value = uint64(binary.LittleEndian.Uint32(buf[offset:]))
	case W8:
		u.Value = binary.LittleEndian.Uint64(buf[offset:])
	}
	return w, nil
}

// MarshalJSON renders the value as a JSON number.
func (u *Uint) MarshalJSON() ([]byte, error) {
	return []byte(jsonUint(u.Value)), nil
}

// UnmarshalJSON parses a JSON number into Value, validating it fits Width.
func (u *Uint) UnmarshalJSON(data []byte) error {
	v, err := parseJSONUint(data)
	if err != nil {
		return err
	}
	if v > maxUnsigned(u.Width) {
		return codec.Wrap(codec.ErrOutOfRange, "value %d exceeds %d-byte unsigned range", v, u.Width)
	}
	u.Value = v
	return nil
}

// Int is a fixed-width signed integer, stored biased by 2^(bits-1) on the
// wire per §4.2: the wire payload is the unsigned Uint codec applied to
// Value+bias.
type Int struct {
	Width Width
	Value int64
}

func I8(v int8) *Int   { return &Int{Width: W1, Value: int64(v)} }
func I16(v int16) *Int { return &Int{Width: W2, Value: int64(v)} }
func I32(v int32) *Int { return &Int{Width: W4, Value: int64(v)} }
func I64(v int64) *Int { return &Int{Width: W8, Value: v} }

func bias(w Width) int64 {
	return int64(1) << (8*uint(w) - 1)
}

func (i *Int) bounds() (lo, hi int64) {
	b := bias(i.Width)
	return -b, b - 1
}

// EncodedSize returns Width bytes.
func (i *Int) EncodedSize() int { return int(i.Width) }

// EncodeTo biases Value by 2^(bits-1) and writes it as an unsigned
// fixed-width integer.
func (i *Int) EncodeTo(buf []byte, offset int) (int, error) {
	lo, hi := i.bounds()
	if i.Value < lo || i.Value > hi {
		return 0, codec.Wrap(codec.ErrOutOfRange, "value %d outside %d-byte signed range", i.Value, i.Width)
	}
	u := Uint{Width: i.Width, Value: uint64(i.Value + bias(i.Width))}
	return u.EncodeTo(buf, offset)
}

// DecodeFrom reads an unsigned fixed-width integer and un-biases it.
func (i *Int) DecodeFrom(buf []byte, offset int) (int, error) {
	u := Uint{Width: i.Width}
	n, err := u.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	i.Value = int64(u.Value) - bias(i.Width)
	return n, nil
}

// VarUint is the variable-width unsigned integer of §4.2, a thin wrapper
// over the varint codec.
type VarUint struct {
	Value uint64
}

func NewVarUint(v uint64) *VarUint { return &VarUint{Value: v} }

func (v *VarUint) EncodedSize() int { return varint.Size(v.Value) }

func (v *VarUint) EncodeTo(buf []byte, offset int) (int, error) {
	return varint.EncodeTo(v.Value, buf, offset)
}

func (v *VarUint) DecodeFrom(buf []byte, offset int) (int, error) {
	val, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	v.Value = val
	return n, nil
}

func (v *VarUint) MarshalJSON() ([]byte, error) {
	return []byte(jsonUint(v.Value)), nil
}

func (v *VarUint) UnmarshalJSON(data []byte) error {
	val, err := parseJSONUint(data)
	if err != nil {
		return err
	}
	v.Value = val
	return nil
}
