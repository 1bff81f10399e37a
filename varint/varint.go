// Package varint implements the canonical variable-length unsigned integer
// scheme used throughout this module for compact integers and length
// prefixes. Every value in [0, 2^64-1] has exactly one encoding:
//
//	v < 2^7   -> 1 byte,  high bit 0
//	v < 2^56  -> 1+L bytes, L in 1..7, unary prefix of L set bits in byte 0
//	otherwise -> 9 bytes, byte 0 = 0xFF, followed by little-endian v
//
// This is the "hard part" the rest of the module's length prefixes,
// dictionary counts, and choice discriminators are built on; every
// package with a length prefix, count, or discriminator imports this one.
package varint

import (
	"github.com/Chainscore/tsrkit-types/codec"
)

// MaxLen is the longest an encoded varint can be.
const MaxLen = 9

// bitLen returns the position (1-indexed) of the highest set bit in v, or
// 0 if v is zero. Equivalent to bits.Len64 but kept local to avoid a
// stdlib import for a one-line operation used only here.
func bitLen(v uint64) int {
	n := 0
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}

// Size returns the number of bytes Encode(v) would produce, without
// allocating.
func Size(v uint64) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<56:
		bl := bitLen(v)
		l := (bl - 1) / 7
		if l < 1 {
			l = 1
		}
		return l + 1
	default:
		return 9
	}
}

// Encode returns the canonical varint encoding of v.
func Encode(v uint64) []byte {
	buf := make([]byte, Size(v))
	n, _ := EncodeTo(v, buf, 0)
	return buf[:n]
}

// EncodeTo writes the canonical varint encoding of v into buf at offset,
// returning the number of bytes written. It fails with
// codec.ErrBufferTooSmall if buf[offset:] is too short.
func EncodeTo(v uint64, buf []byte, offset int) (int, error) {
	size := Size(v)
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	switch {
	case v < 1<<7:
		buf[offset] = byte(v)
		return 1, nil
	case v < 1<<56:
		l := size - 1
		high := v >> uint(8*l)
		buf[offset] = byte(256-uint64(1)<<uint(8-l)) + byte(high)
		rest := v & (uint64(1)<<uint(8*l) - 1)
		for i := 0; i < l; i++ {
			buf[offset+1+i] = byte(rest >> uint(8*i))
		}
		return size, nil
	default:
		buf[offset] = 0xFF
		for i := 0; i < 8; i++ {
			buf[offset+1+i] = byte(v >> uint(8*i))
		}
		return 9, nil
	}
}

// leadingOnes counts the number of consecutive set bits starting from the
// most significant bit of an 8-bit value, capped at 7 (a byte with all 8
// bits set is handled by the 0xFF case in Decode before this is called).
func leadingOnes(t byte) int {
	n := 0
	for n < 8 && t&(0x80>>uint(n)) != 0 {
		n++
	}
	return n
}

// Decode parses a canonical varint from the start of buf, returning the
// value and the number of bytes consumed.
func Decode(buf []byte) (uint64, int, error) {
	return DecodeFrom(buf, 0)
}

// DecodeFrom parses a canonical varint from buf starting at offset.
func DecodeFrom(buf []byte, offset int) (uint64, int, error) {
	if offset >= len(buf) {
		return 0, 0, codec.ErrBufferTooSmall
	}
	t := buf[offset]
	switch {
	case t < 0x80:
		return uint64(t), 1, nil
	case t == 0xFF:
		if len(buf)-offset < 9 {
			return 0, 0, codec.ErrBufferTooSmall
		}
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(buf[offset+1+i]) << uint(8*i)
		}
		// Canonical form: values < 2^56 must use the shorter unary-prefix
		// encoding, never the 9-byte escape.
		if v < 1<<56 {
			return 0, 0, codec.Wrap(codec.ErrMalformed, "non-canonical 9-byte varint for value < 2^56")
		}
		return v, 9, nil
	default:
		l := leadingOnes(t)
		size := l + 1
		if len(buf)-offset < size {
			return 0, 0, codec.ErrBufferTooSmall
		}
		high := uint64(t) - (256 - uint64(1)<<uint(8-l))
		var rest uint64
		for i := 0; i < l; i++ {
			rest |= uint64(buf[offset+1+i]) << uint(8*i)
		}
		v := (high << uint(8*l)) | rest
		// Canonical form: the unary-prefix length must be the minimal one
		// for v — reject a longer prefix than Size(v) would choose.
		if Size(v) != size {
			return 0, 0, codec.Wrap(codec.ErrMalformed, "non-canonical varint length for value %d", v)
		}
		return v, size, nil
	}
}
