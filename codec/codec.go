// Package codec defines the uniform contract every value type in this
// module implements: exact size, allocating and in-place encode, and
// offset-driven decode. Composite types (structures, options, choices,
// sequences) compose by holding child codecs and invoking this same
// contract recursively — there is no special-cased dispatch anywhere
// above this package.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error taxonomy. Every failure in this module is one of these five kinds,
// wrapped with errors.Is-compatible context where useful.
var (
	// ErrBufferTooSmall is returned when an output buffer cannot hold the
	// encoded value, or an input buffer is exhausted before decode
	// finishes.
	ErrBufferTooSmall = errors.New("tsrkit-types: buffer too small")

	// ErrMalformed is returned for structurally invalid input: an
	// oversized varint, invalid UTF-8, an unknown discriminator, a
	// non-well-formed JSON mapping, or unconsumed trailing bytes.
	ErrMalformed = errors.New("tsrkit-types: malformed input")

	// ErrLengthPolicy is returned when a container's length falls outside
	// its declared [min, max] (or fixed N) bound.
	ErrLengthPolicy = errors.New("tsrkit-types: length outside declared bounds")

	// ErrTypeMismatch is returned when a supplied element is not an
	// instance of the container's declared element type.
	ErrTypeMismatch = errors.New("tsrkit-types: value is not of the declared element type")

	// ErrOutOfRange is returned when an integer value exceeds the byte
	// width or bit width declared for it.
	ErrOutOfRange = errors.New("tsrkit-types: value exceeds declared numeric range")
)

// Wrap attaches a short, static description to one of the sentinel errors
// above without losing errors.Is compatibility.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// Codec is implemented by every value type in this module, almost always
// on the pointer form *V of a value type V, so that DecodeFrom can
// populate the receiver in place.
type Codec interface {
	// EncodedSize returns the exact number of bytes Encode would produce.
	EncodedSize() int

	// EncodeTo writes the encoding into buf starting at offset and
	// returns the number of bytes written. It fails with
	// ErrBufferTooSmall if buf[offset:] is shorter than EncodedSize().
	EncodeTo(buf []byte, offset int) (int, error)

	// DecodeFrom parses the receiver's representation from buf starting
	// at offset and returns the number of bytes consumed.
	DecodeFrom(buf []byte, offset int) (int, error)
}

// JSONCodec is Codec plus the JSON half of the §4.10 contract. Composite
// types (option, choice, dictionary, structure) require this rather than
// bare Codec for their element types, since they must produce the
// parallel JSON form too.
type JSONCodec interface {
	Codec
	json.Marshaler
	json.Unmarshaler
}

// Encode allocates and returns the exact encoding of v, using v's own
// EncodedSize to size the one allocation this function performs.
func Encode(v Codec) ([]byte, error) {
	buf := make([]byte, v.EncodedSize())
	n, err := v.EncodeTo(buf, 0)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Decode parses v's representation from the start of buf and requires the
// whole of buf to be consumed; a container decode that stops short leaves
// trailing bytes unaccounted for, which Decode rejects as malformed. Use
// DecodeFrom directly when buf legitimately holds more than one value
// back to back (e.g. to decode a second value immediately after).
func Decode(buf []byte, v Codec) error {
	n, err := v.DecodeFrom(buf, 0)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return Wrap(ErrMalformed, "decode consumed %d of %d bytes, trailing data unaccounted for", n, len(buf))
	}
	return nil
}

// New returns the addressable zero value of T, for generic helpers that
// need to allocate a fresh decode target.
func New[T any]() *T {
	var v T
	return &v
}

// DecodeNew decodes a fresh *T from the start of buf and returns it along
// with the number of bytes consumed. PT must be *T implementing Codec;
// Go's generic constraint system has no direct way to express "the
// pointer type of T implements Codec" without this second parameter.
func DecodeNew[T any, PT interface {
	*T
	Codec
}](buf []byte) (T, int, error) {
	v := New[T]()
	n, err := PT(v).DecodeFrom(buf, 0)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return *v, n, nil
}
