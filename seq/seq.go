// Package seq implements spec §4.5: a homogeneous sequence of fixed-width
// unsigned integers with a bulk encode/decode fast path, as called out in
// spec §9 ("an implementation that only uses the generic per-element call
// path will be correct but substantially slower").
//
// The fast path dispatches on element byte width once per call and then
// writes/reads every element with encoding/binary, the same little-endian
// bulk primitive used by the fixed-width scalar codecs in package
// integer — see that package's doc comment for where the convention comes
// from.
package seq

import (
	"encoding/binary"
	"encoding/json"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// Unsigned is the set of element types a Sequence can hold.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Sequence is an ordered, homogeneous vector of fixed-width unsigned
// integers with an optional length policy (fixed, with no length prefix on
// the wire, when built by NewFixed or when minLen == maxLen > 0).
type Sequence[T Unsigned] struct {
	Values []T
	minLen int
	maxLen int
	fixed  bool
}

// NewFixed returns an empty Sequence whose length policy is fixed at n:
// every mutation must leave exactly n elements, so it is filled by a
// single Extend of n values.
func NewFixed[T Unsigned](n int) *Sequence[T] {
	return &Sequence[T]{Values: make([]T, 0, n), minLen: n, maxLen: n, fixed: true}
}

// NewBounded returns a Sequence whose length must stay within [min, max].
func NewBounded[T Unsigned](min, max int) *Sequence[T] {
	return &Sequence[T]{minLen: min, maxLen: max}
}

// NewFree returns a Sequence with no length bound.
func NewFree[T Unsigned]() *Sequence[T] {
	return &Sequence[T]{minLen: 0, maxLen: -1}
}

// Of wraps an existing slice as a free-length Sequence.
func Of[T Unsigned](vs []T) *Sequence[T] {
	return &Sequence[T]{Values: vs, minLen: 0, maxLen: -1}
}

func elemWidth[T Unsigned]() int {
	switch uint64(^T(0)) {
	case 1<<8 - 1:
		return 1
	case 1<<16 - 1:
		return 2
	case 1<<32 - 1:
		return 4
	default:
		return 8
	}
}

func maxValue[T Unsigned]() uint64 {
	switch elemWidth[T]() {
	case 1:
		return 1<<8 - 1
	case 2:
		return 1<<16 - 1
	case 4:
		return 1<<32 - 1
	default:
		return ^uint64(0)
	}
}

func (s *Sequence[T]) isFixed() bool {
	return s.fixed || (s.minLen == s.maxLen && s.minLen > 0)
}

func (s *Sequence[T]) withinPolicy(n int) bool {
	if n < s.minLen {
		return false
	}
	if s.maxLen >= 0 && n > s.maxLen {
		return false
	}
	return true
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int { return len(s.Values) }

// Get returns the element at index i.
func (s *Sequence[T]) Get(i int) T { return s.Values[i] }

// Set overwrites the element at index i without changing the length.
func (s *Sequence[T]) Set(i int, v T) error {
	if i < 0 || i >= len(s.Values) {
		return codec.Wrap(codec.ErrLengthPolicy, "index %d out of range [0,%d)", i, len(s.Values))
	}
	s.Values[i] = v
	return nil
}

func (s *Sequence[T]) grow(n int) {
	if cap(s.Values) >= n {
		return
	}
	newCap := cap(s.Values) * 2
	if newCap < n {
		newCap = n
	}
	nv := make([]T, len(s.Values), newCap)
	copy(nv, s.Values)
	s.Values = nv
}

// Append adds v to the end of the sequence.
func (s *Sequence[T]) Append(v T) error {
	n := len(s.Values) + 1
	if !s.withinPolicy(n) {
		return codec.Wrap(codec.ErrLengthPolicy, "appending would make length %d exceed bounds [%d,%d]", n, s.minLen, s.maxLen)
	}
	s.grow(n)
	s.Values = append(s.Values, v)
	return nil
}

// AppendU64 appends v after checking it is representable in T's width,
// for callers building a sequence from dynamically typed input (e.g. a
// dictionary fast path) rather than statically typed T values.
func (s *Sequence[T]) AppendU64(v uint64) error {
	if v > maxValue[T]() {
		return codec.Wrap(codec.ErrOutOfRange, "value %d exceeds %d-byte element range", v, elemWidth[T]())
	}
	return s.Append(T(v))
}

// Extend appends each element of vs as a single mutation.
func (s *Sequence[T]) Extend(vs []T) error {
	n := len(s.Values) + len(vs)
	if !s.withinPolicy(n) {
		return codec.Wrap(codec.ErrLengthPolicy, "extending would make length %d exceed bounds [%d,%d]", n, s.minLen, s.maxLen)
	}
	s.grow(n)
	s.Values = append(s.Values, vs...)
	return nil
}

// Insert inserts v at index i, shifting subsequent elements up by one.
func (s *Sequence[T]) Insert(i int, v T) error {
	if i < 0 || i > len(s.Values) {
		return codec.Wrap(codec.ErrLengthPolicy, "insert index %d out of range [0,%d]", i, len(s.Values))
	}
	n := len(s.Values) + 1
	if !s.withinPolicy(n) {
		return codec.Wrap(codec.ErrLengthPolicy, "inserting would make length %d exceed bounds [%d,%d]", n, s.minLen, s.maxLen)
	}
	s.grow(n)
	s.Values = append(s.Values, v)
	copy(s.Values[i+1:], s.Values[i:len(s.Values)-1])
	s.Values[i] = v
	return nil
}

// Pop removes and returns the element at index i (defaulting to the last).
func (s *Sequence[T]) Pop(i ...int) (T, error) {
	idx := len(s.Values) - 1
	if len(i) > 0 {
		idx = i[0]
	}
	var zero T
	if len(s.Values) == 0 || idx < 0 || idx >= len(s.Values) {
		return zero, codec.Wrap(codec.ErrLengthPolicy, "pop index %d out of range [0,%d)", idx, len(s.Values))
	}
	n := len(s.Values) - 1
	if !s.withinPolicy(n) {
		return zero, codec.Wrap(codec.ErrLengthPolicy, "popping would make length %d fall below bound %d", n, s.minLen)
	}
	v := s.Values[idx]
	s.Values = append(s.Values[:idx], s.Values[idx+1:]...)
	return v, nil
}

// EncodedSize returns the exact encoded length.
func (s *Sequence[T]) EncodedSize() int {
	n := len(s.Values) * elemWidth[T]()
	if !s.isFixed() {
		n += varint.Size(uint64(len(s.Values)))
	}
	return n
}

// EncodeTo implements codec.Codec using the bulk fast path.
func (s *Sequence[T]) EncodeTo(buf []byte, offset int) (int, error) {
	size := s.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	n := 0
	if !s.isFixed() {
		written, err := varint.EncodeTo(uint64(len(s.Values)), buf, offset)
		if err != nil {
			return 0, err
		}
		n += written
	}
	payload := buf[offset+n:]
	switch elemWidth[T]() {
	case 1:
		for i, v := range s.Values {
			payload[i] = byte(v)
		}
	case 2:
		for i, v := range s.Values {
			binary.LittleEndian.PutUint16(payload[i*2:], uint16(v))
		}
	case 4:
		for i, v := range s.Values {
			binary.LittleEndian.PutUint32(payload[i*4:], uint32(v))
		}
	case 8:
		for i, v := range s.Values {
			binary.LittleEndian.PutUint64(payload[i*8:], uint64(v))
		}
	}
	return size, nil
}

// DecodeFrom implements codec.Codec using the bulk fast path. Bounds are
// checked explicitly before the fast path reads directly from buf, since
// there is no Reader wrapping buf to enforce them.
func (s *Sequence[T]) DecodeFrom(buf []byte, offset int) (int, error) {
	n := 0
	length := s.minLen
	if !s.isFixed() {
		l, read, err := varint.DecodeFrom(buf, offset)
		if err != nil {
			return 0, err
		}
		length = int(l)
		n += read
		if !s.withinPolicy(length) {
			return 0, codec.Wrap(codec.ErrLengthPolicy, "decoded length %d outside bounds [%d,%d]", length, s.minLen, s.maxLen)
		}
	}
	w := elemWidth[T]()
	if length > (len(buf)-offset-n)/w {
		return 0, codec.ErrBufferTooSmall
	}
	need := length * w
	payload := buf[offset+n : offset+n+need]
	values := make([]T, length)
	switch w {
	case 1:
		for i := range values {
			values[i] = T(payload[i])
		}
	case 2:
		for i := range values {
			values[i] = T(binary.LittleEndian.Uint16(payload[i*2:]))
		}
	case 4:
		for i := range values {
			values[i] = T(binary.LittleEndian.Uint32(payload[i*4:]))
		}
	case 8:
		for i := range values {
			values[i] = T(binary.LittleEndian.Uint64(payload[i*8:]))
		}
	}
	s.Values = values
	return n + need, nil
}

// MarshalJSON renders the sequence as a JSON array of numbers.
func (s *Sequence[T]) MarshalJSON() ([]byte, error) {
	out := []byte{'['}
	for i, v := range s.Values {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, []byte(formatUint(uint64(v)))...)
	}
	out = append(out, ']')
	return out, nil
}

// UnmarshalJSON parses a JSON array of numbers, validating each fits T's
// width.
func (s *Sequence[T]) UnmarshalJSON(data []byte) error {
	var raw []uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid JSON sequence: %v", err)
	}
	vals := make([]T, len(raw))
	for i, v := range raw {
		if v > maxValue[T]() {
			return codec.Wrap(codec.ErrOutOfRange, "element %d value %d exceeds %d-byte element range", i, v, elemWidth[T]())
		}
		vals[i] = T(v)
	}
	s.Values = vals
	return nil
}

func formatUint(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
