// Package text implements spec §4.6: a length-prefixed UTF-8 string,
// where the prefix counts bytes, not code points.
package text

import (
	"unicode/utf8"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// String is a UTF-8 text value with a varint byte-length prefix.
type String struct {
	Value string
}

func New(v string) *String { return &String{Value: v} }

func (s *String) EncodedSize() int {
	return varint.Size(uint64(len(s.Value))) + len(s.Value)
}

func (s *String) EncodeTo(buf []byte, offset int) (int, error) {
	size := s.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	n, err := varint.EncodeTo(uint64(len(s.Value)), buf, offset)
	if err != nil {
		return 0, err
	}
	copy(buf[offset+n:], s.Value)
	return size, nil
}

func (s *String) DecodeFrom(buf []byte, offset int) (int, error) {
	length, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	if uint64(len(buf)-offset-n) < length {
		return 0, codec.ErrBufferTooSmall
	}
	raw := buf[offset+n : offset+n+int(length)]
	if !utf8.Valid(raw) {
		return 0, codec.Wrap(codec.ErrMalformed, "invalid UTF-8 in string payload")
	}
	s.Value = string(raw)
	return n + int(length), nil
}

func (s *String) MarshalJSON() ([]byte, error) {
	return quoteJSON(s.Value), nil
}

func (s *String) UnmarshalJSON(data []byte) error {
	v, err := unquoteJSON(data)
	if err != nil {
		return err
	}
	if !utf8.ValidString(v) {
		return codec.Wrap(codec.ErrMalformed, "invalid UTF-8 in JSON string")
	}
	s.Value = v
	return nil
}
