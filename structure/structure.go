// Package structure implements spec §4.9: an ordered heterogeneous tuple
// whose wire form is the concatenation of each field's own encoding, with
// no separators, padding, or length prefix — the same "no envelope
// overhead" approach as seq.Sequence's fast path, just across
// heterogeneous fields instead of homogeneous elements. It reuses the
// named-field list shape introduced by option.Choice's Alternatives.
package structure

import (
	"encoding/json"

	"github.com/Chainscore/tsrkit-types/codec"
)

// Field binds a field name to its codec-backed value. Value must be a
// non-nil pointer to a zero-valued instance of the field's type before
// DecodeFrom/UnmarshalJSON populate it in place.
type Field struct {
	Name  string
	Value codec.JSONCodec
}

// Structure is an ordered, fixed set of named fields encoded back to back
// with no delimiters. Decoding requires every declared field to be
// present; Structure itself only enforces order and completeness, not
// cross-field invariants.
type Structure struct {
	Fields []Field
}

// New builds a Structure from its ordered fields.
func New(fields ...Field) *Structure {
	return &Structure{Fields: fields}
}

func (s *Structure) EncodedSize() int {
	n := 0
	for _, f := range s.Fields {
		n += f.Value.EncodedSize()
	}
	return n
}

func (s *Structure) EncodeTo(buf []byte, offset int) (int, error) {
	n := 0
	for _, f := range s.Fields {
		fn, err := f.Value.EncodeTo(buf, offset+n)
		if err != nil {
			return 0, err
		}
		n += fn
	}
	return n, nil
}

func (s *Structure) DecodeFrom(buf []byte, offset int) (int, error) {
	n := 0
	for _, f := range s.Fields {
		fn, err := f.Value.DecodeFrom(buf, offset+n)
		if err != nil {
			return 0, err
		}
		n += fn
	}
	return n, nil
}

// MarshalJSON renders the structure as a JSON object keyed by field name,
// in declaration order.
func (s *Structure) MarshalJSON() ([]byte, error) {
	out := []byte{'{'}
	for i, f := range s.Fields {
		if i > 0 {
			out = append(out, ',')
		}
		name, _ := json.Marshal(f.Name)
		out = append(out, name...)
		out = append(out, ':')
		fj, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out = append(out, fj...)
	}
	out = append(out, '}')
	return out, nil
}

// UnmarshalJSON requires every declared field to be present in the input
// object; unknown keys in the input are ignored.
func (s *Structure) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid structure object: %v", err)
	}
	for _, f := range s.Fields {
		raw, ok := obj[f.Name]
		if !ok {
			return codec.Wrap(codec.ErrMalformed, "structure missing required field %q", f.Name)
		}
		if err := f.Value.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	return nil
}
