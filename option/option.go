// Package option implements spec §4.7: Null, Option(T), and Choice, the
// tagged-sum types. Option and Choice share the same shape — a small
// discriminator followed by zero or one child encodings, while Null has no
// discriminator and encodes to zero bytes — generalizing the type-prefix
// trick the teacher's transaction serializer uses to distinguish Legacy,
// AccessList, and DynamicFee transactions on the wire.
package option

import (
	"encoding/json"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// Null encodes to zero bytes.
type Null struct{}

func (Null) EncodedSize() int                            { return 0 }
func (Null) EncodeTo(buf []byte, offset int) (int, error) { return 0, nil }
func (*Null) DecodeFrom(buf []byte, offset int) (int, error) {
	return 0, nil
}
func (Null) MarshalJSON() ([]byte, error)    { return []byte("null"), nil }
func (*Null) UnmarshalJSON(data []byte) error { return nil }

// Option holds exactly one of { absent, present(T) }. PT must be *T
// implementing codec.JSONCodec, the same pointer-constraint trick used by
// codec.DecodeNew.
type Option[T any, PT interface {
	*T
	codec.JSONCodec
}] struct {
	Present bool
	Value   T
}

// Some returns a present Option wrapping v.
func Some[T any, PT interface {
	*T
	codec.JSONCodec
}](v T) *Option[T, PT] {
	return &Option[T, PT]{Present: true, Value: v}
}

// None returns an absent Option.
func None[T any, PT interface {
	*T
	codec.JSONCodec
}]() *Option[T, PT] {
	return &Option[T, PT]{}
}

func (o *Option[T, PT]) EncodedSize() int {
	if !o.Present {
		return 1
	}
	return 1 + PT(&o.Value).EncodedSize()
}

func (o *Option[T, PT]) EncodeTo(buf []byte, offset int) (int, error) {
	size := o.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	if !o.Present {
		buf[offset] = 0
		return 1, nil
	}
	buf[offset] = 1
	n, err := PT(&o.Value).EncodeTo(buf, offset+1)
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

func (o *Option[T, PT]) DecodeFrom(buf []byte, offset int) (int, error) {
	if len(buf)-offset < 1 {
		return 0, codec.ErrBufferTooSmall
	}
	switch buf[offset] {
	case 0:
		o.Present = false
		var zero T
		o.Value = zero
		return 1, nil
	case 1:
		o.Present = true
		n, err := PT(&o.Value).DecodeFrom(buf, offset+1)
		if err != nil {
			return 0, err
		}
		return 1 + n, nil
	default:
		return 0, codec.Wrap(codec.ErrMalformed, "option discriminator %d is neither 0 nor 1", buf[offset])
	}
}

func (o *Option[T, PT]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return PT(&o.Value).MarshalJSON()
}

func (o *Option[T, PT]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		o.Present = false
		var zero T
		o.Value = zero
		return nil
	}
	o.Present = true
	return PT(&o.Value).UnmarshalJSON(data)
}

// Alternative names a Choice branch for its JSON "tag" field. The wire
// form never carries the name — only the zero-based varint index from
// spec §4.7.
type Alternative struct {
	Name  string
	Value codec.JSONCodec
}

// Choice holds exactly one of N named alternatives. Alternatives is the
// full, ordered list of possible branches; Selected is the index of the
// one actually carried.
type Choice struct {
	Alternatives []Alternative
	Selected     int
}

func (c *Choice) current() codec.JSONCodec {
	return c.Alternatives[c.Selected].Value
}

func (c *Choice) EncodedSize() int {
	return varint.Size(uint64(c.Selected)) + c.current().EncodedSize()
}

func (c *Choice) EncodeTo(buf []byte, offset int) (int, error) {
	size := c.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	n, err := varint.EncodeTo(uint64(c.Selected), buf, offset)
	if err != nil {
		return 0, err
	}
	m, err := c.current().EncodeTo(buf, offset+n)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

// DecodeFrom reads the discriminator and decodes into the matching
// alternative. Alternatives must already be populated with zero-valued
// JSONCodec targets (one per known branch) before calling DecodeFrom, the
// same precondition Sequence/Bits length policies rely on.
func (c *Choice) DecodeFrom(buf []byte, offset int) (int, error) {
	idx, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	if int(idx) >= len(c.Alternatives) {
		return 0, codec.Wrap(codec.ErrMalformed, "unknown choice discriminator %d (have %d alternatives)", idx, len(c.Alternatives))
	}
	c.Selected = int(idx)
	m, err := c.current().DecodeFrom(buf, offset+n)
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

func (c *Choice) MarshalJSON() ([]byte, error) {
	valueJSON, err := c.current().MarshalJSON()
	if err != nil {
		return nil, err
	}
	tag := c.Alternatives[c.Selected].Name
	out := append([]byte(`{"tag":`), quote(tag)...)
	out = append(out, ',')
	out = append(out, []byte(`"value":`)...)
	out = append(out, valueJSON...)
	out = append(out, '}')
	return out, nil
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Tag   string          `json:"tag"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid choice envelope: %v", err)
	}
	for i, alt := range c.Alternatives {
		if alt.Name == envelope.Tag {
			c.Selected = i
			return c.current().UnmarshalJSON(envelope.Value)
		}
	}
	return codec.Wrap(codec.ErrMalformed, "unknown choice tag %q", envelope.Tag)
}

func quote(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, string(r)...)
	}
	out = append(out, '"')
	return out
}
