// Package dict implements spec §4.8: a sorted-key dictionary with two
// fast paths — K/V both fixed-width unsigned integers, and K a string
// with V a fixed-width unsigned integer — that inline serialization
// without going through the general per-element codec calls, per §4.8
// and the throughput note in §9.
package dict

import (
	"encoding/json"
	"sort"

	"github.com/Chainscore/tsrkit-types/codec"
	"github.com/Chainscore/tsrkit-types/varint"
)

// KeyCodec is the per-key-type contract a Dictionary needs: encode/decode,
// the natural ordering used to sort entries at encode time, and whether
// the key has a string-like JSON form (object keys) or not (list-of-record
// form).
type KeyCodec[K any] interface {
	Size(k K) int
	EncodeTo(k K, buf []byte, offset int) (int, error)
	DecodeFrom(buf []byte, offset int) (K, int, error)
	Less(a, b K) bool
	ToJSONKey(k K) (s string, stringLike bool)
	ToJSON(k K) ([]byte, error)
	FromJSON(data []byte) (K, error)
}

// ValueCodec is the per-value-type contract a Dictionary needs.
type ValueCodec[V any] interface {
	Size(v V) int
	EncodeTo(v V, buf []byte, offset int) (int, error)
	DecodeFrom(buf []byte, offset int) (V, int, error)
	ToJSON(v V) ([]byte, error)
	FromJSON(data []byte) (V, error)
}

// fixedWidthKey and fixedWidthValue are satisfied by the built-in
// uint8/16/32/64 codecs in builtin.go; a Dictionary whose K and V both satisfy
// fixedWidthKey/fixedWidthValue takes the inlined int/int fast path
// instead of looping through KeyCodec/ValueCodec method calls per entry.
type fixedWidthKey[K any] interface {
	KeyCodec[K]
	Width() int
	ToU64(K) uint64
	FromU64(uint64) K
}

type fixedWidthValue[V any] interface {
	ValueCodec[V]
	Width() int
	ToU64(V) uint64
	FromU64(uint64) V
}

// stringKey is implemented only by StringKey. It has no ToU64/FromU64
// conversion — a string key has no native uint64 form — so it can't
// satisfy fixedWidthKey; the K=string, V=fixed-width-unsigned fast path
// is therefore a separate dispatch branch below rather than a variant of
// the int/int one.
type stringKey interface {
	dictStringKey()
}

// fastPathKind classifies which inlined encode/decode loop a Dictionary
// should use.
type fastPathKind int

const (
	pathGeneral fastPathKind = iota
	pathIntInt
	pathStringInt
)

func (d *Dictionary[K, V]) fastPath() (fk fixedWidthKey[K], fv fixedWidthValue[V], kind fastPathKind) {
	fv, vOK := d.valCodec.(fixedWidthValue[V])
	if !vOK {
		return nil, nil, pathGeneral
	}
	if fk, kOK := d.keyCodec.(fixedWidthKey[K]); kOK {
		return fk, fv, pathIntInt
	}
	if _, sOK := d.keyCodec.(stringKey); sOK {
		return nil, fv, pathStringInt
	}
	return nil, nil, pathGeneral
}

// keyAsString extracts the native string underlying a K instantiated as
// string. Only called on the pathStringInt branch, where the dynamic type
// of keyCodec (StringKey) guarantees K is string.
func keyAsString[K any](k K) string {
	return any(k).(string)
}

func stringAsKey[K any](s string) K {
	return any(s).(K)
}

// Dictionary is a finite K->V mapping with unique keys and deterministic
// sorted-key encoding.
type Dictionary[K comparable, V any] struct {
	entries   map[K]V
	keyCodec  KeyCodec[K]
	valCodec  ValueCodec[V]
	KeyField  string
	ValField  string
}

// New constructs an empty Dictionary using the given key/value codecs.
// keyField/valField name the fields used by the list-of-records JSON form
// when the key type isn't string-like; pass "" for both to get the
// defaults "key"/"value".
func New[K comparable, V any](keyCodec KeyCodec[K], valCodec ValueCodec[V], keyField, valField string) *Dictionary[K, V] {
	if keyField == "" {
		keyField = "key"
	}
	if valField == "" {
		valField = "value"
	}
	return &Dictionary[K, V]{
		entries:  make(map[K]V),
		keyCodec: keyCodec,
		valCodec: valCodec,
		KeyField: keyField,
		ValField: valField,
	}
}

// Len returns the number of entries.
func (d *Dictionary[K, V]) Len() int { return len(d.entries) }

// Get returns the value for k and whether it was present.
func (d *Dictionary[K, V]) Get(k K) (V, bool) {
	v, ok := d.entries[k]
	return v, ok
}

// Set inserts or overwrites the entry for k.
func (d *Dictionary[K, V]) Set(k K, v V) {
	d.entries[k] = v
}

// Delete removes the entry for k, if present.
func (d *Dictionary[K, V]) Delete(k K) {
	delete(d.entries, k)
}

func (d *Dictionary[K, V]) sortedKeys() []K {
	keys := make([]K, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return d.keyCodec.Less(keys[i], keys[j])
	})
	return keys
}

// EncodedSize returns the exact encoded length.
func (d *Dictionary[K, V]) EncodedSize() int {
	n := varint.Size(uint64(len(d.entries)))
	for k, v := range d.entries {
		n += d.keyCodec.Size(k) + d.valCodec.Size(v)
	}
	return n
}

// EncodeTo implements codec.Codec. Entries are visited in ascending
// sorted-key order so the output is deterministic regardless of Go's
// randomized map iteration order.
func (d *Dictionary[K, V]) EncodeTo(buf []byte, offset int) (int, error) {
	size := d.EncodedSize()
	if len(buf)-offset < size {
		return 0, codec.ErrBufferTooSmall
	}
	n, err := varint.EncodeTo(uint64(len(d.entries)), buf, offset)
	if err != nil {
		return 0, err
	}
	keys := d.sortedKeys()
	fk, fv, kind := d.fastPath()
	switch kind {
	case pathIntInt:
		kw, vw := fk.Width(), fv.Width()
		for _, k := range keys {
			putUintLE(buf[offset+n:], fk.ToU64(k), kw)
			n += kw
			putUintLE(buf[offset+n:], fv.ToU64(d.entries[k]), vw)
			n += vw
		}
		return n, nil
	case pathStringInt:
		vw := fv.Width()
		for _, k := range keys {
			s := keyAsString(k)
			kn, err := varint.EncodeTo(uint64(len(s)), buf, offset+n)
			if err != nil {
				return 0, err
			}
			n += kn
			n += copy(buf[offset+n:], s)
			putUintLE(buf[offset+n:], fv.ToU64(d.entries[k]), vw)
			n += vw
		}
		return n, nil
	default:
		for _, k := range keys {
			kn, err := d.keyCodec.EncodeTo(k, buf, offset+n)
			if err != nil {
				return 0, err
			}
			n += kn
			vn, err := d.valCodec.EncodeTo(d.entries[k], buf, offset+n)
			if err != nil {
				return 0, err
			}
			n += vn
		}
		return n, nil
	}
}

// DecodeFrom implements codec.Codec.
func (d *Dictionary[K, V]) DecodeFrom(buf []byte, offset int) (int, error) {
	count, n, err := varint.DecodeFrom(buf, offset)
	if err != nil {
		return 0, err
	}
	entries := make(map[K]V, count)
	fk, fv, kind := d.fastPath()
	for i := uint64(0); i < count; i++ {
		var k K
		var v V
		switch kind {
		case pathIntInt:
			kw, vw := fk.Width(), fv.Width()
			if len(buf)-offset-n < kw+vw {
				return 0, codec.ErrBufferTooSmall
			}
			k = fk.FromU64(getUintLE(buf[offset+n:], kw))
			n += kw
			v = fv.FromU64(getUintLE(buf[offset+n:], vw))
			n += vw
		case pathStringInt:
			length, kn, err := varint.DecodeFrom(buf, offset+n)
			if err != nil {
				return 0, err
			}
			n += kn
			vw := fv.Width()
			if rem := uint64(len(buf) - offset - n); rem < length || rem-length < uint64(vw) {
				return 0, codec.ErrBufferTooSmall
			}
			s := string(buf[offset+n : offset+n+int(length)])
			n += int(length)
			k = stringAsKey[K](s)
			v = fv.FromU64(getUintLE(buf[offset+n:], vw))
			n += vw
		default:
			kv, kn, err := d.keyCodec.DecodeFrom(buf, offset+n)
			if err != nil {
				return 0, err
			}
			k = kv
			n += kn
			vv, vn, err := d.valCodec.DecodeFrom(buf, offset+n)
			if err != nil {
				return 0, err
			}
			v = vv
			n += vn
		}
		if _, dup := entries[k]; dup {
			return 0, codec.Wrap(codec.ErrMalformed, "duplicate dictionary key on decode")
		}
		entries[k] = v
	}
	d.entries = entries
	return n, nil
}

func putUintLE(buf []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> uint(8*i))
	}
}

func getUintLE(buf []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(buf[i]) << uint(8*i)
	}
	return v
}

// MarshalJSON renders the dictionary as a JSON object when keys are
// string-like, or a list of {KeyField: k, ValField: v} records otherwise.
func (d *Dictionary[K, V]) MarshalJSON() ([]byte, error) {
	keys := d.sortedKeys()
	if len(keys) > 0 {
		if _, stringLike := d.keyCodec.ToJSONKey(keys[0]); stringLike {
			out := []byte{'{'}
			for i, k := range keys {
				if i > 0 {
					out = append(out, ',')
				}
				ks, _ := d.keyCodec.ToJSONKey(k)
				kj, _ := json.Marshal(ks)
				out = append(out, kj...)
				out = append(out, ':')
				vj, err := d.valCodec.ToJSON(d.entries[k])
				if err != nil {
					return nil, err
				}
				out = append(out, vj...)
			}
			out = append(out, '}')
			return out, nil
		}
	}
	out := []byte{'['}
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		kj, err := d.keyCodec.ToJSON(k)
		if err != nil {
			return nil, err
		}
		vj, err := d.valCodec.ToJSON(d.entries[k])
		if err != nil {
			return nil, err
		}
		keyField, _ := json.Marshal(d.KeyField)
		valField, _ := json.Marshal(d.ValField)
		out = append(out, '{')
		out = append(out, keyField...)
		out = append(out, ':')
		out = append(out, kj...)
		out = append(out, ',')
		out = append(out, valField...)
		out = append(out, ':')
		out = append(out, vj...)
		out = append(out, '}')
	}
	out = append(out, ']')
	return out, nil
}

// UnmarshalJSON parses either JSON form produced by MarshalJSON. Because a
// dictionary can be empty, and JSON gives no hint which form an empty
// dictionary used, an empty object and an empty list both decode to an
// empty Dictionary.
func (d *Dictionary[K, V]) UnmarshalJSON(data []byte) error {
	entries := make(map[K]V)
	trimmed := skipSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []map[string]json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return codec.Wrap(codec.ErrMalformed, "invalid dictionary list form: %v", err)
		}
		for _, rec := range records {
			kRaw, ok := rec[d.KeyField]
			if !ok {
				return codec.Wrap(codec.ErrMalformed, "dictionary record missing key field %q", d.KeyField)
			}
			vRaw, ok := rec[d.ValField]
			if !ok {
				return codec.Wrap(codec.ErrMalformed, "dictionary record missing value field %q", d.ValField)
			}
			k, err := d.keyCodec.FromJSON(kRaw)
			if err != nil {
				return err
			}
			v, err := d.valCodec.FromJSON(vRaw)
			if err != nil {
				return err
			}
			entries[k] = v
		}
		d.entries = entries
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid dictionary object form: %v", err)
	}
	for ks, vRaw := range obj {
		kj, _ := json.Marshal(ks)
		k, err := d.keyCodec.FromJSON(kj)
		if err != nil {
			return err
		}
		v, err := d.valCodec.FromJSON(vRaw)
		if err != nil {
			return err
		}
		entries[k] = v
	}
	d.entries = entries
	return nil
}

func skipSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}
