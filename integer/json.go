package integer

import (
	"strconv"

	"github.com/Chainscore/tsrkit-types/codec"
)

func jsonUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// MarshalJSON renders the value as a JSON number.
func (i *Int) MarshalJSON() ([]byte, error) { return []byte(strconv.FormatInt(i.Value, 10)), nil }

// UnmarshalJSON parses a JSON number into Value, validating it fits Width.
func (i *Int) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return codec.Wrap(codec.ErrMalformed, "invalid JSON integer %q", string(data))
	}
	if lo, hi := i.bounds(); v < lo || v > hi {
		return codec.Wrap(codec.ErrOutOfRange, "value %d outside %d-byte signed range", v, i.Width)
	}
	i.Value = v
	return nil
}

func parseJSONUint(data []byte) (uint64, error) {
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, codec.Wrap(codec.ErrMalformed, "invalid JSON integer %q", string(data))
	}
	return v, nil
}
