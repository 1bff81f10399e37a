package text

import (
	"encoding/json"

	"github.com/Chainscore/tsrkit-types/codec"
)

func quoteJSON(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

func unquoteJSON(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", codec.Wrap(codec.ErrMalformed, "invalid JSON string: %v", err)
	}
	return s, nil
}
