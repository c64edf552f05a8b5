package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is an identifier the backend sends either as a JSON number or as a
// string. It is always encoded as a string.
type Ref string

func (r Ref) String() string {
	return string(r)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("ref: %w", err)
		}
		*r = Ref(n.String())
	}
	return nil
}
