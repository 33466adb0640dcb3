package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawValue is a catalog field as it arrives upstream: a string, a number, null,
// or a metafield wrapper { "value": ... }. Parsing is left to the caller.
type RawValue struct {
	Value string
	Set   bool
}

// NewRawValue builds a set RawValue
func NewRawValue(v string) RawValue {
	return RawValue{Value: v, Set: true}
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	if !v.Set {
		return []byte("null"), nil
	}
	return json.Marshal(v.Value)
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = RawValue{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = NewRawValue(s)
		return nil
	case '{':
		var wrapper struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		if wrapper.Value == nil {
			*v = RawValue{}
			return nil
		}
		return v.UnmarshalJSON(wrapper.Value)
	case '[':
		return fmt.Errorf("unexpected array for scalar catalog field")
	default:
		// numbers and booleans keep their literal text
		*v = NewRawValue(string(data))
		return nil
	}
}
