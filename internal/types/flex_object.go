package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexObject is a JSON object that may also arrive encoded as a JSON string,
// as some GraphQL clients send variables.
type FlexObject map[string]interface{}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexObject) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return f.Parse(s)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("FlexObject: expected an object or a JSON string: %w", err)
	}
	*f = m
	return nil
}

// Parse decodes s as a JSON object. An empty string yields nil.
func (f *FlexObject) Parse(s string) error {
	if s == "" || s == "null" {
		*f = nil
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return fmt.Errorf("FlexObject: invalid JSON object string: %w", err)
	}
	*f = m
	return nil
}

// Map converts FlexObject back to a plain map.
func (f FlexObject) Map() map[string]interface{} {
	return map[string]interface{}(f)
}
