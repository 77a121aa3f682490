// Package types holds JSON wire types with lenient decoding.
package types

import (
	"bytes"
	"encoding/json"
)

// Batch decodes either a single JSON object or an array of objects and
// remembers which form it was, so a response can mirror the request.
type Batch[T any] struct {
	Items   []T
	Batched bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Batch[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		b.Items = items
		b.Batched = true
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	b.Items = []T{item}
	b.Batched = false
	return nil
}

// Len returns the number of decoded items.
func (b Batch[T]) Len() int {
	return len(b.Items)
}
