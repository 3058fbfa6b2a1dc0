package dto

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON field was present and whether it was null.
// An absent key leaves Set false; `null` sets both Set and Null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
