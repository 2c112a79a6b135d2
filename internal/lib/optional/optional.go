// Package optional provides a JSON field wrapper that tells apart a key that
// was left out, a key set to null, and a key carrying a value.
package optional

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Value T
	// Set is true when the key appeared in the decoded document.
	Set bool
	// Null is true when the key appeared with a JSON null.
	Null bool
}

func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}

	f.Null = false

	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}

	return json.Marshal(f.Value)
}
