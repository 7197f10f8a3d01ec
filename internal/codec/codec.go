// Package codec holds the serialize/deserialize pairs used to cross the storage boundary.
package codec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec turns a value into text and back. Decode is expected to fail on
// malformed input, callers must handle the error.
type Codec[T any] interface {
	Encode(value T) (string, error)
	Decode(text string) (T, error)
}

// JSON is the default codec.
type JSON[T any] struct{}

func (JSON[T]) Encode(value T) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}

	return string(data), nil
}

func (JSON[T]) Decode(text string) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return value, nil
}

// YAML trades compactness for entries that are easy to read in a terminal.
type YAML[T any] struct{}

func (YAML[T]) Encode(value T) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}

	return string(data), nil
}

func (YAML[T]) Decode(text string) (T, error) {
	var value T
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return value, nil
}

// Funcs adapts a plain function pair. A nil side falls back to JSON.
type Funcs[T any] struct {
	Serialize   func(T) (string, error)
	Deserialize func(string) (T, error)
}

func (that Funcs[T]) Encode(value T) (string, error) {
	if that.Serialize == nil {
		return JSON[T]{}.Encode(value)
	}

	return that.Serialize(value)
}

func (that Funcs[T]) Decode(text string) (T, error) {
	if that.Deserialize == nil {
		return JSON[T]{}.Decode(text)
	}

	return that.Deserialize(text)
}
