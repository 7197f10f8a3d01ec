package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KeyValue is the durable slot store behind persisted values.
// Read returns ErrNotFound for an absent key, Delete of an absent key is not an error.
type KeyValue interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is a KeyValue that holds a connection or file open.
type Store interface {
	KeyValue
	Close() error
}
