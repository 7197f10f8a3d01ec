package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps entries in process memory. Used by the TUI when no file is configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (that *MemoryStorage) Read(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	value, ok := that.entries[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (that *MemoryStorage) Write(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries[key] = value
	return nil
}

func (that *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.entries, key)
	return nil
}

func (that *MemoryStorage) Close() error {
	return nil
}
