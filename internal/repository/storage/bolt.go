package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const entriesBucket = "entries"

var errBucketMissing = errors.New("entries bucket is missing")

// BoltStorage keeps entries in a single BoltDB file.
type BoltStorage struct {
	db *bbolt.DB
}

func NewBoltStorage(path string) (*BoltStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(entriesBucket)); err != nil {
			return fmt.Errorf("create entries bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

func (that *BoltStorage) Read(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := that.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return errBucketMissing
		}

		payload := bucket.Get([]byte(key))
		if payload == nil {
			return ErrNotFound
		}

		value = string(payload)
		return nil
	})
	if err != nil {
		return "", err
	}

	return value, nil
}

func (that *BoltStorage) Write(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return that.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (that *BoltStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return that.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(entriesBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Delete([]byte(key))
	})
}

func (that *BoltStorage) Close() error {
	return that.db.Close()
}
