package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStorage struct {
	Connection *redis.Client
}

func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	_, err := conn.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Read(ctx context.Context, key string) (string, error) {
	response, err := that.Connection.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}

	return response, nil
}

func (that *RedisStorage) Write(ctx context.Context, key, value string) error {
	if err := that.Connection.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	return nil
}

func (that *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := that.Connection.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	return nil
}

func (that *RedisStorage) Close() error {
	return that.Connection.Close()
}
