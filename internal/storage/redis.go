package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each entry in a Redis hash with value, version, writer
// and updated_at fields. Writes use WATCH/MULTI so concurrent writers cannot
// overwrite each other unnoticed.
type RedisStorage struct {
	client *redis.Client
	writer string
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(ctx context.Context, opts *redis.Options, writer string) (*RedisStorage, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisStorage{client: client, writer: writer}, nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) (Entry, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read storage entry %q: %w", key, err)
	}
	if len(fields) == 0 {
		return Entry{}, ErrNotFound
	}

	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("storage entry %q has invalid version %q: %w", key, fields["version"], err)
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])

	return Entry{
		Key:       key,
		Value:     []byte(fields["value"]),
		Version:   version,
		Writer:    fields["writer"],
		UpdatedAt: updatedAt,
	}, nil
}

func (s *RedisStorage) Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	next := expectedVersion + 1

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "version").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]interface{}{
				"value":      string(value),
				"version":    next,
				"writer":     s.writer,
				"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
			})
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, ErrVersionConflict
	default:
		return 0, fmt.Errorf("failed to write storage entry %q: %w", key, err)
	}
}

// Close closes the Redis client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
