package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const storageKeyPrefix = "console:storage:"

// RedisStorage keeps each browser's storage in one Redis hash that expires
// after ttl of inactivity.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to the Redis server named by url.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisStorage creates a RedisStorage. A zero ttl keeps hashes forever.
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func storageKey(sid string) string {
	return storageKeyPrefix + sid
}

func (s *RedisStorage) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := s.client.HGet(ctx, storageKey(sid), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *RedisStorage) Set(ctx context.Context, sid, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, storageKey(sid), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, storageKey(sid), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.HDel(ctx, storageKey(sid), keys...).Err()
}
