package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements Store with one Redis string per (session, field).
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if client == nil {
		panic("redis client cannot be nil for RedisStore")
	}
	if keyPrefix == "" {
		keyPrefix = "league:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) key(sessionKey, field string) string {
	return fmt.Sprintf("%ssess:%s:%s", s.keyPrefix, sessionKey, field)
}

func (s *RedisStore) Put(ctx context.Context, sessionKey, field, value string, ttl time.Duration) error {
	if sessionKey == "" {
		return ErrEmptySessionKey
	}
	if ttl < 0 {
		ttl = 0
	}
	key := s.key(sessionKey, field)
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionKey, field string) (string, bool, error) {
	if sessionKey == "" {
		return "", false, ErrEmptySessionKey
	}
	key := s.key(sessionKey, field)
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Take(ctx context.Context, sessionKey, field string) (string, bool, error) {
	if sessionKey == "" {
		return "", false, ErrEmptySessionKey
	}
	key := s.key(sessionKey, field)
	v, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis: getdel %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Incr(ctx context.Context, sessionKey, field string, ttl time.Duration) (int64, error) {
	if sessionKey == "" {
		return 0, ErrEmptySessionKey
	}
	key := s.key(sessionKey, field)
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: incr %s: %w", key, err)
	}
	if n == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis: expire %s: %w", key, err)
		}
	}
	return n, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionKey string, fields ...string) error {
	if sessionKey == "" {
		return ErrEmptySessionKey
	}
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, s.key(sessionKey, f))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: del session %s fields: %w", sessionKey, err)
	}
	return nil
}
