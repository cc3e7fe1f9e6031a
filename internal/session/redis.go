package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oauthdemo:session:"

// RedisStore implements the Store interface using Redis
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save stores a payload with expiration
func (s *RedisStore) Save(ctx context.Context, key string, data *Data, expiresIn time.Duration) error {
	if key == "" {
		return errors.New("empty key")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, payload, expiresIn).Err(); err != nil {
		return fmt.Errorf("storing payload: %w", err)
	}
	return nil
}

// Take retrieves and deletes a payload in one round trip
func (s *RedisStore) Take(ctx context.Context, key string) (*Data, error) {
	payload, err := s.client.GetDel(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading payload: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return &data, nil
}

// CheckHealth verifies Redis connectivity
func (s *RedisStore) CheckHealth(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
