package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent or expired
var ErrMiss = errors.New("cache miss")

func getJSON[T any](ctx context.Context, client *redis.Client, key string) (*T, error) {
	data, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func setJSON(ctx context.Context, client *redis.Client, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

type memEntry[T any] struct {
	value     T
	expiresAt time.Time // zero means no expiry
}

// memStore is a mutex-guarded TTL map used by the in-memory caches
type memStore[T any] struct {
	mu    sync.Mutex
	items map[string]memEntry[T]
	now   func() time.Time
}

func newMemStore[T any]() *memStore[T] {
	return &memStore[T]{items: make(map[string]memEntry[T]), now: time.Now}
}

func (s *memStore[T]) get(key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		var zero T
		return zero, ErrMiss
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.items, key)
		var zero T
		return zero, ErrMiss
	}
	return e.value, nil
}

func (s *memStore[T]) set(key string, v T, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memEntry[T]{value: v}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.items[key] = e
}

func (s *memStore[T]) delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}
