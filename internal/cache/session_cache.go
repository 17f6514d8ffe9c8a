package cache

import (
	"context"
	"time"

	"vozgestora/internal/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache holds live dashboard sessions
type SessionCache interface {
	Set(ctx context.Context, session *model.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a Redis session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{client: client}
}

func (c *sessionCache) key(id string) string {
	return "session:" + id
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session, ttl time.Duration) error {
	return setJSON(ctx, c.client, c.key(session.ID), session, ttl)
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	return getJSON[model.Session](ctx, c.client, c.key(id))
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

type memSessionCache struct {
	store *memStore[model.Session]
}

// NewMemorySessionCache creates an in-memory session cache
func NewMemorySessionCache() SessionCache {
	return &memSessionCache{store: newMemStore[model.Session]()}
}

func (c *memSessionCache) Set(ctx context.Context, session *model.Session, ttl time.Duration) error {
	c.store.set(session.ID, *session, ttl)
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	s, err := c.store.get(id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *memSessionCache) Delete(ctx context.Context, id string) error {
	c.store.delete(id)
	return nil
}
