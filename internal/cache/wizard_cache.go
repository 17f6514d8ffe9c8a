package cache

import (
	"context"
	"time"

	"vozgestora/internal/model"

	"github.com/redis/go-redis/v9"
)

// WizardCache holds in-progress poll wizards
type WizardCache interface {
	Get(ctx context.Context, id string) (*model.PollWizard, error)
	Set(ctx context.Context, w *model.PollWizard, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type wizardCache struct {
	client *redis.Client
}

// NewWizardCache creates a Redis wizard cache
func NewWizardCache(client *redis.Client) WizardCache {
	return &wizardCache{client: client}
}

func (c *wizardCache) key(id string) string {
	return "poll:wizard:" + id
}

func (c *wizardCache) Get(ctx context.Context, id string) (*model.PollWizard, error) {
	return getJSON[model.PollWizard](ctx, c.client, c.key(id))
}

func (c *wizardCache) Set(ctx context.Context, w *model.PollWizard, ttl time.Duration) error {
	return setJSON(ctx, c.client, c.key(w.ID), w, ttl)
}

func (c *wizardCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

type memWizardCache struct {
	store *memStore[model.PollWizard]
}

// NewMemoryWizardCache creates an in-memory wizard cache
func NewMemoryWizardCache() WizardCache {
	return &memWizardCache{store: newMemStore[model.PollWizard]()}
}

func (c *memWizardCache) Get(ctx context.Context, id string) (*model.PollWizard, error) {
	w, err := c.store.get(id)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *memWizardCache) Set(ctx context.Context, w *model.PollWizard, ttl time.Duration) error {
	c.store.set(w.ID, *w, ttl)
	return nil
}

func (c *memWizardCache) Delete(ctx context.Context, id string) error {
	c.store.delete(id)
	return nil
}
