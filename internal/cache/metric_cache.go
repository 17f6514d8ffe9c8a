package cache

import (
	"context"
	"time"

	"vozgestora/internal/model"

	"github.com/redis/go-redis/v9"
)

// MetricCache holds the generated metric snapshot of each municipality so the
// dashboard stays stable between refreshes
type MetricCache interface {
	Get(ctx context.Context, municipalityID string) ([]model.Metric, error)
	Set(ctx context.Context, municipalityID string, metrics []model.Metric, ttl time.Duration) error
}

type metricCache struct {
	client *redis.Client
}

// NewMetricCache creates a Redis metric cache
func NewMetricCache(client *redis.Client) MetricCache {
	return &metricCache{client: client}
}

func (c *metricCache) key(municipalityID string) string {
	return "municipality:" + municipalityID + ":metrics"
}

func (c *metricCache) Get(ctx context.Context, municipalityID string) ([]model.Metric, error) {
	metrics, err := getJSON[[]model.Metric](ctx, c.client, c.key(municipalityID))
	if err != nil {
		return nil, err
	}
	return *metrics, nil
}

func (c *metricCache) Set(ctx context.Context, municipalityID string, metrics []model.Metric, ttl time.Duration) error {
	return setJSON(ctx, c.client, c.key(municipalityID), metrics, ttl)
}

type memMetricCache struct {
	store *memStore[[]model.Metric]
}

// NewMemoryMetricCache creates an in-memory metric cache
func NewMemoryMetricCache() MetricCache {
	return &memMetricCache{store: newMemStore[[]model.Metric]()}
}

func (c *memMetricCache) Get(ctx context.Context, municipalityID string) ([]model.Metric, error) {
	metrics, err := c.store.get(municipalityID)
	if err != nil {
		return nil, err
	}
	return append([]model.Metric(nil), metrics...), nil
}

func (c *memMetricCache) Set(ctx context.Context, municipalityID string, metrics []model.Metric, ttl time.Duration) error {
	c.store.set(municipalityID, append([]model.Metric(nil), metrics...), ttl)
	return nil
}
