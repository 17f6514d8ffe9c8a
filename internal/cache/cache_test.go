package cache

import (
	"context"
	"testing"
	"time"

	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_Expiry(t *testing.T) {
	s := newMemStore[int]()
	now := time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.set("a", 1, time.Minute)
	s.set("b", 2, 0)

	v, err := s.get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, err = s.get("a")
	assert.ErrorIs(t, err, ErrMiss)

	v, err = s.get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMemorySessionCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemorySessionCache()

	_, err := c.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, &model.Session{ID: "s1", User: model.User{ID: "user-patos"}}, time.Hour))
	s, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "user-patos", s.User.ID)

	require.NoError(t, c.Delete(ctx, "s1"))
	_, err = c.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryMetricCache_CopiesSlices(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryMetricCache()
	metrics := []model.Metric{{ID: "m1", Value: 1}}
	require.NoError(t, c.Set(ctx, "patos", metrics, time.Hour))

	metrics[0].Value = 99
	got, err := c.Get(ctx, "patos")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0].Value)

	got[0].Value = 42
	again, err := c.Get(ctx, "patos")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].Value)
}
