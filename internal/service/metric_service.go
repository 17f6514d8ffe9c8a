package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/model"

	"go.uber.org/zap"
)

// MetricService serves the metric snapshot of each municipality
type MetricService struct {
	directory   *DirectoryService
	generator   *MetricGenerator
	cache       cache.MetricCache
	ttl         time.Duration
	broadcaster Broadcaster
	logger      *zap.Logger

	// serializes read-modify-write of snapshots
	mu sync.Mutex
}

// NewMetricService creates a new metric service
func NewMetricService(directory *DirectoryService, generator *MetricGenerator, metricCache cache.MetricCache, ttl time.Duration, logger *zap.Logger) *MetricService {
	return &MetricService{
		directory:   directory,
		generator:   generator,
		cache:       metricCache,
		ttl:         ttl,
		broadcaster: nopBroadcaster{},
		logger:      logger,
	}
}

// SetBroadcaster injects the live update broadcaster
func (s *MetricService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Metrics returns the current snapshot, generating one on a cache miss
func (s *MetricService) Metrics(ctx context.Context, municipalityID string) ([]model.Metric, error) {
	m, err := s.directory.Get(municipalityID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, m)
}

func (s *MetricService) load(ctx context.Context, m model.Municipality) ([]model.Metric, error) {
	metrics, err := s.cache.Get(ctx, m.ID)
	if err == nil {
		return metrics, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("load metrics for %s: %w", m.ID, err)
	}

	metrics = s.generator.Generate(m)
	if err := s.cache.Set(ctx, m.ID, metrics, s.ttl); err != nil {
		return nil, fmt.Errorf("store metrics for %s: %w", m.ID, err)
	}
	return metrics, nil
}

// Views returns the snapshot with derived tier and trend
func (s *MetricService) Views(ctx context.Context, municipalityID string) ([]model.MetricView, error) {
	metrics, err := s.Metrics(ctx, municipalityID)
	if err != nil {
		return nil, err
	}
	views := make([]model.MetricView, len(metrics))
	for i, m := range metrics {
		views[i] = m.View()
	}
	return views, nil
}

// Refresh regenerates the snapshot of every municipality
func (s *MetricService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.directory.List() {
		metrics := s.generator.Generate(m)
		if err := s.cache.Set(ctx, m.ID, metrics, s.ttl); err != nil {
			return fmt.Errorf("refresh metrics for %s: %w", m.ID, err)
		}
		s.broadcaster.BroadcastToMunicipality(m.ID, MsgMetricsRefreshed, map[string]interface{}{
			"municipalityId": m.ID,
			"count":          len(metrics),
		})
	}
	s.logger.Info("metrics refreshed", zap.Int("municipalities", len(s.directory.List())))
	return nil
}

// ApplySubmission sets a new value on one metric of dept, keeping the old
// value as PreviousValue
func (s *MetricService) ApplySubmission(ctx context.Context, municipalityID string, dept model.Department, metricID string, value float64) (model.Metric, error) {
	m, err := s.directory.Get(municipalityID)
	if err != nil {
		return model.Metric{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metrics, err := s.load(ctx, m)
	if err != nil {
		return model.Metric{}, err
	}

	for i := range metrics {
		if metrics[i].ID != metricID {
			continue
		}
		if metrics[i].Department != dept {
			return model.Metric{}, fmt.Errorf("%w: metric %s belongs to %s", ErrInvalidDepartment, metricID, metrics[i].Department)
		}
		updated := metrics[i]
		updated.PreviousValue = updated.Value
		updated.Value = value

		next := append([]model.Metric(nil), metrics...)
		next[i] = updated
		if err := s.cache.Set(ctx, m.ID, next, s.ttl); err != nil {
			return model.Metric{}, fmt.Errorf("store metrics for %s: %w", m.ID, err)
		}
		s.broadcaster.BroadcastToMunicipality(m.ID, MsgMetricUpdated, updated.View())
		return updated, nil
	}
	return model.Metric{}, ErrMetricNotFound
}
