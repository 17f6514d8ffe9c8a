package service

import (
	"context"

	"vozgestora/internal/model"

	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the executive view
type DashboardService struct {
	directory *DirectoryService
	metrics   *MetricService
	alerts    *AlertService
	feedback  *FeedbackService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(directory *DirectoryService, metrics *MetricService, alerts *AlertService, feedback *FeedbackService) *DashboardService {
	return &DashboardService{directory: directory, metrics: metrics, alerts: alerts, feedback: feedback}
}

// Compose loads metrics, alerts and the feedback summary concurrently
func (s *DashboardService) Compose(ctx context.Context, municipalityID string) (*model.Dashboard, error) {
	m, err := s.directory.Get(municipalityID)
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{Municipality: m, TierCounts: map[model.Tier]int{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		views, err := s.metrics.Views(gctx, municipalityID)
		d.Metrics = views
		return err
	})
	g.Go(func() error {
		alerts, err := s.alerts.List(gctx, municipalityID)
		d.Alerts = alerts
		return err
	})
	g.Go(func() error {
		sum, err := s.feedback.Summary(gctx, municipalityID)
		d.Feedback = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range d.Metrics {
		d.TierCounts[v.Status]++
	}
	return d, nil
}
