package service

import (
	"context"
	"fmt"
	"strings"

	"vozgestora/internal/model"

	"go.uber.org/zap"
)

// SubmissionService applies department data entry to the metric snapshot
type SubmissionService struct {
	metrics *MetricService
	alerts  *AlertService
	logger  *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(metrics *MetricService, alerts *AlertService, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{metrics: metrics, alerts: alerts, logger: logger}
}

// Submit updates the metric and raises an alert when it turns RED
func (s *SubmissionService) Submit(ctx context.Context, sub model.DataSubmission) (*model.SubmissionResult, error) {
	if !sub.Department.Valid() {
		return nil, ErrInvalidDepartment
	}
	if strings.TrimSpace(sub.MetricID) == "" || sub.Value == nil {
		return nil, fmt.Errorf("%w: metric id and value are required", ErrInvalidSubmission)
	}
	if sub.Satisfaction != nil && (*sub.Satisfaction < 0 || *sub.Satisfaction > 100) {
		return nil, fmt.Errorf("%w: satisfaction must be between 0 and 100", ErrInvalidSubmission)
	}

	metric, err := s.metrics.ApplySubmission(ctx, sub.MunicipalityID, sub.Department, sub.MetricID, *sub.Value)
	if err != nil {
		return nil, err
	}
	view := metric.View()
	result := &model.SubmissionResult{Metric: view}

	s.logger.Info("data submitted",
		zap.String("municipality", sub.MunicipalityID),
		zap.String("department", string(sub.Department)),
		zap.String("metric", sub.MetricID),
		zap.Float64("value", *sub.Value),
		zap.String("by", sub.SubmittedBy),
	)

	becameRed := view.Status == model.TierRed &&
		model.EvaluateTier(metric.PreviousValue, metric.Thresholds) != model.TierRed
	if becameRed {
		desc := fmt.Sprintf("%s passou de %.2f para %.2f %s.", metric.Name, metric.PreviousValue, metric.Value, metric.Unit)
		if sub.Note != "" {
			desc += " " + sub.Note
		}
		alert, err := s.alerts.Raise(ctx, model.Alert{
			MunicipalityID: sub.MunicipalityID,
			Title:          metric.Name,
			Description:    desc,
			Status:         model.TierRed,
			Department:     sub.Department,
			MetricID:       metric.ID,
		})
		if err != nil {
			return nil, err
		}
		result.Alert = alert
	}
	return result, nil
}
