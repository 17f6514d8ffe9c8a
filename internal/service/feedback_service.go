package service

import (
	"context"
	"errors"
	"fmt"

	"vozgestora/internal/model"
	"vozgestora/internal/repository"

	"go.uber.org/zap"
)

// defaultFeedbackLimit caps a single listing
const defaultFeedbackLimit = 200

// FeedbackService stores and aggregates citizen feedback
type FeedbackService struct {
	repo        repository.FeedbackRepo
	directory   *DirectoryService
	notifier    Notifier
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo repository.FeedbackRepo, directory *DirectoryService, notifier Notifier, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		repo:        repo,
		directory:   directory,
		notifier:    notifier,
		broadcaster: nopBroadcaster{},
		logger:      logger,
	}
}

// SetBroadcaster injects the live update broadcaster
func (s *FeedbackService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Record persists a completed poll and tells the dashboard about it
func (s *FeedbackService) Record(ctx context.Context, f model.Feedback) error {
	m, err := s.directory.Get(f.MunicipalityID)
	if err != nil {
		return err
	}
	if f.Status == "" {
		f.Status = model.FeedbackPending
	}
	if err := s.repo.Create(ctx, &f); err != nil {
		return fmt.Errorf("record feedback %s: %w", f.ID, err)
	}

	s.logger.Info("feedback recorded",
		zap.String("id", f.ID),
		zap.String("municipality", f.MunicipalityID),
		zap.String("sentiment", string(f.Sentiment)),
		zap.Int("rating", f.Rating),
	)
	s.broadcaster.BroadcastToMunicipality(f.MunicipalityID, MsgFeedbackReceived, f)

	if f.Sentiment == model.SentimentNegative {
		s.notifier.Notify(ctx, fmt.Sprintf(":warning: Feedback negativo em %s (%s, %s, nota %d): %s",
			m.Name, f.Neighborhood, f.Category, f.Rating, f.Comment))
	}
	return nil
}

// List returns the municipality's feedback, newest first
func (s *FeedbackService) List(ctx context.Context, municipalityID string, filter model.FeedbackFilter) ([]model.Feedback, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByMunicipality(ctx, municipalityID, filter, defaultFeedbackLimit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Feedback, len(items))
	for i, f := range items {
		out[i] = *f
	}
	return out, nil
}

// UpdateStatus moves a feedback along PENDENTE -> LIDO -> RESOLVIDO.
// The feedback must belong to municipalityID.
func (s *FeedbackService) UpdateStatus(ctx context.Context, municipalityID, id string, status model.FeedbackStatus) (*model.Feedback, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	f, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	if f.MunicipalityID != municipalityID {
		return nil, ErrFeedbackNotFound
	}
	if !f.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, f.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	f.Status = status
	s.broadcaster.BroadcastToMunicipality(municipalityID, MsgFeedbackUpdated, f)
	return f, nil
}

// Summary aggregates every feedback of the municipality
func (s *FeedbackService) Summary(ctx context.Context, municipalityID string) (model.FeedbackSummary, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return model.FeedbackSummary{}, err
	}
	items, err := s.repo.ListByMunicipality(ctx, municipalityID, model.FeedbackFilter{}, 0)
	if err != nil {
		return model.FeedbackSummary{}, err
	}
	return Summarize(municipalityID, items), nil
}

// Summarize counts feedback by sentiment, category and status
func Summarize(municipalityID string, items []*model.Feedback) model.FeedbackSummary {
	sum := model.FeedbackSummary{
		MunicipalityID: municipalityID,
		Total:          len(items),
		BySentiment:    map[model.Sentiment]int{},
		ByCategory:     map[model.Category]int{},
		ByStatus:       map[model.FeedbackStatus]int{},
	}
	if len(items) == 0 {
		return sum
	}

	ratings := 0
	for _, f := range items {
		sum.BySentiment[f.Sentiment]++
		sum.ByCategory[f.Category]++
		sum.ByStatus[f.Status]++
		ratings += f.Rating
	}
	sum.AverageRating = float64(ratings) / float64(len(items))
	sum.Approval = float64(sum.BySentiment[model.SentimentPositive]) * 100 / float64(len(items))
	return sum
}
