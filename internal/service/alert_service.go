package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vozgestora/internal/model"
	"vozgestora/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedAlerts is the initial working set of alerts
var SeedAlerts = []model.Alert{
	{
		ID:             "al-1",
		MunicipalityID: "campina-grande",
		Title:          "Equilíbrio Fiscal",
		Description:    "Gasto com pessoal está em 48.5% da RCL.",
		Status:         model.TierGreen,
		Date:           time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC),
		Department:     model.DepartmentFinancas,
	},
	{
		ID:             "al-2",
		MunicipalityID: "patos",
		Title:          "Recursos Hídricos",
		Description:    "Nível crítico de abastecimento.",
		Status:         model.TierRed,
		Date:           time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC),
		Department:     model.DepartmentInfraestrutura,
	},
}

// AlertService manages the alert working set
type AlertService struct {
	repo        repository.AlertRepo
	directory   *DirectoryService
	notifier    Notifier
	broadcaster Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewAlertService creates a new alert service
func NewAlertService(repo repository.AlertRepo, directory *DirectoryService, notifier Notifier, logger *zap.Logger) *AlertService {
	return &AlertService{
		repo:        repo,
		directory:   directory,
		notifier:    notifier,
		broadcaster: nopBroadcaster{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster injects the live update broadcaster
func (s *AlertService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Seed inserts SeedAlerts when the store is empty
func (s *AlertService) Seed(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i := range SeedAlerts {
		alert := SeedAlerts[i]
		if err := s.repo.Create(ctx, &alert); err != nil {
			return fmt.Errorf("seed alert %s: %w", alert.ID, err)
		}
	}
	return nil
}

// List returns the municipality's alerts, newest first
func (s *AlertService) List(ctx context.Context, municipalityID string) ([]model.Alert, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return nil, err
	}
	alerts, err := s.repo.ListByMunicipality(ctx, municipalityID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Alert, len(alerts))
	for i, a := range alerts {
		out[i] = *a
	}
	return out, nil
}

// Resolve removes an alert from the working set
func (s *AlertService) Resolve(ctx context.Context, municipalityID, alertID string) error {
	err := s.repo.Delete(ctx, municipalityID, alertID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAlertNotFound
	}
	if err != nil {
		return err
	}
	s.logger.Info("alert resolved", zap.String("municipality", municipalityID), zap.String("alert", alertID))
	s.broadcaster.BroadcastToMunicipality(municipalityID, MsgAlertResolved, map[string]string{"alertId": alertID})
	return nil
}

// Raise adds an alert to the working set; RED alerts are also sent to the notifier
func (s *AlertService) Raise(ctx context.Context, alert model.Alert) (*model.Alert, error) {
	m, err := s.directory.Get(alert.MunicipalityID)
	if err != nil {
		return nil, err
	}
	if alert.ID == "" {
		alert.ID = "al-" + uuid.New().String()[:8]
	}
	if alert.Date.IsZero() {
		alert.Date = s.now()
	}
	if err := s.repo.Create(ctx, &alert); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToMunicipality(alert.MunicipalityID, MsgAlertRaised, alert)
	if alert.Status == model.TierRed {
		s.notifier.Notify(ctx, fmt.Sprintf(":rotating_light: %s - %s: %s", m.Name, alert.Title, alert.Description))
	}
	return &alert, nil
}
