package service

import (
	"context"
	"testing"
	"time"

	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCompose(t *testing.T) {
	ctx := context.Background()
	metrics, _ := newTestMetricService()
	alerts, _, _ := newTestAlertService()
	feedback, _, _ := newTestFeedbackService()
	require.NoError(t, alerts.Seed(ctx))
	require.NoError(t, feedback.Record(ctx, sampleFeedback("f1", 9, model.SentimentPositive, time.Now())))

	svc := NewDashboardService(testDirectory(), metrics, alerts, feedback)
	d, err := svc.Compose(ctx, "patos")
	require.NoError(t, err)

	assert.Equal(t, "Patos", d.Municipality.Name)
	assert.Len(t, d.Metrics, 18)
	require.Len(t, d.Alerts, 1)
	assert.Equal(t, "al-2", d.Alerts[0].ID)
	assert.Equal(t, 1, d.Feedback.Total)

	total := 0
	for _, n := range d.TierCounts {
		total += n
	}
	assert.Equal(t, 18, total)

	_, err = svc.Compose(ctx, "recife")
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)
}
