package service

import (
	"context"
	"testing"

	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestSubmissionRaisesAlertWhenMetricTurnsRed(t *testing.T) {
	ctx := context.Background()
	metrics, _ := newTestMetricService()
	alerts, _, notifier := newTestAlertService()
	svc := NewSubmissionService(metrics, alerts, testLogger())

	sub := model.DataSubmission{
		MunicipalityID: "patos",
		Department:     model.DepartmentFinancas,
		MetricID:       "lrf-percent-patos",
		Value:          floatPtr(45),
		SubmittedBy:    "user-patos",
	}
	res, err := svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, model.TierGreen, res.Metric.Status)
	assert.Nil(t, res.Alert)

	sub.Value = floatPtr(55)
	sub.Note = "Folha de maio."
	res, err = svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, model.TierRed, res.Metric.Status)
	assert.Equal(t, 45.0, res.Metric.PreviousValue)
	require.NotNil(t, res.Alert)
	assert.Equal(t, "lrf-percent-patos", res.Alert.MetricID)
	assert.Contains(t, res.Alert.Description, "Folha de maio.")
	assert.Equal(t, 1, notifier.count())

	list, err := alerts.List(ctx, "patos")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	sub.Value = floatPtr(60)
	res, err = svc.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Nil(t, res.Alert, "already red")
}

func TestSubmissionValidation(t *testing.T) {
	ctx := context.Background()
	metrics, _ := newTestMetricService()
	alerts, _, _ := newTestAlertService()
	svc := NewSubmissionService(metrics, alerts, testLogger())

	_, err := svc.Submit(ctx, model.DataSubmission{MunicipalityID: "patos", Department: "Esportes", MetricID: "e1-patos", Value: floatPtr(1)})
	assert.ErrorIs(t, err, ErrInvalidDepartment)

	_, err = svc.Submit(ctx, model.DataSubmission{MunicipalityID: "patos", Department: model.DepartmentEducacao, MetricID: "e1-patos"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = svc.Submit(ctx, model.DataSubmission{MunicipalityID: "patos", Department: model.DepartmentEducacao, MetricID: "e1-patos", Value: floatPtr(90), Satisfaction: floatPtr(120)})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = svc.Submit(ctx, model.DataSubmission{MunicipalityID: "recife", Department: model.DepartmentEducacao, MetricID: "e1-recife", Value: floatPtr(90)})
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)
}
