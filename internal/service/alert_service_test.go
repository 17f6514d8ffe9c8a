package service

import (
	"context"
	"testing"

	"vozgestora/internal/model"
	"vozgestora/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlertService() (*AlertService, *recordingBroadcaster, *recordingNotifier) {
	n := &recordingNotifier{}
	svc := NewAlertService(repository.NewMemoryAlertRepo(), testDirectory(), n, testLogger())
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, b, n
}

func TestAlertServiceSeedAndResolve(t *testing.T) {
	ctx := context.Background()
	svc, b, _ := newTestAlertService()

	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx), "seeding twice is a no-op")

	alerts, err := svc.List(ctx, "patos")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "al-2", alerts[0].ID)
	assert.Equal(t, model.TierRed, alerts[0].Status)

	require.NoError(t, svc.Resolve(ctx, "patos", "al-2"))
	assert.Equal(t, []string{MsgAlertResolved}, b.types())

	alerts, err = svc.List(ctx, "patos")
	require.NoError(t, err)
	assert.Empty(t, alerts)

	assert.ErrorIs(t, svc.Resolve(ctx, "patos", "al-2"), ErrAlertNotFound)
	assert.ErrorIs(t, svc.Resolve(ctx, "patos", "al-1"), ErrAlertNotFound, "alert belongs to another municipality")
}

func TestAlertServiceRaise(t *testing.T) {
	ctx := context.Background()
	svc, b, n := newTestAlertService()

	yellow, err := svc.Raise(ctx, model.Alert{MunicipalityID: "sousa", Title: "Frequência", Status: model.TierYellow, Department: model.DepartmentEducacao})
	require.NoError(t, err)
	assert.NotEmpty(t, yellow.ID)
	assert.False(t, yellow.Date.IsZero())
	assert.Zero(t, n.count())

	_, err = svc.Raise(ctx, model.Alert{MunicipalityID: "sousa", Title: "Água", Status: model.TierRed, Department: model.DepartmentInfraestrutura})
	require.NoError(t, err)
	assert.Equal(t, 1, n.count())
	assert.Equal(t, []string{MsgAlertRaised, MsgAlertRaised}, b.types())

	_, err = svc.Raise(ctx, model.Alert{MunicipalityID: "recife"})
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)
}
