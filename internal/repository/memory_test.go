package repository

import (
	"context"
	"testing"
	"time"

	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFeedbackRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFeedbackRepo()
	base := time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &model.Feedback{ID: "f1", MunicipalityID: "patos", Sentiment: model.SentimentPositive, Status: model.FeedbackPending, Timestamp: base}))
	require.NoError(t, repo.Create(ctx, &model.Feedback{ID: "f2", MunicipalityID: "patos", Sentiment: model.SentimentNegative, Status: model.FeedbackPending, Timestamp: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &model.Feedback{ID: "f3", MunicipalityID: "sousa", Sentiment: model.SentimentNeutral, Status: model.FeedbackPending, Timestamp: base}))

	t.Run("newest first and scoped", func(t *testing.T) {
		list, err := repo.ListByMunicipality(ctx, "patos", model.FeedbackFilter{}, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "f2", list[0].ID)
		assert.Equal(t, "f1", list[1].ID)
	})

	t.Run("filter and limit", func(t *testing.T) {
		list, err := repo.ListByMunicipality(ctx, "patos", model.FeedbackFilter{Sentiment: model.SentimentPositive}, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "f1", list[0].ID)

		list, err = repo.ListByMunicipality(ctx, "patos", model.FeedbackFilter{}, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		f, err := repo.GetByID(ctx, "f1")
		require.NoError(t, err)
		f.Comment = "mutated"

		again, err := repo.GetByID(ctx, "f1")
		require.NoError(t, err)
		assert.Empty(t, again.Comment)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "f1", model.FeedbackRead))
		f, err := repo.GetByID(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, model.FeedbackRead, f.Status)

		assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", model.FeedbackRead), ErrNotFound)
	})
}

func TestMemoryAlertRepo_DeleteIsScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAlertRepo()
	require.NoError(t, repo.Create(ctx, &model.Alert{ID: "al-2", MunicipalityID: "patos"}))

	assert.ErrorIs(t, repo.Delete(ctx, "sousa", "al-2"), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "patos", "al-2"))
	assert.ErrorIs(t, repo.Delete(ctx, "patos", "al-2"), ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryReportRepo_KeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReportRepo()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &model.StrategicReport{ID: "r2", MunicipalityID: "patos", CreatedAt: now}))
	require.NoError(t, repo.Save(ctx, &model.StrategicReport{ID: "r1", MunicipalityID: "patos", CreatedAt: now.Add(-time.Minute)}))

	latest, err := repo.Latest(ctx, "patos")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "r2", latest.ID)

	none, err := repo.Latest(ctx, "sousa")
	require.NoError(t, err)
	assert.Nil(t, none)
}
