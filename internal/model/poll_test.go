package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validIdentity = CitizenIdentity{
	Name:         "Maria",
	CPF:          "123.456.789-09",
	Neighborhood: "Centro",
	AreaType:     AreaUrban,
}

func TestPollWizardHappyPath(t *testing.T) {
	now := time.Date(2024, 5, 22, 12, 0, 0, 0, time.UTC)
	w := NewPollWizard("w1", "patos", now)
	assert.Equal(t, StepIdentify, w.Step)

	w, err := w.Identify(validIdentity)
	require.NoError(t, err)
	assert.Equal(t, StepCategory, w.Step)
	assert.Equal(t, "12345678909", w.Identity.CPF)

	w, err = w.ChooseCategory(CategorySaude)
	require.NoError(t, err)
	assert.Equal(t, StepRating, w.Step)

	require.NoError(t, w.CheckSubmission(9, "ótimo serviço"))
	f := w.Compose("f1", 9, " ótimo serviço ", SentimentPositive, SentimentSourceAI, now)
	assert.Equal(t, "ótimo serviço", f.Comment)
	assert.Equal(t, FeedbackPending, f.Status)
	assert.Equal(t, CategorySaude, f.Category)
	assert.Equal(t, "patos", f.MunicipalityID)

	done, err := w.Succeed(f)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, done.Step)
	require.NotNil(t, done.Feedback)
	assert.Equal(t, StepRating, w.Step, "transitions do not mutate the receiver")
}

func TestPollWizardRejections(t *testing.T) {
	w := NewPollWizard("w1", "patos", time.Now())

	_, err := w.ChooseCategory(CategorySaude)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = w.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = w.Identify(CitizenIdentity{Name: " ", Neighborhood: "Centro", AreaType: AreaUrban})
	assert.ErrorIs(t, err, ErrMissingIdentity)
	_, err = w.Identify(CitizenIdentity{Name: "Maria", Neighborhood: "Centro"})
	assert.ErrorIs(t, err, ErrMissingIdentity)
	_, err = w.Identify(CitizenIdentity{Name: "Maria", Neighborhood: "Centro", AreaType: AreaRural, CPF: "123"})
	assert.ErrorIs(t, err, ErrInvalidCPF)

	w, err = w.Identify(CitizenIdentity{Name: "Maria", Neighborhood: "Centro", AreaType: AreaRural})
	require.NoError(t, err)
	_, err = w.ChooseCategory("Esportes")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	w, err = w.ChooseCategory(CategoryElogio)
	require.NoError(t, err)
	assert.ErrorIs(t, w.CheckSubmission(0, "ok"), ErrInvalidRating)
	assert.ErrorIs(t, w.CheckSubmission(11, "ok"), ErrInvalidRating)
	assert.ErrorIs(t, w.CheckSubmission(5, "   "), ErrEmptyComment)
}

func TestPollWizardBack(t *testing.T) {
	w := NewPollWizard("w1", "patos", time.Now())
	w, err := w.Identify(validIdentity)
	require.NoError(t, err)
	w, err = w.ChooseCategory(CategorySaude)
	require.NoError(t, err)

	w, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StepCategory, w.Step)
	w, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StepIdentify, w.Step)
	assert.Equal(t, "Maria", w.Identity.Name, "going back keeps entered data")
}
