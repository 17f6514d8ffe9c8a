package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/llm"
	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionSink struct {
	mu   sync.Mutex
	got  []model.Feedback
	done chan struct{}
}

func newCompletionSink() *completionSink {
	return &completionSink{done: make(chan struct{}, 8)}
}

func (s *completionSink) complete(ctx context.Context, f model.Feedback) error {
	s.mu.Lock()
	s.got = append(s.got, f)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *completionSink) feedback() []model.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Feedback(nil), s.got...)
}

// gatedGenerator holds every call until release is closed
type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	g.entered <- struct{}{}
	<-g.release
	return "POSITIVO", nil
}

func newTestPollService(gen *fakeGenerator, delay time.Duration) (*PollService, *completionSink) {
	sink := newCompletionSink()
	var classifier *SentimentClassifier
	if gen != nil {
		classifier = NewSentimentClassifier(gen, "m", testLogger())
	} else {
		classifier = NewSentimentClassifier(nil, "", testLogger())
	}
	svc := NewPollService(cache.NewMemoryWizardCache(), testDirectory(), classifier, sink.complete, delay, testLogger())
	return svc, sink
}

func walkToRating(t *testing.T, svc *PollService, municipalityID string) string {
	t.Helper()
	ctx := context.Background()

	w, err := svc.Start(ctx, municipalityID)
	require.NoError(t, err)
	_, err = svc.Identify(ctx, w.ID, model.CitizenIdentity{Name: "João", Neighborhood: "Centro", AreaType: model.AreaUrban})
	require.NoError(t, err)
	_, err = svc.ChooseCategory(ctx, w.ID, model.CategoryIluminacao)
	require.NoError(t, err)
	return w.ID
}

func TestPollSubmitCompletesAfterDelay(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestPollService(&fakeGenerator{text: "POSITIVO"}, 20*time.Millisecond)
	id := walkToRating(t, svc, "patos")

	w, kind, err := svc.Submit(ctx, id, 9, "ótimo serviço")
	require.NoError(t, err)
	assert.Equal(t, model.AIErrorNone, kind)
	assert.Equal(t, model.StepSuccess, w.Step)
	require.NotNil(t, w.Feedback)
	assert.Equal(t, model.SentimentPositive, w.Feedback.Sentiment)
	assert.Empty(t, sink.feedback(), "completion waits for the delay")

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("completion never ran")
	}
	got := sink.feedback()
	require.Len(t, got, 1)
	assert.Equal(t, "patos", got[0].MunicipalityID)
	assert.Equal(t, 9, got[0].Rating)
	assert.Equal(t, model.SentimentSourceAI, got[0].SentimentSource)

	assert.Eventually(t, func() bool {
		_, err := svc.Get(ctx, id)
		return err == ErrWizardNotFound
	}, time.Second, 5*time.Millisecond)
}

func TestPollCloseCancelsCompletion(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestPollService(nil, 50*time.Millisecond)
	id := walkToRating(t, svc, "sousa")

	_, _, err := svc.Submit(ctx, id, 3, "buraco na rua")
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx, id))

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, sink.feedback())

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}

func TestPollCloseDuringSubmitDiscardsFeedback(t *testing.T) {
	ctx := context.Background()
	gen := &gatedGenerator{entered: make(chan struct{}, 1), release: make(chan struct{})}
	sink := newCompletionSink()
	svc := NewPollService(cache.NewMemoryWizardCache(), testDirectory(),
		NewSentimentClassifier(gen, "m", testLogger()), sink.complete, 20*time.Millisecond, testLogger())
	id := walkToRating(t, svc, "patos")

	submitted := make(chan error, 1)
	go func() {
		_, _, err := svc.Submit(ctx, id, 9, "ótimo serviço")
		submitted <- err
	}()
	<-gen.entered

	closed := make(chan error, 1)
	go func() { closed <- svc.Close(ctx, id) }()

	select {
	case <-closed:
		t.Fatal("close returned while submit was still classifying")
	case <-time.After(30 * time.Millisecond):
	}

	close(gen.release)
	require.NoError(t, <-submitted)
	require.NoError(t, <-closed)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sink.feedback())
	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrWizardNotFound)
}

func TestPollLocksReleasedForUnknownWizards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPollService(nil, time.Hour)

	for i := 0; i < 100; i++ {
		_, err := svc.Back(ctx, "missing")
		assert.ErrorIs(t, err, ErrWizardNotFound)
		_, err = svc.ChooseCategory(ctx, "missing", model.CategoryIluminacao)
		assert.ErrorIs(t, err, ErrWizardNotFound)
		_, _, err = svc.Submit(ctx, "missing", 5, "ok")
		assert.ErrorIs(t, err, ErrWizardNotFound)
	}

	id := walkToRating(t, svc, "patos")
	_, err := svc.Back(ctx, id)
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx, id))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}

func TestPollSubmitFallsBackOnAIFailure(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{err: assert.AnError}
	svc, _ := newTestPollService(gen, time.Hour)
	id := walkToRating(t, svc, "patos")

	w, kind, err := svc.Submit(ctx, id, 2, "sem luz")
	require.NoError(t, err)
	assert.Equal(t, model.AIErrorGeneric, kind)
	assert.Equal(t, model.SentimentNegative, w.Feedback.Sentiment)
	assert.Equal(t, model.SentimentSourceHeuristic, w.Feedback.SentimentSource)

	require.NoError(t, svc.Close(ctx, id))
}

func TestPollValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPollService(nil, time.Hour)

	_, err := svc.Start(ctx, "recife")
	assert.ErrorIs(t, err, ErrMunicipalityNotFound)

	_, err = svc.Identify(ctx, "missing", model.CitizenIdentity{})
	assert.ErrorIs(t, err, ErrWizardNotFound)

	id := walkToRating(t, svc, "patos")
	_, _, err = svc.Submit(ctx, id, 5, "  ")
	assert.ErrorIs(t, err, model.ErrEmptyComment)
	_, _, err = svc.Submit(ctx, id, 11, "ok")
	assert.ErrorIs(t, err, model.ErrInvalidRating)

	w, err := svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StepCategory, w.Step)
	_, _, err = svc.Submit(ctx, id, 5, "ok")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	require.NoError(t, svc.Close(ctx, id))
}

func TestPollShutdownFlushesPending(t *testing.T) {
	ctx := context.Background()
	svc, sink := newTestPollService(nil, time.Hour)
	id := walkToRating(t, svc, "patos")

	_, _, err := svc.Submit(ctx, id, 6, "razoável")
	require.NoError(t, err)

	sctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	svc.Shutdown(sctx)

	got := sink.feedback()
	require.Len(t, got, 1)
	assert.Equal(t, model.SentimentNeutral, got[0].Sentiment)
}
