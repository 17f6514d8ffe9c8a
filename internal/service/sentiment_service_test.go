package service

import (
	"context"
	"errors"
	"testing"

	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestHeuristicSentiment(t *testing.T) {
	assert.Equal(t, model.SentimentNeutral, HeuristicSentiment(nil))
	assert.Equal(t, model.SentimentNegative, HeuristicSentiment(intPtr(1)))
	assert.Equal(t, model.SentimentNegative, HeuristicSentiment(intPtr(4)))
	assert.Equal(t, model.SentimentNeutral, HeuristicSentiment(intPtr(5)))
	assert.Equal(t, model.SentimentNeutral, HeuristicSentiment(intPtr(7)))
	assert.Equal(t, model.SentimentPositive, HeuristicSentiment(intPtr(8)))
	assert.Equal(t, model.SentimentPositive, HeuristicSentiment(intPtr(10)))
}

func TestClassifyUsesModelLabel(t *testing.T) {
	gen := &fakeGenerator{text: " negativo\n"}
	c := NewSentimentClassifier(gen, "m", testLogger())

	got := c.Classify(context.Background(), "Patos", "a rua está escura", intPtr(9))
	assert.Equal(t, model.Classification{Sentiment: model.SentimentNegative, Source: model.SentimentSourceAI, Error: model.AIErrorNone}, got)

	require.Equal(t, 1, gen.callCount())
	assert.Contains(t, gen.calls[0].Prompt, "Patos")
	assert.Contains(t, gen.calls[0].Prompt, "a rua está escura")
	assert.Equal(t, "m", gen.calls[0].Model)
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		kind model.AIErrorKind
	}{
		{"quota", &fakeGenerator{err: errors.New("googleapi: Error 429: quota exceeded")}, model.AIErrorQuota},
		{"network", &fakeGenerator{err: errors.New("connection reset")}, model.AIErrorGeneric},
		{"malformed", &fakeGenerator{text: "talvez"}, model.AIErrorMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSentimentClassifier(tt.gen, "m", testLogger())
			got := c.Classify(context.Background(), "Patos", "ok", intPtr(9))
			assert.Equal(t, model.SentimentPositive, got.Sentiment)
			assert.Equal(t, model.SentimentSourceHeuristic, got.Source)
			assert.Equal(t, tt.kind, got.Error)
			assert.Equal(t, 1, tt.gen.callCount(), "never retried")
		})
	}
}

func TestClassifyWithoutGenerator(t *testing.T) {
	c := NewSentimentClassifier(nil, "", testLogger())
	got := c.Classify(context.Background(), "Patos", "ok", intPtr(2))
	assert.Equal(t, model.SentimentNegative, got.Sentiment)
	assert.Equal(t, model.SentimentSourceHeuristic, got.Source)
	assert.Equal(t, model.AIErrorNone, got.Error)
}
