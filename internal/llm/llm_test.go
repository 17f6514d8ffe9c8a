package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"vozgestora/internal/config"
	"vozgestora/internal/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.AIErrorKind
	}{
		{"nil", nil, model.AIErrorNone},
		{"empty response", fmt.Errorf("wrap: %w", ErrEmptyResponse), model.AIErrorMalformed},
		{"unknown label", model.ErrUnknownSentiment, model.AIErrorMalformed},
		{"gemini 429", fmt.Errorf("gemini generate: %w", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}), model.AIErrorQuota},
		{"gemini 500", genai.APIError{Code: 500, Status: "INTERNAL"}, model.AIErrorGeneric},
		{"quota text", errors.New("You exceeded your current quota"), model.AIErrorQuota},
		{"rate limit text", errors.New("rate limit reached"), model.AIErrorQuota},
		{"network", errors.New("dial tcp: connection refused"), model.AIErrorGeneric},
		{"deadline", context.DeadlineExceeded, model.AIErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestNew_NotConfigured(t *testing.T) {
	cfg := config.DefaultAIConfig()
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_Anthropic(t *testing.T) {
	cfg := config.DefaultAIConfig()
	cfg.Provider = config.ProviderAnthropic
	cfg.AnthropicAPIKey = "key"

	gen, err := New(context.Background(), cfg, zap.NewNop())
	assert.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, gen)
}
