package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vozgestora/internal/config"
	"vozgestora/internal/model"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrNotConfigured = errors.New("ai provider not configured")
)

// Request is one single-turn text generation call
type Request struct {
	Model       string
	Prompt      string
	Temperature *float32
}

// Generator produces text for a prompt. Implementations make exactly one
// attempt per call; callers own fallback behavior.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the generator for the configured provider. It returns
// ErrNotConfigured when the provider has no API key.
func New(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Generator, error) {
	if !cfg.IsEnabled() {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.Timeout(), logger), nil
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.Timeout(), logger)
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
}

// ClassifyError maps a generation error to the kind shown to users.
// Quota and rate-limit failures are told apart only for messaging.
func ClassifyError(err error) model.AIErrorKind {
	if err == nil {
		return model.AIErrorNone
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, model.ErrUnknownSentiment) {
		return model.AIErrorMalformed
	}

	var gErr genai.APIError
	if errors.As(err, &gErr) {
		if gErr.Code == 429 || gErr.Status == "RESOURCE_EXHAUSTED" {
			return model.AIErrorQuota
		}
		return model.AIErrorGeneric
	}

	var aErr *anthropic.Error
	if errors.As(err, &aErr) {
		if aErr.StatusCode == 429 {
			return model.AIErrorQuota
		}
		return model.AIErrorGeneric
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"quota", "rate limit", "resource_exhausted", "429"} {
		if strings.Contains(msg, marker) {
			return model.AIErrorQuota
		}
	}
	return model.AIErrorGeneric
}
