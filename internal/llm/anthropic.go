package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const anthropicMaxTokens = 2048

// AnthropicGenerator calls the Anthropic Messages API
type AnthropicGenerator struct {
	client  anthropic.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewAnthropicGenerator creates an Anthropic-backed generator. The SDK's own
// retries are disabled: every call is a single attempt.
func NewAnthropicGenerator(apiKey string, timeout time.Duration, logger *zap.Logger) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		timeout: timeout,
		logger:  logger,
	}
}

// Generate makes a single Messages.New call and returns the first text block
func (g *AnthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}

	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.logger.Warn("anthropic call failed", zap.String("model", req.Model), zap.Error(err))
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			text := strings.TrimSpace(block.Text)
			g.logger.Debug("anthropic response", zap.String("model", req.Model), zap.Int("size", len(text)),
				zap.Int64("tokens_in", message.Usage.InputTokens), zap.Int64("tokens_out", message.Usage.OutputTokens))
			if text == "" {
				return "", ErrEmptyResponse
			}
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}
