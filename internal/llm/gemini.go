package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API through the genai SDK
type GeminiGenerator struct {
	client  *genai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, apiKey string, timeout time.Duration, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, timeout: timeout, logger: logger}, nil
}

// Generate makes a single GenerateContent call
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var cfg *genai.GenerateContentConfig
	if req.Temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: req.Temperature}
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		g.logger.Warn("gemini call failed", zap.String("model", req.Model), zap.Duration("took", time.Since(start)), zap.Error(err))
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	g.logger.Debug("gemini response", zap.String("model", req.Model), zap.Int("size", len(text)), zap.Duration("took", time.Since(start)))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
