package service

import (
	"context"
	"fmt"

	"vozgestora/internal/llm"
	"vozgestora/internal/model"

	"go.uber.org/zap"
)

// SentimentClassifier labels citizen comments, falling back to a rating
// heuristic when the model is unavailable or answers garbage
type SentimentClassifier struct {
	generator llm.Generator // nil means heuristic only
	model     string
	logger    *zap.Logger
}

// NewSentimentClassifier creates a classifier; generator may be nil
func NewSentimentClassifier(generator llm.Generator, modelName string, logger *zap.Logger) *SentimentClassifier {
	return &SentimentClassifier{generator: generator, model: modelName, logger: logger}
}

// HeuristicSentiment derives a sentiment from the rating alone
func HeuristicSentiment(rating *int) model.Sentiment {
	if rating == nil {
		return model.SentimentNeutral
	}
	switch {
	case *rating >= model.RatingPositiveFrom:
		return model.SentimentPositive
	case *rating <= model.RatingNegativeUpTo:
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

func sentimentPrompt(municipalityName, comment string) string {
	return fmt.Sprintf("Classifique o sentimento deste comentário de um cidadão da cidade de %s em uma única palavra (POSITIVO, NEUTRO ou NEGATIVO): %q",
		municipalityName, comment)
}

// Classify makes at most one model call and never fails
func (c *SentimentClassifier) Classify(ctx context.Context, municipalityName, comment string, rating *int) model.Classification {
	fallback := model.Classification{
		Sentiment: HeuristicSentiment(rating),
		Source:    model.SentimentSourceHeuristic,
		Error:     model.AIErrorNone,
	}
	if c.generator == nil {
		return fallback
	}

	text, err := c.generator.Generate(ctx, llm.Request{
		Model:  c.model,
		Prompt: sentimentPrompt(municipalityName, comment),
	})
	if err == nil {
		var s model.Sentiment
		s, err = model.ParseSentiment(text)
		if err == nil {
			return model.Classification{Sentiment: s, Source: model.SentimentSourceAI, Error: model.AIErrorNone}
		}
		err = fmt.Errorf("%w: %q", err, text)
	}

	fallback.Error = llm.ClassifyError(err)
	c.logger.Warn("sentiment classification fell back to heuristic",
		zap.String("kind", string(fallback.Error)),
		zap.String("sentiment", string(fallback.Sentiment)),
		zap.Error(err),
	)
	return fallback
}
