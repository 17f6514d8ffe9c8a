package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// Rating scale for citizen polls
const (
	RatingMin = 1
	RatingMax = 10

	// Heuristic sentiment bounds used when AI classification is unavailable
	RatingPositiveFrom = 8
	RatingNegativeUpTo = 4
)

// Sentiment is the classification of a citizen comment
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVO"
	SentimentNeutral  Sentiment = "NEUTRO"
	SentimentNegative Sentiment = "NEGATIVO"
)

var ErrUnknownSentiment = errors.New("unknown sentiment label")

// ParseSentiment reads the first word of s as a sentiment label, ignoring case and punctuation
func ParseSentiment(s string) (Sentiment, error) {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 {
		return "", ErrUnknownSentiment
	}
	switch Sentiment(strings.ToUpper(words[0])) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	case SentimentNegative:
		return SentimentNegative, nil
	}
	return "", ErrUnknownSentiment
}

// SentimentSource records who assigned the sentiment
type SentimentSource string

const (
	SentimentSourceAI        SentimentSource = "AI"
	SentimentSourceHeuristic SentimentSource = "HEURISTIC"
)

// FeedbackStatus is the triage state of a feedback
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "PENDENTE"
	FeedbackRead     FeedbackStatus = "LIDO"
	FeedbackResolved FeedbackStatus = "RESOLVIDO"
)

// CanTransitionTo reports whether a feedback may move from s to next
func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	switch s {
	case FeedbackPending:
		return next == FeedbackRead || next == FeedbackResolved
	case FeedbackRead:
		return next == FeedbackResolved
	case FeedbackResolved:
		return false
	}
	return false
}

// Valid reports whether s is a known status
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackPending, FeedbackRead, FeedbackResolved:
		return true
	}
	return false
}

// Category is the subject of a citizen feedback
type Category string

const (
	CategorySaude          Category = "Saúde"
	CategoryEducacao       Category = "Educação"
	CategoryInfraestrutura Category = "Infraestrutura"
	CategoryIluminacao     Category = "Iluminação"
	CategorySeguranca      Category = "Segurança"
	CategoryLimpeza        Category = "Limpeza Urbana"
	CategoryElogio         Category = "Elogio"
	CategorySugestao       Category = "Sugestão"
)

// Categories lists every category in the order the poll presents them
var Categories = []Category{
	CategorySaude,
	CategoryEducacao,
	CategoryInfraestrutura,
	CategoryIluminacao,
	CategorySeguranca,
	CategoryLimpeza,
	CategoryElogio,
	CategorySugestao,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategorySaude, CategoryEducacao, CategoryInfraestrutura, CategoryIluminacao,
		CategorySeguranca, CategoryLimpeza, CategoryElogio, CategorySugestao:
		return true
	}
	return false
}

// AreaType distinguishes urban from rural neighborhoods
type AreaType string

const (
	AreaUrban AreaType = "Zona Urbana"
	AreaRural AreaType = "Zona Rural"
)

// Valid reports whether a is a known area type
func (a AreaType) Valid() bool {
	return a == AreaUrban || a == AreaRural
}

// Coordinates is a best-effort device location
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Feedback is a citizen poll submission
type Feedback struct {
	ID              string          `json:"id" bson:"_id"`
	MunicipalityID  string          `json:"municipalityId" bson:"municipalityId"`
	CitizenName     string          `json:"citizenName" bson:"citizenName"`
	CPF             string          `json:"cpf,omitempty" bson:"cpf,omitempty"`
	WhatsApp        string          `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Neighborhood    string          `json:"neighborhood" bson:"neighborhood"`
	AreaType        AreaType        `json:"areaType" bson:"areaType"`
	Category        Category        `json:"category" bson:"category"`
	Rating          int             `json:"rating" bson:"rating"` // RatingMin..RatingMax
	Comment         string          `json:"comment" bson:"comment"`
	Sentiment       Sentiment       `json:"sentiment" bson:"sentiment"`
	SentimentSource SentimentSource `json:"sentimentSource" bson:"sentimentSource"`
	Coords          *Coordinates    `json:"coords,omitempty" bson:"coords,omitempty"`
	Timestamp       time.Time       `json:"timestamp" bson:"timestamp"`
	Status          FeedbackStatus  `json:"status" bson:"status"`
}

// FeedbackFilter narrows a feedback listing; zero fields match everything
type FeedbackFilter struct {
	Status    FeedbackStatus `json:"status,omitempty"`
	Sentiment Sentiment      `json:"sentiment,omitempty"`
	Category  Category       `json:"category,omitempty"`
}

// Match reports whether f passes the filter
func (ff FeedbackFilter) Match(f *Feedback) bool {
	if ff.Status != "" && f.Status != ff.Status {
		return false
	}
	if ff.Sentiment != "" && f.Sentiment != ff.Sentiment {
		return false
	}
	if ff.Category != "" && f.Category != ff.Category {
		return false
	}
	return true
}

// FeedbackSummary aggregates the feedback of a municipality
type FeedbackSummary struct {
	MunicipalityID string                 `json:"municipalityId"`
	Total          int                    `json:"total"`
	BySentiment    map[Sentiment]int      `json:"bySentiment"`
	ByCategory     map[Category]int       `json:"byCategory"`
	ByStatus       map[FeedbackStatus]int `json:"byStatus"`
	AverageRating  float64                `json:"averageRating"`
	Approval       float64                `json:"approval"` // share of POSITIVO, 0-100
}
