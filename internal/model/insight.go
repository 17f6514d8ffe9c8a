package model

import "time"

// AIErrorKind tells the user why an AI feature fell back
type AIErrorKind string

const (
	AIErrorNone      AIErrorKind = "NONE"
	AIErrorQuota     AIErrorKind = "QUOTA"
	AIErrorGeneric   AIErrorKind = "GENERIC"
	AIErrorMalformed AIErrorKind = "MALFORMED"
)

// Classification is the outcome of classifying one comment
type Classification struct {
	Sentiment Sentiment       `json:"sentiment"`
	Source    SentimentSource `json:"source"`
	Error     AIErrorKind     `json:"error"`
}

// Insight is the short AI advisor summary for the mayor
type Insight struct {
	MunicipalityID string      `json:"municipalityId"`
	Text           string      `json:"text"`
	Error          AIErrorKind `json:"error"`
	FeedbackCount  int         `json:"feedbackCount"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}

// ReportStatus is the state of a strategic report
type ReportStatus string

const (
	ReportReady  ReportStatus = "READY"
	ReportFailed ReportStatus = "FAILED"
)

// StrategicReport is the full AI report built from all feedback of a municipality
type StrategicReport struct {
	ID             string       `json:"id" bson:"_id"`
	MunicipalityID string       `json:"municipalityId" bson:"municipalityId"`
	Status         ReportStatus `json:"status" bson:"status"`
	Text           string       `json:"text,omitempty" bson:"text,omitempty"`
	Error          AIErrorKind  `json:"error" bson:"error"`
	Message        string       `json:"message,omitempty" bson:"message,omitempty"`
	FeedbackCount  int          `json:"feedbackCount" bson:"feedbackCount"`
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
}
