package model

import "time"

// Alert is a dashboard notice for a municipality
type Alert struct {
	ID             string     `json:"id" bson:"_id"`
	MunicipalityID string     `json:"municipalityId" bson:"municipalityId"`
	Title          string     `json:"title" bson:"title"`
	Description    string     `json:"description" bson:"description"`
	Status         Tier       `json:"status" bson:"status"`
	Date           time.Time  `json:"date" bson:"date"`
	Department     Department `json:"department" bson:"department"`
	MetricID       string     `json:"metricId,omitempty" bson:"metricId,omitempty"` // set when raised by a metric turning RED
}
