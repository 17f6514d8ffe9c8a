package model

// Dashboard is the executive view of one municipality
type Dashboard struct {
	Municipality Municipality    `json:"municipality"`
	Metrics      []MetricView    `json:"metrics"`
	Alerts       []Alert         `json:"alerts"`
	Feedback     FeedbackSummary `json:"feedback"`
	TierCounts   map[Tier]int    `json:"tierCounts"`
}

// DataSubmission is weekly accumulated data sent by a department
type DataSubmission struct {
	MunicipalityID string     `json:"municipalityId"`
	Department     Department `json:"department"`
	MetricID       string     `json:"metricId"`
	Value          *float64   `json:"value"`
	Satisfaction   *float64   `json:"satisfaction,omitempty"` // optional, percent
	Note           string     `json:"note,omitempty"`
	SubmittedBy    string     `json:"submittedBy"`
}

// SubmissionResult is the metric after a submission was applied
type SubmissionResult struct {
	Metric MetricView `json:"metric"`
	Alert  *Alert     `json:"alert,omitempty"`
}
