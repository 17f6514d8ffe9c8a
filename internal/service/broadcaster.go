package service

// Live update message types sent to dashboard subscribers
const (
	MsgFeedbackReceived = "feedback_received"
	MsgFeedbackUpdated  = "feedback_updated"
	MsgAlertRaised      = "alert_raised"
	MsgAlertResolved    = "alert_resolved"
	MsgMetricsRefreshed = "metrics_refreshed"
	MsgMetricUpdated    = "metric_updated"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToMunicipality(municipalityID string, msgType string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToMunicipality(string, string, interface{}) {}
