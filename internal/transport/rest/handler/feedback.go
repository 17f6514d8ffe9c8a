package handler

import (
	"encoding/json"
	"net/http"

	"vozgestora/internal/model"
	"vozgestora/internal/service"
	"vozgestora/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// FeedbackHandler handles the feedback feed and AI insight endpoints
type FeedbackHandler struct {
	feedbackSvc *service.FeedbackService
	insightSvc  *service.InsightService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackSvc *service.FeedbackService, insightSvc *service.InsightService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc, insightSvc: insightSvc}
}

// List handles GET /v1/feedback?status=&sentiment=&category=
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.FeedbackFilter{
		Status:    model.FeedbackStatus(q.Get("status")),
		Sentiment: model.Sentiment(q.Get("sentiment")),
		Category:  model.Category(q.Get("category")),
	}

	session := middleware.GetSession(r.Context())
	items, err := h.feedbackSvc.List(r.Context(), session.User.MunicipalityID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type statusRequest struct {
	Status model.FeedbackStatus `json:"status"`
}

// UpdateStatus handles PATCH /v1/feedback/{id}/status
func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := middleware.GetSession(r.Context())
	f, err := h.feedbackSvc.UpdateStatus(r.Context(), session.User.MunicipalityID, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Summary handles GET /v1/feedback/summary
func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	sum, err := h.feedbackSvc.Summary(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// Advisor handles GET /v1/insights/advisor
func (h *FeedbackHandler) Advisor(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	insight, err := h.insightSvc.Advise(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

// GenerateReport handles POST /v1/insights/report
func (h *FeedbackHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	report, err := h.insightSvc.GenerateReport(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// LatestReport handles GET /v1/insights/report
func (h *FeedbackHandler) LatestReport(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	report, err := h.insightSvc.LatestReport(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_started"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}
