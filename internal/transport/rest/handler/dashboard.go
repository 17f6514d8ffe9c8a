package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"vozgestora/internal/model"
	"vozgestora/internal/service"
	"vozgestora/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// DashboardHandler handles the manager views: dashboard, metrics, alerts and data entry
type DashboardHandler struct {
	dashboardSvc  *service.DashboardService
	metricSvc     *service.MetricService
	alertSvc      *service.AlertService
	submissionSvc *service.SubmissionService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardSvc *service.DashboardService, metricSvc *service.MetricService, alertSvc *service.AlertService, submissionSvc *service.SubmissionService) *DashboardHandler {
	return &DashboardHandler{
		dashboardSvc:  dashboardSvc,
		metricSvc:     metricSvc,
		alertSvc:      alertSvc,
		submissionSvc: submissionSvc,
	}
}

// Dashboard handles GET /v1/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	d, err := h.dashboardSvc.Compose(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Metrics handles GET /v1/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	views, err := h.metricSvc.Views(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Alerts handles GET /v1/alerts; ?status= filters by tier
func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	alerts, err := h.alertSvc.List(r.Context(), session.User.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		tier, err := model.ParseTier(strings.ToUpper(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := make([]model.Alert, 0, len(alerts))
		for _, a := range alerts {
			if a.Status == tier {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}
	writeJSON(w, http.StatusOK, alerts)
}

// ResolveAlert handles POST /v1/alerts/{alertId}/resolve
func (h *DashboardHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	alertID := mux.Vars(r)["alertId"]
	if err := h.alertSvc.Resolve(r.Context(), session.User.MunicipalityID, alertID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved", "alertId": alertID})
}

// Submit handles POST /v1/submissions
func (h *DashboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub model.DataSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := middleware.GetSession(r.Context())
	sub.MunicipalityID = session.User.MunicipalityID
	sub.SubmittedBy = session.User.ID
	if sub.Department == "" {
		sub.Department = session.User.Department
	}

	res, err := h.submissionSvc.Submit(r.Context(), sub)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
