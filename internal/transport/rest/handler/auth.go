package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"vozgestora/internal/model"
	"vozgestora/internal/service"
	"vozgestora/internal/transport/rest/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if err := h.authSvc.Logout(r.Context(), session.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": session.User,
		"tabs": session.User.Role.VisibleTabs(),
	})
}

type switchRequest struct {
	MunicipalityID string `json:"municipalityId"`
}

// Switch handles POST /v1/auth/switch
func (h *AuthHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MunicipalityID == "" {
		writeError(w, http.StatusBadRequest, "municipalityId is required")
		return
	}

	session := middleware.GetSession(r.Context())
	resp, err := h.authSvc.Switch(r.Context(), session.ID, session.User, req.MunicipalityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service sentinels to HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMunicipalityNotFound),
		errors.Is(err, service.ErrAlertNotFound),
		errors.Is(err, service.ErrFeedbackNotFound),
		errors.Is(err, service.ErrMetricNotFound),
		errors.Is(err, service.ErrWizardNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidDepartment),
		errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, model.ErrMissingIdentity),
		errors.Is(err, model.ErrInvalidCPF),
		errors.Is(err, model.ErrInvalidCategory),
		errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, model.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
