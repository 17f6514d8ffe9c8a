package handler

import (
	"encoding/json"
	"net/http"

	"vozgestora/internal/model"
	"vozgestora/internal/service"

	"github.com/gorilla/mux"
)

// PollHandler handles the public citizen poll endpoints
type PollHandler struct {
	pollSvc *service.PollService
}

// NewPollHandler creates a new poll handler
func NewPollHandler(pollSvc *service.PollService) *PollHandler {
	return &PollHandler{pollSvc: pollSvc}
}

// Start handles POST /v1/polls/{municipalityId}
func (h *PollHandler) Start(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.pollSvc.Start(r.Context(), mux.Vars(r)["municipalityId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wiz)
}

// Get handles GET /v1/polls/wizard/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.pollSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wiz)
}

// Identify handles POST /v1/polls/wizard/{id}/identify
func (h *PollHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var identity model.CitizenIdentity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wiz, err := h.pollSvc.Identify(r.Context(), mux.Vars(r)["id"], identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wiz)
}

type categoryRequest struct {
	Category model.Category `json:"category"`
}

// ChooseCategory handles POST /v1/polls/wizard/{id}/category
func (h *PollHandler) ChooseCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wiz, err := h.pollSvc.ChooseCategory(r.Context(), mux.Vars(r)["id"], req.Category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wiz)
}

// Back handles POST /v1/polls/wizard/{id}/back
func (h *PollHandler) Back(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.pollSvc.Back(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wiz)
}

type submitRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type submitResponse struct {
	*model.PollWizard
	AIError model.AIErrorKind `json:"aiError"`
}

// Submit handles POST /v1/polls/wizard/{id}/submit
func (h *PollHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wiz, kind, err := h.pollSvc.Submit(r.Context(), mux.Vars(r)["id"], req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{PollWizard: wiz, AIError: kind})
}

// Close handles DELETE /v1/polls/wizard/{id}
func (h *PollHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.pollSvc.Close(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
