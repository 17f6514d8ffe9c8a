package handler

import (
	"net/http"

	"vozgestora/internal/service"

	"github.com/gorilla/mux"
)

// MunicipalityHandler handles directory and routing endpoints
type MunicipalityHandler struct {
	directory *service.DirectoryService
}

// NewMunicipalityHandler creates a new municipality handler
func NewMunicipalityHandler(directory *service.DirectoryService) *MunicipalityHandler {
	return &MunicipalityHandler{directory: directory}
}

// List handles GET /v1/municipalities?q=
func (h *MunicipalityHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.directory.Search(r.URL.Query().Get("q")))
}

// Get handles GET /v1/municipalities/{id}
func (h *MunicipalityHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.directory.Get(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ResolveRoute handles GET /v1/routes/resolve?fragment=
func (h *MunicipalityHandler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.directory.ResolveRoute(r.URL.Query().Get("fragment")))
}
