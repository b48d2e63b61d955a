package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storekeeper/internal/domain"
	"storekeeper/internal/service"
)

// SolutionHandler serves the /api/solutions resource. Successful mutations
// announce themselves through X-Storekeeper-Alert headers so clients can
// surface notifications without parsing the body.
type SolutionHandler struct {
	svc *service.SolutionService
}

func NewSolutionHandler(svc *service.SolutionService) *SolutionHandler {
	return &SolutionHandler{svc: svc}
}

func (h *SolutionHandler) alert(w http.ResponseWriter, message string, id int64) {
	w.Header().Set("X-Storekeeper-Alert", message)
	w.Header().Set("X-Storekeeper-Params", fmt.Sprintf("%d", id))
}

// Create handles POST /api/solutions. A payload carrying an id is rejected
// with key "idexists".
func (h *SolutionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sol domain.Solution
	if err := json.NewDecoder(r.Body).Decode(&sol); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), &sol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/solutions/%d", created.ID))
	h.alert(w, "A new solution is created", created.ID)
	writeJSON(w, created, http.StatusCreated)
}

// Update handles PUT /api/solutions. A payload without an id is rejected
// with key "idnull".
func (h *SolutionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var sol domain.Solution
	if err := json.NewDecoder(r.Body).Decode(&sol); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.svc.Update(r.Context(), &sol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.alert(w, "A solution is updated", updated.ID)
	writeJSON(w, updated, http.StatusOK)
}

func (h *SolutionHandler) List(w http.ResponseWriter, r *http.Request) {
	solutions, err := h.svc.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, solutions, http.StatusOK)
}

func (h *SolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid solution ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	sol, err := h.svc.FindOne(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, sol, http.StatusOK)
}

// Delete handles DELETE /api/solutions/{id}. The endpoint is idempotent:
// deleting an id that does not exist still answers 204.
func (h *SolutionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid solution ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		var notFound *service.NotFoundError
		if !errors.As(err, &notFound) {
			writeServiceError(w, err)
			return
		}
	}

	h.alert(w, "A solution is deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListByBug handles GET /api/solutions/bug/{id}.
func (h *SolutionHandler) ListByBug(w http.ResponseWriter, r *http.Request) {
	bugID, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid bug ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	solutions, err := h.svc.FindByBug(r.Context(), bugID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, solutions, http.StatusOK)
}
