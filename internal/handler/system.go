package handler

import (
	"net/http"

	"storekeeper/internal/database"
)

// SystemHandler exposes operational endpoints backed by the database
// connection manager.
type SystemHandler struct {
	manager database.Manager
}

func NewSystemHandler(manager database.Manager) *SystemHandler {
	return &SystemHandler{manager: manager}
}

// Health handles GET /api/health: 200 when the store answers a ping, 503
// otherwise. The status body is returned either way.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.manager.HealthCheck(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, status, code)
}

// Stats handles GET /api/stats with connection pool statistics.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.manager.Stats(), http.StatusOK)
}
