package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storekeeper/internal/logging"
	"storekeeper/internal/service"
)

var log = logging.NewLogger("http")

// ErrorResponse is the JSON body written for every failed request. Key is a
// stable machine-readable reason code when one applies, such as "idexists"
// or "constraintviolation".
type ErrorResponse struct {
	Error   string `json:"error"`
	Key     string `json:"key,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message, key, details string, statusCode int) {
	if key != "" {
		w.Header().Set("X-Storekeeper-Error", "error."+key)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Key:     key,
		Details: details,
	}); err != nil {
		log.Errorf("Failed to encode error response: %v", err)
	}
}

// writeServiceError maps a service error onto a status code and error body.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, "Not found", "", notFound.Error(), http.StatusNotFound)
		return
	}
	var badReq *service.BadRequestError
	if errors.As(err, &badReq) {
		writeError(w, "Invalid request", badReq.Key, badReq.Message, http.StatusBadRequest)
		return
	}
	var constraint *service.ConstraintError
	if errors.As(err, &constraint) {
		writeError(w, "Constraint violation", constraint.Key, constraint.Message, http.StatusBadRequest)
		return
	}
	log.Errorf("Request failed: %v", err)
	writeError(w, "Internal server error", "", err.Error(), http.StatusInternalServerError)
}

// pathID parses the {id} segment of a route registered with a Go 1.22
// method pattern.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
