package api

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error to an HTTP status and writes a JSON
// error body. Internal error details are hidden from clients.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.ErrorCode(err) {
	case domain.EINVALID:
		status = http.StatusBadRequest
	case domain.ENOTFOUND:
		status = http.StatusNotFound
	case domain.ECONFLICT:
		status = http.StatusConflict
	}
	respondJSON(w, status, map[string]string{"error": domain.ErrorMessage(err)})
}
