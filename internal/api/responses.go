package api

import (
	"encoding/json"
	"net/http"

	logger "log/slog"

	"github.com/bytemint/minty/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: caller mistakes
// are 400, upstream failures 502, anything else a generic 500. Internal
// detail never reaches the client on a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsPrecondition(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsDependency(err):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
