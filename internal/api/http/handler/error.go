package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/driftchat/driftchat-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors onto HTTP statuses. Internal detail
// never reaches the client; only the sentinel's public message does.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, model.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
