package control

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/server"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError maps err onto a status code and writes it.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lanshare.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
	case errors.Is(err, lanshare.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, lanshare.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, server.ErrBind):
		WriteError(w, http.StatusConflict, "bind_failed", err.Error())
	default:
		slog.Error("control request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
