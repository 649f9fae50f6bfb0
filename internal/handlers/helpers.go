package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteKindError writes an error JSON response that carries the error kind.
func WriteKindError(w http.ResponseWriter, statusCode int, kind models.ErrorKind, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"kind":   string(kind),
		"error":  message,
	})
}

// StatusForKind maps an error kind to its HTTP status code.
func StatusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindUnreadableDocument:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteOperationError logs err and writes it with the status of its kind.
// Processing failures carry their underlying cause in the message.
func WriteOperationError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	kind := models.KindOf(err)
	message := models.UserMessage(err)

	status := StatusForKind(kind)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("kind", string(kind)).Int("status", status).Msg("Operation failed")

	WriteKindError(w, status, kind, message)
}
