package handlers

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes data as a JSON response body, returning any encoding
// error. The explicit status is only written when it differs from 200,
// which keeps the implicit-200 path of http.ResponseWriter intact.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// ErrorResponse writes the shared error envelope: a machine-readable
// error code plus a human-readable message.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
