// Package response provides utilities for sending consistent HTTP responses.
// Every body is wrapped in an envelope carrying a success flag.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Envelope is the body of a successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends data wrapped in a success envelope with the given status code.
// If data is nil and status is 204, only the status code is sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	write(w, status, Envelope{Success: true, Data: data})
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, a field map, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
//	response.RespondError(w, http.StatusNotFound, "portfolio not found", nil)
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}
	write(w, status, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// encodeFailure is sent when a body cannot be encoded.
var encodeFailure = []byte(`{"success":false,"error":"failed to encode response"}` + "\n")

// write encodes body before the header is sent. A body that cannot be
// encoded is answered with a 500 envelope.
func write(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
		status = http.StatusInternalServerError
		data = encodeFailure
	} else {
		data = append(data, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
