// Package httputil centralizes JSON response rendering so every endpoint
// speaks the same envelope: {"success": bool, "message"?: string, "error"?: string}.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "matricula/pkg/domain-errors"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON renders v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess renders a 200 confirmation with an optional message.
func WriteSuccess(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// WriteError translates a domain error into the JSON envelope. Descriptions of
// internal errors are never surfaced: the caller sees a generic message and the
// detail stays in the server logs.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	description := "internal server error"

	if de := dErrors.From(err); de != nil {
		code = de.Code
		if de.Code != dErrors.CodeInternal {
			description = de.Description
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), Envelope{Success: false, Error: description})
}
