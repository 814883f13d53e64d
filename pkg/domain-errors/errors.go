// Package domainerrors defines the coded error taxonomy shared by services and
// the HTTP transport. Codes classify failures by fault (caller vs. system) so
// the transport layer can pick a status and decide whether the description is
// safe to surface.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies an error for transport mapping.
type Code string

const (
	// CodeBadRequest marks caller faults: missing or malformed fields.
	CodeBadRequest Code = "bad_request"
	// CodeRateLimited marks admission rejections.
	CodeRateLimited Code = "rate_limited"
	// CodeUnauthorized marks a missing or wrong operator credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks lookups that matched nothing.
	CodeNotFound Code = "not_found"
	// CodeInternal marks system faults. Descriptions for this code are logged
	// but never returned to the caller.
	CodeInternal Code = "internal_error"
)

// Error is a classified domain error.
type Error struct {
	Code        Code
	Description string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Description
}

// New builds a classified error with a human-readable description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// From extracts the classified error from err, or nil when err carries none.
func From(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// ToHTTPStatus maps a code to its HTTP status. Unknown codes map to 500 so an
// unclassified failure never leaks with a misleading 2xx/4xx.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
