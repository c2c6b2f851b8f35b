package server

import (
	"encoding/json"
	"net/http"
)

// Error types reported in error bodies.
const (
	errorTypeInvalidRequest = "invalid_request"
	errorTypeNotFound       = "not_found"
	errorTypeMethod         = "method_not_allowed"
	errorTypeTooLarge       = "request_too_large"
	errorTypeUpstream       = "upstream_error"
	errorTypeInternal       = "internal_error"
)

// ErrorResponse is the body of every non-2xx response that is not a
// validation report.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Type: errType, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
