package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorType represents different types of errors
type ErrorType int

const (
	ErrorTypeNotFound ErrorType = iota
	ErrorTypeForbidden
	ErrorTypeInternalServer
	ErrorTypeBadRequest
	ErrorTypeBadGateway
	ErrorTypeGatewayTimeout
	ErrorTypeNotImplemented
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var errorStatus = map[ErrorType]struct {
	code    int
	message string
}{
	ErrorTypeNotFound:       {http.StatusNotFound, "Resource not found"},
	ErrorTypeForbidden:      {http.StatusForbidden, "Access forbidden"},
	ErrorTypeInternalServer: {http.StatusInternalServerError, "Internal server error"},
	ErrorTypeBadRequest:     {http.StatusBadRequest, "Bad request"},
	ErrorTypeBadGateway:     {http.StatusBadGateway, "Upstream WHOIS server failed"},
	ErrorTypeGatewayTimeout: {http.StatusGatewayTimeout, "Upstream WHOIS server timed out"},
	ErrorTypeNotImplemented: {http.StatusNotImplemented, "Not implemented"},
}

// StatusCode returns the HTTP status used for errorType.
func StatusCode(errorType ErrorType) int {
	if s, ok := errorStatus[errorType]; ok {
		return s.code
	}
	return http.StatusInternalServerError
}

// HandleHTTPError writes a JSON error body for errorType. An empty message
// falls back to the default text of that type.
func HandleHTTPError(w http.ResponseWriter, errorType ErrorType, message string) {
	s, ok := errorStatus[errorType]
	if !ok {
		s = errorStatus[ErrorTypeInternalServer]
		if message == "" {
			message = "Unknown error"
		}
	}
	if message == "" {
		message = s.message
	}
	WriteJSON(w, s.code, ErrorResponse{Error: message})
}

// WriteJSON encodes v with status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
