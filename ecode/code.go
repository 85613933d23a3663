package ecode

import (
	"net/http"
)

// Common codes
const (
	OK                 = 0
	RequestErr         = -400
	ParamErr           = -401
	AccessDenied       = -403
	NotFound           = -404
	Conflict           = -409
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var (
	messages = map[int]string{
		OK:                 "OK",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		AccessDenied:       "Access denied",
		NotFound:           "Resource not found",
		Conflict:           "Resource conflict",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		AccessDenied:       http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		Conflict:           http.StatusConflict,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
	}
)

// Text returns the message for code, or the server error message when
// the code is unknown.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a business code to an HTTP status.
func ToHTTPStatus(code int) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	if code <= -500 {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
