package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/remind/ecode"
)

// Exception represents a failure response.
type Exception struct {
	Status  int    `json:"-"`                // HTTP status
	Code    int    `json:"code"`             // Business code
	Message string `json:"error"`            // Message
	Errors  any    `json:"errors,omitempty"` // Field errors
}

// Error implements error so an Exception can travel through error returns.
func (e *Exception) Error() string {
	return e.Message
}

// Success writes data with status 200.
func Success(w http.ResponseWriter, data any) {
	WithStatusCode(w, http.StatusOK, data)
}

// WithStatusCode writes data with a custom success status. A nil payload
// becomes {"message":"ok"}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		data = map[string]any{"message": "ok"}
	}
	writeJSON(w, statusCode, data)
}

// Fail writes a failure response. A nil exception is reported as a server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer("")
	}
	status, res := buildFailureResponse(r)
	writeJSON(w, status, res)
}

// buildFailureResponse fills in missing status, code and message.
func buildFailureResponse(r *Exception) (int, *Exception) {
	code := r.Code
	if code == 0 {
		code = ecode.RequestErr
	}
	status := r.Status
	if status == 0 {
		status = ecode.ToHTTPStatus(code)
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}
	return status, &Exception{Status: status, Code: code, Message: message, Errors: r.Errors}
}

// BadRequest builds a 400 exception, optionally carrying field errors.
func BadRequest(message string, errs ...any) *Exception {
	e := &Exception{Status: http.StatusBadRequest, Code: ecode.ParamErr, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// NotFound builds a 404 exception.
func NotFound(message string) *Exception {
	return &Exception{Status: http.StatusNotFound, Code: ecode.NotFound, Message: message}
}

// InternalServer builds a 500 exception.
func InternalServer(message string) *Exception {
	return &Exception{Status: http.StatusInternalServerError, Code: ecode.ServerErr, Message: message}
}

// writeJSON sets the content type before the status line is sent.
func writeJSON(w http.ResponseWriter, status int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
