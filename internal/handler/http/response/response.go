package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorCode identifies a failure class on the wire. The HTTP status is
// derived from the code so handlers never pick the two independently.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInternal     ErrorCode = "INTERNAL_SERVER_ERROR"
)

var codeStatus = map[ErrorCode]int{
	CodeBadRequest:   http.StatusBadRequest,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
}

func (c ErrorCode) status() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Envelope is the single JSON shape every endpoint answers with.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta carries pagination for list endpoints.
type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	TotalItems int64 `json:"total_items,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		// The status line is already out; all we can do is log.
		slog.Error("failed to encode response body", "error", err)
	}
}

func succeed(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	write(w, statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func fail(w http.ResponseWriter, code ErrorCode, message string, details map[string]string) {
	write(w, code.status(), Envelope{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(w http.ResponseWriter, data interface{}) {
	succeed(w, http.StatusOK, "", data, nil)
}

func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	succeed(w, http.StatusOK, message, data, nil)
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	succeed(w, http.StatusCreated, message, data, nil)
}

func SuccessWithMeta(w http.ResponseWriter, data interface{}, meta *Meta) {
	succeed(w, http.StatusOK, "", data, meta)
}

func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	fail(w, CodeBadRequest, message, details)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	fail(w, CodeValidation, "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	fail(w, CodeUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	fail(w, CodeForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	fail(w, CodeNotFound, message, nil)
}

func Conflict(w http.ResponseWriter, message string) {
	fail(w, CodeConflict, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	fail(w, CodeInternal, message, nil)
}
