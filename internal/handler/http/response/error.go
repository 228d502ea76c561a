package response

import (
	"errors"
	"net/http"

	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/domain/auth"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/dailylog/dailylog-backend-go/internal/domain/report"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenAlreadyUsed):
		Unauthorized(w, "Token has already been used")
	case errors.Is(err, auth.ErrAdminNotFound):
		NotFound(w, "Admin not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee account is deactivated")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNotTimedIn):
		BadRequest(w, "No time-in recorded for today", nil)
	case errors.Is(err, attendance.ErrInstantOutOfDay):
		BadRequest(w, "Timestamp falls outside the record's day", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Report domain errors
	case errors.Is(err, report.ErrNoRecordsInPeriod):
		NotFound(w, "No attendance records in the requested period")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
