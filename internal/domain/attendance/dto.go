package attendance

import (
	"strconv"
	"strings"

	"github.com/dailylog/dailylog-backend-go/internal/pkg/validator"
)

// TimeInRequest records a time-in event. At is optional RFC3339; when
// empty the server clock is used.
type TimeInRequest struct {
	At string `json:"at,omitempty"`
}

func (r *TimeInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.At) {
		if _, ok := validator.IsValidDateTime(r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeOutRequest struct {
	At string `json:"at,omitempty"`
}

func (r *TimeOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.At) {
		if _, ok := validator.IsValidDateTime(r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RecomputeRequest re-derives status and hours for one day from the
// persisted pair. Date is YYYY-MM-DD in the deployment timezone.
type RecomputeRequest struct {
	Date string `json:"date"`
}

func (r *RecomputeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRecordRequest is the admin edit path: replaces the stored pair,
// reclassifies, then applies the explicit status/overtime values verbatim
// when present.
type UpdateRecordRequest struct {
	ID            string  `json:"-"`
	TimeIn        *string `json:"time_in,omitempty"`
	TimeOut       *string `json:"time_out,omitempty"`
	Status        *string `json:"status,omitempty"`
	OvertimeHours *string `json:"overtime_hours,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.TimeIn != nil && !validator.IsEmpty(*r.TimeIn) {
		if _, ok := validator.IsValidDateTime(*r.TimeIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time_in",
				Message: "time_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.TimeOut != nil && !validator.IsEmpty(*r.TimeOut) {
		if _, ok := validator.IsValidDateTime(*r.TimeOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "time_out",
				Message: "time_out must be an RFC3339 timestamp",
			})
		}
	}

	errs = append(errs, validateOverrideFields(r.Status, r.OvertimeHours)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OverrideRequest replaces the computed status and/or overtime value of a
// record without touching the stored pair.
type OverrideRequest struct {
	ID            string  `json:"-"`
	Status        *string `json:"status,omitempty"`
	OvertimeHours *string `json:"overtime_hours,omitempty"`
}

func (r *OverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Status == nil && r.OvertimeHours == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "at least one of status or overtime_hours is required",
		})
	}

	errs = append(errs, validateOverrideFields(r.Status, r.OvertimeHours)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateOverrideFields(status *string, overtime *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if status != nil && !validator.IsEmpty(*status) {
		if !Status(strings.ToUpper(*status)).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(AllStatuses, ", "),
			})
		}
	}

	if overtime != nil && !validator.IsEmpty(*overtime) {
		if v, err := strconv.ParseFloat(*overtime, 64); err != nil || v < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "overtime_hours",
				Message: "overtime_hours must be a non-negative decimal number",
			})
		}
	}

	return errs
}

// ListFilter narrows the admin-wide attendance view.
type ListFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"` // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsEmpty(*f.Status) {
		if !validator.IsInSlice(strings.ToUpper(*f.Status), AllStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: " + strings.Join(AllStatuses, ", "),
			})
		}
	}

	if f.Date != nil && !validator.IsEmpty(*f.Date) {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DayResponse is the produced surface of an attendance day. TotalHours is
// the "{h}h {m}m" day-view form; the *Decimal fields are the two-decimal
// report form of the same durations.
type DayResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      string  `json:"employee_name,omitempty"`
	Date              string  `json:"date"`
	TimeIn            *string `json:"time_in,omitempty"`
	TimeOut           *string `json:"time_out,omitempty"`
	Status            string  `json:"status"`
	TotalHours        string  `json:"total_hours"`
	TotalHoursDecimal string  `json:"total_hours_decimal"`
	OvertimeHours     string  `json:"overtime_hours"`
	UndertimeHours    string  `json:"undertime_hours"`
}

type ListRecordsResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Records    []DayResponse `json:"records"`
}
