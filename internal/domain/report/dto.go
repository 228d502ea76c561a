package report

import (
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/pkg/validator"
)

type MonthlyReportRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > time.Now().Year()+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MonthlySummary is the reporting rollup for one employee and month.
// Days include synthetic ABSENT entries for working days without a
// persisted record; those entries exist only in this response.
type MonthlySummary struct {
	EmployeeID     string                   `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name,omitempty"`
	Month          int                      `json:"month"`
	Year           int                      `json:"year"`
	WorkingDays    int                      `json:"working_days"`
	WorkedDays     int                      `json:"worked_days"`
	Absences       int                      `json:"absences"`
	TotalHours     string                   `json:"total_hours"`
	OvertimeHours  string                   `json:"overtime_hours"`
	UndertimeHours string                   `json:"undertime_hours"`
	AttendanceRate string                   `json:"attendance_rate"`
	Days           []attendance.DayResponse `json:"days"`
}

// OverviewResponse backs the admin landing page.
type OverviewResponse struct {
	TotalEmployees   int    `json:"total_employees"`
	AbsencesToday    int    `json:"absences_today"`
	OvertimeThisWeek string `json:"overtime_this_week"`
}

type MonthlyExportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyExportRequest) Validate() error {
	req := MonthlyReportRequest{Month: r.Month, Year: r.Year}
	return req.Validate()
}
